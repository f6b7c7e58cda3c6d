package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"
)

// CheckoutInput 下单入参，买家身份来自网关签发的令牌。
type CheckoutInput struct {
	UserID     uint
	UserEmail  string
	UserName   string
	ProductID  uint
	CouponCode string
}

// FulfillmentService 下单与交付服务
type FulfillmentService struct {
	productRepo    repository.ProductRepository
	purchaseRepo   repository.PurchaseRepository
	keyRepo        repository.ProductKeyRepository
	couponService  *CouponService
	settingService *SettingService
	inventory      *InventoryService
	notification   *NotificationService
}

// NewFulfillmentService 创建下单服务
func NewFulfillmentService(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	keyRepo repository.ProductKeyRepository,
	couponService *CouponService,
	settingService *SettingService,
	inventory *InventoryService,
	notification *NotificationService,
) *FulfillmentService {
	return &FulfillmentService{
		productRepo:    productRepo,
		purchaseRepo:   purchaseRepo,
		keyRepo:        keyRepo,
		couponService:  couponService,
		settingService: settingService,
		inventory:      inventory,
		notification:   notification,
	}
}

// Checkout 创建购买记录并按支付模式决定交付方式。
//
// 即时模式下有限库存商品先原子认领卡密再落库，购买记录直接
// 进入已批准终态；落库失败时释放已认领的卡密作为补偿。人工
// 模式与无限库存商品一律以待处理状态入库，交付由后续批准动
// 作完成。
func (s *FulfillmentService) Checkout(input CheckoutInput) (*models.Purchase, error) {
	if input.UserID == 0 || input.ProductID == 0 {
		return nil, ErrPurchaseCreateFailed
	}

	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductNotAvailable
	}

	amount, coupon, err := s.couponService.ResolvePrice(product.Price, input.CouponCode)
	if err != nil {
		return nil, err
	}

	paymentMode, err := s.settingService.PaymentMode()
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		PurchaseNo:   generatePurchaseNo(),
		UserID:       input.UserID,
		UserEmail:    strings.TrimSpace(input.UserEmail),
		UserName:     strings.TrimSpace(input.UserName),
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductPhoto: product.PhotoURL,
		UnitPrice:    product.Price,
		AmountPaid:   amount,
		PaymentMode:  paymentMode,
		Status:       constants.PurchaseStatusPending,
	}
	if coupon != nil {
		purchase.CouponCode = &coupon.Code
	}

	if !product.FiniteStock() {
		// 无限库存走人工开票交付，不触碰卡密表
		marker := constants.ManualDeliveryMarker
		purchase.KeyValue = &marker
		if err := s.purchaseRepo.Create(purchase); err != nil {
			logger.Errorw("create purchase failed",
				"purchase_no", purchase.PurchaseNo,
				"product_id", product.ID,
				"error", err)
			return nil, ErrPurchaseCreateFailed
		}
		s.notification.NotifyPurchaseEvent(constants.NotificationEventPurchaseCreated, purchase.ID)
		return purchase, nil
	}

	if paymentMode == constants.PaymentModeInstant {
		return s.checkoutInstant(purchase, product)
	}

	// 人工模式下不预占卡密，批准时再认领
	if err := s.purchaseRepo.Create(purchase); err != nil {
		logger.Errorw("create purchase failed",
			"purchase_no", purchase.PurchaseNo,
			"product_id", product.ID,
			"error", err)
		return nil, ErrPurchaseCreateFailed
	}
	s.notification.NotifyPurchaseEvent(constants.NotificationEventPurchaseCreated, purchase.ID)
	return purchase, nil
}

// checkoutInstant 即时交付：认领卡密、落库为已批准、回链卡密。
func (s *FulfillmentService) checkoutInstant(purchase *models.Purchase, product *models.Product) (*models.Purchase, error) {
	key, err := s.inventory.ClaimKey(product.ID, purchase.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	purchase.Status = constants.PurchaseStatusApproved
	purchase.KeyValue = &key.KeyValue
	purchase.ApprovedAt = &now

	if err := s.purchaseRepo.Create(purchase); err != nil {
		logger.Errorw("create purchase failed, releasing claimed key",
			"purchase_no", purchase.PurchaseNo,
			"product_id", product.ID,
			"key_id", key.ID,
			"error", err)
		if releaseErr := s.inventory.ReleaseKey(key.ID); releaseErr != nil {
			logger.Errorw("release claimed key failed",
				"key_id", key.ID,
				"error", releaseErr)
		}
		return nil, ErrPurchaseCreateFailed
	}

	if _, err := s.keyRepo.BindPurchase(key.ID, purchase.ID); err != nil {
		logger.Warnw("bind key to purchase failed",
			"key_id", key.ID,
			"purchase_id", purchase.ID,
			"error", err)
	}
	if _, err := s.productRepo.RefreshStockCache(product.ID); err != nil {
		logger.Warnw("refresh stock cache failed",
			"product_id", product.ID,
			"error", err)
	}

	s.notification.NotifyPurchaseEvent(constants.NotificationEventPurchaseCreated, purchase.ID)
	return purchase, nil
}

// generatePurchaseNo 生成购买编号，时间戳加随机数字后缀。
func generatePurchaseNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("BS%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
