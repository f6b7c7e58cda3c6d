package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/balneario-store/internal/config"
	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/queue"
	"github.com/balneario-store/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fulfillmentTestEnv struct {
	db          *gorm.DB
	fulfillment *FulfillmentService
	purchases   *PurchaseService
	settings    *SettingService
	keyRepo     *repository.GormProductKeyRepository
}

func setupFulfillmentTest(t *testing.T) *fulfillmentTestEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductKey{},
		&models.Coupon{},
		&models.Purchase{},
		&models.Setting{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	productRepo := repository.NewProductRepository(db)
	keyRepo := repository.NewProductKeyRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	queueClient, err := queue.NewClient(nil)
	if err != nil {
		t.Fatalf("create queue client failed: %v", err)
	}

	couponSvc := NewCouponService(couponRepo)
	settingSvc := NewSettingService(settingRepo)
	inventorySvc := NewInventoryService(productRepo, keyRepo)
	notificationSvc := NewNotificationService(purchaseRepo, queueClient, config.WebhookConfig{})
	fulfillmentSvc := NewFulfillmentService(productRepo, purchaseRepo, keyRepo, couponSvc, settingSvc, inventorySvc, notificationSvc)
	purchaseSvc := NewPurchaseService(purchaseRepo, productRepo, keyRepo, inventorySvc, notificationSvc)

	return &fulfillmentTestEnv{
		db:          db,
		fulfillment: fulfillmentSvc,
		purchases:   purchaseSvc,
		settings:    settingSvc,
		keyRepo:     keyRepo,
	}
}

func (env *fulfillmentTestEnv) createProduct(t *testing.T, stockMode string, keyCount int) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       "充值卡",
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("29.90")),
		StockMode:  stockMode,
		IsActive:   true,
	}
	if err := env.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	for i := 0; i < keyCount; i++ {
		key := &models.ProductKey{
			ProductID: product.ID,
			KeyValue:  fmt.Sprintf("SECRET-%d-%d", product.ID, i),
			Status:    constants.ProductKeyStatusAvailable,
		}
		if err := env.db.Create(key).Error; err != nil {
			t.Fatalf("create key failed: %v", err)
		}
	}
	return product
}

func (env *fulfillmentTestEnv) setPaymentMode(t *testing.T, mode string) {
	t.Helper()
	if err := env.settings.UpdateSetting(constants.SettingKeyPaymentMode, mode); err != nil {
		t.Fatalf("set payment mode failed: %v", err)
	}
}

func buyerInput(productID uint) CheckoutInput {
	return CheckoutInput{
		UserID:    42,
		UserEmail: "buyer@example.com",
		UserName:  "Buyer",
		ProductID: productID,
	}
}

func TestCheckoutInstantDeliversKey(t *testing.T) {
	env := setupFulfillmentTest(t)
	product := env.createProduct(t, constants.StockModeFinite, 2)

	purchase, err := env.fulfillment.Checkout(buyerInput(product.ID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if purchase.Status != constants.PurchaseStatusApproved {
		t.Fatalf("status want approved got %s", purchase.Status)
	}
	if purchase.KeyValue == nil || *purchase.KeyValue == "" {
		t.Fatalf("expected delivered key, got %+v", purchase.KeyValue)
	}
	if purchase.ApprovedAt == nil {
		t.Fatalf("approved_at not stamped")
	}
	if purchase.AmountPaid.String() != "29.90" {
		t.Fatalf("amount want 29.90 got %s", purchase.AmountPaid.String())
	}

	available, err := env.keyRepo.CountAvailable(product.ID)
	if err != nil {
		t.Fatalf("count available failed: %v", err)
	}
	if available != 1 {
		t.Fatalf("remaining stock want 1 got %d", available)
	}

	var stored models.ProductKey
	if err := env.db.Where("key_value = ?", *purchase.KeyValue).First(&stored).Error; err != nil {
		t.Fatalf("load delivered key failed: %v", err)
	}
	if stored.PurchaseID == nil || *stored.PurchaseID != purchase.ID {
		t.Fatalf("key not linked to purchase: %+v", stored)
	}
}

func TestCheckoutInstantOutOfStockCreatesNothing(t *testing.T) {
	env := setupFulfillmentTest(t)
	product := env.createProduct(t, constants.StockModeFinite, 0)

	if _, err := env.fulfillment.Checkout(buyerInput(product.ID)); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock got %v", err)
	}

	var count int64
	if err := env.db.Model(&models.Purchase{}).Count(&count).Error; err != nil {
		t.Fatalf("count purchases failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("no purchase should exist, got %d", count)
	}
}

func TestCheckoutInfiniteStockUsesManualDelivery(t *testing.T) {
	env := setupFulfillmentTest(t)
	product := env.createProduct(t, constants.StockModeInfinite, 0)

	purchase, err := env.fulfillment.Checkout(buyerInput(product.ID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if purchase.Status != constants.PurchaseStatusPending {
		t.Fatalf("status want pending got %s", purchase.Status)
	}
	if purchase.KeyValue == nil || *purchase.KeyValue != constants.ManualDeliveryMarker {
		t.Fatalf("key value want manual delivery marker got %+v", purchase.KeyValue)
	}
}

func TestCheckoutManualVerifyStaysPending(t *testing.T) {
	env := setupFulfillmentTest(t)
	env.setPaymentMode(t, constants.PaymentModeManualVerify)
	product := env.createProduct(t, constants.StockModeFinite, 3)

	purchase, err := env.fulfillment.Checkout(buyerInput(product.ID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if purchase.Status != constants.PurchaseStatusPending {
		t.Fatalf("status want pending got %s", purchase.Status)
	}
	if purchase.KeyValue != nil {
		t.Fatalf("pending purchase should hold no key, got %v", *purchase.KeyValue)
	}

	available, err := env.keyRepo.CountAvailable(product.ID)
	if err != nil {
		t.Fatalf("count available failed: %v", err)
	}
	if available != 3 {
		t.Fatalf("stock should be untouched, want 3 got %d", available)
	}
}

func TestCheckoutSnapshotsProductFields(t *testing.T) {
	env := setupFulfillmentTest(t)
	env.setPaymentMode(t, constants.PaymentModeManualReview)
	product := env.createProduct(t, constants.StockModeFinite, 1)

	purchase, err := env.fulfillment.Checkout(buyerInput(product.ID))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	product.Name = "改名后的商品"
	product.Price = models.NewMoneyFromDecimal(decimal.RequireFromString("99.00"))
	if err := env.db.Save(product).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	stored, err := env.purchases.GetAdmin(purchase.ID)
	if err != nil {
		t.Fatalf("load purchase failed: %v", err)
	}
	if stored.ProductName != "充值卡" {
		t.Fatalf("snapshot name want 充值卡 got %s", stored.ProductName)
	}
	if stored.UnitPrice.String() != "29.90" {
		t.Fatalf("snapshot price want 29.90 got %s", stored.UnitPrice.String())
	}
}

func TestCheckoutAppliesCoupon(t *testing.T) {
	env := setupFulfillmentTest(t)
	env.setPaymentMode(t, constants.PaymentModeManualVerify)
	product := env.createProduct(t, constants.StockModeFinite, 1)
	if err := env.db.Create(&models.Coupon{Code: "HALF", DiscountPercent: 50, IsActive: true}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	input := buyerInput(product.ID)
	input.CouponCode = "half"
	purchase, err := env.fulfillment.Checkout(input)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if purchase.AmountPaid.String() != "14.95" {
		t.Fatalf("amount want 14.95 got %s", purchase.AmountPaid.String())
	}
	if purchase.CouponCode == nil || *purchase.CouponCode != "HALF" {
		t.Fatalf("coupon code not recorded: %+v", purchase.CouponCode)
	}
}

func TestCheckoutInactiveProductRejected(t *testing.T) {
	env := setupFulfillmentTest(t)
	product := env.createProduct(t, constants.StockModeFinite, 1)
	product.IsActive = false
	if err := env.db.Save(product).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	if _, err := env.fulfillment.Checkout(buyerInput(product.ID)); !errors.Is(err, ErrProductNotAvailable) {
		t.Fatalf("want ErrProductNotAvailable got %v", err)
	}
}

func TestCheckoutLastKeySecondBuyerOutOfStock(t *testing.T) {
	env := setupFulfillmentTest(t)
	product := env.createProduct(t, constants.StockModeFinite, 1)

	first, err := env.fulfillment.Checkout(buyerInput(product.ID))
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	if first.Status != constants.PurchaseStatusApproved {
		t.Fatalf("first status want approved got %s", first.Status)
	}

	second := buyerInput(product.ID)
	second.UserID = 43
	second.UserEmail = "other@example.com"
	if _, err := env.fulfillment.Checkout(second); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("second checkout want ErrOutOfStock got %v", err)
	}

	var count int64
	if err := env.db.Model(&models.Purchase{}).Count(&count).Error; err != nil {
		t.Fatalf("count purchases failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("purchase count want 1 got %d", count)
	}
}
