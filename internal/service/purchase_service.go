package service

import (
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"
)

// PurchaseService 购买记录服务
type PurchaseService struct {
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	keyRepo      repository.ProductKeyRepository
	inventory    *InventoryService
	notification *NotificationService
}

// NewPurchaseService 创建购买记录服务
func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	keyRepo repository.ProductKeyRepository,
	inventory *InventoryService,
	notification *NotificationService,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		keyRepo:      keyRepo,
		inventory:    inventory,
		notification: notification,
	}
}

// ListMine 买家自己的购买记录
func (s *PurchaseService) ListMine(userID uint, page, pageSize int) ([]models.Purchase, int64, error) {
	if userID == 0 {
		return nil, 0, ErrPurchaseNotFound
	}
	return s.purchaseRepo.List(repository.PurchaseListFilter{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
}

// GetMine 买家查看单条购买记录，他人记录按不存在处理。
func (s *PurchaseService) GetMine(userID, purchaseID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil || purchase.UserID != userID {
		return nil, ErrPurchaseNotFound
	}
	return purchase, nil
}

// ListAdmin 管理端购买记录列表
func (s *PurchaseService) ListAdmin(filter repository.PurchaseListFilter) ([]models.Purchase, int64, error) {
	return s.purchaseRepo.List(filter)
}

// GetAdmin 管理端购买记录详情
func (s *PurchaseService) GetAdmin(purchaseID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	return purchase, nil
}

// GetByNo 按购买编号获取记录，供人工核销时凭买家提供的编号定位。
func (s *PurchaseService) GetByNo(purchaseNo string) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByPurchaseNo(purchaseNo)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	return purchase, nil
}

// CountByStatus 按状态统计购买数量
func (s *PurchaseService) CountByStatus() (map[string]int64, error) {
	return s.purchaseRepo.CountByStatus()
}

// Approve 批准待处理购买。
//
// 有限库存且尚未持有卡密的记录在批准时原子认领，库存耗尽时
// 记录保持待处理并返回 ErrOutOfStock。状态写入带 pending 前置
// 条件，并发批准只有一方生效，落败方释放刚认领的卡密。
func (s *PurchaseService) Approve(purchaseID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	if purchase.Status != constants.PurchaseStatusPending {
		return nil, ErrInvalidTransition
	}

	var claimedKey *models.ProductKey
	var keyValue *string
	if purchase.KeyValue == nil || *purchase.KeyValue == "" {
		product, err := s.productRepo.GetByID(purchase.ProductID)
		if err != nil {
			return nil, err
		}
		if product != nil && product.FiniteStock() {
			claimedKey, err = s.keyRepo.ClaimFreeKey(product.ID, purchase.UserID, time.Now())
			if err != nil {
				return nil, err
			}
			if claimedKey == nil {
				return nil, ErrOutOfStock
			}
			keyValue = &claimedKey.KeyValue
		}
	}

	affected, err := s.purchaseRepo.MarkApproved(purchaseID, keyValue, time.Now())
	if err != nil {
		s.compensateClaim(claimedKey)
		return nil, err
	}
	if affected == 0 {
		// 状态被并发操作抢先变更
		s.compensateClaim(claimedKey)
		return nil, ErrInvalidTransition
	}

	if claimedKey != nil {
		if _, err := s.keyRepo.BindPurchase(claimedKey.ID, purchaseID); err != nil {
			logger.Warnw("bind key to purchase failed",
				"key_id", claimedKey.ID,
				"purchase_id", purchaseID,
				"error", err)
		}
		if _, err := s.productRepo.RefreshStockCache(purchase.ProductID); err != nil {
			logger.Warnw("refresh stock cache failed",
				"product_id", purchase.ProductID,
				"error", err)
		}
	}

	s.notification.NotifyPurchaseEvent(constants.NotificationEventPurchaseApproved, purchaseID)
	return s.purchaseRepo.GetByID(purchaseID)
}

// Reject 拒绝待处理购买，终态记录返回 ErrInvalidTransition。
// 待处理记录不持有卡密，拒绝不涉及库存回退。
func (s *PurchaseService) Reject(purchaseID uint) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, ErrPurchaseNotFound
	}
	if purchase.Status != constants.PurchaseStatusPending {
		return nil, ErrInvalidTransition
	}

	affected, err := s.purchaseRepo.MarkRejected(purchaseID, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	s.notification.NotifyPurchaseEvent(constants.NotificationEventPurchaseRejected, purchaseID)
	return s.purchaseRepo.GetByID(purchaseID)
}

func (s *PurchaseService) compensateClaim(key *models.ProductKey) {
	if key == nil {
		return
	}
	if err := s.inventory.ReleaseKey(key.ID); err != nil {
		logger.Errorw("release claimed key failed",
			"key_id", key.ID,
			"error", err)
	}
}
