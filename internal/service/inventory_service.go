package service

import (
	"strings"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"
)

// InventoryService 卡密库存服务。
// 卡密记录是库存的权威来源，商品上的库存数只是读缓存，
// 任何改变卡密状态的操作之后都要触发缓存重算。
type InventoryService struct {
	productRepo repository.ProductRepository
	keyRepo     repository.ProductKeyRepository
}

// KeyStockSummary 单个商品的卡密库存统计
type KeyStockSummary struct {
	ProductID uint  `json:"product_id"`
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Claimed   int64 `json:"claimed"`
}

// NewInventoryService 创建库存服务
func NewInventoryService(productRepo repository.ProductRepository, keyRepo repository.ProductKeyRepository) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		keyRepo:     keyRepo,
	}
}

// ImportKeys 批量导入卡密，按行拆分、去除空行与首尾空白。
// 仅有限库存商品接受导入，导入后重算库存缓存。
func (s *InventoryService) ImportKeys(productID uint, raw string) (int, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}
	if !product.FiniteStock() {
		return 0, ErrStockModeInvalid
	}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	items := make([]models.ProductKey, 0, len(lines))
	for _, line := range lines {
		value := strings.TrimSpace(line)
		if value == "" {
			continue
		}
		items = append(items, models.ProductKey{
			ProductID: productID,
			KeyValue:  value,
			Status:    constants.ProductKeyStatusAvailable,
		})
	}
	if len(items) == 0 {
		return 0, ErrKeyImportInvalid
	}

	if err := s.keyRepo.CreateBatch(items); err != nil {
		return 0, err
	}
	s.refreshStock(productID)
	return len(items), nil
}

// ListKeys 按商品查询卡密列表
func (s *InventoryService) ListKeys(productID uint, status string, page, pageSize int) ([]models.ProductKey, int64, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, 0, err
	}
	if product == nil {
		return nil, 0, ErrProductNotFound
	}
	return s.keyRepo.ListByProduct(productID, status, page, pageSize)
}

// DeleteKeys 批量删除未认领的卡密，随后重算库存缓存。
func (s *InventoryService) DeleteKeys(productID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrKeyImportInvalid
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		return 0, ErrProductNotFound
	}

	deleted, err := s.keyRepo.DeleteAvailableByIDs(ids)
	if err != nil {
		return 0, err
	}
	s.refreshStock(productID)
	return deleted, nil
}

// ClaimKey 为买家原子认领一条卡密，无可用库存返回 ErrOutOfStock。
func (s *InventoryService) ClaimKey(productID, buyerID uint) (*models.ProductKey, error) {
	key, err := s.keyRepo.ClaimFreeKey(productID, buyerID, time.Now())
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, ErrOutOfStock
	}
	return key, nil
}

// ReleaseKey 补偿释放已认领卡密，仅用于后续落库失败的回滚。
func (s *InventoryService) ReleaseKey(keyID uint) error {
	affected, err := s.keyRepo.Release(keyID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrKeyNotFound
	}
	return nil
}

// StockSummary 商品卡密库存统计
func (s *InventoryService) StockSummary(productID uint) (*KeyStockSummary, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	total, available, claimed, err := s.keyRepo.CountByProduct(productID)
	if err != nil {
		return nil, err
	}
	return &KeyStockSummary{
		ProductID: productID,
		Total:     total,
		Available: available,
		Claimed:   claimed,
	}, nil
}

// ReconcileStock 对全部有限库存商品按卡密表重算库存缓存，
// 返回修正的商品数量。
func (s *InventoryService) ReconcileStock() (int, error) {
	products, _, err := s.productRepo.List(repository.ProductListFilter{})
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, product := range products {
		if !product.FiniteStock() {
			continue
		}
		if _, err := s.productRepo.RefreshStockCache(product.ID); err != nil {
			return reconciled, err
		}
		reconciled++
	}
	return reconciled, nil
}

// refreshStock 重算库存缓存，失败只记录日志不阻断主流程。
func (s *InventoryService) refreshStock(productID uint) {
	if _, err := s.productRepo.RefreshStockCache(productID); err != nil {
		logger.Warnw("refresh stock cache failed", "product_id", productID, "error", err)
	}
}
