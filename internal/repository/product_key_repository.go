package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductKeyRepository 卡密库存数据访问接口
type ProductKeyRepository interface {
	CreateBatch(items []models.ProductKey) error
	ListByProduct(productID uint, status string, page, pageSize int) ([]models.ProductKey, int64, error)
	GetByID(id uint) (*models.ProductKey, error)
	ClaimFreeKey(productID, claimedBy uint, claimedAt time.Time) (*models.ProductKey, error)
	Release(id uint) (int64, error)
	BindPurchase(id, purchaseID uint) (int64, error)
	DeleteAvailableByIDs(ids []uint) (int64, error)
	CountAvailable(productID uint) (int64, error)
	CountAvailableByProductIDs(productIDs []uint) (map[uint]int64, error)
	CountByProduct(productID uint) (total, available, claimed int64, err error)
	WithTx(tx *gorm.DB) *GormProductKeyRepository
}

// keyStockCount 按商品统计的可用卡密数量
type keyStockCount struct {
	ProductID uint
	Total     int64
}

// GormProductKeyRepository GORM 实现
type GormProductKeyRepository struct {
	db *gorm.DB
}

// NewProductKeyRepository 创建卡密仓库
func NewProductKeyRepository(db *gorm.DB) *GormProductKeyRepository {
	return &GormProductKeyRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductKeyRepository) WithTx(tx *gorm.DB) *GormProductKeyRepository {
	if tx == nil {
		return r
	}
	return &GormProductKeyRepository{db: tx}
}

// CreateBatch 批量导入卡密
func (r *GormProductKeyRepository) CreateBatch(items []models.ProductKey) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// ListByProduct 按商品获取卡密列表
func (r *GormProductKeyRepository) ListByProduct(productID uint, status string, page, pageSize int) ([]models.ProductKey, int64, error) {
	if productID == 0 {
		return nil, 0, errors.New("invalid product id")
	}
	query := r.db.Model(&models.ProductKey{}).Where("product_id = ?", productID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.ProductKey
	if err := applyPagination(query, page, pageSize).Order("id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID 获取卡密
func (r *GormProductKeyRepository) GetByID(id uint) (*models.ProductKey, error) {
	var key models.ProductKey
	if err := r.db.First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

// ClaimFreeKey 原子认领一条可用卡密。
//
// 以单条条件 UPDATE 选定并占用候选行，WHERE 对状态做二次校验，
// 并发争抢同一行时只有一方的 RowsAffected 为 1；无可用卡密时
// 返回 (nil, nil)，调用方不得回退为先查后写。认领时写入一次性
// 令牌，随后按令牌回读本次占用的行。
func (r *GormProductKeyRepository) ClaimFreeKey(productID, claimedBy uint, claimedAt time.Time) (*models.ProductKey, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}

	token := uuid.NewString()
	sql := fmt.Sprintf(
		"UPDATE product_keys SET status = ?, claimed_by = ?, claimed_at = ?, claim_token = ?, updated_at = ? WHERE id IN (%s) AND status = ? AND deleted_at IS NULL",
		claimCandidateSubquery(dbDialectName(r.db)),
	)

	result := r.db.Exec(sql,
		constants.ProductKeyStatusClaimed, claimedBy, claimedAt, token, claimedAt,
		productID, constants.ProductKeyStatusAvailable,
		constants.ProductKeyStatusAvailable,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}

	var key models.ProductKey
	if err := r.db.Where("claim_token = ?", token).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// Release 补偿释放卡密，将其回退为可用状态。
// 仅在购买记录落库失败时调用，已交付的卡密不经过此路径。
func (r *GormProductKeyRepository) Release(id uint) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid key id")
	}
	result := r.db.Model(&models.ProductKey{}).
		Where("id = ? AND status = ?", id, constants.ProductKeyStatusClaimed).
		Updates(map[string]interface{}{
			"status":      constants.ProductKeyStatusAvailable,
			"claimed_by":  nil,
			"purchase_id": nil,
			"claimed_at":  nil,
			"claim_token": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// BindPurchase 回写卡密关联的购买记录ID
func (r *GormProductKeyRepository) BindPurchase(id, purchaseID uint) (int64, error) {
	if id == 0 || purchaseID == 0 {
		return 0, errors.New("invalid key or purchase id")
	}
	result := r.db.Model(&models.ProductKey{}).
		Where("id = ? AND status = ?", id, constants.ProductKeyStatusClaimed).
		Update("purchase_id", purchaseID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteAvailableByIDs 批量删除未认领的卡密，已认领的行不受影响。
func (r *GormProductKeyRepository) DeleteAvailableByIDs(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ? AND status = ?", ids, constants.ProductKeyStatusAvailable).
		Delete(&models.ProductKey{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountAvailable 统计商品可用卡密数量
func (r *GormProductKeyRepository) CountAvailable(productID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.ProductKey{}).
		Where("product_id = ? AND status = ?", productID, constants.ProductKeyStatusAvailable).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CountAvailableByProductIDs 批量统计各商品的可用卡密数量
func (r *GormProductKeyRepository) CountAvailableByProductIDs(productIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	var rows []keyStockCount
	err := r.db.Model(&models.ProductKey{}).
		Select("product_id AS product_id, COUNT(*) AS total").
		Where("product_id IN ? AND status = ?", productIDs, constants.ProductKeyStatusAvailable).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ProductID] = row.Total
	}
	return counts, nil
}

// CountByProduct 统计商品卡密的总量与各状态数量
func (r *GormProductKeyRepository) CountByProduct(productID uint) (total, available, claimed int64, err error) {
	base := r.db.Model(&models.ProductKey{}).Where("product_id = ?", productID)
	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("status = ?", constants.ProductKeyStatusAvailable).Count(&available).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("status = ?", constants.ProductKeyStatusClaimed).Count(&claimed).Error; err != nil {
		return 0, 0, 0, err
	}
	return total, available, claimed, nil
}
