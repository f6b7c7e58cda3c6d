package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"

	"gorm.io/gorm"
)

// PurchaseListFilter 购买记录列表过滤条件
type PurchaseListFilter struct {
	UserID    uint
	ProductID uint
	Status    string
	Search    string
	Page      int
	PageSize  int
}

// PurchaseRepository 购买记录数据访问接口
type PurchaseRepository interface {
	Create(purchase *models.Purchase) error
	GetByID(id uint) (*models.Purchase, error)
	GetByPurchaseNo(purchaseNo string) (*models.Purchase, error)
	List(filter PurchaseListFilter) ([]models.Purchase, int64, error)
	CountByStatus() (map[string]int64, error)
	MarkApproved(id uint, keyValue *string, approvedAt time.Time) (int64, error)
	MarkRejected(id uint, rejectedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) PurchaseRepository
}

// purchaseStatusCount 按状态统计的购买数量
type purchaseStatusCount struct {
	Status string
	Total  int64
}

// GormPurchaseRepository GORM 实现
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository 创建购买记录仓库
func NewPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPurchaseRepository) WithTx(tx *gorm.DB) PurchaseRepository {
	if tx == nil {
		return r
	}
	return &GormPurchaseRepository{db: tx}
}

// Create 创建购买记录
func (r *GormPurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

// GetByID 获取购买记录
func (r *GormPurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// GetByPurchaseNo 按购买编号获取记录
func (r *GormPurchaseRepository) GetByPurchaseNo(purchaseNo string) (*models.Purchase, error) {
	trimmed := strings.TrimSpace(purchaseNo)
	if trimmed == "" {
		return nil, nil
	}
	var purchase models.Purchase
	if err := r.db.Where("purchase_no = ?", trimmed).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &purchase, nil
}

// List 购买记录列表
func (r *GormPurchaseRepository) List(filter PurchaseListFilter) ([]models.Purchase, int64, error) {
	query := r.db.Model(&models.Purchase{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildSearchCondition(r.db, []string{"purchase_no", "user_email", "product_name"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []models.Purchase
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("id desc").
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}
	return purchases, total, nil
}

// CountByStatus 按状态统计购买数量
func (r *GormPurchaseRepository) CountByStatus() (map[string]int64, error) {
	var rows []purchaseStatusCount
	err := r.db.Model(&models.Purchase{}).
		Select("status AS status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// MarkApproved 将待处理记录置为已批准。
// WHERE 限定当前状态为 pending，终态记录不会被二次覆盖；
// RowsAffected 为 0 表示状态已被并发操作抢先变更。
func (r *GormPurchaseRepository) MarkApproved(id uint, keyValue *string, approvedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid purchase id")
	}
	updates := map[string]interface{}{
		"status":      constants.PurchaseStatusApproved,
		"approved_at": approvedAt,
	}
	if keyValue != nil {
		updates["key_value"] = *keyValue
	}
	result := r.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, constants.PurchaseStatusPending).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkRejected 将待处理记录置为已拒绝，约束与 MarkApproved 一致。
func (r *GormPurchaseRepository) MarkRejected(id uint, rejectedAt time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid purchase id")
	}
	result := r.db.Model(&models.Purchase{}).
		Where("id = ? AND status = ?", id, constants.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":      constants.PurchaseStatusRejected,
			"rejected_at": rejectedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
