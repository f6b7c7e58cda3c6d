package repository

import (
	"errors"
	"strings"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"

	"gorm.io/gorm"
)

// ProductListFilter 商品列表过滤条件
type ProductListFilter struct {
	OnlyActive   bool
	CategoryID   uint
	Search       string
	WithCategory bool
	Page         int
	PageSize     int
}

// ProductRepository 商品数据访问接口
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
	RefreshStockCache(productID uint) (int64, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

// List 商品列表
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.WithCategory {
		query = query.Preload("Category")
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildSearchCondition(r.db, []string{"name", "description"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("sort_order DESC, id ASC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetByID 获取商品
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// Create 创建商品
func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Update 更新商品
func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

// Delete 删除商品
func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// RefreshStockCache 按卡密表重算商品的可用库存缓存。
// 整条语句在数据库侧完成计数与写回，不经过应用层读改写。
func (r *GormProductRepository) RefreshStockCache(productID uint) (int64, error) {
	if productID == 0 {
		return 0, errors.New("invalid product id")
	}
	result := r.db.Exec(
		"UPDATE products SET stock_count = (SELECT COUNT(*) FROM product_keys WHERE product_keys.product_id = products.id AND product_keys.status = ? AND product_keys.deleted_at IS NULL) WHERE id = ? AND stock_mode = ?",
		constants.ProductKeyStatusAvailable, productID, constants.StockModeFinite,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
