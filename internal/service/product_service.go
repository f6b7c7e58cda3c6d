package service

import (
	"strings"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"
)

// ProductService 商品服务
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	keyRepo      repository.ProductKeyRepository
}

// ProductInput 商品创建/更新入参
type ProductInput struct {
	CategoryID  uint         `json:"category_id" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	PhotoURL    string       `json:"photo_url"`
	Price       models.Money `json:"price"`
	StockMode   string       `json:"stock_mode" binding:"required"`
	IsActive    bool         `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

// NewProductService 创建商品服务
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, keyRepo repository.ProductKeyRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		keyRepo:      keyRepo,
	}
}

// ListPublic 店面商品列表，只含上架商品。
// 有限库存商品的库存数按卡密表实时覆盖，不依赖缓存新旧。
func (s *ProductService) ListPublic(categoryID uint, search string, page, pageSize int) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		OnlyActive:   true,
		CategoryID:   categoryID,
		Search:       search,
		WithCategory: true,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.overlayLiveStock(products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetPublic 店面商品详情，下架商品按不存在处理。
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	if product.FiniteStock() {
		available, err := s.keyRepo.CountAvailable(product.ID)
		if err != nil {
			return nil, err
		}
		product.StockCount = int(available)
	}
	return product, nil
}

// ListAdmin 管理端商品列表，含下架商品。
func (s *ProductService) ListAdmin(categoryID uint, search string, page, pageSize int) ([]models.Product, int64, error) {
	products, total, err := s.productRepo.List(repository.ProductListFilter{
		CategoryID:   categoryID,
		Search:       search,
		WithCategory: true,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.overlayLiveStock(products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// GetAdmin 管理端商品详情
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// CreateProduct 创建商品
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		Price:       input.Price,
		StockMode:   input.StockMode,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 更新商品。库存模式允许调整，切换为有限库存后
// 按卡密表重算库存缓存。
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = strings.TrimSpace(input.Name)
	product.Description = input.Description
	product.PhotoURL = input.PhotoURL
	product.Price = input.Price
	product.StockMode = input.StockMode
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	if product.FiniteStock() {
		if _, err := s.productRepo.RefreshStockCache(product.ID); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// DeleteProduct 删除商品。历史购买记录持有快照，不受影响。
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

func (s *ProductService) validateInput(input *ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrProductNotAvailable
	}
	if !constants.ValidStockMode(input.StockMode) {
		return ErrStockModeInvalid
	}
	if input.Price.Decimal.IsNegative() {
		return ErrProductNotAvailable
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	return nil
}

// overlayLiveStock 用卡密表的实时可用量覆盖有限库存商品的库存数
func (s *ProductService) overlayLiveStock(products []models.Product) error {
	ids := make([]uint, 0, len(products))
	for _, product := range products {
		if product.FiniteStock() {
			ids = append(ids, product.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	counts, err := s.keyRepo.CountAvailableByProductIDs(ids)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].FiniteStock() {
			products[i].StockCount = int(counts[products[i].ID])
		}
	}
	return nil
}
