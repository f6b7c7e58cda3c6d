package service

import (
	"strings"

	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"
)

// CategoryService 分类服务
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories 分类列表
func (s *CategoryService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// CreateCategory 创建分类
func (s *CategoryService) CreateCategory(name string, sortOrder int) (*models.Category, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrCategoryNotFound
	}
	category := &models.Category{Name: trimmed, SortOrder: sortOrder}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 更新分类
func (s *CategoryService) UpdateCategory(id uint, name string, sortOrder int) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		category.Name = trimmed
	}
	category.SortOrder = sortOrder
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory 删除分类，仍挂有商品的分类不允许删除。
func (s *CategoryService) DeleteCategory(id uint) error {
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(id)
}
