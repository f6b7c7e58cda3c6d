package repository

import (
	"testing"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupProductRepositoryTest(t *testing.T) (*GormProductRepository, *GormProductKeyRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductKey{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return NewProductRepository(db), NewProductKeyRepository(db), db
}

func createFiniteProduct(t *testing.T, repo *GormProductRepository, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		CategoryID: 1,
		Name:       name,
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		StockMode:  constants.StockModeFinite,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestRefreshStockCacheRecomputesFromKeys(t *testing.T) {
	repo, keys, _ := setupProductRepositoryTest(t)
	product := createFiniteProduct(t, repo, "游戏点卡")
	seedAvailableKeys(t, keys, product.ID, 4)

	if _, err := repo.RefreshStockCache(product.ID); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	got, err := repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("get product failed: %+v %v", got, err)
	}
	if got.StockCount != 4 {
		t.Fatalf("stock cache want 4 got %d", got.StockCount)
	}

	if key, err := keys.ClaimFreeKey(product.ID, 1, time.Now()); err != nil || key == nil {
		t.Fatalf("claim failed: %+v %v", key, err)
	}
	if _, err := repo.RefreshStockCache(product.ID); err != nil {
		t.Fatalf("refresh after claim failed: %v", err)
	}
	got, err = repo.GetByID(product.ID)
	if err != nil || got == nil {
		t.Fatalf("get product failed: %+v %v", got, err)
	}
	if got.StockCount != 3 {
		t.Fatalf("stock cache want 3 got %d", got.StockCount)
	}
}

func TestRefreshStockCacheSkipsInfiniteProducts(t *testing.T) {
	repo, _, _ := setupProductRepositoryTest(t)
	product := &models.Product{
		CategoryID: 1,
		Name:       "会员开通",
		Price:      models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		StockMode:  constants.StockModeInfinite,
		IsActive:   true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	affected, err := repo.RefreshStockCache(product.ID)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("infinite product should not be touched, affected=%d", affected)
	}
}
