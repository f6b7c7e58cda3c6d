package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupProductKeyRepositoryTest(t *testing.T) (*GormProductKeyRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s/keys.db", t.TempDir())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// sqlite 单写锁，收敛到单连接避免并发写入报 busy
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.ProductKey{}); err != nil {
		t.Fatalf("migrate product keys failed: %v", err)
	}
	return NewProductKeyRepository(db), db
}

func seedAvailableKeys(t *testing.T, repo *GormProductKeyRepository, productID uint, count int) {
	t.Helper()
	items := make([]models.ProductKey, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, models.ProductKey{
			ProductID: productID,
			KeyValue:  fmt.Sprintf("KEY-%d-%03d", productID, i),
			Status:    constants.ProductKeyStatusAvailable,
		})
	}
	if err := repo.CreateBatch(items); err != nil {
		t.Fatalf("seed keys failed: %v", err)
	}
}

func TestClaimFreeKeyExhaustsStock(t *testing.T) {
	repo, _ := setupProductKeyRepositoryTest(t)
	seedAvailableKeys(t, repo, 1, 3)

	claimed := make(map[string]bool)
	for i := 0; i < 3; i++ {
		key, err := repo.ClaimFreeKey(1, 100, time.Now())
		if err != nil {
			t.Fatalf("claim %d failed: %v", i, err)
		}
		if key == nil {
			t.Fatalf("claim %d returned no key with stock remaining", i)
		}
		if key.Status != constants.ProductKeyStatusClaimed {
			t.Fatalf("claim %d status want claimed got %s", i, key.Status)
		}
		if key.ClaimedBy == nil || *key.ClaimedBy != 100 {
			t.Fatalf("claim %d claimed_by not stamped: %+v", i, key)
		}
		if claimed[key.KeyValue] {
			t.Fatalf("key %s claimed twice", key.KeyValue)
		}
		claimed[key.KeyValue] = true
	}

	key, err := repo.ClaimFreeKey(1, 100, time.Now())
	if err != nil {
		t.Fatalf("claim on empty stock failed: %v", err)
	}
	if key != nil {
		t.Fatalf("expected no key on empty stock, got %+v", key)
	}
}

func TestClaimFreeKeyIgnoresOtherProducts(t *testing.T) {
	repo, _ := setupProductKeyRepositoryTest(t)
	seedAvailableKeys(t, repo, 1, 1)
	seedAvailableKeys(t, repo, 2, 1)

	key, err := repo.ClaimFreeKey(2, 7, time.Now())
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if key == nil || key.ProductID != 2 {
		t.Fatalf("expected key of product 2, got %+v", key)
	}

	available, err := repo.CountAvailable(1)
	if err != nil {
		t.Fatalf("count available failed: %v", err)
	}
	if available != 1 {
		t.Fatalf("product 1 stock want 1 got %d", available)
	}
}

func TestClaimFreeKeyConcurrent(t *testing.T) {
	repo, _ := setupProductKeyRepositoryTest(t)
	const stock = 5
	const buyers = 12
	seedAvailableKeys(t, repo, 1, stock)

	var wg sync.WaitGroup
	results := make(chan *models.ProductKey, buyers)
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyerID uint) {
			defer wg.Done()
			key, err := repo.ClaimFreeKey(1, buyerID, time.Now())
			if err != nil {
				errs <- err
				return
			}
			results <- key
		}(uint(i + 1))
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent claim failed: %v", err)
	}

	claimed := make(map[uint]bool)
	won := 0
	for key := range results {
		if key == nil {
			continue
		}
		won++
		if claimed[key.ID] {
			t.Fatalf("key %d claimed by more than one buyer", key.ID)
		}
		claimed[key.ID] = true
	}
	if won != stock {
		t.Fatalf("winners want %d got %d", stock, won)
	}

	available, err := repo.CountAvailable(1)
	if err != nil {
		t.Fatalf("count available failed: %v", err)
	}
	if available != 0 {
		t.Fatalf("remaining stock want 0 got %d", available)
	}
}

func TestReleaseRestoresKey(t *testing.T) {
	repo, _ := setupProductKeyRepositoryTest(t)
	seedAvailableKeys(t, repo, 1, 1)

	key, err := repo.ClaimFreeKey(1, 9, time.Now())
	if err != nil || key == nil {
		t.Fatalf("claim failed: key=%+v err=%v", key, err)
	}

	affected, err := repo.Release(key.ID)
	if err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("release affected want 1 got %d", affected)
	}

	restored, err := repo.GetByID(key.ID)
	if err != nil || restored == nil {
		t.Fatalf("get released key failed: key=%+v err=%v", restored, err)
	}
	if restored.Status != constants.ProductKeyStatusAvailable {
		t.Fatalf("released status want available got %s", restored.Status)
	}
	if restored.ClaimedBy != nil || restored.PurchaseID != nil || restored.ClaimedAt != nil {
		t.Fatalf("released key not cleared: %+v", restored)
	}

	again, err := repo.ClaimFreeKey(1, 10, time.Now())
	if err != nil || again == nil {
		t.Fatalf("re-claim after release failed: key=%+v err=%v", again, err)
	}
	if again.ID != key.ID {
		t.Fatalf("re-claim want key %d got %d", key.ID, again.ID)
	}
}

func TestDeleteAvailableSkipsClaimed(t *testing.T) {
	repo, _ := setupProductKeyRepositoryTest(t)
	seedAvailableKeys(t, repo, 1, 2)

	key, err := repo.ClaimFreeKey(1, 3, time.Now())
	if err != nil || key == nil {
		t.Fatalf("claim failed: key=%+v err=%v", key, err)
	}

	deleted, err := repo.DeleteAvailableByIDs([]uint{1, 2})
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("deleted want 1 got %d", deleted)
	}

	kept, err := repo.GetByID(key.ID)
	if err != nil || kept == nil {
		t.Fatalf("claimed key should survive delete: key=%+v err=%v", kept, err)
	}
}
