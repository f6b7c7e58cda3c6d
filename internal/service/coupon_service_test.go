package service

import (
	"errors"
	"testing"

	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCouponServiceTest(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}); err != nil {
		t.Fatalf("migrate coupon failed: %v", err)
	}
	return NewCouponService(repository.NewCouponRepository(db)), db
}

func createCoupon(t *testing.T, db *gorm.DB, code string, percent int, active bool) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{Code: code, DiscountPercent: percent, IsActive: active}
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestResolvePriceHalfDiscount(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createCoupon(t, db, "PROMO50", 50, true)

	price := models.NewMoneyFromDecimal(decimal.RequireFromString("29.90"))
	final, coupon, err := svc.ResolvePrice(price, "PROMO50")
	if err != nil {
		t.Fatalf("resolve price failed: %v", err)
	}
	if coupon == nil || coupon.Code != "PROMO50" {
		t.Fatalf("unexpected coupon: %+v", coupon)
	}
	if final.String() != "14.95" {
		t.Fatalf("final price want 14.95 got %s", final.String())
	}
}

func TestResolvePriceFullDiscountClampsToZero(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createCoupon(t, db, "FREE100", 100, true)

	price := models.NewMoneyFromDecimal(decimal.RequireFromString("19.99"))
	final, _, err := svc.ResolvePrice(price, "FREE100")
	if err != nil {
		t.Fatalf("resolve price failed: %v", err)
	}
	if !final.Decimal.IsZero() {
		t.Fatalf("final price want 0 got %s", final.String())
	}
}

func TestResolvePriceRoundsHalfUp(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createCoupon(t, db, "QUARTER25", 25, true)

	// 10.10 * 0.75 = 7.575 -> 7.58
	price := models.NewMoneyFromDecimal(decimal.RequireFromString("10.10"))
	final, _, err := svc.ResolvePrice(price, "QUARTER25")
	if err != nil {
		t.Fatalf("resolve price failed: %v", err)
	}
	if final.String() != "7.58" {
		t.Fatalf("final price want 7.58 got %s", final.String())
	}
}

func TestResolveCouponCaseInsensitive(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createCoupon(t, db, "SUMMER", 10, true)

	coupon, err := svc.Resolve("summer")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if coupon == nil || coupon.Code != "SUMMER" {
		t.Fatalf("unexpected coupon: %+v", coupon)
	}
}

func TestResolveInactiveCouponBehavesLikeMissing(t *testing.T) {
	svc, db := setupCouponServiceTest(t)
	createCoupon(t, db, "PAUSED", 30, false)

	if _, err := svc.Resolve("PAUSED"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("inactive coupon want ErrCouponNotFound got %v", err)
	}
	if _, err := svc.Resolve("MISSING"); !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("missing coupon want ErrCouponNotFound got %v", err)
	}
}

func TestResolvePriceWithoutCode(t *testing.T) {
	svc, _ := setupCouponServiceTest(t)

	price := models.NewMoneyFromDecimal(decimal.RequireFromString("42.00"))
	final, coupon, err := svc.ResolvePrice(price, "  ")
	if err != nil {
		t.Fatalf("resolve price failed: %v", err)
	}
	if coupon != nil {
		t.Fatalf("expected no coupon, got %+v", coupon)
	}
	if !final.Decimal.Equal(price.Decimal) {
		t.Fatalf("final price want %s got %s", price.String(), final.String())
	}
}

func TestCreateCouponNormalizesCode(t *testing.T) {
	svc, _ := setupCouponServiceTest(t)

	coupon, err := svc.CreateCoupon("  spring20 ", 20, true)
	if err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if coupon.Code != "SPRING20" {
		t.Fatalf("code want SPRING20 got %s", coupon.Code)
	}

	if _, err := svc.CreateCoupon("SPRING20", 30, true); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("duplicate code want ErrCouponInvalid got %v", err)
	}
	if _, err := svc.CreateCoupon("BAD", 0, true); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("zero percent want ErrCouponInvalid got %v", err)
	}
}
