package service

import (
	"strings"

	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/repository"

	"github.com/shopspring/decimal"
)

// CouponService 优惠券服务
type CouponService struct {
	couponRepo repository.CouponRepository
}

// NewCouponService 创建优惠券服务
func NewCouponService(couponRepo repository.CouponRepository) *CouponService {
	return &CouponService{couponRepo: couponRepo}
}

// Resolve 按优惠码解析可用优惠券。
// 停用的优惠券与不存在的优惠码同样返回 ErrCouponNotFound，
// 对外不暴露两者的区别。
func (s *CouponService) Resolve(code string) (*models.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, ErrCouponInvalid
	}

	coupon, err := s.couponRepo.GetByCode(trimmed)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.IsActive {
		return nil, ErrCouponNotFound
	}
	if coupon.DiscountPercent < 1 || coupon.DiscountPercent > 100 {
		return nil, ErrCouponInvalid
	}
	return coupon, nil
}

// ResolvePrice 计算应用优惠码后的实付金额。
// 折后金额四舍五入保留两位小数，下限为 0；code 为空表示不使用
// 优惠券，原价返回。
func (s *CouponService) ResolvePrice(price models.Money, code string) (models.Money, *models.Coupon, error) {
	if strings.TrimSpace(code) == "" {
		return price, nil, nil
	}

	coupon, err := s.Resolve(code)
	if err != nil {
		return models.Money{}, nil, err
	}

	factor := decimal.NewFromInt(int64(100 - coupon.DiscountPercent)).Div(decimal.NewFromInt(100))
	final := price.Decimal.Mul(factor).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}
	return models.NewMoneyFromDecimal(final), coupon, nil
}

// ListCoupons 优惠券列表
func (s *CouponService) ListCoupons(page, pageSize int) ([]models.Coupon, int64, error) {
	return s.couponRepo.List(page, pageSize)
}

// CreateCoupon 创建优惠券，优惠码统一大写存储。
func (s *CouponService) CreateCoupon(code string, discountPercent int, isActive bool) (*models.Coupon, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, ErrCouponInvalid
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, ErrCouponInvalid
	}

	existing, err := s.couponRepo.GetByCode(normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCouponInvalid
	}

	coupon := &models.Coupon{
		Code:            normalized,
		DiscountPercent: discountPercent,
		IsActive:        isActive,
	}
	if err := s.couponRepo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// UpdateCoupon 更新优惠券的折扣与启停状态
func (s *CouponService) UpdateCoupon(id uint, discountPercent int, isActive bool) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrCouponNotFound
	}
	if discountPercent < 1 || discountPercent > 100 {
		return nil, ErrCouponInvalid
	}

	coupon.DiscountPercent = discountPercent
	coupon.IsActive = isActive
	if err := s.couponRepo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteCoupon 删除优惠券。已使用该券的历史购买记录保留当时
// 的折扣结果，不受删除影响。
func (s *CouponService) DeleteCoupon(id uint) error {
	coupon, err := s.couponRepo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrCouponNotFound
	}
	return s.couponRepo.Delete(id)
}
