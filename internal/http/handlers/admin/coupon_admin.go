package admin

import (
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var couponAdminErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "优惠券不存在"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "优惠券参数无效"},
}

// couponCreateRequest 优惠券创建请求体
type couponCreateRequest struct {
	Code            string `json:"code" binding:"required"`
	DiscountPercent int    `json:"discount_percent" binding:"required"`
	IsActive        bool   `json:"is_active"`
}

// couponUpdateRequest 优惠券更新请求体，优惠码不可变更。
type couponUpdateRequest struct {
	DiscountPercent int  `json:"discount_percent" binding:"required"`
	IsActive        bool `json:"is_active"`
}

// ListCouponsAdmin 优惠券列表
func (h *Handler) ListCouponsAdmin(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)

	coupons, total, err := h.CouponService.ListCoupons(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "读取优惠券失败", err)
		return
	}
	response.SuccessWithPage(c, coupons, response.NewPagination(page, pageSize, total))
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req couponCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon, err := h.CouponService.CreateCoupon(req.Code, req.DiscountPercent, req.IsActive)
	if err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "创建优惠券失败")
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req couponUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	coupon, err := h.CouponService.UpdateCoupon(id, req.DiscountPercent, req.IsActive)
	if err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "更新优惠券失败")
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.CouponService.DeleteCoupon(id); err != nil {
		respondWithMappedError(c, err, couponAdminErrorRules, response.CodeInternal, "删除优惠券失败")
		return
	}
	response.Success(c, nil)
}
