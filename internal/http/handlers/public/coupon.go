package public

import (
	"strconv"

	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/models"

	"github.com/gin-gonic/gin"
)

// couponView 对买家暴露的优惠券信息。带 product_id 查询参数时
// 附带该商品折后价，供下单确认页展示。
type couponView struct {
	Code            string        `json:"code"`
	DiscountPercent int           `json:"discount_percent"`
	FinalPrice      *models.Money `json:"final_price,omitempty"`
}

// ResolveCoupon 校验优惠码并返回折扣信息
func (h *Handler) ResolveCoupon(c *gin.Context) {
	coupon, err := h.CouponService.Resolve(c.Param("code"))
	if err != nil {
		respondWithMappedError(c, err, couponResolveErrorRules, response.CodeInternal, "校验优惠码失败")
		return
	}

	view := couponView{
		Code:            coupon.Code,
		DiscountPercent: coupon.DiscountPercent,
	}

	if raw := c.Query("product_id"); raw != "" {
		productID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || productID == 0 {
			response.BadRequest(c, "商品参数无效")
			return
		}
		product, err := h.ProductService.GetPublic(uint(productID))
		if err != nil {
			respondWithMappedError(c, err, couponResolveErrorRules, response.CodeInternal, "校验优惠码失败")
			return
		}
		finalPrice, _, err := h.CouponService.ResolvePrice(product.Price, coupon.Code)
		if err != nil {
			respondWithMappedError(c, err, couponResolveErrorRules, response.CodeInternal, "校验优惠码失败")
			return
		}
		view.FinalPrice = &finalPrice
	}

	response.Success(c, view)
}
