package public

import (
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

// checkoutRequest 下单请求体
type checkoutRequest struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	CouponCode string `json:"coupon_code"`
}

// Checkout 创建购买
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	purchase, err := h.FulfillmentService.Checkout(service.CheckoutInput{
		UserID:     userID,
		UserEmail:  getUserEmail(c),
		UserName:   getUserName(c),
		ProductID:  req.ProductID,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "下单失败")
		return
	}
	response.Success(c, purchase)
}
