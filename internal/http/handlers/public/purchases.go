package public

import (
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListMyPurchases 买家购买记录列表
func (h *Handler) ListMyPurchases(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)

	purchases, total, err := h.PurchaseService.ListMine(userID, page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, purchaseQueryErrorRules, response.CodeInternal, "读取购买记录失败")
		return
	}
	response.SuccessWithPage(c, purchases, response.NewPagination(page, pageSize, total))
}

// GetMyPurchase 买家购买记录详情
func (h *Handler) GetMyPurchase(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.GetMine(userID, id)
	if err != nil {
		respondWithMappedError(c, err, purchaseQueryErrorRules, response.CodeInternal, "读取购买记录失败")
		return
	}
	response.Success(c, purchase)
}
