package admin

import (
	"strconv"

	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/repository"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var purchaseAdminErrorRules = []mappedHandlerError{
	{target: service.ErrPurchaseNotFound, code: response.CodeNotFound, msg: "购买记录不存在"},
	{target: service.ErrInvalidTransition, code: response.CodeConflict, msg: "购买记录已是终态"},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest, msg: "商品库存不足，记录保持待处理"},
}

// ListPurchases 购买记录列表
func (h *Handler) ListPurchases(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	userID, _ := strconv.ParseUint(c.Query("user_id"), 10, 64)

	purchases, total, err := h.PurchaseService.ListAdmin(repository.PurchaseListFilter{
		UserID:    uint(userID),
		ProductID: uint(productID),
		Status:    c.Query("status"),
		Search:    c.Query("search"),
		Page:      page,
		PageSize:  pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "读取购买记录失败", err)
		return
	}
	response.SuccessWithPage(c, purchases, response.NewPagination(page, pageSize, total))
}

// GetPurchase 购买记录详情
func (h *Handler) GetPurchase(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.GetAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, purchaseAdminErrorRules, response.CodeInternal, "读取购买记录失败")
		return
	}
	response.Success(c, purchase)
}

// GetPurchaseByNo 按购买编号查询购买记录
func (h *Handler) GetPurchaseByNo(c *gin.Context) {
	purchaseNo := c.Param("purchase_no")

	purchase, err := h.PurchaseService.GetByNo(purchaseNo)
	if err != nil {
		respondWithMappedError(c, err, purchaseAdminErrorRules, response.CodeInternal, "读取购买记录失败")
		return
	}
	response.Success(c, purchase)
}

// ApprovePurchase 批准待处理购买
func (h *Handler) ApprovePurchase(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.Approve(id)
	if err != nil {
		respondWithMappedError(c, err, purchaseAdminErrorRules, response.CodeInternal, "批准失败")
		return
	}
	response.Success(c, purchase)
}

// RejectPurchase 拒绝待处理购买
func (h *Handler) RejectPurchase(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	purchase, err := h.PurchaseService.Reject(id)
	if err != nil {
		respondWithMappedError(c, err, purchaseAdminErrorRules, response.CodeInternal, "拒绝失败")
		return
	}
	response.Success(c, purchase)
}

// PurchaseStats 按状态统计购买数量
func (h *Handler) PurchaseStats(c *gin.Context) {
	counts, err := h.PurchaseService.CountByStatus()
	if err != nil {
		respondError(c, response.CodeInternal, "统计失败", err)
		return
	}
	response.Success(c, counts)
}
