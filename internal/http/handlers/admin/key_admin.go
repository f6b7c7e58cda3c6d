package admin

import (
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var keyAdminErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrStockModeInvalid, code: response.CodeBadRequest, msg: "仅有限库存商品支持卡密"},
	{target: service.ErrKeyImportInvalid, code: response.CodeBadRequest, msg: "卡密内容为空"},
}

// keyImportRequest 卡密批量导入请求体，按行拆分。
type keyImportRequest struct {
	Keys string `json:"keys" binding:"required"`
}

// keyDeleteRequest 卡密批量删除请求体
type keyDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ImportKeys 批量导入卡密
func (h *Handler) ImportKeys(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req keyImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	imported, err := h.InventoryService.ImportKeys(productID, req.Keys)
	if err != nil {
		respondWithMappedError(c, err, keyAdminErrorRules, response.CodeInternal, "导入卡密失败")
		return
	}
	response.Success(c, gin.H{"imported": imported})
}

// ListKeys 卡密列表
func (h *Handler) ListKeys(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	page, pageSize := handlershared.QueryPagination(c)

	keys, total, err := h.InventoryService.ListKeys(productID, c.Query("status"), page, pageSize)
	if err != nil {
		respondWithMappedError(c, err, keyAdminErrorRules, response.CodeInternal, "读取卡密失败")
		return
	}
	response.SuccessWithPage(c, keys, response.NewPagination(page, pageSize, total))
}

// DeleteKeys 批量删除未认领卡密
func (h *Handler) DeleteKeys(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req keyDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	deleted, err := h.InventoryService.DeleteKeys(productID, req.IDs)
	if err != nil {
		respondWithMappedError(c, err, keyAdminErrorRules, response.CodeInternal, "删除卡密失败")
		return
	}
	response.Success(c, gin.H{"deleted": deleted})
}

// KeyStockSummary 卡密库存统计
func (h *Handler) KeyStockSummary(c *gin.Context) {
	productID, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	summary, err := h.InventoryService.StockSummary(productID)
	if err != nil {
		respondWithMappedError(c, err, keyAdminErrorRules, response.CodeInternal, "统计卡密失败")
		return
	}
	response.Success(c, summary)
}

// ReconcileStock 全量重算库存缓存
func (h *Handler) ReconcileStock(c *gin.Context) {
	reconciled, err := h.InventoryService.ReconcileStock()
	if err != nil {
		respondError(c, response.CodeInternal, "重算库存失败", err)
		return
	}
	response.SuccessWithMsg(c, "库存缓存已重算", gin.H{"reconciled": reconciled})
}
