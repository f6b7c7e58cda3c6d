package admin

import (
	"strconv"

	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var productAdminErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品参数无效"},
	{target: service.ErrStockModeInvalid, code: response.CodeBadRequest, msg: "库存模式无效"},
	{target: service.ErrCategoryNotFound, code: response.CodeBadRequest, msg: "分类不存在"},
}

// ListProductsAdmin 管理端商品列表
func (h *Handler) ListProductsAdmin(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)

	products, total, err := h.ProductService.ListAdmin(uint(categoryID), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "读取商品失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProductAdmin 管理端商品详情
func (h *Handler) GetProductAdmin(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "读取商品失败")
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductService.CreateProduct(input)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "创建商品失败")
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var input service.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(id, input)
	if err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "更新商品失败")
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.ProductService.DeleteProduct(id); err != nil {
		respondWithMappedError(c, err, productAdminErrorRules, response.CodeInternal, "删除商品失败")
		return
	}
	response.Success(c, nil)
}
