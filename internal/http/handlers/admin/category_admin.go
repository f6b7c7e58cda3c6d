package admin

import (
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var categoryAdminErrorRules = []mappedHandlerError{
	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, msg: "分类不存在"},
	{target: service.ErrCategoryNotEmpty, code: response.CodeConflict, msg: "分类下仍有商品"},
}

// categoryRequest 分类创建/更新请求体
type categoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// ListCategoriesAdmin 分类列表
func (h *Handler) ListCategoriesAdmin(c *gin.Context) {
	categories, err := h.CategoryService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "读取分类失败", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	category, err := h.CategoryService.CreateCategory(req.Name, req.SortOrder)
	if err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "创建分类失败")
		return
	}
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	category, err := h.CategoryService.UpdateCategory(id, req.Name, req.SortOrder)
	if err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "更新分类失败")
		return
	}
	response.Success(c, category)
}

// DeleteCategory 删除分类
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.CategoryService.DeleteCategory(id); err != nil {
		respondWithMappedError(c, err, categoryAdminErrorRules, response.CodeInternal, "删除分类失败")
		return
	}
	response.Success(c, nil)
}
