package public

import (
	"strconv"
	"time"

	"github.com/balneario-store/internal/cache"
	"github.com/balneario-store/internal/constants"
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

const storeConfigCacheTTL = time.Minute

// GetStoreConfig 店面设置（支付模式、收款信息、公告）
func (h *Handler) GetStoreConfig(c *gin.Context) {
	var cached map[string]string
	if hit, err := cache.GetJSON(c.Request.Context(), constants.CacheKeyStoreConfig, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	settings, err := h.SettingService.StoreSettings()
	if err != nil {
		respondError(c, response.CodeInternal, "读取店面设置失败", err)
		return
	}
	if err := cache.SetJSON(c.Request.Context(), constants.CacheKeyStoreConfig, settings, storeConfigCacheTTL); err != nil {
		handlershared.RequestLog(c).Warnw("cache store config failed", "error", err)
	}
	response.Success(c, settings)
}

// GetCategories 分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "读取分类失败", err)
		return
	}
	response.Success(c, categories)
}

// GetProducts 商品列表（仅上架商品，库存为实时值）
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.QueryPagination(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	search := c.Query("search")

	products, total, err := h.ProductService.ListPublic(uint(categoryID), search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "读取商品失败", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return
	}

	product, err := h.ProductService.GetPublic(id)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
		}, response.CodeInternal, "读取商品失败")
		return
	}
	response.Success(c, product)
}
