package admin

import (
	"github.com/balneario-store/internal/cache"
	"github.com/balneario-store/internal/constants"
	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

var settingAdminErrorRules = []mappedHandlerError{
	{target: service.ErrSettingKeyInvalid, code: response.CodeBadRequest, msg: "设置键无效"},
	{target: service.ErrPaymentModeInvalid, code: response.CodeBadRequest, msg: "支付模式无效"},
}

// settingUpdateRequest 设置更新请求体
type settingUpdateRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// GetSettings 读取店面设置
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.SettingService.StoreSettings()
	if err != nil {
		respondError(c, response.CodeInternal, "读取设置失败", err)
		return
	}
	response.Success(c, settings)
}

// UpdateSetting 更新店面设置并失效公开缓存
func (h *Handler) UpdateSetting(c *gin.Context) {
	var req settingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数无效", err)
		return
	}

	if err := h.SettingService.UpdateSetting(req.Key, req.Value); err != nil {
		respondWithMappedError(c, err, settingAdminErrorRules, response.CodeInternal, "更新设置失败")
		return
	}
	if err := cache.Del(c.Request.Context(), constants.CacheKeyStoreConfig); err != nil {
		handlershared.RequestLog(c).Warnw("invalidate store config cache failed", "error", err)
	}
	response.SuccessWithMsg(c, "设置已更新", nil)
}
