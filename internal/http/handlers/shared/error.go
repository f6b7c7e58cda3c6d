package shared

import (
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	RespondAppError(c, appErr)
}

// RespondAppError 输出已映射的业务错误。业务预期内的错误不落错误日志，
// 只随信封返回映射后的状态码与消息。
func RespondAppError(c *gin.Context, appErr *response.AppError) {
	if appErr == nil {
		return
	}
	response.Error(c, appErr.Code, appErr.Message)
}
