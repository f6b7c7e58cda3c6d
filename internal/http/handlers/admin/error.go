package admin

import (
	"errors"

	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			handlershared.RespondAppError(c, response.WrapError(rule.code, rule.msg, err))
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}
