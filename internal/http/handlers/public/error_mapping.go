package public

import (
	"errors"

	handlershared "github.com/balneario-store/internal/http/handlers/shared"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
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

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, msg: "商品已下架"},
	{target: service.ErrCouponNotFound, code: response.CodeBadRequest, msg: "优惠码不存在或已停用"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "优惠码无效"},
	{target: service.ErrOutOfStock, code: response.CodeBadRequest, msg: "商品库存不足"},
	{target: service.ErrPurchaseCreateFailed, code: response.CodeInternal, msg: "下单失败，请稍后重试"},
}

var purchaseQueryErrorRules = []mappedHandlerError{
	{target: service.ErrPurchaseNotFound, code: response.CodeNotFound, msg: "购买记录不存在"},
}

var couponResolveErrorRules = []mappedHandlerError{
	{target: service.ErrCouponNotFound, code: response.CodeNotFound, msg: "优惠码不存在或已停用"},
	{target: service.ErrCouponInvalid, code: response.CodeBadRequest, msg: "优惠码无效"},
	{target: service.ErrProductNotFound, code: response.CodeNotFound, msg: "商品不存在或已下架"},
}
