package service

import "errors"

// 服务层业务错误，处理器按错误映射响应码。
var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNotAvailable  = errors.New("product not available")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNotEmpty     = errors.New("category has products")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponInvalid        = errors.New("coupon invalid")
	ErrOutOfStock           = errors.New("product out of stock")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrPurchaseCreateFailed = errors.New("purchase create failed")
	ErrInvalidTransition    = errors.New("purchase already finalized")
	ErrPaymentModeInvalid   = errors.New("payment mode invalid")
	ErrStockModeInvalid     = errors.New("stock mode invalid")
	ErrKeyImportInvalid     = errors.New("key import payload invalid")
	ErrKeyNotFound          = errors.New("product key not found")
	ErrSettingKeyInvalid    = errors.New("setting key invalid")
)
