package constants

// 购买记录状态常量（pending 为初始态，approved/rejected 为终态）
const (
	PurchaseStatusPending  = "pending"
	PurchaseStatusApproved = "approved"
	PurchaseStatusRejected = "rejected"
)

// 支付模式常量
//
// instant 下单即自动发货；manual_verify 为转账后人工核款；
// manual_review 为人工审核后发货。两种 manual 模式均走后台审批流程。
const (
	PaymentModeInstant      = "instant"
	PaymentModeManualVerify = "manual_verify"
	PaymentModeManualReview = "manual_review"
)

// 库存模式常量
const (
	StockModeFinite   = "finite"
	StockModeInfinite = "infinite"
)

// 卡密状态常量
const (
	ProductKeyStatusAvailable = "available"
	ProductKeyStatusClaimed   = "claimed"
)

// ManualDeliveryMarker 无限库存订单的发货占位值，表示需人工开票交付
const ManualDeliveryMarker = "__manual_delivery__"

// 站点设置键
const (
	SettingKeyPaymentMode = "payment_mode"
	SettingKeyPixKey      = "pix_key"
	SettingKeyQRCodeURL   = "qr_code_url"
	SettingKeyStoreNotice = "store_notice"
)

// CacheKeyStoreConfig 公开店面设置的缓存键，读写与失效两侧必须一致
const CacheKeyStoreConfig = "store:config"

// 队列名称
const (
	QueueDefault = "default"
)

// 异步任务类型
const (
	TaskNotificationDispatch = "notification:dispatch"
)

// 通知事件类型
const (
	NotificationEventPurchaseCreated  = "purchase_created"
	NotificationEventPurchaseApproved = "purchase_approved"
	NotificationEventPurchaseRejected = "purchase_rejected"
)

// 通知频道
const (
	NotificationChannelPurchase = "purchase"
	NotificationChannelGeneral  = "general"
)

// ValidPaymentMode 校验支付模式取值
func ValidPaymentMode(mode string) bool {
	switch mode {
	case PaymentModeInstant, PaymentModeManualVerify, PaymentModeManualReview:
		return true
	}
	return false
}

// ValidStockMode 校验库存模式取值
func ValidStockMode(mode string) bool {
	return mode == StockModeFinite || mode == StockModeInfinite
}
