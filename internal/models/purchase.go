package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase 购买记录表
//
// 商品名称、图片、单价为下单时刻的快照，商品之后被编辑或删除
// 不影响历史记录的展示。KeyValue 在发货前为空；无限库存商品
// 写入 constants.ManualDeliveryMarker 表示需人工开票交付。
// 状态机 pending -> {approved, rejected}，终态不可再变更。
type Purchase struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	PurchaseNo   string         `gorm:"uniqueIndex;not null" json:"purchase_no"`                  // 购买编号
	UserID       uint           `gorm:"index;not null" json:"user_id"`                            // 买家ID（外部身份服务）
	UserEmail    string         `gorm:"index" json:"user_email"`                                  // 买家邮箱快照
	UserName     string         `json:"user_name"`                                                // 买家名称快照
	ProductID    uint           `gorm:"index;not null" json:"product_id"`                         // 商品ID
	ProductName  string         `gorm:"not null" json:"product_name"`                             // 商品名称快照
	ProductPhoto string         `gorm:"type:text" json:"product_photo"`                           // 商品图片快照
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`  // 下单时单价
	AmountPaid   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount_paid"` // 实付金额（折后）
	PaymentMode  string         `gorm:"type:varchar(20);not null" json:"payment_mode"`            // 支付模式
	CouponCode   *string        `gorm:"index" json:"coupon_code,omitempty"`                       // 使用的优惠码
	KeyValue     *string        `gorm:"type:text" json:"key_value,omitempty"`                     // 已交付卡密
	Status       string         `gorm:"index;not null" json:"status"`                             // 状态（pending/approved/rejected）
	ApprovedAt   *time.Time     `gorm:"index" json:"approved_at"`                                 // 批准时间
	RejectedAt   *time.Time     `gorm:"index" json:"rejected_at"`                                 // 拒绝时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (Purchase) TableName() string {
	return "purchases"
}
