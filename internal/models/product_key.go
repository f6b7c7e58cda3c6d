package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductKey 卡密库存表
//
// 状态只允许 available -> claimed 单向流转；ReleaseKey 仅用于
// 认领成功后购买记录落库失败时的补偿回滚，不属于正常流程。
type ProductKey struct {
	ID         uint           `gorm:"primarykey" json:"id"`                // 主键
	ProductID  uint           `gorm:"index;not null" json:"product_id"`    // 商品ID
	KeyValue   string         `gorm:"type:text;not null" json:"key_value"` // 卡密内容
	Status     string         `gorm:"index;not null" json:"status"`        // 状态（available/claimed）
	ClaimedBy  *uint          `gorm:"index" json:"claimed_by,omitempty"`   // 认领买家ID
	PurchaseID *uint          `gorm:"index" json:"purchase_id,omitempty"`  // 关联购买记录ID
	ClaimedAt  *time.Time     `gorm:"index" json:"claimed_at"`             // 认领时间
	ClaimToken *string        `gorm:"index" json:"-"`                      // 认领令牌（条件更新后回读本行用）
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`             // 创建时间
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`             // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                      // 软删除时间
}

// TableName 指定表名
func (ProductKey) TableName() string {
	return "product_keys"
}
