package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon 优惠券
//
// Code 统一大写存储，查询按大小写不敏感匹配。折扣为 1-100 的
// 整数百分比；购买记录只保存使用时的折扣结果，后续修改或停用
// 不回溯影响已完成的购买。
type Coupon struct {
	ID              uint           `gorm:"primarykey" json:"id"`                   // 主键
	Code            string         `gorm:"uniqueIndex;not null" json:"code"`       // 优惠码（大写）
	DiscountPercent int            `gorm:"not null" json:"discount_percent"`       // 折扣百分比（1-100）
	IsActive        bool           `gorm:"not null;default:true" json:"is_active"` // 是否启用
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}
