package models

import (
	"time"
)

// Setting 站点设置表（键值对）
type Setting struct {
	ID        uint      `gorm:"primarykey" json:"id"`            // 主键
	Key       string    `gorm:"uniqueIndex;not null" json:"key"` // 设置键
	Value     string    `gorm:"type:text" json:"value"`          // 设置值
	CreatedAt time.Time `json:"created_at"`                      // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                      // 更新时间
}

// TableName 指定表名
func (Setting) TableName() string {
	return "settings"
}
