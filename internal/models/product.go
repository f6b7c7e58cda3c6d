package models

import (
	"time"

	"github.com/balneario-store/internal/constants"

	"gorm.io/gorm"
)

// Product 商品表
//
// StockMode 在数据边界上显式区分有限/无限库存，下游不再从
// 字符串哨兵值推断。StockCount 仅对有限库存有意义，是按卡密
// 表重算后的读缓存，卡密记录才是库存的权威来源。
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID  uint           `gorm:"not null;index" json:"category_id"`                  // 分类ID
	Name        string         `gorm:"not null" json:"name"`                               // 商品名称
	Description string         `gorm:"type:text" json:"description"`                       // 商品描述
	PhotoURL    string         `gorm:"type:text" json:"photo_url"`                         // 商品图片
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	StockMode   string         `gorm:"type:varchar(20);not null;index" json:"stock_mode"`  // 库存模式（finite/infinite）
	StockCount  int            `gorm:"not null;default:0" json:"stock_count"`              // 可用库存缓存（仅 finite）
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// FiniteStock 是否为有限库存商品
func (p *Product) FiniteStock() bool {
	return p != nil && p.StockMode == constants.StockModeFinite
}
