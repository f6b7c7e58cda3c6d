package main

import (
	"fmt"

	"github.com/balneario-store/internal/config"
	"github.com/balneario-store/internal/constants"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Name: "游戏点卡", SortOrder: 30},
		{Name: "流媒体会员", SortOrder: 20},
		{Name: "软件授权", SortOrder: 10},
	}
	categoryIDs := map[string]uint{}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("name = ?", cat.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Name, err)
				continue
			}
			stdLog.Printf("Created category: %s", cat.Name)
			categoryIDs[cat.Name] = cat.ID
		} else {
			stdLog.Printf("Category already exists: %s", existing.Name)
			categoryIDs[existing.Name] = existing.ID
		}
	}

	// 添加商品
	products := []models.Product{
		{
			CategoryID:  categoryIDs["游戏点卡"],
			Name:        "100 元游戏点卡",
			Description: "充值后即时发放卡密",
			Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("95.00")),
			StockMode:   constants.StockModeFinite,
			IsActive:    true,
			SortOrder:   30,
		},
		{
			CategoryID:  categoryIDs["流媒体会员"],
			Name:        "流媒体月度会员",
			Description: "人工开通，下单后请留意通知",
			Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("29.90")),
			StockMode:   constants.StockModeInfinite,
			IsActive:    true,
			SortOrder:   20,
		},
		{
			CategoryID:  categoryIDs["软件授权"],
			Name:        "办公软件年度授权",
			Description: "授权码自动交付",
			Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("199.00")),
			StockMode:   constants.StockModeFinite,
			IsActive:    true,
			SortOrder:   10,
		},
	}
	for i := range products {
		product := &products[i]
		if product.CategoryID == 0 {
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ?", product.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Product already exists: %s", existing.Name)
			products[i] = existing
			continue
		}
		if err := models.DB.Create(product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Name, err)
			continue
		}
		stdLog.Printf("Created product: %s", product.Name)
	}

	// 为有限库存商品补充演示卡密
	for i := range products {
		product := &products[i]
		if product.ID == 0 || product.StockMode != constants.StockModeFinite {
			continue
		}
		var keyCount int64
		models.DB.Model(&models.ProductKey{}).Where("product_id = ?", product.ID).Count(&keyCount)
		if keyCount > 0 {
			continue
		}
		for j := 1; j <= 5; j++ {
			key := models.ProductKey{
				ProductID: product.ID,
				KeyValue:  fmt.Sprintf("DEMO-%d-%04d", product.ID, j),
				Status:    constants.ProductKeyStatusAvailable,
			}
			if err := models.DB.Create(&key).Error; err != nil {
				stdLog.Printf("Failed to create key for %s: %v", product.Name, err)
			}
		}
		models.DB.Model(&models.Product{}).Where("id = ?", product.ID).Update("stock_count", 5)
		stdLog.Printf("Seeded 5 keys for product: %s", product.Name)
	}

	// 添加演示优惠券
	coupons := []models.Coupon{
		{Code: "WELCOME10", DiscountPercent: 10, IsActive: true},
		{Code: "VIP50", DiscountPercent: 50, IsActive: true},
	}
	for _, coupon := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
			stdLog.Printf("Coupon already exists: %s", existing.Code)
			continue
		}
		if err := models.DB.Create(&coupon).Error; err != nil {
			stdLog.Printf("Failed to create coupon %s: %v", coupon.Code, err)
			continue
		}
		stdLog.Printf("Created coupon: %s", coupon.Code)
	}

	// 初始化店面设置
	settings := map[string]string{
		constants.SettingKeyPaymentMode: constants.PaymentModeInstant,
		constants.SettingKeyStoreNotice: "欢迎光临，演示数据由 seed 工具生成",
	}
	for key, value := range settings {
		var existing models.Setting
		if err := models.DB.Where("key = ?", key).First(&existing).Error; err == nil {
			stdLog.Printf("Setting already exists: %s", key)
			continue
		}
		if err := models.DB.Create(&models.Setting{Key: key, Value: value}).Error; err != nil {
			stdLog.Printf("Failed to create setting %s: %v", key, err)
			continue
		}
		stdLog.Printf("Created setting: %s", key)
	}

	stdLog.Printf("Seed completed")
}
