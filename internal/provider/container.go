package provider

import (
	"github.com/balneario-store/internal/cache"
	"github.com/balneario-store/internal/config"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/models"
	"github.com/balneario-store/internal/queue"
	"github.com/balneario-store/internal/repository"
	"github.com/balneario-store/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	CategoryRepo   repository.CategoryRepository
	ProductRepo    repository.ProductRepository
	ProductKeyRepo repository.ProductKeyRepository
	CouponRepo     repository.CouponRepository
	PurchaseRepo   repository.PurchaseRepository
	SettingRepo    repository.SettingRepository

	// Services
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CouponService       *service.CouponService
	InventoryService    *service.InventoryService
	SettingService      *service.SettingService
	NotificationService *service.NotificationService
	FulfillmentService  *service.FulfillmentService
	PurchaseService     *service.PurchaseService
}

// NewContainer 构建依赖容器
func NewContainer(cfg *config.Config, queueClient *queue.Client) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("init redis failed, cache disabled", "error", err)
	}

	db := models.DB

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	keyRepo := repository.NewProductKeyRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	categoryService := service.NewCategoryService(categoryRepo)
	productService := service.NewProductService(productRepo, categoryRepo, keyRepo)
	couponService := service.NewCouponService(couponRepo)
	inventoryService := service.NewInventoryService(productRepo, keyRepo)
	settingService := service.NewSettingService(settingRepo)
	notificationService := service.NewNotificationService(purchaseRepo, queueClient, cfg.Webhook)
	fulfillmentService := service.NewFulfillmentService(productRepo, purchaseRepo, keyRepo, couponService, settingService, inventoryService, notificationService)
	purchaseService := service.NewPurchaseService(purchaseRepo, productRepo, keyRepo, inventoryService, notificationService)

	return &Container{
		Config:      cfg,
		QueueClient: queueClient,

		CategoryRepo:   categoryRepo,
		ProductRepo:    productRepo,
		ProductKeyRepo: keyRepo,
		CouponRepo:     couponRepo,
		PurchaseRepo:   purchaseRepo,
		SettingRepo:    settingRepo,

		CategoryService:     categoryService,
		ProductService:      productService,
		CouponService:       couponService,
		InventoryService:    inventoryService,
		SettingService:      settingService,
		NotificationService: notificationService,
		FulfillmentService:  fulfillmentService,
		PurchaseService:     purchaseService,
	}
}
