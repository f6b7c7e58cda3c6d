package router

import (
	"fmt"
	"strings"

	"github.com/balneario-store/internal/cache"
	"github.com/balneario-store/internal/config"
	adminhandlers "github.com/balneario-store/internal/http/handlers/admin"
	publichandlers "github.com/balneario-store/internal/http/handlers/public"
	"github.com/balneario-store/internal/http/response"
	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "bs"
	}
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Checkout.RateLimit.WindowSeconds,
		MaxRequests:   cfg.Checkout.RateLimit.MaxRequests,
		Message:       "下单过于频繁，请稍后重试",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", publicHandler.GetStoreConfig)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/coupons/:code", publicHandler.ResolveCoupon)
		}

		// 买家接口（需鉴权）
		buyer := apiV1.Group("")
		buyer.Use(BuyerJWTAuthMiddleware(cfg.Auth.BuyerSecret))
		{
			buyer.POST("/checkout", RateLimitMiddleware(cache.Client(), checkoutRule, KeyByUserID), publicHandler.Checkout)
			buyer.GET("/me/purchases", publicHandler.ListMyPurchases)
			buyer.GET("/me/purchases/:id", publicHandler.GetMyPurchase)
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		admin.Use(AdminJWTAuthMiddleware(cfg.Auth.AdminSecret))
		{
			admin.GET("/purchases", adminHandler.ListPurchases)
			admin.GET("/purchases/stats", adminHandler.PurchaseStats)
			admin.GET("/purchases/no/:purchase_no", adminHandler.GetPurchaseByNo)
			admin.GET("/purchases/:id", adminHandler.GetPurchase)
			admin.POST("/purchases/:id/approve", adminHandler.ApprovePurchase)
			admin.POST("/purchases/:id/reject", adminHandler.RejectPurchase)

			admin.GET("/products", adminHandler.ListProductsAdmin)
			admin.POST("/products", adminHandler.CreateProduct)
			admin.GET("/products/:id", adminHandler.GetProductAdmin)
			admin.PUT("/products/:id", adminHandler.UpdateProduct)
			admin.DELETE("/products/:id", adminHandler.DeleteProduct)

			admin.GET("/products/:id/keys", adminHandler.ListKeys)
			admin.POST("/products/:id/keys", adminHandler.ImportKeys)
			admin.DELETE("/products/:id/keys", adminHandler.DeleteKeys)
			admin.GET("/products/:id/keys/summary", adminHandler.KeyStockSummary)
			admin.POST("/stock/reconcile", adminHandler.ReconcileStock)

			admin.GET("/categories", adminHandler.ListCategoriesAdmin)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.PUT("/categories/:id", adminHandler.UpdateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)

			admin.GET("/coupons", adminHandler.ListCouponsAdmin)
			admin.POST("/coupons", adminHandler.CreateCoupon)
			admin.PUT("/coupons/:id", adminHandler.UpdateCoupon)
			admin.DELETE("/coupons/:id", adminHandler.DeleteCoupon)

			admin.GET("/settings", adminHandler.GetSettings)
			admin.PUT("/settings", adminHandler.UpdateSetting)
		}
	}

	// 健康检查
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	r.NoRoute(notFoundHandler)

	return r
}

// notFoundHandler 未注册路径走统一错误信封
func notFoundHandler(c *gin.Context) {
	response.NotFound(c, "接口不存在")
}
