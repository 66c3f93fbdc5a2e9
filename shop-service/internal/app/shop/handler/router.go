package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webshop/pkg/logger"
	"webshop/pkg/metrics"
)

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(
	productHandler *ProductHandler,
	orderHandler *OrderHandler,
	reviewHandler *ReviewHandler,
	analyticsHandler *AnalyticsHandler,
	uploadHandler *UploadHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("shop-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "shop-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Каталог: чтение публичное, изменение только администратору
	products := router.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.Get)

		admin := products.Group("")
		admin.Use(authMiddleware.Authenticate())
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("", productHandler.Create)
			admin.PATCH("/:id", productHandler.Update)
			admin.DELETE("/:id", productHandler.Delete)
		}
	}

	// Заказы - все эндпоинты требуют аутентификации
	orders := router.Group("/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("", orderHandler.Create)
		orders.GET("", orderHandler.List)
		orders.GET("/detailed", orderHandler.ListDetailed)
		orders.GET("/summary", orderHandler.Summary)
		orders.GET("/:id", orderHandler.Get)

		// Администраторские эндпоинты
		admin := orders.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.GET("/all", orderHandler.AdminList)
			admin.GET("/search/:order_id", orderHandler.AdminSearch)
			admin.GET("/customer/:user_id", orderHandler.AdminCustomerOrders)
		}
	}

	// Отзывы: чтение по товару публичное, остальное требует аутентификации
	reviews := router.Group("/reviews")
	{
		reviews.GET("/product/:product_id", reviewHandler.ListByProduct)

		protected := reviews.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.POST("", reviewHandler.Create)
			protected.GET("/user/me", reviewHandler.ListMine)
			protected.PATCH("/:id", reviewHandler.Update)
			protected.DELETE("/:id", reviewHandler.Delete)
		}
	}

	// Аналитика - только для администраторов
	analytics := router.Group("/analytics")
	analytics.Use(authMiddleware.Authenticate())
	analytics.Use(authMiddleware.RequireAdmin())
	{
		analytics.GET("/overview", analyticsHandler.Overview)
		analytics.GET("/orders", analyticsHandler.Orders)
	}

	// Загрузка изображений: загрузка администратору, раздача публичная
	upload := router.Group("/upload")
	{
		upload.GET("/uploads/:filename", uploadHandler.ServeImage)

		admin := upload.Group("")
		admin.Use(authMiddleware.Authenticate())
		admin.Use(authMiddleware.RequireAdmin())
		{
			admin.POST("/image", uploadHandler.UploadImage)
		}
	}

	return router
}
