package handler

import (
	"net/http"

	"webshop/shop-service/internal/app/shop/service"

	"github.com/gin-gonic/gin"
)

// AnalyticsHandler обрабатывает HTTP запросы аналитики с использованием Gin
// Все эндпоинты доступны только администратору
type AnalyticsHandler struct {
	analyticsService service.AnalyticsServiceInterface
}

// NewAnalyticsHandler создает новый обработчик аналитики
func NewAnalyticsHandler(analyticsService service.AnalyticsServiceInterface) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Overview обрабатывает GET /analytics/overview
// Общая сводка магазина: товары, заказы, выручка, покупатели, отзывы
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	// Токен администратора пробрасывается в Auth Service
	authToken := c.GetString("auth_token")

	overview, err := h.analyticsService.Overview(c.Request.Context(), authToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analytics overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Orders обрабатывает GET /analytics/orders
// Статистика заказов за сегодня и за все время
func (h *AnalyticsHandler) Orders(c *gin.Context) {
	analytics, err := h.analyticsService.OrdersAnalytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics)
}
