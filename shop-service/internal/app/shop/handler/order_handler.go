package handler

import (
	"errors"
	"net/http"
	"strconv"

	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrderHandler обрабатывает HTTP запросы для заказов с использованием Gin
type OrderHandler struct {
	orderService service.OrderServiceInterface
	validator    *validator.Validate
}

// NewOrderHandler создает новый обработчик заказов
func NewOrderHandler(orderService service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		validator:    validator.New(),
	}
}

// Create обрабатывает POST /orders
// Оформляет заказ с атомарным списанием остатков
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req entity.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		var stockErr *repository.StockError
		if errors.As(err, &stockErr) {
			// Сообщение несет доступное количество для клиента
			c.JSON(http.StatusConflict, gin.H{
				"error":   "Insufficient stock",
				"message": stockErr.Error(),
			})
			return
		}
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "One or more products not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// List обрабатывает GET /orders
// Получает все заказы текущего пользователя
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := h.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
		return
	}

	if orders == nil {
		orders = []entity.Order{}
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}

// ListDetailed обрабатывает GET /orders/detailed
// Получает заказы текущего пользователя с позициями и названиями товаров
func (h *OrderHandler) ListDetailed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, err := h.orderService.GetUserOrdersDetailed(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
		return
	}

	if orders == nil {
		orders = []entity.OrderResponse{}
	}

	c.JSON(http.StatusOK, entity.DetailedOrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}

// Summary обрабатывает GET /orders/summary
// Сводка по заказам текущего пользователя
func (h *OrderHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	summary, err := h.orderService.GetOrderSummary(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Get обрабатывает GET /orders/{id}
// Заказ доступен владельцу и администратору
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, userID, currentUserRole(c))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// AdminList обрабатывает GET /orders/admin/all
// Все заказы с пагинацией и поиском по номеру, доступно только администратору
func (h *OrderHandler) AdminList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	search := c.Query("search")

	response, err := h.orderService.ListAllOrders(c.Request.Context(), page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// AdminSearch обрабатывает GET /orders/admin/search/{order_id}
// Поиск заказа по читаемому номеру, доступно только администратору
func (h *OrderHandler) AdminSearch(c *gin.Context) {
	number := c.Param("order_id")
	if number == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order number required"})
		return
	}

	order, err := h.orderService.FindByNumber(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find order"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// AdminCustomerOrders обрабатывает GET /orders/admin/customer/{user_id}
// Заказы указанного пользователя, доступно только администратору
func (h *OrderHandler) AdminCustomerOrders(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	orders, err := h.orderService.GetCustomerOrders(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get customer orders"})
		return
	}

	if orders == nil {
		orders = []entity.Order{}
	}

	c.JSON(http.StatusOK, entity.OrderListResponse{
		Orders: orders,
		Total:  len(orders),
	})
}
