package handler

import (
	"errors"
	"net/http"

	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProductHandler обрабатывает HTTP запросы каталога товаров с использованием Gin
type ProductHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

// NewProductHandler создает новый обработчик каталога
func NewProductHandler(catalogService service.CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// List обрабатывает GET /products
// Публичный эндпоинт, список с рейтингами отдается из кеша
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalogService.GetAllProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// Get обрабатывает GET /products/{id}
// Публичный эндпоинт, рейтинг пересчитывается из отзывов
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Create обрабатывает POST /products
// Доступно только администратору
func (h *ProductHandler) Create(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update обрабатывает PATCH /products/{id}
// Частичное обновление, доступно только администратору
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete обрабатывает DELETE /products/{id}
// Удаляет товар вместе с позициями заказов, доступно только администратору
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product deleted successfully",
	})
}

// currentUserID извлекает ID пользователя из контекста Gin
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	return userID, ok
}

// currentUserRole извлекает роль пользователя из контекста Gin
func currentUserRole(c *gin.Context) entity.UserRole {
	value, exists := c.Get("role")
	if !exists {
		return ""
	}

	role, _ := value.(entity.UserRole)
	return role
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}
