package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"webshop/auth-service/internal/app/auth/entity"
	"webshop/auth-service/internal/app/auth/service"
)

// CustomerHandler отдает список покупателей администратору и shop-service
type CustomerHandler struct {
	customerService service.CustomerServiceInterface
}

func NewCustomerHandler(customerService service.CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// List обрабатывает GET /customers?page=&page_size=
func (h *CustomerHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.customerService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to list customers",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetByID обрабатывает GET /customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "Invalid customer ID",
		})
		return
	}

	user, err := h.customerService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Not Found",
				"message": "Customer not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to get customer",
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Count обрабатывает GET /customers/count
func (h *CustomerHandler) Count(c *gin.Context) {
	count, err := h.customerService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "Failed to count customers",
		})
		return
	}

	c.JSON(http.StatusOK, entity.CustomerCountResponse{Count: count})
}
