package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderService мок для OrderService в тестах handler
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *entity.CreateOrderRequest) (*entity.Order, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, role entity.UserRole) (*entity.Order, error) {
	args := m.Called(ctx, orderID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderService) GetUserOrdersDetailed(ctx context.Context, userID uuid.UUID) ([]entity.OrderResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetOrderSummary(ctx context.Context, userID uuid.UUID) (*entity.OrderSummaryResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OrderSummaryResponse), args.Error(1)
}

func (m *MockOrderService) ListAllOrders(ctx context.Context, page, pageSize int, search string) (*entity.AdminOrderListResponse, error) {
	args := m.Called(ctx, page, pageSize, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminOrderListResponse), args.Error(1)
}

func (m *MockOrderService) FindByNumber(ctx context.Context, number string) (*entity.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetCustomerOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// withUser эмулирует AuthMiddleware, проставляя пользователя в контекст Gin
func withUser(userID uuid.UUID, role entity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
	}
}

// ===================== Create Handler Tests =====================

func TestCreateOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	productID := uuid.New()
	orderID := uuid.New()

	order := &entity.Order{
		ID:          orderID,
		Number:      "ORD-A1B2C3D4",
		UserID:      userID,
		TotalAmount: 99.80,
		CreatedAt:   time.Now(),
		Items: []entity.OrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: 2, UnitPrice: 49.90},
		},
	}

	mockService := new(MockOrderService)
	mockService.On("PlaceOrder", mock.Anything, userID, mock.AnythingOfType("*entity.CreateOrderRequest")).Return(order, nil)

	handler := NewOrderHandler(mockService)
	router.POST("/orders", withUser(userID, entity.RoleCustomer), handler.Create)

	reqBody := entity.CreateOrderRequest{
		Items: []entity.OrderItemRequest{
			{ProductID: productID, Quantity: 2},
		},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.Order
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, orderID, response.ID)
	assert.Equal(t, "ORD-A1B2C3D4", response.Number)
	assert.Equal(t, 99.80, response.TotalAmount)
}

func TestCreateOrderHandler_InsufficientStock(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	productID := uuid.New()

	stockErr := &repository.StockError{
		ProductID: productID,
		Requested: 5,
		Available: 2,
	}

	mockService := new(MockOrderService)
	mockService.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(nil, stockErr)

	handler := NewOrderHandler(mockService)
	router.POST("/orders", withUser(userID, entity.RoleCustomer), handler.Create)

	reqBody := entity.CreateOrderRequest{
		Items: []entity.OrderItemRequest{
			{ProductID: productID, Quantity: 5},
		},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Insufficient stock", response["error"])
	// Сообщение несет доступное количество
	assert.Contains(t, response["message"], "requested 5, available 2")
}

func TestCreateOrderHandler_ProductNotFound(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("PlaceOrder", mock.Anything, userID, mock.Anything).Return(nil, service.ErrProductNotFound)

	handler := NewOrderHandler(mockService)
	router.POST("/orders", withUser(userID, entity.RoleCustomer), handler.Create)

	reqBody := entity.CreateOrderRequest{
		Items: []entity.OrderItemRequest{
			{ProductID: uuid.New(), Quantity: 1},
		},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderHandler_EmptyItems(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.POST("/orders", withUser(uuid.New(), entity.RoleCustomer), handler.Create)

	body, _ := json.Marshal(entity.CreateOrderRequest{Items: []entity.OrderItemRequest{}})

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderHandler_InvalidJSON(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.POST("/orders", withUser(uuid.New(), entity.RoleCustomer), handler.Create)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandler_Unauthorized(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	// user_id НЕ установлен в context
	router.POST("/orders", handler.Create)

	body, _ := json.Marshal(entity.CreateOrderRequest{
		Items: []entity.OrderItemRequest{{ProductID: uuid.New(), Quantity: 1}},
	})

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ===================== Get Handler Tests =====================

func TestGetOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	orderID := uuid.New()

	order := &entity.Order{
		ID:          orderID,
		Number:      "ORD-A1B2C3D4",
		UserID:      userID,
		TotalAmount: 100.0,
		CreatedAt:   time.Now(),
	}

	mockService := new(MockOrderService)
	mockService.On("GetOrder", mock.Anything, orderID, userID, entity.RoleCustomer).Return(order, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/:id", withUser(userID, entity.RoleCustomer), handler.Get)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Order
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, orderID, response.ID)
}

func TestGetOrderHandler_Forbidden(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("GetOrder", mock.Anything, orderID, userID, entity.RoleCustomer).Return(nil, service.ErrForbidden)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/:id", withUser(userID, entity.RoleCustomer), handler.Get)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("GetOrder", mock.Anything, orderID, userID, entity.RoleCustomer).Return(nil, service.ErrOrderNotFound)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/:id", withUser(userID, entity.RoleCustomer), handler.Get)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrderHandler_InvalidID(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	handler := NewOrderHandler(mockService)
	router.GET("/orders/:id", withUser(uuid.New(), entity.RoleCustomer), handler.Get)

	req, _ := http.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===================== List Handler Tests =====================

func TestListOrdersHandler_Empty(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("GetUserOrders", mock.Anything, userID).Return(nil, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders", withUser(userID, entity.RoleCustomer), handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.OrderListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 0, response.Total)
	assert.NotNil(t, response.Orders)
}

// ===================== Summary Handler Tests =====================

func TestOrderSummaryHandler_Success(t *testing.T) {
	router := setupTestRouter()

	userID := uuid.New()
	lastOrder := time.Now()

	summary := &entity.OrderSummaryResponse{
		TotalOrders:       4,
		TotalSpent:        200.0,
		AverageOrderValue: 50.0,
		LastOrderDate:     &lastOrder,
	}

	mockService := new(MockOrderService)
	mockService.On("GetOrderSummary", mock.Anything, userID).Return(summary, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/summary", withUser(userID, entity.RoleCustomer), handler.Summary)

	req, _ := http.NewRequest(http.MethodGet, "/orders/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.OrderSummaryResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(4), response.TotalOrders)
	assert.Equal(t, 50.0, response.AverageOrderValue)
}

// ===================== Admin Handler Tests =====================

func TestAdminListOrdersHandler_PaginationParams(t *testing.T) {
	router := setupTestRouter()

	response := &entity.AdminOrderListResponse{
		Orders:   []entity.Order{},
		Total:    0,
		Page:     2,
		PageSize: 10,
	}

	mockService := new(MockOrderService)
	mockService.On("ListAllOrders", mock.Anything, 2, 10, "ORD").Return(response, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/admin/all", withUser(uuid.New(), entity.RoleAdministrator), handler.AdminList)

	req, _ := http.NewRequest(http.MethodGet, "/orders/admin/all?page=2&page_size=10&search=ORD", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestAdminSearchOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	order := &entity.Order{ID: uuid.New(), Number: "ORD-ABCD1234", UserID: uuid.New()}

	mockService := new(MockOrderService)
	mockService.On("FindByNumber", mock.Anything, "ORD-ABCD1234").Return(order, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/admin/search/:order_id", withUser(uuid.New(), entity.RoleAdministrator), handler.AdminSearch)

	req, _ := http.NewRequest(http.MethodGet, "/orders/admin/search/ORD-ABCD1234", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Order
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ORD-ABCD1234", response.Number)
}

func TestAdminSearchOrderHandler_NotFound(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	mockService.On("FindByNumber", mock.Anything, "ORD-00000000").Return(nil, service.ErrOrderNotFound)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/admin/search/:order_id", withUser(uuid.New(), entity.RoleAdministrator), handler.AdminSearch)

	req, _ := http.NewRequest(http.MethodGet, "/orders/admin/search/ORD-00000000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCustomerOrdersHandler_Success(t *testing.T) {
	router := setupTestRouter()

	customerID := uuid.New()
	orders := []entity.Order{
		{ID: uuid.New(), Number: "ORD-AAAA1111", UserID: customerID},
	}

	mockService := new(MockOrderService)
	mockService.On("GetCustomerOrders", mock.Anything, customerID).Return(orders, nil)

	handler := NewOrderHandler(mockService)
	router.GET("/orders/admin/customer/:user_id", withUser(uuid.New(), entity.RoleAdministrator), handler.AdminCustomerOrders)

	req, _ := http.NewRequest(http.MethodGet, "/orders/admin/customer/"+customerID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.OrderListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, response.Total)
}
