package entity

import (
	"time"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=500"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=500"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Feedback  string    `json:"feedback" validate:"omitempty,max=1000"`
}

type UpdateReviewRequest struct {
	Rating   int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=1000"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []ProductWithRating `json:"products"`
	Total    int                 `json:"total"`
}

type OrderResponse struct {
	ID          uuid.UUID      `json:"id"`
	OrderID     string         `json:"order_id"`
	UserID      uuid.UUID      `json:"user_id"`
	TotalAmount float64        `json:"total_amount"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []ItemResponse `json:"items"`
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}

type DetailedOrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type AdminOrderListResponse struct {
	Orders   []Order `json:"orders"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type OrderSummaryResponse struct {
	TotalOrders       int64      `json:"total_orders"`
	TotalSpent        float64    `json:"total_spent"`
	AverageOrderValue float64    `json:"average_order_value"`
	LastOrderDate     *time.Time `json:"last_order_date"`
}

type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

type ProductReviewsResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	Reviews       []Review  `json:"reviews"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}

type RecentOrderResponse struct {
	Order
	UserEmail string `json:"user_email,omitempty"`
}

type AnalyticsOverviewResponse struct {
	TotalProducts  int64                 `json:"total_products"`
	TotalOrders    int64                 `json:"total_orders"`
	TotalCustomers int64                 `json:"total_customers"`
	TotalRevenue   float64               `json:"total_revenue"`
	TotalReviews   int64                 `json:"total_reviews"`
	AverageRating  float64               `json:"average_rating"`
	TopProducts    []TopProduct          `json:"top_products"`
	RecentOrders   []RecentOrderResponse `json:"recent_orders"`
}

type OrdersAnalyticsResponse struct {
	OrdersToday       int64   `json:"orders_today"`
	RevenueToday      float64 `json:"revenue_today"`
	TotalOrders       int64   `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
}

type UploadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}
