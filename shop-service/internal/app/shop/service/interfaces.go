package service

import (
	"context"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*entity.ProductWithRating, error)
	GetAllProducts(ctx context.Context) ([]entity.ProductWithRating, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *entity.CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID, userID uuid.UUID, role entity.UserRole) (*entity.Order, error)
	GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	GetUserOrdersDetailed(ctx context.Context, userID uuid.UUID) ([]entity.OrderResponse, error)
	GetOrderSummary(ctx context.Context, userID uuid.UUID) (*entity.OrderSummaryResponse, error)
	ListAllOrders(ctx context.Context, page, pageSize int, search string) (*entity.AdminOrderListResponse, error)
	FindByNumber(ctx context.Context, number string) (*entity.Order, error)
	GetCustomerOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
}

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetProductReviews(ctx context.Context, productID uuid.UUID) (*entity.ProductReviewsResponse, error)
	GetUserReviews(ctx context.Context, userID uuid.UUID) ([]entity.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, role entity.UserRole) error
}

type AnalyticsServiceInterface interface {
	Overview(ctx context.Context, authToken string) (*entity.AnalyticsOverviewResponse, error)
	OrdersAnalytics(ctx context.Context) (*entity.OrdersAnalyticsResponse, error)
}
