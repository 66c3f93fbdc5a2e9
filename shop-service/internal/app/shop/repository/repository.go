package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review already exists for this product")
)

// StockError возвращается при нехватке товара на складе
// Несёт доступное количество для формирования ответа клиенту
type StockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type OrderRepository interface {
	// CreateWithStockDecrement атомарно списывает остатки и создает заказ в одной транзакции
	CreateWithStockDecrement(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByNumber(ctx context.Context, number string) (*entity.Order, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	GetByUserIDWithItems(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)
	GetAllPaginated(ctx context.Context, offset, limit int, search string) ([]entity.Order, int64, error)
	SummaryByUser(ctx context.Context, userID uuid.UUID) (*entity.OrderSummaryResponse, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Review, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Review, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetRatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
	GetAllRatings(ctx context.Context) ([]entity.ProductRating, error)
}

type AnalyticsRepository interface {
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CountReviews(ctx context.Context) (int64, error)
	TopSellingProducts(ctx context.Context, limit int) ([]entity.TopProduct, error)
	RecentOrders(ctx context.Context, limit int) ([]entity.Order, error)
	OrdersSince(ctx context.Context, since time.Time) (int64, float64, error)
}
