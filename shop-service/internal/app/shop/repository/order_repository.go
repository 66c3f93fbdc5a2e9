package repository

import (
	"context"
	"errors"
	"time"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// CreateWithStockDecrement атомарно создает заказ со списанием остатков
// Все списания и вставка заказа выполняются в одной транзакции:
// условный UPDATE не проходит при нехватке товара, и вся транзакция откатывается
func (r *orderRepository) CreateWithStockDecrement(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			result := tx.Exec(
				"UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?",
				item.Quantity, item.ProductID, item.Quantity,
			)
			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				// Списание не прошло: товара нет или остатка не хватает
				var available int
				row := tx.Raw("SELECT stock FROM products WHERE id = ?", item.ProductID).Row()
				if err := row.Scan(&available); err != nil {
					return ErrProductNotFound
				}
				return &StockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: available,
				}
			}
		}

		// Заказ и позиции вставляются вместе через ассоциацию
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		return nil
	})
}

// GetByID получает заказ по ID с позициями
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetByNumber получает заказ по читаемому номеру ORD-XXXXXXXX
func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*entity.Order, error) {
	var order entity.Order
	result := r.db.WithContext(ctx).Preload("Items").First(&order, "order_id = ?", number)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, result.Error
	}

	return &order, nil
}

// GetByUserID получает все заказы пользователя без позиций
func (r *orderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// GetByUserIDWithItems получает все заказы пользователя с позициями
func (r *orderRepository) GetByUserIDWithItems(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// GetAllPaginated получает все заказы с пагинацией и поиском по номеру
// Используется администратором
func (r *orderRepository) GetAllPaginated(ctx context.Context, offset, limit int, search string) ([]entity.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if search != "" {
		query = query.Where("order_id ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []entity.Order
	result := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders)

	if result.Error != nil {
		return nil, 0, result.Error
	}

	return orders, total, nil
}

// SummaryByUser собирает сводку по заказам пользователя одним запросом
func (r *orderRepository) SummaryByUser(ctx context.Context, userID uuid.UUID) (*entity.OrderSummaryResponse, error) {
	var row struct {
		TotalOrders   int64
		TotalSpent    float64
		LastOrderDate *time.Time
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Select("COUNT(*) AS total_orders, COALESCE(SUM(total_amount), 0) AS total_spent, MAX(created_at) AS last_order_date").
		Where("user_id = ?", userID).
		Scan(&row)

	if result.Error != nil {
		return nil, result.Error
	}

	summary := &entity.OrderSummaryResponse{
		TotalOrders:   row.TotalOrders,
		TotalSpent:    row.TotalSpent,
		LastOrderDate: row.LastOrderDate,
	}
	if row.TotalOrders > 0 {
		summary.AverageOrderValue = row.TotalSpent / float64(row.TotalOrders)
	}

	return summary, nil
}
