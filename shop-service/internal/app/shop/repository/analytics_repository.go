package repository

import (
	"context"
	"time"

	"webshop/shop-service/internal/app/shop/entity"

	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewAnalyticsRepository создает новый репозиторий аналитики
// Агрегаты считаются сырыми SQL запросами поверх таблиц заказов и отзывов
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// CountOrders возвращает общее количество заказов
func (r *analyticsRepository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count)
	return count, result.Error
}

// TotalRevenue возвращает суммарную выручку по всем заказам
func (r *analyticsRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	result := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(total_amount), 0) FROM orders").
		Scan(&revenue)
	return revenue, result.Error
}

// CountReviews возвращает общее количество отзывов
func (r *analyticsRepository) CountReviews(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Review{}).Count(&count)
	return count, result.Error
}

// TopSellingProducts возвращает товары с наибольшим количеством продаж
func (r *analyticsRepository) TopSellingProducts(ctx context.Context, limit int) ([]entity.TopProduct, error) {
	var products []entity.TopProduct
	result := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id,
		       p.name,
		       SUM(oi.quantity) AS total_quantity,
		       SUM(oi.quantity * oi.unit_price) AS total_revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name
		ORDER BY total_quantity DESC
		LIMIT ?`, limit).
		Scan(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// RecentOrders возвращает последние заказы
func (r *analyticsRepository) RecentOrders(ctx context.Context, limit int) ([]entity.Order, error) {
	var orders []entity.Order
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders)

	if result.Error != nil {
		return nil, result.Error
	}

	return orders, nil
}

// OrdersSince возвращает количество заказов и выручку начиная с указанного момента
func (r *analyticsRepository) OrdersSince(ctx context.Context, since time.Time) (int64, float64, error) {
	var row struct {
		Count   int64
		Revenue float64
	}

	result := r.db.WithContext(ctx).
		Raw("SELECT COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS revenue FROM orders WHERE created_at >= ?", since).
		Scan(&row)

	if result.Error != nil {
		return 0, 0, result.Error
	}

	return row.Count, row.Revenue, nil
}
