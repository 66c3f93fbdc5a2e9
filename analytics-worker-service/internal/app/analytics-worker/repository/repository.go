package repository

import (
	"context"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
)

// EventRepository интерфейс для хранения событий аналитики в MongoDB
type EventRepository interface {
	// SaveOrderEvent сохраняет событие заказа
	SaveOrderEvent(ctx context.Context, event *entity.OrderEvent) error

	// SaveReviewEvent сохраняет событие отзыва
	SaveReviewEvent(ctx context.Context, event *entity.ReviewEvent) error

	// GetOrderEventsSince получает события заказов начиная с указанного времени
	GetOrderEventsSince(ctx context.Context, since time.Time) ([]entity.StoredOrderEvent, error)

	// GetReviewEventsSince получает события отзывов начиная с указанного времени
	GetReviewEventsSince(ctx context.Context, since time.Time) ([]entity.StoredReviewEvent, error)
}

// StatsRepository интерфейс для работы с дневной статистикой в Redis
type StatsRepository interface {
	// Save сохраняет статистику за день с TTL
	Save(ctx context.Context, stats *entity.DailyStats) error

	// Get получает статистику за день
	Get(ctx context.Context, date string) (*entity.DailyStats, error)

	// GetMultiple получает статистику за несколько дней
	GetMultiple(ctx context.Context, dates []string) (map[string]*entity.DailyStats, error)

	// Exists проверяет наличие статистики за день
	Exists(ctx context.Context, date string) (bool, error)
}
