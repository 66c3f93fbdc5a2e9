package service

import (
	"context"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
)

// EventProcessingServiceInterface определяет интерфейс для обработки событий из Kafka
type EventProcessingServiceInterface interface {
	// ProcessOrderEvent обрабатывает событие заказа
	ProcessOrderEvent(ctx context.Context, event *entity.OrderEvent) error
	// ProcessReviewEvent обрабатывает событие отзыва
	ProcessReviewEvent(ctx context.Context, event *entity.ReviewEvent) error
}

// StatsRollupServiceInterface определяет интерфейс для пересчета дневной статистики
type StatsRollupServiceInterface interface {
	// RollupDailyStats пересчитывает статистику текущего дня и сохраняет в Redis
	RollupDailyStats(ctx context.Context) error
	// GetDailyStats получает статистику за день
	GetDailyStats(ctx context.Context, date string) (*entity.DailyStats, error)
	// GetRecentStats получает статистику за последние N дней
	GetRecentStats(ctx context.Context, days int) ([]*entity.DailyStats, error)
}
