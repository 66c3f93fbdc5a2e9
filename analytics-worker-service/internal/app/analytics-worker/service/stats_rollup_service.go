package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
	"webshop/analytics-worker-service/internal/app/analytics-worker/repository"
	"webshop/pkg/metrics"
)

// StatsRollupService пересчитывает дневную статистику магазина
// Агрегирует события из MongoDB и сохраняет результат в Redis
type StatsRollupService struct {
	eventRepo repository.EventRepository
	statsRepo repository.StatsRepository
}

// NewStatsRollupService создает новый сервис пересчета статистики
func NewStatsRollupService(
	eventRepo repository.EventRepository,
	statsRepo repository.StatsRepository,
) *StatsRollupService {
	return &StatsRollupService{
		eventRepo: eventRepo,
		statsRepo: statsRepo,
	}
}

// RollupDailyStats пересчитывает статистику текущего дня
// ЛОГИКА:
// 1. Выбрать события заказов и отзывов с начала дня из MongoDB
// 2. Агрегировать: количество заказов, выручка, проданные товары, отзывы, средний рейтинг
// 3. Сохранить в Redis под ключом stats:daily:<YYYY-MM-DD> с TTL
func (s *StatsRollupService) RollupDailyStats(ctx context.Context) error {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	orderEvents, err := s.eventRepo.GetOrderEventsSince(ctx, startOfDay)
	if err != nil {
		metrics.WorkerStatsRollups.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to get order events: %w", err)
	}

	reviewEvents, err := s.eventRepo.GetReviewEventsSince(ctx, startOfDay)
	if err != nil {
		metrics.WorkerStatsRollups.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to get review events: %w", err)
	}

	stats := ComputeDailyStats(entity.DateKey(now), orderEvents, reviewEvents)

	if err := s.statsRepo.Save(ctx, stats); err != nil {
		metrics.WorkerStatsRollups.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to save daily stats: %w", err)
	}

	metrics.WorkerStatsRollups.WithLabelValues("success").Inc()

	log.Printf("Daily stats rollup for %s: %d orders, %.2f revenue, %d items, %d reviews (avg rating %.1f)",
		stats.Date, stats.OrdersCount, stats.Revenue, stats.ItemsSold, stats.ReviewsCount, stats.AverageRating)

	return nil
}

// GetDailyStats получает статистику за день из Redis
func (s *StatsRollupService) GetDailyStats(ctx context.Context, date string) (*entity.DailyStats, error) {
	return s.statsRepo.Get(ctx, date)
}

// GetRecentStats получает статистику за последние N дней
// Дни без статистики пропускаются
func (s *StatsRollupService) GetRecentStats(ctx context.Context, days int) ([]*entity.DailyStats, error) {
	now := time.Now()

	dates := make([]string, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, entity.DateKey(now.AddDate(0, 0, -i)))
	}

	byDate, err := s.statsRepo.GetMultiple(ctx, dates)
	if err != nil {
		return nil, err
	}

	// Сохраняем порядок от новых к старым
	result := make([]*entity.DailyStats, 0, len(byDate))
	for _, date := range dates {
		if stats, ok := byDate[date]; ok {
			result = append(result, stats)
		}
	}

	return result, nil
}

// ComputeDailyStats агрегирует события за день в статистику
// Средний рейтинг округляется до 1 знака, 0.0 при отсутствии отзывов
func ComputeDailyStats(date string, orders []entity.StoredOrderEvent, reviews []entity.StoredReviewEvent) *entity.DailyStats {
	stats := &entity.DailyStats{
		Date:      date,
		UpdatedAt: time.Now(),
	}

	for _, order := range orders {
		stats.OrdersCount++
		stats.Revenue += order.TotalAmount
		stats.ItemsSold += order.ItemsCount
	}

	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		stats.ReviewsCount = len(reviews)
		stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	return stats
}
