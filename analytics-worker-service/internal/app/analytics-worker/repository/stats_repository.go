package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"

	"github.com/redis/go-redis/v9"
)

// statsRepository реализует StatsRepository для работы с Redis
type statsRepository struct {
	client *redis.Client
	ttl    time.Duration // TTL для дневной статистики
}

// NewStatsRepository создает новый репозиторий дневной статистики
func NewStatsRepository(client *redis.Client, ttl time.Duration) StatsRepository {
	return &statsRepository{
		client: client,
		ttl:    ttl,
	}
}

// Save сохраняет статистику за день в Redis с TTL
func (r *statsRepository) Save(ctx context.Context, stats *entity.DailyStats) error {
	key := entity.GetRedisKeyForDay(stats.Date)

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal daily stats: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set daily stats in redis: %w", err)
	}

	return nil
}

// Get получает статистику за день из Redis
func (r *statsRepository) Get(ctx context.Context, date string) (*entity.DailyStats, error) {
	key := entity.GetRedisKeyForDay(date)

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("daily stats for %s not found", date)
		}
		return nil, fmt.Errorf("failed to get daily stats from redis: %w", err)
	}

	var stats entity.DailyStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal daily stats: %w", err)
	}

	return &stats, nil
}

// GetMultiple получает статистику за несколько дней
func (r *statsRepository) GetMultiple(ctx context.Context, dates []string) (map[string]*entity.DailyStats, error) {
	// Используем Pipeline для батчевого получения
	pipe := r.client.Pipeline()

	cmds := make(map[string]*redis.StringCmd)
	for _, date := range dates {
		key := entity.GetRedisKeyForDay(date)
		cmds[date] = pipe.Get(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get multiple daily stats: %w", err)
	}

	result := make(map[string]*entity.DailyStats)
	for date, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Статистики за этот день нет - пропускаем
				continue
			}
			return nil, fmt.Errorf("failed to get stats for %s: %w", date, err)
		}

		var stats entity.DailyStats
		if err := json.Unmarshal([]byte(data), &stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats for %s: %w", date, err)
		}

		result[date] = &stats
	}

	return result, nil
}

// Exists проверяет наличие статистики за день
func (r *statsRepository) Exists(ctx context.Context, date string) (bool, error) {
	key := entity.GetRedisKeyForDay(date)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}

	return exists > 0, nil
}
