package repository

import (
	"context"
	"testing"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StatsRepositoryTestSuite тестовый suite для Redis repository
type StatsRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      StatsRepository
}

func TestStatsRepositorySuite(t *testing.T) {
	suite.Run(t, new(StatsRepositoryTestSuite))
}

func (s *StatsRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewStatsRepository(s.client, 48*time.Hour)
}

func (s *StatsRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *StatsRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== Get Tests =====================

func (s *StatsRepositoryTestSuite) TestGet_Success() {
	ctx := context.Background()

	// Arrange - сначала сохраняем статистику
	stats := &entity.DailyStats{
		Date:          "2025-06-01",
		OrdersCount:   12,
		Revenue:       1499.90,
		ItemsSold:     31,
		ReviewsCount:  4,
		AverageRating: 4.3,
		UpdatedAt:     time.Now(),
	}
	err := s.repo.Save(ctx, stats)
	s.NoError(err)

	// Act
	result, err := s.repo.Get(ctx, "2025-06-01")

	// Assert
	s.NoError(err)
	s.NotNil(result)
	s.Equal("2025-06-01", result.Date)
	s.Equal(12, result.OrdersCount)
	s.Equal(1499.90, result.Revenue)
	s.Equal(31, result.ItemsSold)
	s.Equal(4.3, result.AverageRating)
}

func (s *StatsRepositoryTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	// Act
	result, err := s.repo.Get(ctx, "1999-01-01")

	// Assert
	s.Error(err)
	s.Nil(result)
	s.Contains(err.Error(), "not found")
}

// ===================== Save Tests =====================

func (s *StatsRepositoryTestSuite) TestSave_Overwrite() {
	ctx := context.Background()

	// Arrange - сохраняем первое значение
	first := &entity.DailyStats{Date: "2025-06-02", OrdersCount: 1, Revenue: 10.0}
	s.repo.Save(ctx, first)

	// Act - перезаписываем результатом следующего rollup
	second := &entity.DailyStats{Date: "2025-06-02", OrdersCount: 5, Revenue: 120.50}
	err := s.repo.Save(ctx, second)

	// Assert
	s.NoError(err)
	result, _ := s.repo.Get(ctx, "2025-06-02")
	s.Equal(5, result.OrdersCount)
	s.Equal(120.50, result.Revenue)
}

// ===================== GetMultiple Tests =====================

func (s *StatsRepositoryTestSuite) TestGetMultiple_Success() {
	ctx := context.Background()

	// Arrange
	days := []*entity.DailyStats{
		{Date: "2025-06-01", OrdersCount: 3, Revenue: 100.0},
		{Date: "2025-06-02", OrdersCount: 5, Revenue: 250.0},
		{Date: "2025-06-03", OrdersCount: 1, Revenue: 20.0},
	}
	for _, stats := range days {
		s.repo.Save(ctx, stats)
	}

	// Act
	result, err := s.repo.GetMultiple(ctx, []string{"2025-06-01", "2025-06-02", "2025-06-03"})

	// Assert
	s.NoError(err)
	s.Len(result, 3)
	s.Equal(3, result["2025-06-01"].OrdersCount)
	s.Equal(5, result["2025-06-02"].OrdersCount)
	s.Equal(20.0, result["2025-06-03"].Revenue)
}

func (s *StatsRepositoryTestSuite) TestGetMultiple_Partial() {
	ctx := context.Background()

	// Arrange - сохраняем только один день
	stats := &entity.DailyStats{Date: "2025-06-01", OrdersCount: 3}
	s.repo.Save(ctx, stats)

	// Act - запрашиваем два дня (второго не существует)
	result, err := s.repo.GetMultiple(ctx, []string{"2025-06-01", "2025-06-02"})

	// Assert
	s.NoError(err)
	s.Len(result, 1)
	s.Equal(3, result["2025-06-01"].OrdersCount)
	_, hasSecond := result["2025-06-02"]
	s.False(hasSecond)
}

func (s *StatsRepositoryTestSuite) TestGetMultiple_AllMissing() {
	ctx := context.Background()

	// Act
	result, err := s.repo.GetMultiple(ctx, []string{"1999-01-01", "1999-01-02"})

	// Assert
	s.NoError(err)
	s.Empty(result)
}

// ===================== Exists Tests =====================

func (s *StatsRepositoryTestSuite) TestExists_True() {
	ctx := context.Background()

	// Arrange
	stats := &entity.DailyStats{Date: "2025-06-01", OrdersCount: 1}
	s.repo.Save(ctx, stats)

	// Act
	exists, err := s.repo.Exists(ctx, "2025-06-01")

	// Assert
	s.NoError(err)
	s.True(exists)
}

func (s *StatsRepositoryTestSuite) TestExists_False() {
	ctx := context.Background()

	// Act
	exists, err := s.repo.Exists(ctx, "1999-01-01")

	// Assert
	s.NoError(err)
	s.False(exists)
}

// ===================== TTL Tests =====================

func (s *StatsRepositoryTestSuite) TestTTL_Expiration() {
	// Создаём repository с очень коротким TTL
	shortTTLRepo := NewStatsRepository(s.client, 1*time.Second)
	ctx := context.Background()

	stats := &entity.DailyStats{Date: "2025-06-01", OrdersCount: 1}
	err := shortTTLRepo.Save(ctx, stats)
	assert.NoError(s.T(), err)

	// Проверяем что сохранилось
	result, err := shortTTLRepo.Get(ctx, "2025-06-01")
	assert.NoError(s.T(), err)
	assert.NotNil(s.T(), result)

	// Ждём истечения TTL (miniredis поддерживает FastForward)
	s.miniRedis.FastForward(2 * time.Second)

	// Проверяем что истекло
	result, err = shortTTLRepo.Get(ctx, "2025-06-01")
	assert.Error(s.T(), err)
	assert.Nil(s.T(), result)
}

// ===================== Redis Key Format Tests =====================

func (s *StatsRepositoryTestSuite) TestRedisKeyFormat() {
	ctx := context.Background()

	stats := &entity.DailyStats{Date: "2025-06-15", OrdersCount: 2}
	s.repo.Save(ctx, stats)

	// Проверяем что ключ имеет правильный формат: stats:daily:2025-06-15
	keys, err := s.client.Keys(ctx, "stats:daily:*").Result()
	s.NoError(err)
	s.Contains(keys, "stats:daily:2025-06-15")
}
