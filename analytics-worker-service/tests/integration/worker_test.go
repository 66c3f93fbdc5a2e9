//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"
	"webshop/analytics-worker-service/internal/app/analytics-worker/repository"
	"webshop/analytics-worker-service/internal/app/analytics-worker/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AnalyticsWorkerIntegrationTestSuite тестовый suite
type AnalyticsWorkerIntegrationTestSuite struct {
	suite.Suite
	mongoClient   *mongo.Client
	db            *mongo.Database
	redisClient   *redis.Client
	eventRepo     repository.EventRepository
	statsRepo     repository.StatsRepository
	eventService  *service.EventProcessingService
	rollupService *service.StatsRollupService
}

func TestAnalyticsWorkerIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsWorkerIntegrationTestSuite))
}

func (s *AnalyticsWorkerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	// MongoDB
	mongoURI := getEnv("TEST_MONGO_URI", "mongodb://localhost:27018")

	var err error
	s.mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(s.T(), err, "Failed to connect to MongoDB")
	require.NoError(s.T(), s.mongoClient.Ping(ctx, nil), "Failed to ping MongoDB")

	s.db = s.mongoClient.Database("analytics_test_db")

	// Redis
	redisAddr := getEnv("TEST_REDIS_ADDR", "localhost:6380")
	s.redisClient = redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	_, err = s.redisClient.Ping(ctx).Result()
	require.NoError(s.T(), err, "Failed to connect to Redis")

	// Repositories
	s.eventRepo = repository.NewEventRepository(s.db)
	s.statsRepo = repository.NewStatsRepository(s.redisClient, 48*time.Hour)

	// Services
	s.eventService = service.NewEventProcessingService(s.eventRepo)
	s.rollupService = service.NewStatsRollupService(s.eventRepo, s.statsRepo)
}

func (s *AnalyticsWorkerIntegrationTestSuite) SetupTest() {
	ctx := context.Background()

	// Очистка MongoDB
	s.db.Collection("order_events").DeleteMany(ctx, bson.M{})
	s.db.Collection("review_events").DeleteMany(ctx, bson.M{})

	// Очистка Redis
	s.redisClient.FlushDB(ctx)
}

func (s *AnalyticsWorkerIntegrationTestSuite) TearDownSuite() {
	ctx := context.Background()

	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.mongoClient != nil {
		s.mongoClient.Disconnect(ctx)
	}
}

// ===================== Integration Tests =====================

func (s *AnalyticsWorkerIntegrationTestSuite) TestOrderEvent_Persisted() {
	ctx := context.Background()

	userID := uuid.New()
	event := &entity.OrderEvent{
		EventType:   entity.EventTypeOrderCreated,
		OrderID:     "ORD-DEADBEEF",
		UserID:      userID,
		TotalAmount: 149.70,
		ItemsCount:  3,
		Timestamp:   time.Now(),
	}

	// Act
	err := s.eventService.ProcessOrderEvent(ctx, event)
	s.NoError(err)

	// Assert - событие сохранено в MongoDB
	events, err := s.eventRepo.GetOrderEventsSince(ctx, time.Now().Add(-time.Minute))
	s.NoError(err)
	s.Require().Len(events, 1)
	s.Equal("ORD-DEADBEEF", events[0].OrderID)
	s.Equal(userID.String(), events[0].UserID)
	s.InDelta(149.70, events[0].TotalAmount, 0.001)
	s.Equal(3, events[0].ItemsCount)
	s.False(events[0].ReceivedAt.IsZero())
}

func (s *AnalyticsWorkerIntegrationTestSuite) TestReviewEvent_Persisted() {
	ctx := context.Background()

	productID := uuid.New()
	event := &entity.ReviewEvent{
		EventType: entity.EventTypeReviewCreated,
		ReviewID:  uuid.New(),
		ProductID: productID,
		UserID:    uuid.New(),
		Rating:    4,
		Timestamp: time.Now(),
	}

	// Act
	err := s.eventService.ProcessReviewEvent(ctx, event)
	s.NoError(err)

	// Assert
	events, err := s.eventRepo.GetReviewEventsSince(ctx, time.Now().Add(-time.Minute))
	s.NoError(err)
	s.Require().Len(events, 1)
	s.Equal(productID.String(), events[0].ProductID)
	s.Equal(4, events[0].Rating)
}

func (s *AnalyticsWorkerIntegrationTestSuite) TestRollup_FullCycle() {
	ctx := context.Background()

	// 1. Сохраняем события текущего дня
	for _, amount := range []float64{100.0, 50.0} {
		event := &entity.OrderEvent{
			EventType:   entity.EventTypeOrderCreated,
			OrderID:     "ORD-" + uuid.New().String()[:8],
			UserID:      uuid.New(),
			TotalAmount: amount,
			ItemsCount:  2,
			Timestamp:   time.Now(),
		}
		s.Require().NoError(s.eventService.ProcessOrderEvent(ctx, event))
	}

	for _, rating := range []int{5, 4} {
		event := &entity.ReviewEvent{
			EventType: entity.EventTypeReviewCreated,
			ReviewID:  uuid.New(),
			ProductID: uuid.New(),
			UserID:    uuid.New(),
			Rating:    rating,
			Timestamp: time.Now(),
		}
		s.Require().NoError(s.eventService.ProcessReviewEvent(ctx, event))
	}

	// 2. Пересчитываем дневную статистику
	err := s.rollupService.RollupDailyStats(ctx)
	s.NoError(err)

	// 3. Статистика доступна в Redis
	today := entity.DateKey(time.Now())
	stats, err := s.rollupService.GetDailyStats(ctx, today)
	s.Require().NoError(err)

	s.Equal(today, stats.Date)
	s.Equal(2, stats.OrdersCount)
	s.InDelta(150.0, stats.Revenue, 0.001)
	s.Equal(4, stats.ItemsSold)
	s.Equal(2, stats.ReviewsCount)
	s.Equal(4.5, stats.AverageRating)

	// Ключ имеет TTL
	ttl, err := s.redisClient.TTL(ctx, entity.GetRedisKeyForDay(today)).Result()
	s.NoError(err)
	s.Greater(ttl, time.Duration(0))
}

func (s *AnalyticsWorkerIntegrationTestSuite) TestRollup_IgnoresPreviousDays() {
	ctx := context.Background()

	// Событие вчерашнего дня
	oldEvent := &entity.OrderEvent{
		EventType:   entity.EventTypeOrderCreated,
		OrderID:     "ORD-OLDORDER",
		UserID:      uuid.New(),
		TotalAmount: 999.0,
		ItemsCount:  1,
		Timestamp:   time.Now().AddDate(0, 0, -1),
	}
	s.Require().NoError(s.eventService.ProcessOrderEvent(ctx, oldEvent))

	// Act
	err := s.rollupService.RollupDailyStats(ctx)
	s.NoError(err)

	// Assert - вчерашнее событие не попало в статистику сегодняшнего дня
	stats, err := s.rollupService.GetDailyStats(ctx, entity.DateKey(time.Now()))
	s.Require().NoError(err)
	s.Equal(0, stats.OrdersCount)
	s.Equal(0.0, stats.Revenue)
}

func (s *AnalyticsWorkerIntegrationTestSuite) TestGetRecentStats() {
	ctx := context.Background()

	// Статистика за сегодня и вчера
	today := entity.DateKey(time.Now())
	yesterday := entity.DateKey(time.Now().AddDate(0, 0, -1))

	s.Require().NoError(s.statsRepo.Save(ctx, &entity.DailyStats{Date: today, OrdersCount: 5}))
	s.Require().NoError(s.statsRepo.Save(ctx, &entity.DailyStats{Date: yesterday, OrdersCount: 2}))

	// Act
	result, err := s.rollupService.GetRecentStats(ctx, 7)

	// Assert - порядок от новых к старым
	s.NoError(err)
	s.Require().Len(result, 2)
	s.Equal(today, result[0].Date)
	s.Equal(5, result[0].OrdersCount)
	s.Equal(yesterday, result[1].Date)
}

// Helper function
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
