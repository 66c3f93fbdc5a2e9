package mocks

import (
	"context"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockEventRepository мок для EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) SaveOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) SaveReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetOrderEventsSince(ctx context.Context, since time.Time) ([]entity.StoredOrderEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StoredOrderEvent), args.Error(1)
}

func (m *MockEventRepository) GetReviewEventsSince(ctx context.Context, since time.Time) ([]entity.StoredReviewEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StoredReviewEvent), args.Error(1)
}

// MockStatsRepository мок для StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Save(ctx context.Context, stats *entity.DailyStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *MockStatsRepository) Get(ctx context.Context, date string) (*entity.DailyStats, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DailyStats), args.Error(1)
}

func (m *MockStatsRepository) GetMultiple(ctx context.Context, dates []string) (map[string]*entity.DailyStats, error) {
	args := m.Called(ctx, dates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entity.DailyStats), args.Error(1)
}

func (m *MockStatsRepository) Exists(ctx context.Context, date string) (bool, error) {
	args := m.Called(ctx, date)
	return args.Bool(0), args.Error(1)
}
