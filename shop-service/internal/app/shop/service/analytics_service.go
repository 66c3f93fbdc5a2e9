package service

import (
	"context"
	"fmt"
	"time"

	"webshop/pkg/logger"
	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/infrastructure"
	"webshop/shop-service/internal/app/shop/repository"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 10
)

// AnalyticsService собирает сводную статистику магазина для администратора
// Данные о покупателях запрашиваются из Auth Service
type AnalyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
	reviewRepo    repository.ReviewRepository
	authClient    infrastructure.AuthServiceClient
}

// NewAnalyticsService создает новый сервис аналитики с внедрением зависимостей
func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	authClient infrastructure.AuthServiceClient,
) *AnalyticsService {
	return &AnalyticsService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
		reviewRepo:    reviewRepo,
		authClient:    authClient,
	}
}

// Overview собирает общую сводку магазина
// Количество покупателей и email-ы для последних заказов берутся из Auth Service,
// недоступность Auth Service не ломает остальную статистику
func (s *AnalyticsService) Overview(ctx context.Context, authToken string) (*entity.AnalyticsOverviewResponse, error) {
	totalProducts, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	totalOrders, err := s.analyticsRepo.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	totalRevenue, err := s.analyticsRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total revenue: %w", err)
	}

	totalReviews, err := s.analyticsRepo.CountReviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	allRatings, err := s.reviewRepo.GetAllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	ratings := make([]int, len(allRatings))
	for i, r := range allRatings {
		ratings[i] = r.Rating
	}
	averageRating, _ := ComputeRatingAggregate(ratings)

	topProducts, err := s.analyticsRepo.TopSellingProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	if topProducts == nil {
		topProducts = []entity.TopProduct{}
	}

	recentOrders, err := s.analyticsRepo.RecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}

	// Запрашиваем данные из Auth Service с токеном администратора
	s.authClient.SetAuthToken(authToken)

	var totalCustomers int64
	if count, err := s.authClient.GetCustomerCount(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to get customer count from auth service")
	} else {
		totalCustomers = count
	}

	return &entity.AnalyticsOverviewResponse{
		TotalProducts:  totalProducts,
		TotalOrders:    totalOrders,
		TotalCustomers: totalCustomers,
		TotalRevenue:   totalRevenue,
		TotalReviews:   totalReviews,
		AverageRating:  averageRating,
		TopProducts:    topProducts,
		RecentOrders:   s.enrichOrders(ctx, recentOrders),
	}, nil
}

// OrdersAnalytics собирает статистику заказов за сегодня и за все время
func (s *AnalyticsService) OrdersAnalytics(ctx context.Context) (*entity.OrdersAnalyticsResponse, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ordersToday, revenueToday, err := s.analyticsRepo.OrdersSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("failed to get today orders: %w", err)
	}

	totalOrders, err := s.analyticsRepo.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	totalRevenue, err := s.analyticsRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total revenue: %w", err)
	}

	response := &entity.OrdersAnalyticsResponse{
		OrdersToday:  ordersToday,
		RevenueToday: revenueToday,
		TotalOrders:  totalOrders,
		TotalRevenue: totalRevenue,
	}
	if totalOrders > 0 {
		response.AverageOrderValue = totalRevenue / float64(totalOrders)
	}

	return response, nil
}

// enrichOrders дополняет последние заказы email-ами пользователей из Auth Service
// Недоступность Auth Service оставляет поле пустым
func (s *AnalyticsService) enrichOrders(ctx context.Context, orders []entity.Order) []entity.RecentOrderResponse {
	// Кешируем ответы в рамках одного запроса, один пользователь может иметь несколько заказов
	emails := make(map[string]string)

	enriched := make([]entity.RecentOrderResponse, 0, len(orders))
	for _, order := range orders {
		resp := entity.RecentOrderResponse{Order: order}

		key := order.UserID.String()
		if email, ok := emails[key]; ok {
			resp.UserEmail = email
		} else if customer, err := s.authClient.GetCustomer(ctx, order.UserID); err != nil {
			logger.Warn().Err(err).Str("user_id", key).Msg("Failed to get customer from auth service")
			emails[key] = ""
		} else {
			emails[key] = customer.Email
			resp.UserEmail = customer.Email
		}

		enriched = append(enriched, resp)
	}

	return enriched
}
