package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"webshop/pkg/logger"
	"webshop/pkg/metrics"
	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/infrastructure"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/util"

	"github.com/google/uuid"
)

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует работу репозиториев, Redis кеша и Kafka producer
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	productRepo   repository.ProductRepository
	redisClient   *util.RedisClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	redisClient *util.RedisClient,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		productRepo:   productRepo,
		redisClient:   redisClient,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает новый отзыв
// Товар должен существовать, повторный отзыв на тот же товар запрещен
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *entity.CreateReviewRequest) (*entity.Review, error) {
	// Проверяем существование товара
	if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to verify product: %w", err)
	}

	review := &entity.Review{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Feedback:  req.Feedback,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.WithLabelValues().Observe(float64(review.Rating))

	// Рейтинг товара изменился, сбрасываем кеш списка товаров
	s.invalidateProductCache(ctx)

	// Отправляем событие REVIEW_CREATED в Kafka
	// Отзыв уже создан, проблемы с Kafka не критичны
	event := entity.ReviewEvent{
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}

	if err := s.publishReviewEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("review_id", review.ID.String()).Msg("Failed to publish review created event")
	}

	return review, nil
}

// GetProductReviews получает все отзывы товара с агрегированным рейтингом
func (s *ReviewService) GetProductReviews(ctx context.Context, productID uuid.UUID) (*entity.ProductReviewsResponse, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	if reviews == nil {
		reviews = []entity.Review{}
	}

	ratings := make([]int, len(reviews))
	for i, review := range reviews {
		ratings[i] = review.Rating
	}

	average, count := ComputeRatingAggregate(ratings)

	return &entity.ProductReviewsResponse{
		ProductID:     productID,
		Reviews:       reviews,
		AverageRating: average,
		ReviewCount:   count,
	}, nil
}

// GetUserReviews получает все отзывы пользователя
func (s *ReviewService) GetUserReviews(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// UpdateReview обновляет отзыв, доступно только автору
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, req *entity.UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	// Редактировать отзыв может только автор, администратору это недоступно
	if !canModifyReview(review, userID, entity.RoleCustomer) {
		return nil, ErrForbidden
	}

	// Обновляем только переданные поля
	if req.Rating > 0 {
		review.Rating = req.Rating
	}
	if req.Feedback != nil {
		review.Feedback = *req.Feedback
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	s.invalidateProductCache(ctx)

	return review, nil
}

// DeleteReview удаляет отзыв, доступно автору и администратору
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID, role entity.UserRole) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to get review: %w", err)
	}

	if !canModifyReview(review, userID, role) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	s.invalidateProductCache(ctx)

	return nil
}

// canModifyReview проверяет право на изменение отзыва
// Автор может изменять свой отзыв, администратор - любой
func canModifyReview(review *entity.Review, userID uuid.UUID, role entity.UserRole) bool {
	if review.UserID == userID {
		return true
	}
	return role == entity.RoleAdministrator
}

// invalidateProductCache сбрасывает кеш списка товаров
// Отзыв уже изменен в БД, проблемы с кешем не критичны
func (s *ReviewService) invalidateProductCache(ctx context.Context) {
	if err := s.redisClient.DeleteProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate product cache")
	}
}

// publishReviewEvent отправляет событие об отзыве в Kafka
// Key - это ProductID для правильного партиционирования
func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID.String(), eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
