package repository

import (
	"context"
	"errors"
	"strings"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create создает новый отзыв
// Нарушение уникального индекса (user_id, product_id) транслируется в ErrDuplicateReview
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	result := r.db.WithContext(ctx).Create(review)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrDuplicateReview
		}
		return result.Error
	}
	return nil
}

// GetByID получает отзыв по ID
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).First(&review, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// GetByProductID получает все отзывы по товару, новые первыми
func (r *reviewRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetByUserID получает все отзывы пользователя, новые первыми
func (r *reviewRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Review, error) {
	var reviews []entity.Review
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews)

	if result.Error != nil {
		return nil, result.Error
	}

	return reviews, nil
}

// GetByUserAndProduct получает отзыв пользователя на конкретный товар
func (r *reviewRepository) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	var review entity.Review
	result := r.db.WithContext(ctx).
		First(&review, "user_id = ? AND product_id = ?", userID, productID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, result.Error
	}

	return &review, nil
}

// Update обновляет отзыв
func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := r.db.WithContext(ctx).Model(review).Where("id = ?", review.ID).Updates(map[string]interface{}{
		"rating":   review.Rating,
		"feedback": review.Feedback,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// Delete удаляет отзыв
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Review{}, "id = ?", id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// GetRatingsByProduct получает все оценки товара для расчета агрегата
func (r *reviewRepository) GetRatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error) {
	var ratings []int
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings)

	if result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}

// GetAllRatings получает оценки всех товаров одним запросом
// Используется при построении списка каталога с рейтингами
func (r *reviewRepository) GetAllRatings(ctx context.Context) ([]entity.ProductRating, error) {
	var ratings []entity.ProductRating
	result := r.db.WithContext(ctx).
		Model(&entity.Review{}).
		Select("product_id, rating").
		Scan(&ratings)

	if result.Error != nil {
		return nil, result.Error
	}

	return ratings, nil
}

// isUniqueViolation распознает нарушение уникального ограничения PostgreSQL
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Код 23505 - unique_violation
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
