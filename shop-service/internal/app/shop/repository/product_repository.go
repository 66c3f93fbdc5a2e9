package repository

import (
	"context"
	"errors"

	"webshop/shop-service/internal/app/shop/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	return result.Error
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, result.Error
	}

	return &product, nil
}

// GetByIDs получает несколько товаров за один запрос
// Отсутствующие ID просто не попадают в результат, проверка на стороне сервиса
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	return byID, nil
}

// GetAll получает все товары
func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&products)

	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

// Update обновляет товар
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(product).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"image_url":   product.ImageURL,
	})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар вместе с его позициями заказов и отзывами
// Позиции заказов удаляются первыми, чтобы не нарушить внешние ключи
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&entity.OrderItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", id).Delete(&entity.Review{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&entity.Product{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}

		return nil
	})
}

// Count возвращает количество товаров в каталоге
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Product{}).Count(&count)
	return count, result.Error
}
