package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webshop/pkg/logger"
	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/util"

	"github.com/google/uuid"
)

const productCacheTTL = time.Hour

// CatalogService обрабатывает бизнес-логику каталога товаров
// Координирует работу репозиториев и Redis кеша
type CatalogService struct {
	productRepo repository.ProductRepository // Репозиторий для работы с товарами в PostgreSQL
	reviewRepo  repository.ReviewRepository  // Репозиторий отзывов для расчета рейтингов
	redisClient *util.RedisClient            // Клиент для кеширования списка товаров
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	reviewRepo repository.ReviewRepository,
	redisClient *util.RedisClient,
) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
		redisClient: redisClient,
	}
}

// CreateProduct создает новый товар и инвалидирует кеш списка
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	product := &entity.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateProductCache(ctx)

	return product, nil
}

// GetProduct получает товар по ID с агрегированным рейтингом
// Рейтинг пересчитывается из отзывов при каждом чтении
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.ProductWithRating, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	ratings, err := s.reviewRepo.GetRatingsByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product ratings: %w", err)
	}

	average, count := ComputeRatingAggregate(ratings)

	return &entity.ProductWithRating{
		Product:       *product,
		AverageRating: average,
		ReviewCount:   count,
	}, nil
}

// GetAllProducts получает все товары с рейтингами, с кешированием в Redis
// Сначала проверяет кеш, если нет - загружает из БД и кеширует на час
func (s *CatalogService) GetAllProducts(ctx context.Context) ([]entity.ProductWithRating, error) {
	// Пытаемся получить из кеша Redis
	cached, err := s.redisClient.GetProducts(ctx)
	if err == nil && cached != nil {
		// Cache hit - возвращаем данные из кеша
		return cached, nil
	}

	// Cache miss - загружаем из PostgreSQL
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	allRatings, err := s.reviewRepo.GetAllRatings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	// Группируем оценки по товарам
	ratingsByProduct := make(map[uuid.UUID][]int)
	for _, r := range allRatings {
		ratingsByProduct[r.ProductID] = append(ratingsByProduct[r.ProductID], r.Rating)
	}

	result := make([]entity.ProductWithRating, 0, len(products))
	for _, product := range products {
		average, count := ComputeRatingAggregate(ratingsByProduct[product.ID])
		result = append(result, entity.ProductWithRating{
			Product:       product,
			AverageRating: average,
			ReviewCount:   count,
		})
	}

	// Сохраняем в кеш для последующих запросов
	// Данные получены из БД, проблемы с кешем не критичны
	if err := s.redisClient.SetProducts(ctx, result, productCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache product list")
	}

	return result, nil
}

// UpdateProduct обновляет товар частично и инвалидирует кеш
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	// Обновляем только переданные поля (частичное обновление)
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateProductCache(ctx)

	return product, nil
}

// DeleteProduct удаляет товар вместе с его позициями заказов и отзывами
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateProductCache(ctx)

	return nil
}

// invalidateProductCache сбрасывает кеш списка товаров
// Товар уже изменен в БД, проблемы с кешем не критичны
func (s *CatalogService) invalidateProductCache(ctx context.Context) {
	if err := s.redisClient.DeleteProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate product cache")
	}
}
