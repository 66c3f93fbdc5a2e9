package service

import (
	"context"
	"testing"
	"time"

	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/repository/mocks"
	"webshop/shop-service/internal/app/shop/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// CatalogServiceTestSuite тестовый suite для сервиса каталога
type CatalogServiceTestSuite struct {
	suite.Suite
	mini        *miniredis.Miniredis
	redisClient *util.RedisClient
	productRepo *mocks.MockProductRepository
	reviewRepo  *mocks.MockReviewRepository
	service     *CatalogService
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) SetupSuite() {
	mini, err := miniredis.Run()
	require.NoError(s.T(), err)
	s.mini = mini

	client := redis.NewClient(&redis.Options{
		Addr: mini.Addr(),
	})
	s.redisClient = util.NewRedisClientFromConn(client)
}

func (s *CatalogServiceTestSuite) TearDownSuite() {
	s.redisClient.Close()
	s.mini.Close()
}

func (s *CatalogServiceTestSuite) SetupTest() {
	s.mini.FlushAll()
	s.productRepo = new(mocks.MockProductRepository)
	s.reviewRepo = new(mocks.MockReviewRepository)
	s.service = NewCatalogService(s.productRepo, s.reviewRepo, s.redisClient)
}

// ===================== GetAllProducts Tests =====================

func (s *CatalogServiceTestSuite) TestGetAllProducts_CacheMissThenHit() {
	ctx := context.Background()

	product := entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 49.90, Stock: 10}
	ratings := []entity.ProductRating{
		{ProductID: product.ID, Rating: 5},
		{ProductID: product.ID, Rating: 4},
	}

	// Репозитории должны быть вызваны ровно один раз:
	// второй запрос обслуживается из кеша
	s.productRepo.On("GetAll", mock.Anything).Return([]entity.Product{product}, nil).Once()
	s.reviewRepo.On("GetAllRatings", mock.Anything).Return(ratings, nil).Once()

	// Act: первый запрос - cache miss
	first, err := s.service.GetAllProducts(ctx)

	// Assert
	s.NoError(err)
	s.Require().Len(first, 1)
	s.Equal("Keyboard", first[0].Name)
	s.Equal(4.5, first[0].AverageRating)
	s.Equal(2, first[0].ReviewCount)

	// Список закеширован на час
	s.True(s.mini.Exists("products:all"))
	s.Equal(time.Hour, s.mini.TTL("products:all"))

	// Act: второй запрос - cache hit, БД не трогается
	second, err := s.service.GetAllProducts(ctx)

	// Assert
	s.NoError(err)
	s.Require().Len(second, 1)
	s.Equal(first[0].ID, second[0].ID)
	s.Equal(4.5, second[0].AverageRating)

	s.productRepo.AssertExpectations(s.T())
	s.reviewRepo.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestGetAllProducts_CacheExpires() {
	ctx := context.Background()

	product := entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 49.90}

	s.productRepo.On("GetAll", mock.Anything).Return([]entity.Product{product}, nil).Twice()
	s.reviewRepo.On("GetAllRatings", mock.Anything).Return([]entity.ProductRating{}, nil).Twice()

	_, err := s.service.GetAllProducts(ctx)
	s.NoError(err)

	// Перематываем время за пределы TTL
	s.mini.FastForward(time.Hour + time.Minute)
	s.False(s.mini.Exists("products:all"))

	// Act: кеш истек, снова идем в БД
	_, err = s.service.GetAllProducts(ctx)

	// Assert
	s.NoError(err)
	s.productRepo.AssertExpectations(s.T())
}

func (s *CatalogServiceTestSuite) TestGetAllProducts_EmptyCatalog() {
	ctx := context.Background()

	s.productRepo.On("GetAll", mock.Anything).Return([]entity.Product{}, nil)
	s.reviewRepo.On("GetAllRatings", mock.Anything).Return([]entity.ProductRating{}, nil)

	// Act
	result, err := s.service.GetAllProducts(ctx)

	// Assert
	s.NoError(err)
	s.NotNil(result)
	s.Empty(result)
}

// ===================== GetProduct Tests =====================

func (s *CatalogServiceTestSuite) TestGetProduct_Success() {
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Keyboard", Price: 49.90}

	s.productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	s.reviewRepo.On("GetRatingsByProduct", mock.Anything, product.ID).Return([]int{5, 3, 4}, nil)

	// Act
	result, err := s.service.GetProduct(ctx, product.ID)

	// Assert
	s.NoError(err)
	s.Equal("Keyboard", result.Name)
	s.Equal(4.0, result.AverageRating)
	s.Equal(3, result.ReviewCount)
}

func (s *CatalogServiceTestSuite) TestGetProduct_NoReviews() {
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Keyboard"}

	s.productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	s.reviewRepo.On("GetRatingsByProduct", mock.Anything, product.ID).Return([]int{}, nil)

	// Act
	result, err := s.service.GetProduct(ctx, product.ID)

	// Assert
	s.NoError(err)
	s.Equal(0.0, result.AverageRating)
	s.Equal(0, result.ReviewCount)
}

func (s *CatalogServiceTestSuite) TestGetProduct_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.productRepo.On("GetByID", mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	// Act
	result, err := s.service.GetProduct(ctx, productID)

	// Assert
	s.Error(err)
	s.Nil(result)
	s.ErrorIs(err, ErrProductNotFound)
}

// ===================== CreateProduct Tests =====================

func (s *CatalogServiceTestSuite) TestCreateProduct_Success() {
	ctx := context.Background()

	req := &entity.CreateProductRequest{
		Name:        "Keyboard",
		Description: "Mechanical",
		Price:       49.90,
		Stock:       10,
	}

	s.productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)

	s.mini.Set("products:all", "[]")

	// Act
	product, err := s.service.CreateProduct(ctx, req)

	// Assert
	s.NoError(err)
	s.NotEqual(uuid.Nil, product.ID)
	s.Equal("Keyboard", product.Name)
	s.Equal(49.90, product.Price)
	s.Equal(10, product.Stock)

	// Новый товар - кеш списка сброшен
	s.False(s.mini.Exists("products:all"))
}

// ===================== UpdateProduct Tests =====================

func (s *CatalogServiceTestSuite) TestUpdateProduct_Partial() {
	ctx := context.Background()

	existing := &entity.Product{
		ID:          uuid.New(),
		Name:        "Keyboard",
		Description: "Mechanical",
		Price:       49.90,
		Stock:       10,
	}

	newPrice := 39.90
	req := &entity.UpdateProductRequest{Price: &newPrice}

	s.productRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	s.productRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)

	s.mini.Set("products:all", "[]")

	// Act
	product, err := s.service.UpdateProduct(ctx, existing.ID, req)

	// Assert: изменилась только цена
	s.NoError(err)
	s.Equal(39.90, product.Price)
	s.Equal("Keyboard", product.Name)
	s.Equal("Mechanical", product.Description)
	s.Equal(10, product.Stock)

	s.False(s.mini.Exists("products:all"))
}

func (s *CatalogServiceTestSuite) TestUpdateProduct_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.productRepo.On("GetByID", mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	// Act
	product, err := s.service.UpdateProduct(ctx, productID, &entity.UpdateProductRequest{})

	// Assert
	s.Error(err)
	s.Nil(product)
	s.ErrorIs(err, ErrProductNotFound)
}

// ===================== DeleteProduct Tests =====================

func (s *CatalogServiceTestSuite) TestDeleteProduct_Success() {
	ctx := context.Background()
	productID := uuid.New()

	s.productRepo.On("Delete", mock.Anything, productID).Return(nil)

	s.mini.Set("products:all", "[]")

	// Act
	err := s.service.DeleteProduct(ctx, productID)

	// Assert
	s.NoError(err)
	s.False(s.mini.Exists("products:all"))
}

func (s *CatalogServiceTestSuite) TestDeleteProduct_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.productRepo.On("Delete", mock.Anything, productID).Return(repository.ErrProductNotFound)

	// Act
	err := s.service.DeleteProduct(ctx, productID)

	// Assert
	s.Error(err)
	s.ErrorIs(err, ErrProductNotFound)
}
