package service

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"webshop/pkg/logger"
	"webshop/pkg/metrics"
	"webshop/shop-service/internal/app/shop/entity"
	"webshop/shop-service/internal/app/shop/infrastructure"
	"webshop/shop-service/internal/app/shop/repository"
	"webshop/shop-service/internal/app/shop/util"

	"github.com/google/uuid"
)

// OrderService обрабатывает бизнес-логику заказов
// Координирует работу репозиториев, Redis кеша и Kafka producer
type OrderService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	redisClient   *util.RedisClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewOrderService создает новый сервис заказов с внедрением зависимостей
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	redisClient *util.RedisClient,
	kafkaProducer infrastructure.MessagePublisher,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		redisClient:   redisClient,
		kafkaProducer: kafkaProducer,
	}
}

// PlaceOrder оформляет новый заказ
// 1. Загружает товары и фиксирует цены на момент покупки
// 2. Атомарно списывает остатки и сохраняет заказ в одной транзакции
// 3. Отправляет событие ORDER_CREATED в Kafka
func (s *OrderService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *entity.CreateOrderRequest) (*entity.Order, error) {
	// Собираем список ProductID для загрузки одним запросом
	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	// Проверяем что все товары существуют
	for _, productID := range productIDs {
		if _, exists := products[productID]; !exists {
			return nil, ErrProductNotFound
		}
	}

	order := &entity.Order{
		ID:        uuid.New(),
		Number:    generateOrderNumber(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	// Создаем позиции с зафиксированной ценой и считаем итоговую сумму
	var totalAmount float64
	items := make([]entity.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product := products[itemReq.ProductID]

		item := entity.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: itemReq.ProductID,
			Quantity:  itemReq.Quantity,
			UnitPrice: product.Price, // Снимок цены на момент покупки
		}

		items = append(items, item)
		totalAmount += product.Price * float64(itemReq.Quantity)
	}

	order.TotalAmount = totalAmount
	order.Items = items

	// Списание остатков и вставка заказа в одной транзакции
	// При нехватке товара вся транзакция откатывается
	if err := s.orderRepo.CreateWithStockDecrement(ctx, order); err != nil {
		var stockErr *repository.StockError
		if errors.As(err, &stockErr) {
			metrics.OrdersRejectedStock.Inc()
			return nil, err
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	metrics.OrdersCreated.Inc()
	metrics.OrdersTotal.Add(totalAmount)
	metrics.StockDecrements.Add(float64(len(items)))

	// Остатки изменились, сбрасываем кеш списка товаров
	if err := s.redisClient.DeleteProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate product cache")
	}

	// Отправляем событие ORDER_CREATED в Kafka
	// Заказ уже создан, проблемы с Kafka не критичны
	event := entity.OrderEvent{
		EventType:   "ORDER_CREATED",
		OrderID:     order.Number,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		ItemsCount:  len(items),
		Timestamp:   time.Now(),
	}

	if err := s.publishOrderEvent(ctx, event); err != nil {
		logger.Warn().Err(err).Str("order_id", order.Number).Msg("Failed to publish order created event")
	}

	return order, nil
}

// GetOrder получает заказ по ID с проверкой доступа
// Заказ доступен владельцу и администратору
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID uuid.UUID, role entity.UserRole) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.UserID != userID && role != entity.RoleAdministrator {
		return nil, ErrForbidden
	}

	return order, nil
}

// GetUserOrders получает все заказы пользователя
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	return orders, nil
}

// GetUserOrdersDetailed получает заказы пользователя с позициями и названиями товаров
func (s *OrderService) GetUserOrdersDetailed(ctx context.Context, userID uuid.UUID) ([]entity.OrderResponse, error) {
	orders, err := s.orderRepo.GetByUserIDWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user orders: %w", err)
	}

	// Собираем ID товаров из всех позиций для загрузки одним запросом
	seen := make(map[uuid.UUID]struct{})
	var productIDs []uuid.UUID
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := seen[item.ProductID]; !ok {
				seen[item.ProductID] = struct{}{}
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	products := make(map[uuid.UUID]*entity.Product)
	if len(productIDs) > 0 {
		products, err = s.productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get products: %w", err)
		}
	}

	responses := make([]entity.OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, buildDetailedOrderResponse(&order, products))
	}

	return responses, nil
}

// GetOrderSummary получает сводку по заказам пользователя
func (s *OrderService) GetOrderSummary(ctx context.Context, userID uuid.UUID) (*entity.OrderSummaryResponse, error) {
	summary, err := s.orderRepo.SummaryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order summary: %w", err)
	}

	return summary, nil
}

// ListAllOrders получает все заказы с пагинацией и поиском по номеру
// Используется администратором
func (s *OrderService) ListAllOrders(ctx context.Context, page, pageSize int, search string) (*entity.AdminOrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize

	orders, total, err := s.orderRepo.GetAllPaginated(ctx, offset, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if orders == nil {
		orders = []entity.Order{}
	}

	return &entity.AdminOrderListResponse{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// FindByNumber ищет заказ по читаемому номеру ORD-XXXXXXXX
// Используется администратором
func (s *OrderService) FindByNumber(ctx context.Context, number string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByNumber(ctx, strings.ToUpper(number))
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return order, nil
}

// GetCustomerOrders получает заказы указанного пользователя с позициями
// Используется администратором
func (s *OrderService) GetCustomerOrders(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	orders, err := s.orderRepo.GetByUserIDWithItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer orders: %w", err)
	}

	return orders, nil
}

// publishOrderEvent отправляет событие о заказе в Kafka
// Key - номер заказа для партиционирования
func (s *OrderService) publishOrderEvent(ctx context.Context, event entity.OrderEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.OrderID, eventData); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}

// generateOrderNumber генерирует читаемый номер заказа формата ORD-XXXXXXXX
func generateOrderNumber() string {
	id := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(id[:4]))
}

// buildDetailedOrderResponse формирует ответ с позициями и названиями товаров
func buildDetailedOrderResponse(order *entity.Order, products map[uuid.UUID]*entity.Product) entity.OrderResponse {
	items := make([]entity.ItemResponse, len(order.Items))
	for i, item := range order.Items {
		resp := entity.ItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.UnitPrice * float64(item.Quantity),
		}
		if product, ok := products[item.ProductID]; ok {
			resp.ProductName = product.Name
		}
		items[i] = resp
	}

	return entity.OrderResponse{
		ID:          order.ID,
		OrderID:     order.Number,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		CreatedAt:   order.CreatedAt,
		Items:       items,
	}
}
