package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"webshop/analytics-worker-service/internal/app/analytics-worker/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type eventRepository struct {
	orderEvents  *mongo.Collection
	reviewEvents *mongo.Collection
}

// NewEventRepository создает новый репозиторий событий аналитики
// Автоматически создает индексы по timestamp, user_id и product_id
func NewEventRepository(db *mongo.Database) EventRepository {
	orderEvents := db.Collection("order_events")
	reviewEvents := db.Collection("review_events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Индексы для выборки событий за период и по пользователю
	orderIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("timestamp_idx"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_id_idx"),
		},
	}

	if _, err := orderEvents.Indexes().CreateMany(ctx, orderIndexes); err != nil {
		// Логируем ошибку, но не прерываем работу - индексы могут уже существовать
		log.Printf("Warning: failed to create indexes on order_events: %v", err)
	}

	reviewIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("timestamp_idx"),
		},
		{
			Keys:    bson.D{{Key: "product_id", Value: 1}},
			Options: options.Index().SetName("product_id_idx"),
		},
	}

	if _, err := reviewEvents.Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		log.Printf("Warning: failed to create indexes on review_events: %v", err)
	}

	return &eventRepository{
		orderEvents:  orderEvents,
		reviewEvents: reviewEvents,
	}
}

// SaveOrderEvent сохраняет событие заказа в MongoDB
func (r *eventRepository) SaveOrderEvent(ctx context.Context, event *entity.OrderEvent) error {
	stored := entity.StoredOrderEvent{
		EventType:   event.EventType,
		OrderID:     event.OrderID,
		UserID:      event.UserID.String(),
		TotalAmount: event.TotalAmount,
		ItemsCount:  event.ItemsCount,
		Timestamp:   event.Timestamp,
		ReceivedAt:  time.Now(),
	}

	if _, err := r.orderEvents.InsertOne(ctx, stored); err != nil {
		return fmt.Errorf("failed to save order event: %w", err)
	}

	return nil
}

// SaveReviewEvent сохраняет событие отзыва в MongoDB
func (r *eventRepository) SaveReviewEvent(ctx context.Context, event *entity.ReviewEvent) error {
	stored := entity.StoredReviewEvent{
		EventType:  event.EventType,
		ReviewID:   event.ReviewID.String(),
		ProductID:  event.ProductID.String(),
		UserID:     event.UserID.String(),
		Rating:     event.Rating,
		Timestamp:  event.Timestamp,
		ReceivedAt: time.Now(),
	}

	if _, err := r.reviewEvents.InsertOne(ctx, stored); err != nil {
		return fmt.Errorf("failed to save review event: %w", err)
	}

	return nil
}

// GetOrderEventsSince получает события заказов начиная с указанного времени
// Использует индекс timestamp_idx
func (r *eventRepository) GetOrderEventsSince(ctx context.Context, since time.Time) ([]entity.StoredOrderEvent, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.orderEvents.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find order events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []entity.StoredOrderEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode order events: %w", err)
	}

	return events, nil
}

// GetReviewEventsSince получает события отзывов начиная с указанного времени
func (r *eventRepository) GetReviewEventsSince(ctx context.Context, since time.Time) ([]entity.StoredReviewEvent, error) {
	filter := bson.M{"timestamp": bson.M{"$gte": since}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.reviewEvents.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find review events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []entity.StoredReviewEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode review events: %w", err)
	}

	return events, nil
}
