package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderEvent представляет событие заказа из Kafka (формат Shop Service)
type OrderEvent struct {
	EventType   string    `json:"event_type"` // ORDER_CREATED
	OrderID     string    `json:"order_id"`   // Номер заказа (ORD-XXXXXXXX)
	UserID      uuid.UUID `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemsCount  int       `json:"items_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReviewEvent представляет событие отзыва из Kafka (формат Shop Service)
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// StoredOrderEvent - событие заказа, сохраненное в MongoDB
type StoredOrderEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventType   string             `bson:"event_type" json:"event_type"`
	OrderID     string             `bson:"order_id" json:"order_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	TotalAmount float64            `bson:"total_amount" json:"total_amount"`
	ItemsCount  int                `bson:"items_count" json:"items_count"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
	ReceivedAt  time.Time          `bson:"received_at" json:"received_at"`
}

// StoredReviewEvent - событие отзыва, сохраненное в MongoDB
type StoredReviewEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventType  string             `bson:"event_type" json:"event_type"`
	ReviewID   string             `bson:"review_id" json:"review_id"`
	ProductID  string             `bson:"product_id" json:"product_id"`
	UserID     string             `bson:"user_id" json:"user_id"`
	Rating     int                `bson:"rating" json:"rating"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	ReceivedAt time.Time          `bson:"received_at" json:"received_at"`
}

// DailyStats - агрегированная статистика магазина за один день
type DailyStats struct {
	Date          string    `json:"date"` // YYYY-MM-DD
	OrdersCount   int       `json:"orders_count"`
	Revenue       float64   `json:"revenue"`
	ItemsSold     int       `json:"items_sold"`
	ReviewsCount  int       `json:"reviews_count"`
	AverageRating float64   `json:"average_rating"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	EventTypeOrderCreated  = "ORDER_CREATED"
	EventTypeReviewCreated = "REVIEW_CREATED"
)

const (
	RedisKeyPrefixDailyStats = "stats:daily:" // Ключи вида stats:daily:2025-01-31
)

// DateKey форматирует время в ключ дня YYYY-MM-DD
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func GetRedisKeyForDay(date string) string {
	return RedisKeyPrefixDailyStats + date
}
