package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserRole представляет роль пользователя из Auth Service
type UserRole string

const (
	RoleAdministrator UserRole = "ADMINISTRATOR"
	RoleCustomer      UserRole = "CUSTOMER"
)

// Product представляет товар в каталоге
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null;check:price >= 0"`
	Stock       int       `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// ProductWithRating содержит товар с агрегированным рейтингом из отзывов
type ProductWithRating struct {
	Product
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// Order представляет заказ в системе
// Заказ неизменяем после создания, цены зафиксированы на момент покупки
type Order struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Number      string      `json:"order_id" gorm:"column:order_id;type:varchar(20);uniqueIndex;not null"` // Читаемый номер формата ORD-XXXXXXXX
	UserID      uuid.UUID   `json:"user_id" gorm:"type:uuid;not null;index"`                               // ID пользователя из Auth Service
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	Items       []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName указывает имя таблицы для GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem представляет позицию в заказе
type OrderItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `json:"-" gorm:"type:uuid;not null;index"` // Ссылка на заказ (surrogate ID)
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"` // Цена за единицу на момент покупки
}

// TableName указывает имя таблицы для GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Review представляет отзыв на товар
// Один пользователь может оставить не более одного отзыва на товар
type Review struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_product"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Feedback  string    `json:"feedback,omitempty" gorm:"type:varchar(1000)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName указывает имя таблицы для GORM
func (Review) TableName() string {
	return "reviews"
}

// ProductRating содержит одну оценку товара, используется для агрегации
type ProductRating struct {
	ProductID uuid.UUID
	Rating    int
}

// OrderEvent представляет событие заказа для Kafka
type OrderEvent struct {
	EventType   string    `json:"event_type"` // ORDER_CREATED
	OrderID     string    `json:"order_id"`
	UserID      uuid.UUID `json:"user_id"`
	TotalAmount float64   `json:"total_amount"`
	ItemsCount  int       `json:"items_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReviewEvent представляет событие отзыва для Kafka
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED
	ReviewID  uuid.UUID `json:"review_id"`
	ProductID uuid.UUID `json:"product_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// TopProduct содержит товар с количеством продаж для аналитики
type TopProduct struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	TotalQuantity int       `json:"total_quantity"`
	TotalRevenue  float64   `json:"total_revenue"`
}
