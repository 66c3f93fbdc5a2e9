package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// CustomerInfo содержит данные пользователя из Auth Service
type CustomerInfo struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

type AuthServiceClient interface {
	SetAuthToken(token string)
	GetCustomerCount(ctx context.Context) (int64, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerInfo, error)
}
