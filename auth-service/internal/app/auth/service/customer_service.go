package service

import (
	"context"
	"errors"
	"fmt"

	"webshop/auth-service/internal/app/auth/entity"
	"webshop/auth-service/internal/app/auth/repository"

	"github.com/google/uuid"
)

// CustomerService отдает данные о покупателях для админки и shop-service
type CustomerService struct {
	userRepo repository.UserRepository
}

// NewCustomerService создает новый сервис покупателей
func NewCustomerService(userRepo repository.UserRepository) *CustomerService {
	return &CustomerService{userRepo: userRepo}
}

// List получает страницу покупателей с общим количеством
func (s *CustomerService) List(ctx context.Context, page, pageSize int) (*entity.CustomerListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize

	customers, err := s.userRepo.ListCustomers(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	total, err := s.userRepo.CountCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	if customers == nil {
		customers = []entity.User{}
	}

	return &entity.CustomerListResponse{
		Customers: customers,
		Total:     total,
	}, nil
}

// GetByID получает покупателя по ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return user, nil
}

// Count возвращает количество покупателей
func (s *CustomerService) Count(ctx context.Context) (int64, error) {
	count, err := s.userRepo.CountCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}

	return count, nil
}
