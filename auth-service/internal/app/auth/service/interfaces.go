package service

import (
	"context"

	"webshop/auth-service/internal/app/auth/entity"
	"webshop/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error)
}

type CustomerServiceInterface interface {
	List(ctx context.Context, page, pageSize int) (*entity.CustomerListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
