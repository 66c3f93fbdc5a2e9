package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"webshop/auth-service/internal/app/auth/entity"
	"webshop/auth-service/internal/app/auth/repository"
	"webshop/auth-service/internal/app/auth/util"
	"webshop/pkg/logger"

	"github.com/google/uuid"
)

// AuthService обрабатывает бизнес-логику аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	tokenRepo  repository.TokenRepository
	jwtManager *util.JWTManager
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtManager: jwtManager,
	}
}

// Register регистрирует нового покупателя
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	// Проверяем, существует ли пользователь с таким email
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	// И с таким username
	existing, err = s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	// Хэшируем пароль
	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         entity.RoleCustomer,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.generateAuthResponse(ctx, user)
}

// Login выполняет вход пользователя
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.generateAuthResponse(ctx, user)
}

// RefreshTokens обновляет access и refresh токены (ротация refresh токена)
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*entity.TokenPair, error) {
	storedToken, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Использованный refresh токен удаляем сразу
	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

// GetCurrentUser получает информацию о текущем пользователе
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Logout выполняет выход пользователя (инвалидирует токены)
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, accessToken string) error {
	// Добавляем access токен в черный список до момента его истечения
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		// Если токен невалидный, все равно продолжаем
		return nil
	}

	if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	// Удаляем все refresh токены пользователя
	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete refresh tokens: %w", err)
	}

	return nil
}

// ValidateToken проверяет JWT токен с учетом черного списка
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*util.JWTClaims, error) {
	isBlacklisted, err := s.tokenRepo.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if isBlacklisted {
		return nil, util.ErrInvalidToken
	}

	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	return claims, nil
}

// SeedAdmin создает администратора при старте сервиса, если его еще нет
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := util.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     "admin",
		PasswordHash: passwordHash,
		Role:         entity.RoleAdministrator,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info().Str("email", email).Msg("Администратор создан")
	return nil
}

// generateAuthResponse создает полный ответ с пользователем и токенами
func (s *AuthService) generateAuthResponse(ctx context.Context, user *entity.User) (*entity.AuthResponse, error) {
	tokenPair, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	return &entity.AuthResponse{
		User:   *user,
		Tokens: *tokenPair,
	}, nil
}

// generateTokenPair генерирует пару токенов (access + refresh)
func (s *AuthService) generateTokenPair(ctx context.Context, user *entity.User) (*entity.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtManager.GetRefreshTokenDuration())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &entity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetAccessTokenDuration().Seconds()),
	}, nil
}
