package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TokenRepositoryTestSuite тестовый suite для Redis repository
type TokenRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    *redis.Client
	repo      TokenRepository
}

func TestTokenRepositorySuite(t *testing.T) {
	suite.Run(t, new(TokenRepositoryTestSuite))
}

func (s *TokenRepositoryTestSuite) SetupSuite() {
	var err error
	s.miniRedis, err = miniredis.Run()
	require.NoError(s.T(), err)

	s.client = redis.NewClient(&redis.Options{
		Addr: s.miniRedis.Addr(),
	})

	s.repo = NewRedisTokenRepository(s.client)
}

func (s *TokenRepositoryTestSuite) SetupTest() {
	s.miniRedis.FlushAll()
}

func (s *TokenRepositoryTestSuite) TearDownSuite() {
	s.client.Close()
	s.miniRedis.Close()
}

// ===================== SaveRefreshToken Tests =====================

func (s *TokenRepositoryTestSuite) TestSaveRefreshToken_Success() {
	ctx := context.Background()
	userID := uuid.New()

	// Act
	err := s.repo.SaveRefreshToken(ctx, userID, "token-abc", time.Now().Add(time.Hour))

	// Assert
	s.NoError(err)

	result, err := s.repo.GetRefreshToken(ctx, "token-abc")
	s.NoError(err)
	s.Equal(userID, result.UserID)
	s.Equal("token-abc", result.Token)
}

func (s *TokenRepositoryTestSuite) TestSaveRefreshToken_AlreadyExpired() {
	ctx := context.Background()

	// Act - токен с истекшим сроком действия
	err := s.repo.SaveRefreshToken(ctx, uuid.New(), "expired-token", time.Now().Add(-time.Minute))

	// Assert
	s.Error(err)
	s.Contains(err.Error(), "expired")
}

func (s *TokenRepositoryTestSuite) TestSaveRefreshToken_KeyFormat() {
	ctx := context.Background()
	userID := uuid.New()

	s.repo.SaveRefreshToken(ctx, userID, "token-xyz", time.Now().Add(time.Hour))

	// Проверяем что ключи имеют правильный формат: refresh_token:<token> и user_tokens:<userID>
	keys, err := s.client.Keys(ctx, "refresh_token:*").Result()
	s.NoError(err)
	s.Contains(keys, "refresh_token:token-xyz")

	members, err := s.client.SMembers(ctx, fmt.Sprintf("user_tokens:%s", userID)).Result()
	s.NoError(err)
	s.Contains(members, "token-xyz")
}

// ===================== GetRefreshToken Tests =====================

func (s *TokenRepositoryTestSuite) TestGetRefreshToken_NotFound() {
	ctx := context.Background()

	// Act
	result, err := s.repo.GetRefreshToken(ctx, "unknown-token")

	// Assert
	s.Error(err)
	s.Nil(result)
	s.Contains(err.Error(), "not found")
}

func (s *TokenRepositoryTestSuite) TestGetRefreshToken_Expired() {
	ctx := context.Background()

	err := s.repo.SaveRefreshToken(ctx, uuid.New(), "short-lived", time.Now().Add(time.Second))
	s.NoError(err)

	// Ждём истечения TTL (miniredis поддерживает FastForward)
	s.miniRedis.FastForward(2 * time.Second)

	// Act
	result, err := s.repo.GetRefreshToken(ctx, "short-lived")

	// Assert
	s.Error(err)
	s.Nil(result)
}

// ===================== DeleteRefreshToken Tests =====================

func (s *TokenRepositoryTestSuite) TestDeleteRefreshToken_Success() {
	ctx := context.Background()
	userID := uuid.New()

	s.repo.SaveRefreshToken(ctx, userID, "token-del", time.Now().Add(time.Hour))

	// Act
	err := s.repo.DeleteRefreshToken(ctx, "token-del")

	// Assert
	s.NoError(err)

	result, err := s.repo.GetRefreshToken(ctx, "token-del")
	s.Error(err)
	s.Nil(result)

	// Токен также удалён из множества токенов пользователя
	members, _ := s.client.SMembers(ctx, fmt.Sprintf("user_tokens:%s", userID)).Result()
	s.NotContains(members, "token-del")
}

func (s *TokenRepositoryTestSuite) TestDeleteRefreshToken_NotFound() {
	ctx := context.Background()

	// Act - удаление несуществующего токена не ошибка
	err := s.repo.DeleteRefreshToken(ctx, "missing-token")

	// Assert
	s.NoError(err)
}

// ===================== DeleteUserRefreshTokens Tests =====================

func (s *TokenRepositoryTestSuite) TestDeleteUserRefreshTokens_Success() {
	ctx := context.Background()
	userID := uuid.New()
	otherID := uuid.New()

	// Arrange - два токена одного пользователя и один чужой
	s.repo.SaveRefreshToken(ctx, userID, "token-1", time.Now().Add(time.Hour))
	s.repo.SaveRefreshToken(ctx, userID, "token-2", time.Now().Add(time.Hour))
	s.repo.SaveRefreshToken(ctx, otherID, "token-other", time.Now().Add(time.Hour))

	// Act
	err := s.repo.DeleteUserRefreshTokens(ctx, userID)

	// Assert
	s.NoError(err)

	_, err = s.repo.GetRefreshToken(ctx, "token-1")
	s.Error(err)
	_, err = s.repo.GetRefreshToken(ctx, "token-2")
	s.Error(err)

	// Чужой токен не затронут
	result, err := s.repo.GetRefreshToken(ctx, "token-other")
	s.NoError(err)
	s.Equal(otherID, result.UserID)
}

func (s *TokenRepositoryTestSuite) TestDeleteUserRefreshTokens_NoTokens() {
	ctx := context.Background()

	// Act
	err := s.repo.DeleteUserRefreshTokens(ctx, uuid.New())

	// Assert
	s.NoError(err)
}

// ===================== Blacklist Tests =====================

func (s *TokenRepositoryTestSuite) TestAddToBlacklist_Success() {
	ctx := context.Background()

	// Act
	err := s.repo.AddToBlacklist(ctx, "access-token-1", time.Now().Add(15*time.Minute))

	// Assert
	s.NoError(err)

	blacklisted, err := s.repo.IsBlacklisted(ctx, "access-token-1")
	s.NoError(err)
	s.True(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestAddToBlacklist_AlreadyExpired() {
	ctx := context.Background()

	// Act - истекший токен не добавляется в черный список
	err := s.repo.AddToBlacklist(ctx, "old-token", time.Now().Add(-time.Minute))

	// Assert
	s.NoError(err)

	blacklisted, err := s.repo.IsBlacklisted(ctx, "old-token")
	s.NoError(err)
	s.False(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestIsBlacklisted_False() {
	ctx := context.Background()

	// Act
	blacklisted, err := s.repo.IsBlacklisted(ctx, "clean-token")

	// Assert
	s.NoError(err)
	s.False(blacklisted)
}

func (s *TokenRepositoryTestSuite) TestBlacklist_TTLExpiration() {
	ctx := context.Background()

	err := s.repo.AddToBlacklist(ctx, "temp-token", time.Now().Add(time.Second))
	s.NoError(err)

	// Ждём истечения TTL
	s.miniRedis.FastForward(2 * time.Second)

	// Act
	blacklisted, err := s.repo.IsBlacklisted(ctx, "temp-token")

	// Assert
	s.NoError(err)
	s.False(blacklisted)
}

// ===================== CleanupExpiredTokens Tests =====================

func (s *TokenRepositoryTestSuite) TestCleanupExpiredTokens_NoOp() {
	ctx := context.Background()

	// Act - Redis удаляет истекшие ключи сам, метод оставлен для интерфейса
	err := s.repo.CleanupExpiredTokens(ctx)

	// Assert
	s.NoError(err)
}
