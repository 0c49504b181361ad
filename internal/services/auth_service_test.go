// file: internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"ecotrack/internal/cache"
	"ecotrack/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testJWTSecret = "unit-test-secret"

func testAuthService() *authService {
	return &authService{
		logger: zap.NewNop(),
		authConfig: config.AuthConfig{
			JWTSecret: testJWTSecret,
			TokenTTL:  time.Hour,
		},
	}
}

func signTestToken(t *testing.T, claims *TokenClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenRejectsMalformed(t *testing.T) {
	s := testAuthService()

	_, err := s.ValidateToken(context.Background(), "not.a.jwt")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	s := testAuthService()

	token := signTestToken(t, &TokenClaims{
		SID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := s.ValidateToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "token expired", GetServiceError(err).Message)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	s := testAuthService()

	claims := &TokenClaims{
		SID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = s.ValidateToken(context.Background(), signed)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestValidateTokenRejectsUnsignedAlg(t *testing.T) {
	s := testAuthService()

	claims := &TokenClaims{
		SID: "abc",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.ValidateToken(context.Background(), unsigned)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", GetServiceError(err).Type)
}

func TestValidateTokenRejectsMissingSessionID(t *testing.T) {
	s := testAuthService()

	token := signTestToken(t, &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := s.ValidateToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, "invalid token", GetServiceError(err).Message)
}

func TestGenerateToken(t *testing.T) {
	first, err := generateToken(32)
	require.NoError(t, err)
	second, err := generateToken(32)
	require.NoError(t, err)

	assert.Len(t, first, 64, "32 bytes hex-encode to 64 chars")
	assert.NotEqual(t, first, second)
}

func TestLockoutAfterRepeatedFailures(t *testing.T) {
	ctx := context.Background()
	cacheClient := cache.NewMemoryCache(cache.DefaultConfig(), zap.NewNop())
	defer cacheClient.Close()

	s := testAuthService()
	s.cache = cacheClient
	s.authConfig.MaxLoginAttempts = 3
	s.authConfig.LockoutDuration = 15 * time.Minute

	require.NoError(t, s.checkLockout(ctx, "eve@example.com"))

	s.recordFailedAttempt(ctx, "eve@example.com")
	s.recordFailedAttempt(ctx, "eve@example.com")
	require.NoError(t, s.checkLockout(ctx, "eve@example.com"), "below the limit stays open")

	s.recordFailedAttempt(ctx, "eve@example.com")
	err := s.checkLockout(ctx, "eve@example.com")
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMIT", GetServiceError(err).Type)

	// Login is case-insensitive, so the lockout must be too
	assert.Error(t, s.checkLockout(ctx, "EVE@example.com"))

	s.clearFailedAttempts(ctx, "eve@example.com")
	assert.NoError(t, s.checkLockout(ctx, "eve@example.com"))
}
