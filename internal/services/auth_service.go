// file: internal/services/auth_service.go
package services

import (
	"context"
	"crypto/rand"
	"ecotrack/internal/cache"
	"ecotrack/internal/config"
	"ecotrack/internal/events"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService
type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cache       cache.Cache
	events      events.EventBus
	logger      *zap.Logger
	validate    *validator.Validate
	authConfig  config.AuthConfig
	features    config.FeatureConfig
}

// TokenClaims are the JWT claims issued at login. SID binds the token to a
// server-side session so revocation takes effect immediately.
type TokenClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cache cache.Cache,
	events events.EventBus,
	logger *zap.Logger,
	authConfig config.AuthConfig,
	features config.FeatureConfig,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		events:      events,
		logger:      logger,
		validate:    newValidator(),
		authConfig:  authConfig,
		features:    features,
	}
}

// ===============================
// REGISTRATION
// ===============================

// Register creates a new account and opens its first session
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid registration request", err)
	}
	if len(req.Password) < s.authConfig.MinPasswordLength {
		return nil, NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.authConfig.MinPasswordLength), nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, NewInternalError("registration failed")
	} else if existing != nil {
		return nil, NewConflictError("email is already registered", "email_taken")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		s.logger.Error("Failed to check username uniqueness", zap.Error(err))
		return nil, NewInternalError("registration failed")
	} else if existing != nil {
		return nil, NewConflictError("username is already taken", "username_taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.authConfig.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError("registration failed")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleRegular,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", email),
			zap.String("username", username),
		)
		return nil, NewInternalError("registration failed")
	}

	resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, events.NewUserRegisteredEvent(user.ID, user.Email, user.Username)); err != nil {
		s.logger.Warn("Failed to publish registration event", zap.Error(err))
	}

	s.logger.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", username),
	)

	return resp, nil
}

// ===============================
// LOGIN / LOGOUT
// ===============================

// Login authenticates by email or username and opens a session
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewRequestValidationError("invalid login request", err)
	}

	login := strings.TrimSpace(req.Login)

	if err := s.checkLockout(ctx, login); err != nil {
		return nil, err
	}

	var user *models.User
	var err error
	if strings.Contains(login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, login)
	} else {
		user, err = s.userRepo.GetByUsername(ctx, login)
	}
	if err != nil {
		s.logger.Error("Failed to look up user during login", zap.Error(err))
		return nil, NewInternalError("authentication failed")
	}
	if user == nil {
		s.recordFailedAttempt(ctx, login)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		s.recordFailedAttempt(ctx, login)
		return nil, NewUnauthorizedError("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, login)
		s.logger.Warn("Invalid password attempt",
			zap.Int64("user_id", user.ID),
			zap.String("ip_address", req.IPAddress),
		)
		return nil, NewUnauthorizedError("invalid credentials")
	}

	s.clearFailedAttempts(ctx, login)

	if err := s.evictSurplusSessions(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to evict surplus sessions", zap.Error(err), zap.Int64("user_id", user.ID))
	}

	resp, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.events.Publish(ctx, events.NewUserLoggedInEvent(user.ID, req.IPAddress, req.UserAgent)); err != nil {
		s.logger.Warn("Failed to publish login event", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return resp, nil
}

// Logout revokes the current session, or every session for the user
func (s *authService) Logout(ctx context.Context, req *LogoutRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return NewRequestValidationError("invalid logout request", err)
	}

	session, err := s.sessionRepo.GetByToken(ctx, req.SessionToken)
	if err != nil {
		s.logger.Error("Failed to get session during logout", zap.Error(err))
		return NewInternalError("logout failed")
	}
	if session == nil {
		// already revoked
		s.invalidateSessionCache(ctx, req.SessionToken)
		return nil
	}

	if req.LogoutAll {
		deleted, err := s.sessionRepo.DeleteByUserID(ctx, session.UserID)
		if err != nil {
			s.logger.Error("Failed to delete user sessions", zap.Error(err))
			return NewInternalError("failed to logout from all devices")
		}
		s.invalidateUserSessionCache(ctx, session.UserID)
		s.logger.Info("User logged out from all devices",
			zap.Int64("user_id", session.UserID),
			zap.Int("sessions_revoked", deleted),
		)
	} else {
		if err := s.sessionRepo.Delete(ctx, req.SessionToken); err != nil {
			s.logger.Error("Failed to delete session", zap.Error(err))
			return NewInternalError("logout failed")
		}
		s.invalidateSessionCache(ctx, req.SessionToken)
		s.logger.Info("User logged out", zap.Int64("user_id", session.UserID))
	}

	if err := s.events.Publish(ctx, events.NewUserLoggedOutEvent(session.UserID, req.LogoutAll)); err != nil {
		s.logger.Warn("Failed to publish logout event", zap.Error(err))
	}

	return nil
}

// ChangePassword rotates a password and revokes every other session
func (s *authService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return NewRequestValidationError("invalid change password request", err)
	}
	if len(req.NewPassword) < s.authConfig.MinPasswordLength {
		return NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.authConfig.MinPasswordLength), nil)
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("Failed to get user for password change", zap.Error(err))
		return NewInternalError("password change failed")
	}
	if user == nil {
		return NewNotFoundError("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return NewUnauthorizedError("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.authConfig.BCryptCost)
	if err != nil {
		s.logger.Error("Failed to hash new password", zap.Error(err))
		return NewInternalError("password change failed")
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		s.logger.Error("Failed to update password", zap.Error(err))
		return NewInternalError("password change failed")
	}

	// Revoke every session, then restore the caller's own one so they stay
	// signed in.
	if _, err := s.sessionRepo.DeleteByUserID(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to revoke sessions after password change", zap.Error(err))
	}
	s.invalidateUserSessionCache(ctx, user.ID)
	if req.SessionToken != "" {
		session := &models.Session{
			UserID:       user.ID,
			SessionToken: req.SessionToken,
			ExpiresAt:    time.Now().Add(s.authConfig.TokenTTL),
		}
		if err := s.sessionRepo.Create(ctx, session); err != nil {
			s.logger.Warn("Failed to restore current session after password change", zap.Error(err))
		}
	}

	if err := s.events.Publish(ctx, events.NewPasswordChangedEvent(user.ID)); err != nil {
		s.logger.Warn("Failed to publish password changed event", zap.Error(err))
	}

	s.logger.Info("Password changed", zap.Int64("user_id", user.ID))
	return nil
}

// ===============================
// TOKEN VALIDATION
// ===============================

// ValidateToken verifies the JWT signature and expiry, then resolves the
// embedded session against the store. A deleted session means the token is
// revoked regardless of its expiry.
func (s *authService) ValidateToken(ctx context.Context, token string) (*models.Session, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewUnauthorizedError("token expired")
		}
		return nil, NewUnauthorizedError("invalid token")
	}
	if !parsed.Valid || claims.SID == "" {
		return nil, NewUnauthorizedError("invalid token")
	}

	session, err := s.getSession(ctx, claims.SID)
	if err != nil {
		s.logger.Error("Failed to resolve session", zap.Error(err))
		return nil, NewInternalError("authentication failed")
	}
	if session == nil {
		return nil, NewUnauthorizedError("session revoked or expired")
	}
	if !session.UserIsActive {
		return nil, NewUnauthorizedError("account is deactivated")
	}

	if claims.Subject != "" {
		if sub, err := strconv.ParseInt(claims.Subject, 10, 64); err != nil || sub != session.UserID {
			return nil, NewUnauthorizedError("invalid token")
		}
	}

	if err := s.sessionRepo.RefreshActivity(ctx, claims.SID); err != nil {
		s.logger.Debug("Failed to refresh session activity", zap.Error(err))
	}

	return session, nil
}

// EnsureBootstrapAdmin guarantees the protected admin account exists and
// holds the admin role. Called once at startup.
func (s *authService) EnsureBootstrapAdmin(ctx context.Context) (*models.User, error) {
	email := strings.ToLower(s.features.BootstrapAdminEmail)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	if user != nil {
		if user.Role != models.RoleAdmin {
			if err := s.userRepo.UpdateRole(ctx, user.ID, models.RoleAdmin); err != nil {
				return nil, fmt.Errorf("failed to restore bootstrap admin role: %w", err)
			}
			user.Role = models.RoleAdmin
			s.logger.Warn("Restored bootstrap admin role", zap.Int64("user_id", user.ID))
		}
		if !user.IsActive {
			if err := s.userRepo.SetActive(ctx, user.ID, true); err != nil {
				return nil, fmt.Errorf("failed to reactivate bootstrap admin: %w", err)
			}
			user.IsActive = true
			s.logger.Warn("Reactivated bootstrap admin", zap.Int64("user_id", user.ID))
		}
		return user, nil
	}

	password := s.features.BootstrapAdminPassword
	if password == "" {
		generated, err := generateToken(12)
		if err != nil {
			return nil, fmt.Errorf("failed to generate bootstrap admin password: %w", err)
		}
		password = generated
		s.logger.Warn("BOOTSTRAP_ADMIN_PASSWORD not set, generated one-time password",
			zap.String("email", email),
			zap.String("password", password),
		)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.authConfig.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &models.User{
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("Bootstrap admin created",
		zap.Int64("user_id", admin.ID),
		zap.String("email", email),
	)
	return admin, nil
}

// CleanupExpiredSessions removes dead sessions
func (s *authService) CleanupExpiredSessions(ctx context.Context) (int, error) {
	deleted, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("Expired sessions removed", zap.Int("count", deleted))
	}
	return deleted, nil
}

// ===============================
// SESSION HELPERS
// ===============================

// openSession creates a server-side session and issues a JWT bound to it
func (s *authService) openSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	sessionToken, err := generateToken(32)
	if err != nil {
		s.logger.Error("Failed to generate session token", zap.Error(err))
		return nil, NewInternalError("failed to create session")
	}

	now := time.Now()
	session := &models.Session{
		UserID:       user.ID,
		SessionToken: sessionToken,
		ExpiresAt:    now.Add(s.authConfig.TokenTTL),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Failed to create session", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, NewInternalError("failed to create session")
	}

	claims := &TokenClaims{
		SID: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return nil, NewInternalError("failed to create session")
	}

	user.PasswordHash = ""

	return &AuthResponse{
		User:      user,
		Token:     signed,
		TokenType: "Bearer",
		ExpiresIn: int64(s.authConfig.TokenTTL.Seconds()),
	}, nil
}

// evictSurplusSessions drops the oldest sessions when the per-user cap is hit
func (s *authService) evictSurplusSessions(ctx context.Context, userID int64) error {
	count, err := s.sessionRepo.CountByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if count < s.authConfig.MaxActiveSessions {
		return nil
	}
	// Keep one slot free for the session about to be created.
	if err := s.sessionRepo.DeleteOldest(ctx, userID, s.authConfig.MaxActiveSessions-1); err != nil {
		return err
	}
	s.invalidateUserSessionCache(ctx, userID)
	return nil
}

const sessionCachePrefix = "session:"

// getSession resolves a session token, cache first
func (s *authService) getSession(ctx context.Context, token string) (*models.Session, error) {
	var cached models.Session
	if s.cache.Get(ctx, sessionCachePrefix+token, &cached) && !cached.IsExpired() {
		return &cached, nil
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil || session == nil {
		return session, err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl > 5*time.Minute {
		ttl = 5 * time.Minute
	}
	if ttl > 0 {
		if err := s.cache.Set(ctx, sessionCachePrefix+token, session, ttl); err != nil {
			s.logger.Debug("Failed to cache session", zap.Error(err))
		}
	}
	return session, nil
}

func (s *authService) invalidateSessionCache(ctx context.Context, token string) {
	if err := s.cache.Delete(ctx, sessionCachePrefix+token); err != nil {
		s.logger.Debug("Failed to invalidate session cache", zap.Error(err))
	}
}

// invalidateUserSessionCache drops every cached session. Token keys are not
// indexed by user, so a bulk revocation clears the whole prefix.
func (s *authService) invalidateUserSessionCache(ctx context.Context, userID int64) {
	if err := s.cache.DeletePattern(ctx, sessionCachePrefix+"*"); err != nil {
		s.logger.Debug("Failed to clear session cache", zap.Error(err))
	}
}

// ===============================
// LOCKOUT
// ===============================

func lockoutKey(login string) string {
	return "auth:failed:" + strings.ToLower(login)
}

func (s *authService) checkLockout(ctx context.Context, login string) error {
	var attempts int64
	if !s.cache.Get(ctx, lockoutKey(login), &attempts) {
		return nil
	}
	if attempts >= int64(s.authConfig.MaxLoginAttempts) {
		s.logger.Warn("Login attempt on locked account", zap.String("login", login))
		return NewRateLimitError(
			fmt.Sprintf("too many failed attempts, try again in %s", s.authConfig.LockoutDuration), nil)
	}
	return nil
}

func (s *authService) recordFailedAttempt(ctx context.Context, login string) {
	attempts, err := s.cache.Increment(ctx, lockoutKey(login), 1)
	if err != nil {
		s.logger.Debug("Failed to record login attempt", zap.Error(err))
		return
	}
	if err := s.cache.SetTTL(ctx, lockoutKey(login), s.authConfig.LockoutDuration); err != nil {
		s.logger.Debug("Failed to set lockout TTL", zap.Error(err))
	}
	if int(attempts) == s.authConfig.MaxLoginAttempts {
		s.logger.Warn("Account locked after repeated failures", zap.String("login", login))
	}
}

func (s *authService) clearFailedAttempts(ctx context.Context, login string) {
	if err := s.cache.Delete(ctx, lockoutKey(login)); err != nil {
		s.logger.Debug("Failed to clear login attempts", zap.Error(err))
	}
}

// generateToken returns n random bytes hex-encoded
func generateToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
