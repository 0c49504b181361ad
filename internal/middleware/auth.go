// file: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"ecotrack/internal/models"
	"ecotrack/internal/repositories"
	"ecotrack/internal/services"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	// UserKey is the context key for the authenticated user
	UserKey ContextKey = "current_user"
	// SessionKey is the context key for the authenticated session
	SessionKey ContextKey = "current_session"
)

// TokenCookieName is the cookie fallback for browser clients
const TokenCookieName = "ecotrack_token"

// AuthMiddleware authenticates requests against the session store
type AuthMiddleware struct {
	auth   services.AuthService
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware creates authentication middleware
func NewAuthMiddleware(auth services.AuthService, users repositories.UserRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		users:  users,
		logger: logger,
	}
}

// Authenticate resolves the bearer token into a user. With required set,
// requests without a valid token are rejected; otherwise they continue
// anonymously.
func (m *AuthMiddleware) Authenticate(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				if required {
					writeAuthError(w, r, http.StatusUnauthorized, "authentication required")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			session, err := m.auth.ValidateToken(r.Context(), token)
			if err != nil {
				if required {
					status := http.StatusUnauthorized
					message := "invalid or expired token"
					if svcErr := services.GetServiceError(err); svcErr != nil {
						status = svcErr.GetStatusCode()
						message = svcErr.Message
					}
					writeAuthError(w, r, status, message)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := m.users.GetByID(r.Context(), session.UserID)
			if err != nil || user == nil || !user.IsActive {
				if required {
					writeAuthError(w, r, http.StatusUnauthorized, "account unavailable")
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			user.PasswordHash = ""

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// Must run after Authenticate(true).
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetCurrentUser(r.Context())
		if user == nil {
			writeAuthError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin() {
			m.logger.Warn("Admin route denied",
				zap.Int64("user_id", user.ID),
				zap.String("path", r.URL.Path),
			)
			writeAuthError(w, r, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetCurrentUser returns the authenticated user, or nil
func GetCurrentUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetCurrentSession returns the authenticated session, or nil
func GetCurrentSession(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(SessionKey).(*models.Session); ok {
		return session
	}
	return nil
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the session cookie for browser clients
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"message": message,
		},
		"request_id": GetRequestID(r.Context()),
	})
}
