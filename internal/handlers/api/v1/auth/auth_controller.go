// ===============================
// FILE: internal/handlers/api/v1/auth/auth_controller.go
// ===============================

package auth

import (
	"context"
	"encoding/json"
	"ecotrack/internal/middleware"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Controller handles authentication API endpoints
type Controller struct {
	auth            services.AuthService
	logger          *zap.Logger
	responseBuilder *response.Builder
	cookieSecure    bool
}

// NewController creates the authentication controller
func NewController(auth services.AuthService, logger *zap.Logger, responseBuilder *response.Builder, cookieSecure bool) *Controller {
	return &Controller{
		auth:            auth,
		logger:          logger,
		responseBuilder: responseBuilder,
		cookieSecure:    cookieSecure,
	}
}

// ===============================
// AUTHENTICATION ENDPOINTS
// ===============================

// Register handles user registration - POST /api/v1/auth/register
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "register"))

	var req services.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}

	authResp, err := c.auth.Register(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("User registered",
		zap.Int64("user_id", authResp.User.ID),
		zap.String("username", authResp.User.Username),
	)

	c.setTokenCookie(w, r, authResp.Token, authResp.ExpiresIn)
	c.responseBuilder.WriteCreated(w, r, authResp)
}

// Login handles user authentication - POST /api/v1/auth/login
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "login"))

	var req services.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.IPAddress = middleware.ClientIP(r)
	req.UserAgent = r.UserAgent()

	authResp, err := c.auth.Login(ctx, &req)
	if err != nil {
		logger.Warn("Login failed", zap.String("login", req.Login), zap.Error(err))
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("User logged in",
		zap.Int64("user_id", authResp.User.ID),
		zap.String("username", authResp.User.Username),
	)

	c.setTokenCookie(w, r, authResp.Token, authResp.ExpiresIn)
	c.responseBuilder.WriteSuccess(w, r, authResp)
}

// Logout invalidates the current session - POST /api/v1/auth/logout
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "logout"))

	session := middleware.GetCurrentSession(r.Context())
	if session == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	var req services.LogoutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
			return
		}
	}
	req.SessionToken = session.SessionToken

	if err := c.auth.Logout(ctx, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.clearTokenCookie(w, r)
	logger.Info("User logged out",
		zap.Int64("user_id", session.UserID),
		zap.Bool("all_devices", req.LogoutAll),
	)

	c.responseBuilder.WriteSuccess(w, r, map[string]string{"message": "logged out"})
}

// ChangePassword rotates the caller's password - POST /api/v1/auth/change-password
func (c *Controller) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logger := middleware.GetRequestLogger(r.Context()).With(zap.String("endpoint", "change_password"))

	user := middleware.GetCurrentUser(r.Context())
	session := middleware.GetCurrentSession(r.Context())
	if user == nil || session == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}

	var req services.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Invalid request body", zap.Error(err))
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid request body", err))
		return
	}
	req.UserID = user.ID
	req.SessionToken = session.SessionToken

	if err := c.auth.ChangePassword(ctx, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	logger.Info("Password changed", zap.Int64("user_id", user.ID))

	c.responseBuilder.WriteSuccess(w, r, map[string]string{"message": "password changed"})
}

// Me returns the authenticated user - GET /api/v1/auth/me
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetCurrentUser(r.Context())
	if user == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
		return
	}
	c.responseBuilder.WriteSuccess(w, r, user)
}

// ===============================
// HELPER METHODS
// ===============================

func (c *Controller) setTokenCookie(w http.ResponseWriter, r *http.Request, token string, expiresIn int64) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(time.Duration(expiresIn) * time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   c.cookieSecure || r.TLS != nil,
		Path:     "/",
	})
}

func (c *Controller) clearTokenCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   c.cookieSecure || r.TLS != nil,
		Path:     "/",
	})
}
