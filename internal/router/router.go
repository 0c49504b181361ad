package router

import (
	"ecotrack/internal/config"
	"ecotrack/internal/database"
	"ecotrack/internal/handlers/api/v1/actions"
	"ecotrack/internal/handlers/api/v1/auth"
	"ecotrack/internal/handlers/api/v1/badges"
	"ecotrack/internal/handlers/api/v1/leaderboard"
	"ecotrack/internal/handlers/api/v1/locations"
	"ecotrack/internal/handlers/api/v1/platform"
	"ecotrack/internal/handlers/api/v1/users"
	"ecotrack/internal/middleware"
	"ecotrack/internal/response"
	"ecotrack/internal/services"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Deps carries everything the router needs wired in
type Deps struct {
	Services *services.ServiceCollection
	DB       *database.Manager
	Config   *config.Config
	Limiter  middleware.RateLimiter
	Logger   *zap.Logger
}

// New builds the HTTP handler with the full middleware stack and all
// API v1 routes
func New(deps Deps) http.Handler {
	logger := deps.Logger
	builder := response.NewBuilder(response.DefaultConfig(), logger)
	authMW := middleware.NewAuthMiddleware(deps.Services.Auth, deps.Services.Repositories().User, logger)

	authController := auth.NewController(deps.Services.Auth, logger, builder, deps.Config.Auth.CookieSecure)
	actionsController := actions.NewController(deps.Services.Actions, deps.Services.Files, logger, builder)
	leaderboardController := leaderboard.NewController(deps.Services.Leaderboard, logger, builder)
	badgesController := badges.NewController(deps.Services.Badges, logger, builder)
	locationsController := locations.NewController(deps.Services.Locations, logger, builder)
	usersController := users.NewController(deps.Services.Users, logger, builder)
	platformController := platform.NewController(deps.Services.Stats, deps.Services, deps.DB, logger, builder)

	r := chi.NewRouter()

	r.Use(middleware.RequestID(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(deps.Config.Server.CORSOrigin))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter, logger))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, 60*time.Second, "request timed out")
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes, optionally authenticated
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate(false))

			r.Post("/auth/register", authController.Register)
			r.Post("/auth/login", authController.Login)

			r.Get("/actions", actionsController.Feed)
			r.Get("/actions/{id}", actionsController.Get)
			r.Get("/leaderboard", leaderboardController.Top)
			r.Get("/badges", badgesController.List)
			r.Get("/locations", locationsController.List)
			r.Get("/locations/{id}", locationsController.Get)
			r.Get("/users/{username}", usersController.Profile)
			r.Get("/users/{id:[0-9]+}/badges", badgesController.ForUser)
			r.Get("/stats", platformController.Stats)
			r.Get("/health", platformController.Health)
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate(true))

			r.Post("/auth/logout", authController.Logout)
			r.Post("/auth/change-password", authController.ChangePassword)
			r.Get("/auth/me", authController.Me)

			r.Post("/actions", actionsController.Submit)
			r.Post("/actions/photo", actionsController.UploadPhoto)
			r.Get("/actions/mine", actionsController.Mine)
			r.Delete("/actions/{id}", actionsController.Delete)

			r.Get("/leaderboard/me", leaderboardController.Standing)
			r.Get("/badges/mine", badgesController.Mine)
			r.Post("/locations", locationsController.Suggest)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMW.Authenticate(true))
			r.Use(authMW.RequireAdmin)

			r.Get("/actions/pending", actionsController.Pending)
			r.Post("/actions/{id}/review", actionsController.Review)

			r.Get("/locations/pending", locationsController.Pending)
			r.Post("/locations/{id}/approve", locationsController.Approve)
			r.Delete("/locations/{id}", locationsController.Delete)

			r.Get("/users", usersController.List)
			r.Put("/users/{id}/role", usersController.UpdateRole)
			r.Post("/users/{id}/activate", usersController.Activate)
			r.Post("/users/{id}/deactivate", usersController.Deactivate)

			r.Post("/badges/reconcile", badgesController.Reconcile)
		})
	})

	return r
}
