package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/auth"
	"github.com/cablesur/crm-backend/internal/middleware"
)

// Router holds all handlers and creates the chi router
type Router struct {
	authHandler         *AuthHandler
	notificationHandler *NotificationHandler
	claimHandler        *ClaimHandler
	healthHandler       *HealthHandler
	jwtManager          *auth.JWTManager
	logger              *zap.Logger
}

// NewRouter creates a new router
func NewRouter(
	authHandler *AuthHandler,
	notificationHandler *NotificationHandler,
	claimHandler *ClaimHandler,
	healthHandler *HealthHandler,
	jwtManager *auth.JWTManager,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		notificationHandler: notificationHandler,
		claimHandler:        claimHandler,
		healthHandler:       healthHandler,
		jwtManager:          jwtManager,
		logger:              logger,
	}
}

// Setup configures and returns the chi router
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(chimiddleware.Compress(5))

	// Health endpoints (no auth required)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", rt.healthHandler.Health)
		r.Get("/ready", rt.healthHandler.Ready)
		r.Get("/live", rt.healthHandler.Live)
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.jwtManager))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Post("/", rt.notificationHandler.Create)
				r.Post("/read", rt.notificationHandler.MarkRead)
				r.Delete("/{id}", rt.notificationHandler.Delete)

				r.With(middleware.RequireAdmin).Post("/cleanup", rt.notificationHandler.Cleanup)
			})

			r.Route("/claims", func(r chi.Router) {
				r.Get("/", rt.claimHandler.List)
				r.Post("/", rt.claimHandler.Create)
				r.Get("/{id}", rt.claimHandler.Get)
				r.Put("/{id}/status", rt.claimHandler.UpdateStatus)
				r.Put("/{id}/technician", rt.claimHandler.AssignTechnician)
				r.Post("/{id}/close", rt.claimHandler.Close)
			})

			r.Get("/stats", rt.healthHandler.Stats)
		})
	})

	return r
}
