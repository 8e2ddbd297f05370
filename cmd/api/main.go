package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cablesur/crm-backend/internal/api"
	"github.com/cablesur/crm-backend/internal/auth"
	"github.com/cablesur/crm-backend/internal/config"
	"github.com/cablesur/crm-backend/internal/domain"
	"github.com/cablesur/crm-backend/internal/repository"
	"github.com/cablesur/crm-backend/internal/sheets"
)

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Initialize logger
	logger, err := initLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Starting CableSur CRM API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	// Initialize spreadsheet client
	ctx := context.Background()
	store, err := sheets.NewClient(ctx, sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsJSON: []byte(cfg.Sheets.CredentialsJSON),
		Delay:           cfg.Sheets.APIDelay,
	})
	if err != nil {
		logger.Fatal("Failed to connect to spreadsheet", zap.Error(err))
	}

	logger.Info("Connected to spreadsheet", zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))

	loc, err := time.LoadLocation(cfg.Notifications.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, falling back to UTC", zap.String("timezone", cfg.Notifications.Timezone))
		loc = time.UTC
	}

	// Initialize dependencies
	notificationRepo := repository.NewNotificationRepository(store, cfg.Sheets.NotificationsSheet, loc)
	claimRepo := repository.NewClaimRepository(store, cfg.Sheets.ClaimsSheet, loc)
	userRepo := repository.NewUserRepository(store, cfg.Sheets.UsersSheet)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	// Initialize services
	notificationService := domain.NewNotificationService(notificationRepo, cfg.Notifications, logger)
	claimService := domain.NewClaimService(claimRepo, notificationService, loc, logger)
	authService := domain.NewAuthService(userRepo, jwtManager, logger)

	// Initialize handlers
	authHandler := api.NewAuthHandler(authService, logger)
	notificationHandler := api.NewNotificationHandler(notificationService, cfg.Notifications.CacheTTL, logger)
	claimHandler := api.NewClaimHandler(claimService, logger)
	healthHandler := api.NewHealthHandler(store)

	// Initialize router
	router := api.NewRouter(authHandler, notificationHandler, claimHandler, healthHandler, jwtManager, logger)
	r := router.Setup()

	// Start cleanup worker
	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	notificationService.StartCleanupWorker(cleanupCtx, cfg.Notifications.CleanupInterval)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Cancel cleanup worker
	cleanupCancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func initLogger() (*zap.Logger, error) {
	env := os.Getenv("ENV")
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
