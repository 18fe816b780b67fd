// Package main initializes and starts the mood-journal HTTP server,
// setting up configuration, logging, the database connection,
// repositories, services, and handlers.
package main

import (
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/moodpair/internal/config"
	"github.com/atinyakov/moodpair/internal/crypto"
	"github.com/atinyakov/moodpair/internal/db"
	"github.com/atinyakov/moodpair/internal/logger"
	"github.com/atinyakov/moodpair/internal/repository"
	"github.com/atinyakov/moodpair/internal/server/handler/http"
	"github.com/atinyakov/moodpair/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	versionStr, buildDateStr := version, buildDate
	if versionStr == "" {
		versionStr = "N/A"
	}
	if buildDateStr == "" {
		buildDateStr = "N/A"
	}
	fmt.Printf("Build version: %s\n", versionStr)
	fmt.Printf("Build date: %s\n", buildDateStr)

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// The field codec refuses to start without a secret.
	codec, err := crypto.NewCodec(options.EncryptionKey, crypto.DefaultPolicy)
	if err != nil {
		zapLogger.Fatal("cannot init field encryption", zap.Error(err))
	}

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN, options.DatabaseSSLDisable)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted rows past retention.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	moodRepo := repository.NewPostgresMoodRepository(postgresDB)
	taskRepo := repository.NewPostgresTaskRepository(postgresDB)
	coupleRepo := repository.NewPostgresCoupleRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, sessionRepo)
	moodService := service.NewMoodService(moodRepo, codec)
	taskService := service.NewTaskService(taskRepo, codec)
	coupleService := service.NewCoupleService(coupleRepo, userRepo, codec)

	// Create HTTP handlers.
	secureCookies := options.Environment == "production"
	authHandler := &http.AuthHandler{AuthService: authService, SecureCookies: secureCookies}
	moodHandler := &http.MoodHandler{MoodService: moodService}
	taskHandler := &http.TaskHandler{TaskService: taskService}
	coupleHandler := &http.CoupleHandler{CoupleService: coupleService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, moodHandler, taskHandler, coupleHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
