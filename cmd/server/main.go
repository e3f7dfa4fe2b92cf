// Package main initializes and starts the burn classification API server,
// setting up configuration, logging, the database connection, repositories,
// services, the background persistence worker, and HTTP handlers.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/avdeyev/burnscan/internal/classifier"
	"github.com/avdeyev/burnscan/internal/config"
	"github.com/avdeyev/burnscan/internal/db"
	"github.com/avdeyev/burnscan/internal/imaging"
	"github.com/avdeyev/burnscan/internal/logger"
	"github.com/avdeyev/burnscan/internal/repository"
	"github.com/avdeyev/burnscan/internal/server/handler/http"
	"github.com/avdeyev/burnscan/internal/service"
	"github.com/avdeyev/burnscan/internal/token"
	"github.com/avdeyev/burnscan/internal/worker"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line, file, and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	buildVersion := version
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	buildTime := buildDate
	if buildTime == "" {
		buildTime = "N/A"
	}
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildTime)

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	if options.SecretKey == "" {
		zapLogger.Fatal("token signing secret is not configured")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	classificationRepo := repository.NewPostgresClassificationRepository(postgresDB)

	// Initialize the token codec and business-logic services.
	codec := token.NewCodec([]byte(options.SecretKey), options.TokenTTL)
	authService := service.NewAuthService(userRepo, codec)

	model := classifier.NewRemoteClassifier(options.ModelURL, options.Labels(), options.ExpectedAccuracy, zapLogger)
	persister := worker.NewPersister(classificationRepo, options.QueueSize, zapLogger)
	persister.Start()

	classificationService := service.NewClassificationService(
		imaging.NewNormalizer(),
		model,
		persister,
		classificationRepo,
	)

	// Create HTTP handlers and the router.
	authHandler := &http.AuthHandler{AuthService: authService, Log: zapLogger}
	classificationHandler := &http.ClassificationHandler{Service: classificationService, Log: zapLogger}
	router := http.NewRouter(authHandler, classificationHandler, authService, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Addr,
		Handler: router,
	}

	// Shut down on SIGINT/SIGTERM, draining queued persistence work last.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}

	persister.Close()
	zapLogger.Info("server stopped")
}
