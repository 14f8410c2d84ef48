package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/transcriptai/transcript-service/internal/api"
	"github.com/transcriptai/transcript-service/internal/config"
	"github.com/transcriptai/transcript-service/internal/gemini"
	"github.com/transcriptai/transcript-service/internal/observability"
	"github.com/transcriptai/transcript-service/internal/orchestrator"
	"github.com/transcriptai/transcript-service/internal/session"
	"github.com/transcriptai/transcript-service/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use fmt for fatal errors before logger is initialized
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	observability.InitLogger(cfg.LogLevel, cfg.LogPretty)
	logger := observability.GetLogger()

	logger.Info().
		Str("port", cfg.Port).
		Str("model", cfg.GeminiModel).
		Str("log_level", cfg.LogLevel).
		Bool("metrics_enabled", cfg.MetricsEnabled).
		Bool("storage_configured", cfg.StorageConfigured()).
		Msg("Transcript service starting")

	// Staged uploads are optional; without R2 credentials the service
	// still serves direct requests, but upload-url is disabled.
	var store storage.Store
	if cfg.StorageConfigured() {
		r2, err := storage.NewR2Store(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		store = r2
		logger.Info().Str("bucket", cfg.R2BucketName).Msg("Object storage enabled")
	} else {
		logger.Warn().Msg("R2 credentials missing; staged uploads disabled")
	}

	capability := gemini.NewClient(cfg)
	transcriber := orchestrator.New(cfg, capability, store)
	sessionStore := session.NewStore()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.NewServer(cfg, store, transcriber, sessionStore).Router(),
		ReadTimeout: 15 * time.Second,
		// A transcription response is only written once the model call
		// finishes, so the write timeout must outlast it.
		WriteTimeout: time.Duration(cfg.TranscribeTimeout+30) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited gracefully")
}
