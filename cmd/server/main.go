// FinCoach conversational financial education server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/monetalab/fincoach/internal/activity"
	"github.com/monetalab/fincoach/internal/config"
	"github.com/monetalab/fincoach/internal/onboarding"
	"github.com/monetalab/fincoach/internal/server"
	"github.com/monetalab/fincoach/pkg/graph/checkpoint"
	"github.com/monetalab/fincoach/pkg/graph/observability"
	"github.com/monetalab/fincoach/pkg/llm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	for _, path := range []string{cfg.CheckpointPath, cfg.ActivityDBPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			slog.Error("Failed to create data directory", "path", path, "error", err)
			os.Exit(1)
		}
	}

	checkpoints, err := checkpoint.NewSQLiteStore(cfg.CheckpointPath)
	if err != nil {
		slog.Error("Failed to open checkpoint store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := checkpoints.Close(); closeErr != nil {
			slog.Error("Failed to close checkpoint store", "error", closeErr)
		}
	}()

	activities, err := activity.NewStore(cfg.ActivityDBPath)
	if err != nil {
		slog.Error("Failed to open activity store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := activities.Close(); closeErr != nil {
			slog.Error("Failed to close activity store", "error", closeErr)
		}
	}()

	var client llm.Client
	if cfg.OpenAI.BaseURL != "" {
		client, err = llm.NewOpenAIWithBaseURL(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.ChatModel)
	} else {
		client, err = llm.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel)
	}
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}
	client = llm.NewRetrying(client, llm.DefaultRetry)

	metrics := observability.NewMetricsRecorder()
	spans := observability.NewSpanManager()

	onboardingAgent, err := onboarding.NewAgent(onboarding.Options{
		LLM:          client,
		Store:        checkpoints,
		Logger:       logger,
		Metrics:      metrics,
		Spans:        spans,
		ChatModel:    cfg.OpenAI.ChatModel,
		ExtractModel: cfg.OpenAI.ExtractionModel,
	})
	if err != nil {
		slog.Error("Failed to build onboarding agent", "error", err)
		os.Exit(1)
	}

	activityAgent, err := activity.NewAgent(activity.Options{
		LLM:       client,
		Store:     checkpoints,
		Logger:    logger,
		Metrics:   metrics,
		Spans:     spans,
		ChatModel: cfg.OpenAI.ChatModel,
	})
	if err != nil {
		slog.Error("Failed to build activity agent", "error", err)
		os.Exit(1)
	}

	generator := activity.NewGenerator(client, cfg.OpenAI.ExtractionModel)

	srv := server.New(server.Options{
		Onboarding: onboardingAgent,
		Activity:   activityAgent,
		Generator:  generator,
		Store:      activities,
		Logger:     logger,
	})

	allowedOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	// SSE responses stay open for the full turn, so no write timeout.
	httpSrv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv.Router(allowedOrigins),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
