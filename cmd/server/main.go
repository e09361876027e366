package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/config"
	"idea-path/internal/common/database"
	"idea-path/internal/common/logger"
	"idea-path/internal/common/observability"
	"idea-path/internal/models"
	"idea-path/internal/pipeline"
	"idea-path/internal/pipeline/contextbuilder"
	"idea-path/internal/pipeline/fallback"
	"idea-path/internal/pipeline/formatter"
	"idea-path/internal/pipeline/normalizer"
	"idea-path/internal/pipeline/orchestrator"
	"idea-path/internal/provider"
	"idea-path/internal/server"
	"idea-path/internal/storage"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recommendation server...",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init storage backend ---
	var backend storage.Store
	switch cfg.Storage.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Storage.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully", zap.String("address", cfg.Storage.Redis.Address))

		backend = storage.NewRedisStore(redisClient.GetClient())
	default:
		zapLog.Info("Using in-memory storage backend")
		backend = storage.NewMemoryStore()
	}

	stores := storage.NewStores(backend,
		config.GetDuration(cfg.Storage.SessionTTL),
		config.GetDuration(cfg.Storage.ResultTTL),
		config.GetDuration(cfg.Storage.ContextTTL),
	)

	// --- Init model providers ---
	primary, err := provider.FromConfig(cfg.AI.Primary)
	if err != nil {
		zapLog.Fatal("primary provider init failed", zap.Error(err))
	}
	secondary, err := provider.FromConfig(cfg.AI.Fallback)
	if err != nil {
		zapLog.Fatal("fallback provider init failed", zap.Error(err))
	}

	zapLog.Info("Model providers configured",
		zap.String("primary", cfg.AI.Primary.Name),
		zap.String("primaryModel", cfg.AI.Primary.Model),
		zap.Bool("primaryAvailable", primary.Available()),
		zap.String("fallback", cfg.AI.Fallback.Name),
		zap.String("fallbackModel", cfg.AI.Fallback.Model),
		zap.Bool("fallbackAvailable", secondary.Available()),
	)

	if !primary.Available() && !secondary.Available() {
		zapLog.Warn("No provider API keys configured; all requests will be served from pre-authored responses")
	}

	// --- Probe the canned response path ---
	// A broken template must fail the deploy, not the first degraded request.
	if err := probeFallback(); err != nil {
		zapLog.Fatal("fallback response probe failed", zap.Error(err))
	}
	zapLog.Info("Fallback response probe passed")

	orch := orchestrator.New(primary, secondary, log, orchestrator.Options{
		Timeout:              config.GetDuration(cfg.AI.RequestTimeout),
		MaxTokens:            int64(cfg.AI.MaxTokens),
		PrimaryTemperature:   cfg.AI.PrimaryTemperature,
		SecondaryTemperature: cfg.AI.SecondaryTemperature,
		SkipSecondary:        cfg.AI.SkipSecondary,
	})

	pipe := pipeline.New(orch, stores, log, pipeline.Options{
		ModelNames: map[string]string{
			cfg.AI.Primary.Name:  cfg.AI.Primary.Model,
			cfg.AI.Fallback.Name: cfg.AI.Fallback.Model,
		},
	})

	verifier := auth.NewVerifier(cfg.Auth.VerifyURL, config.GetDuration(cfg.Auth.Timeout))

	srv := server.New(pipe, stores, verifier, log, cfg, obs)

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Ops server: metrics, pprof, readiness ---
	go func() {
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Ops server listening", zap.String("address", cfg.Server.OpsAddress))
		if err := http.ListenAndServe(cfg.Server.OpsAddress, nil); err != nil {
			zapLog.Error("Ops server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Recommendation server stopped gracefully")
}

// probeFallback runs one pre-authored response through the schema gate.
func probeFallback() error {
	profile := normalizer.Normalize(models.RawInput{
		Skills:       "general trade",
		Budget:       "under-1k",
		LocationType: "rural village",
	})
	resp := fallback.Get(contextbuilder.Build(profile), "startup-probe", fallback.ReasonStartupProbe)
	return formatter.Validate(resp)
}
