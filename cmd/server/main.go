// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"research-assistant/internal/agent"
	"research-assistant/internal/common/config"
	"research-assistant/internal/common/database"
	"research-assistant/internal/common/logger"
	"research-assistant/internal/common/observability"
	"research-assistant/internal/handlers"
	"research-assistant/internal/research/orchestrator"
	"research-assistant/internal/session"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting research assistant",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	sessionOpts := session.Options{
		TTL:          time.Duration(cfg.Session.TTLHours) * time.Hour,
		HistoryLimit: cfg.Session.HistoryLimit,
	}

	var store session.Store
	switch cfg.Session.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Session.Redis)
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis unavailable", zap.Error(err))
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient.GetClient(), sessionOpts)
	default:
		store = session.NewMemoryStore(sessionOpts)
	}
	zapLog.Info("session store ready", zap.String("backend", cfg.Session.Backend))

	knowledgeAgent := agent.NewHTTPAgent(&agent.Config{
		BaseURL:    cfg.Agent.BaseURL,
		Timeout:    cfg.Agent.GetTimeout(),
		MaxRetries: cfg.Agent.MaxRetries,
	}, log)

	pipeline := orchestrator.New(knowledgeAgent, store, &orchestrator.Config{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
	}, log, obs)

	handler := handlers.NewResearchHandler(pipeline, store, log)
	router := handlers.NewRouter(handler, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		zapLog.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("stopped")
}
