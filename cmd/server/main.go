package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ml-course-assistant/backend/internal/conversation"
	"ml-course-assistant/backend/internal/llm"
	"ml-course-assistant/backend/internal/prompts"
	"ml-course-assistant/backend/internal/service"
	"ml-course-assistant/backend/internal/usage"
	"ml-course-assistant/backend/pkg/config"
	"ml-course-assistant/backend/pkg/health"
	"ml-course-assistant/backend/pkg/logger"
	"ml-course-assistant/backend/pkg/metrics"
	"ml-course-assistant/backend/pkg/resilience"
	"ml-course-assistant/backend/pkg/router"
)

func main() {
	cfg := config.New()

	log := logger.New(logger.Config{
		Level: cfg.Logging.Level,
		JSON:  cfg.Logging.Format == "json",
	})
	logger.SetGlobal(log)

	log.Info("starting course assistant backend",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"model", cfg.LLM.Model,
	)

	store := conversation.New(log, cfg.Store.SnapshotDir)
	registry := prompts.NewRegistry()
	tracker := usage.NewTracker()
	m := metrics.New()

	llmClient := llm.NewClient(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, log)
	if !llmClient.Configured() {
		log.Warn("GROQ_API_KEY is not set, chat requests will fail with a configuration error")
	}

	chatService := service.NewChatService(registry, store, llmClient, tracker, m, log)

	checker := health.NewChecker(log)
	checker.Register("llm", func() (health.Status, string, error) {
		if !llmClient.Configured() {
			return health.StatusDegraded, "API key not configured", nil
		}
		if llmClient.BreakerState() == resilience.StateOpen {
			return health.StatusDegraded, "upstream circuit open", nil
		}
		return health.StatusUp, "configured", nil
	})
	checker.Register("store", func() (health.Status, string, error) {
		if cfg.Store.SnapshotDir == "" {
			return health.StatusUp, "in-memory only, snapshots disabled", nil
		}
		if err := os.MkdirAll(cfg.Store.SnapshotDir, 0o755); err != nil {
			return health.StatusDown, "snapshot directory not writable", err
		}
		return health.StatusUp, "snapshots enabled", nil
	})

	engine := router.New(router.Deps{
		Config:      cfg,
		Logger:      log,
		Registry:    registry,
		Store:       store,
		ChatService: chatService,
		Metrics:     m,
		Health:      checker,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err.Error())
	}

	log.Info("server exited")
}
