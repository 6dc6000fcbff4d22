package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/commentors-net/AtFoodAI/internal/config"
	"github.com/commentors-net/AtFoodAI/internal/handlers"
	"github.com/commentors-net/AtFoodAI/internal/pricing"
	"github.com/commentors-net/AtFoodAI/internal/provider"
	"github.com/commentors-net/AtFoodAI/internal/ratelimit"
	"github.com/commentors-net/AtFoodAI/internal/repository"
	"github.com/commentors-net/AtFoodAI/internal/services"
	"github.com/commentors-net/AtFoodAI/internal/store"
	"github.com/commentors-net/AtFoodAI/pkg/server"
)

func main() {
	var envFile = flag.String("env", "", "Optional .env file to load")
	flag.Parse()

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Open local audit database
	_ = os.MkdirAll(filepath.Dir(cfg.AuditDBPath), 0755)
	auditDB, err := store.OpenAudit(cfg.AuditDBPath)
	if err != nil {
		slog.Error("Failed to open audit database", "error", err)
		os.Exit(1)
	}
	defer auditDB.Close()

	auditDB.Event("info", "startup", "Gateway starting", map[string]interface{}{
		"model":     cfg.Model,
		"http_addr": cfg.HTTPAddr,
		"audit_db":  cfg.AuditDBPath,
	})

	// Open conversation store and run the idempotent schema migration
	convs, err := store.OpenConversations(cfg.DatabaseURI)
	if err != nil {
		slog.Error("Failed to open conversation store", "error", err)
		os.Exit(1)
	}
	defer convs.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := convs.EnsureSchema(ctx); err != nil {
		auditDB.Event("error", "schema.failed", "Schema migration failed", map[string]interface{}{
			"error": err.Error(),
		})
		slog.Error("Failed to ensure conversation schema", "error", err)
		os.Exit(1)
	}
	auditDB.Event("info", "schema.ready", "Conversation schema ensured", nil)

	// Initialize repository and services
	repo := repository.NewSQLiteRepository(auditDB)
	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	generator := provider.NewClient(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL, cfg.OpenAITimeout)
	prices := pricing.Table{InputPer1K: cfg.InputPricePer1K, OutputPer1K: cfg.OutputPricePer1K}
	atfoodService := services.NewAtfoodService(limiter, generator, prices, convs, repo, cfg.APIToken)

	auditDB.Event("info", "services.init", "Services initialized", map[string]interface{}{
		"http_addr":         cfg.HTTPAddr,
		"nats_url":          cfg.NatsURL,
		"rate_limit":        cfg.RateLimitRequests,
		"rate_limit_window": cfg.RateLimitWindow.String(),
	})

	// Start HTTP server
	atfoodHandler := handlers.NewAtfoodHandler(atfoodService)
	httpServer := server.NewServer(cfg.HTTPAddr, atfoodHandler, cfg.CORSOrigins)

	go func() {
		if err := httpServer.Start(); err != nil {
			auditDB.Event("error", "http.failed", "HTTP server failed", map[string]interface{}{
				"error": err.Error(),
			})
			slog.Error("HTTP server failed", "error", err)
		}
	}()

	// Start NATS transport when configured
	if cfg.NatsURL != "" {
		natsService, err := services.NewNATSService(cfg, atfoodService)
		if err != nil {
			auditDB.Event("error", "nats.failed", "NATS service initialization failed", map[string]interface{}{
				"nats_url": cfg.NatsURL,
				"error":    err.Error(),
			})
			slog.Error("Failed to create NATS service", "error", err)
			os.Exit(1)
		}
		defer natsService.Close()

		go func() {
			if err := natsService.Start(ctx); err != nil {
				auditDB.Event("error", "nats.failed", "NATS service failed", map[string]interface{}{
					"error": err.Error(),
				})
				slog.Error("NATS service failed", "error", err)
			}
		}()
	}

	auditDB.Event("info", "server.ready", "Gateway ready to accept requests", map[string]interface{}{
		"http_addr": cfg.HTTPAddr,
		"model":     cfg.Model,
	})

	// Graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("Shutting down gateway")
}
