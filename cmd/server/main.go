// Package main is the entry point for the print quote HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/advisor"
	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/config"
	"github.com/fleveque/print-quote-service/internal/llm"
	"github.com/fleveque/print-quote-service/internal/server"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/storage"
)

func main() {
	// run is separate so its deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; nothing to do about it.
	defer func() { _ = logger.Sync() }()

	prices, err := catalog.DefaultPrices.WithOverrides(cfg.Catalog.PricesPerM2)
	if err != nil {
		return fmt.Errorf("catalog prices: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	fs, err := storage.NewFileSystem(cfg.Storage.ArtworkDir)
	if err != nil {
		return fmt.Errorf("creating artwork storage: %w", err)
	}

	quoteRepo := storage.NewQuoteRepository(db)
	sessionRepo := storage.NewSessionRepository(db)
	adviceRepo := storage.NewAdviceCallRepository(db)

	quotes := service.NewQuoteService(quoteRepo, prices, logger)
	sessions := service.NewSessionService(sessionRepo, cfg.Session.SaveDebounce, logger)
	sessions.SetIdleTTL(cfg.Session.IdleTTL)

	artwork := service.NewArtworkInspector(fs, logger)
	artwork.SetInspectLimit(cfg.Upload.InspectMaxBytes)

	clients := llmClients(cfg.LLM, logger)
	if len(clients) == 0 {
		logger.Warn("no LLM providers configured, advice endpoint disabled")
	}

	srv := server.New(cfg, server.Deps{
		Quotes:      quotes,
		Sessions:    sessions,
		Artwork:     artwork,
		Advisor:     advisor.New(clients, cfg.LLM.RatePerMinute, adviceRepo, quotes.Catalog(), logger),
		QuoteRepo:   quoteRepo,
		SessionRepo: sessionRepo,
		AdviceRepo:  adviceRepo,
	}, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// In-flight requests and pending session saves get 10 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// llmClients builds the advisor clients in provider_order, skipping
// providers without an API key.
func llmClients(cfg config.LLMConfig, logger *zap.Logger) []llm.Client {
	var clients []llm.Client
	for _, name := range cfg.ProviderOrder {
		switch name {
		case llm.ProviderAnthropic:
			if cfg.Anthropic.APIKey == "" {
				continue
			}
			clients = append(clients, llm.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
		case llm.ProviderOpenAI:
			if cfg.OpenAI.APIKey == "" {
				continue
			}
			clients = append(clients, llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
		}
		logger.Info("LLM provider enabled", zap.String("provider", name))
	}
	return clients
}
