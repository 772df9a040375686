package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"vaani/internal/config"
	"vaani/internal/provider"
	"vaani/internal/server"
	"vaani/internal/session"
	"vaani/internal/store"
	"vaani/internal/telemetry"
)

func main() {
	var cfg config.Config

	flag.StringVar(&cfg.Addr, "addr", ":8080", "HTTP listen address")
	flag.StringVar(&cfg.Backend, "backend", config.BackendGroq, "completion backend (groq|openai|ollama|anthropic)")
	flag.StringVar(&cfg.StoreKind, "store", config.StoreSlot, "conversation store backend (slot|sqlite)")
	flag.StringVar(&cfg.StorePath, "store-path", "", "store file path (default data/conversations.json or data/vaani.db)")
	flag.StringVar(&cfg.OllamaModel, "ollama-model", "llama3:latest", "Ollama model specification (format: model:version)")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	// API keys live in .env during development; a missing file is fine in
	// production where the environment is set directly.
	_ = godotenv.Load()

	logger, err := telemetry.InitLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx := context.Background()
	tracer, meter, cleanup, err := telemetry.InitTelemetry(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer cleanup()

	if cfg.Debug {
		logger.Info("Debug mode enabled")
	}

	var st store.Store
	switch cfg.StoreKind {
	case config.StoreSlot:
		path := cfg.StorePath
		if path == "" {
			path = "data/conversations.json"
		}
		st = store.NewSlotStore(path, logger)
	case config.StoreSQLite:
		path := cfg.StorePath
		if path == "" {
			path = "data/vaani.db"
		}
		if err := os.MkdirAll("data", 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		st, err = store.NewSQLiteStore(path, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
	default:
		return fmt.Errorf("unknown store backend: %s", cfg.StoreKind)
	}
	defer st.Close()

	completer := provider.NewClient(cfg, logger, tracer, meter)
	controller := session.NewController(st, completer, logger)
	srv := server.New(controller, st, logger)

	logger.Info("listening", "addr", cfg.Addr, "backend", cfg.Backend, "store", cfg.StoreKind)
	if err := http.ListenAndServe(cfg.Addr, srv.Handler()); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
