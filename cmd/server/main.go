package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leadlaw/contractengine/internal/api"
	"github.com/leadlaw/contractengine/internal/config"
	"github.com/leadlaw/contractengine/internal/engine"
	"github.com/leadlaw/contractengine/internal/pipeline"
	"github.com/leadlaw/contractengine/internal/templatestore"
	"github.com/leadlaw/contractengine/internal/tiermatch"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Tier disambiguation rules: built-in set unless overridden.
	var rules *tiermatch.RuleSet
	if cfg.TierRulesPath != "" {
		var err error
		rules, err = tiermatch.LoadRulesFile(cfg.TierRulesPath)
		if err != nil {
			log.Error("invalid tier rules", "path", cfg.TierRulesPath, "error", err)
			os.Exit(1)
		}
	}

	// Initialize clients and the engine.
	store := templatestore.NewClient(cfg.TemplateStoreURL, cfg.TemplateStoreAPIKey)
	eng := engine.New(log, rules)

	// Initialize the import pipeline.
	orch := pipeline.NewOrchestrator(cfg, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(eng, orch, store, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		store.Close()
	}()

	log.Info("starting contract engine", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
