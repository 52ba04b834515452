package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ashvale/logwarden/internal/auth"
	"github.com/ashvale/logwarden/internal/config"
	"github.com/ashvale/logwarden/internal/engine"
	"github.com/ashvale/logwarden/internal/logging"
	"github.com/ashvale/logwarden/internal/server"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logging.Init(cfg.Logging.JSON, logging.ParseLevel(cfg.Logging.Level))

	eng := engine.New(engine.Config{
		Window: cfg.Engine.Window,
		Trees:  cfg.Engine.Trees,
		Seed:   cfg.Engine.Seed,
		Seeded: cfg.Engine.Seeded,
	})
	if cfg.Engine.Seeded {
		slog.Warn("running with a fixed seed; scores are reproducible but not production-grade randomness", "seed", cfg.Engine.Seed)
	}

	var accounts *auth.Store
	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := auth.Connect(ctx, cfg.Database.URL)
		cancel()
		if err != nil {
			slog.Error("failed to connect account store", "err", err)
			os.Exit(1)
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			slog.Error("failed to prepare account store", "err", err)
			os.Exit(1)
		}
		defer store.Close()
		accounts = store
	} else {
		slog.Info("account endpoints disabled; set LOGWARDEN_DATABASE_URL to enable")
	}

	srv := server.New(eng, accounts, cfg.Server.MaxUploadBytes)
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "err", err)
		}
	}()

	slog.Info("logwarden listening", "addr", cfg.Server.Addr, "window", cfg.Engine.Window.String(), "trees", cfg.Engine.Trees)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
