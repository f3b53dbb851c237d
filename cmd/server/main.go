package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mcqhub/mcq/internal/api"
	"github.com/mcqhub/mcq/internal/catalog"
	"github.com/mcqhub/mcq/internal/infrastructure/config"
	"github.com/mcqhub/mcq/internal/mistakes"
	"github.com/mcqhub/mcq/internal/store"
	"github.com/mcqhub/mcq/internal/upstash"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.TrainerDB)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	cat, err := catalog.New(cfg.DataDir, cfg.MistakesFile, cfg.DefaultQuizFile)
	if err != nil {
		logger.Error("failed to open data directory", "error", err)
		os.Exit(1)
	}
	if err := cat.Reload(); err != nil {
		logger.Warn("default quiz file not loaded, trainer disabled", "error", err)
	}

	mistakesPath := filepath.Join(cfg.DataDir, cfg.MistakesFile)
	remote := upstash.New(cfg.UpstashURL, cfg.UpstashToken)
	if remote.Enabled() {
		logger.Info("mistake store: upstash", "key", cfg.MistakesKey)
	} else {
		logger.Info("mistake store: local file", "path", mistakesPath)
	}
	mistakeStore := mistakes.NewStore(remote, cfg.MistakesKey, mistakesPath, logger)

	handler := api.NewHandler(cat, mistakeStore, db, logger)

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           handler.Router(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}
