package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hirelens/hirelens/internal/api"
	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/contextual"
	"github.com/hirelens/hirelens/internal/embedder"
	"github.com/hirelens/hirelens/internal/pipeline"
	"github.com/hirelens/hirelens/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("HireLens API Server\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(os.Stderr, cfg.Server.LogLevel, "hirelens")
	logger.Info("starting", "version", version, "build_mode", storage.BuildMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	emb, err := embedder.New(cfg.EmbedderSettings())
	if err != nil {
		logger.Fatal("failed to initialize embedder", "error", err)
	}
	defer func() { _ = emb.Close() }()
	logger.Info("embedder ready", "provider", emb.Provider(), "dimension", emb.Dimension())

	analyzer := contextual.NewClient(ctx, cfg.Gemini.APIKey, logger, contextual.WithModel(cfg.Gemini.Model))

	store, err := storage.NewSQLiteStorage(cfg.Server.DatabasePath)
	if err != nil {
		logger.Fatal("failed to open run history database", "error", err)
	}
	defer func() { _ = store.Close() }()

	pipe := pipeline.New(emb, analyzer, store, cfg.Weights, logger)
	server := api.NewServer(pipe, store, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig)
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
	}

	logger.Info("server stopped")
}
