package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/internal/contextual"
	"github.com/hirelens/hirelens/internal/embedder"
	"github.com/hirelens/hirelens/internal/mcp"
	"github.com/hirelens/hirelens/internal/pipeline"
	"github.com/hirelens/hirelens/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("HireLens MCP Server\n")
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

	// Log to stderr, stdout is reserved for the MCP protocol.
	logger := config.NewLogger(os.Stderr, cfg.Server.LogLevel, "hirelens-mcp")
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

	pipe := pipeline.New(emb, analyzer, store, cfg.Weights, logger)
	server := mcp.NewServer(pipe, store, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig)
		cancel()
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", "error", err)
		}
	}

	logger.Info("server stopped")
}
