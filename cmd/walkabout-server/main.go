// Package main serves the web export of the prototype over HTTP.
// It exists so the browser build can be exercised locally with the
// same asset tree the native viewer uses.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mosslight/walkabout/internal/config"
	"github.com/mosslight/walkabout/internal/logger"
	"github.com/mosslight/walkabout/internal/webserver"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// A .env file is optional; it can carry PORT for deployments that
	// configure through the environment.
	_ = godotenv.Load()

	// Parse CLI flags
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	srv := webserver.New(webserver.Config{
		Port:      webserver.ResolvePort(os.Getenv("PORT"), cfg.Server.Port),
		Root:      cfg.Server.Root,
		AssetsDir: cfg.Server.AssetsDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving",
			zap.String("addr", srv.Addr()),
			zap.String("root", cfg.Server.Root),
			zap.String("assets", cfg.Server.AssetsDir),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		// Bind failures land here before any signal can arrive.
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		stop()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
		<-errCh
	}

	logger.Info("server stopped")
}
