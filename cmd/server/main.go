// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log" // Used before the zap logger exists.
	"os"
	"os/signal"
	"syscall"
	"time"

	"charity_marketplace_backend/internal/app"
	"charity_marketplace_backend/internal/config"
	"charity_marketplace_backend/internal/platform/database"
	"charity_marketplace_backend/internal/platform/logger"

	"go.uber.org/zap"
)

const usage = `Usage: server [command]

Commands:
  serve            start the HTTP server and the product expiry job (default)
  migrate          create or update the database schema and exit
  expire-products  run one product expiry pass and exit
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	command := flag.Arg(0)
	switch command {
	case "", "serve":
		err = serve(cfg, appLogger)
	case "migrate":
		err = migrate(cfg, appLogger)
	case "expire-products":
		err = expireProducts(cfg, appLogger)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		appLogger.Fatal("Command failed", zap.String("command", command), zap.Error(err))
	}
}

func migrate(cfg *config.Config, appLogger *zap.Logger) error {
	db, err := database.NewGORM(cfg, appLogger)
	if err != nil {
		return err
	}
	defer database.CloseGORMDB(db, appLogger)

	if err := database.AutoMigrate(db, app.Models()...); err != nil {
		return err
	}
	appLogger.Info("Database schema is up to date.")
	return nil
}

func expireProducts(cfg *config.Config, appLogger *zap.Logger) error {
	job, cleanup, err := initializeProductExpiryJob(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("initializing expiry job: %w", err)
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	expired, err := job.RunOnce(ctx)
	if err != nil {
		return err
	}
	appLogger.Info("Product expiry pass completed", zap.Int("productsExpired", expired))
	return nil
}

func serve(cfg *config.Config, appLogger *zap.Logger) error {
	server, cleanup, err := initializeServer(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}
	defer cleanup()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Info("Received signal, shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	appLogger.Info("Server shutdown complete.")
	return nil
}
