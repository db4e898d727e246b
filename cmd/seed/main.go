package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"superstore/internal/config"
	"superstore/internal/db"
	"superstore/internal/logging"
	"superstore/internal/seed"
	"superstore/internal/service/auth"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("seed failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	logger.Info("seed applied")
	_ = logger.Sync()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	users := seed.Users{CashierPassword: cfg.SeedCashierPassword, AdminPassword: cfg.SeedAdminPassword}
	if err := seed.Apply(ctx, pool, users, auth.HashPassword, logger); err != nil {
		return fmt.Errorf("seed apply: %w", err)
	}
	return nil
}
