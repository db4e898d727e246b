package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"superstore/internal/config"
	"superstore/internal/db"
	"superstore/internal/logging"
	"superstore/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := run(context.Background(), cfg.DBConnString, *down); err != nil {
		logger.Error("migrate failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	if *down {
		logger.Info("migrations rolled back")
	} else {
		logger.Info("migrations applied")
	}
	_ = logger.Sync()
}

func run(ctx context.Context, dsn string, down bool) error {
	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if down {
		return migrate.Down(ctx, pool)
	}
	return migrate.Apply(ctx, pool)
}
