package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"superstore/internal/config"
	"superstore/internal/db"
	"superstore/internal/importer"
	"superstore/internal/logging"
	orderrepo "superstore/internal/repository/order"
	productrepo "superstore/internal/repository/product"
	"superstore/internal/service/inventory"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a name,price,stock CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	start := time.Now()
	count, err := run(context.Background(), cfg, filePath, logger)
	if err != nil {
		logger.Error("import failed", zap.String("file", filePath), zap.Int("imported", count), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}

func run(ctx context.Context, cfg config.Config, filePath string, logger *zap.Logger) (int, error) {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return 0, fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	svc := inventory.New(productrepo.NewPostgres(pool, logger), orderrepo.NewPostgres(pool, logger), logger)
	return importer.NewCSVImporter(f, svc, logger).Run(ctx)
}
