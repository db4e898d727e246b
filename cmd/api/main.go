package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"superstore/internal/config"
	"superstore/internal/db"
	"superstore/internal/httpserver"
	"superstore/internal/logging"
	"superstore/internal/receipt"
	orderrepo "superstore/internal/repository/order"
	productrepo "superstore/internal/repository/product"
	tokenrepo "superstore/internal/repository/token"
	"superstore/internal/repository/unitofwork"
	userrepo "superstore/internal/repository/user"
	authsvc "superstore/internal/service/auth"
	checkoutsvc "superstore/internal/service/checkout"
	inventorysvc "superstore/internal/service/inventory"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *zap.Logger) error {
	dbpool, err := db.Connect(context.Background(), cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect to db: %w", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	inventoryService := inventorysvc.New(productRepo, orderRepo, logger)
	authService := authsvc.New(userrepo.NewPostgres(dbpool), tokenrepo.NewPostgres(dbpool), cfg.TokenTTL, logger)
	engine := checkoutsvc.New(unitofwork.NewPostgres(dbpool, logger),
		checkoutsvc.WithTimeout(cfg.CheckoutTimeout),
		checkoutsvc.WithLogger(logger))

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Auth:      authService,
		Inventory: inventoryService,
		Checkout:  engine,
		Receipts:  receipt.New(cfg.CurrencySymbol),
	}, cfg.CORSOrigins)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case runErr = <-serverErr:
		runErr = fmt.Errorf("serve: %w", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Join(runErr, fmt.Errorf("graceful shutdown: %w", err))
	}
	logger.Info("server stopped")
	return runErr
}
