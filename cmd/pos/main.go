package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"superstore/internal/config"
	"superstore/internal/db"
	"superstore/internal/logging"
	"superstore/internal/receipt"
	"superstore/internal/repository/memory"
	orderrepo "superstore/internal/repository/order"
	productrepo "superstore/internal/repository/product"
	tokenrepo "superstore/internal/repository/token"
	"superstore/internal/repository/unitofwork"
	userrepo "superstore/internal/repository/user"
	"superstore/internal/seed"
	authsvc "superstore/internal/service/auth"
	checkoutsvc "superstore/internal/service/checkout"
	inventorysvc "superstore/internal/service/inventory"
	"superstore/internal/session"
)

func main() {
	inMemory := flag.Bool("memory", false, "run against an in-process demo store instead of Postgres")
	logLevel := flag.String("log-level", "error", "log level for diagnostics written to stderr")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(*logLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *inMemory, logger, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("terminal session ended", zap.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, inMemory bool, logger *zap.Logger, in *os.File, out io.Writer) error {
	var (
		products productrepo.Repository
		orders   orderrepo.Repository
		users    userrepo.Repository
		tokens   tokenrepo.Repository
		store    unitofwork.Store
	)
	if inMemory {
		mem := memory.NewStore()
		for _, p := range seed.Products() {
			if _, err := mem.Products().Create(ctx, p.Name, p.Price, p.StockQuantity); err != nil {
				return fmt.Errorf("seed demo product %s: %w", p.Name, err)
			}
		}
		seedUsers := seed.Users{CashierPassword: cfg.SeedCashierPassword, AdminPassword: cfg.SeedAdminPassword}
		if err := seed.SeedUsers(ctx, mem.Users(), seedUsers, authsvc.HashPassword); err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
		products, orders, users, tokens, store = mem.Products(), mem.Orders(), mem.Users(), mem.Tokens(), mem
	} else {
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			fmt.Fprintln(os.Stderr, "--- DATABASE CONNECTION FAILED ---")
			return fmt.Errorf("connect db: %w", err)
		}
		defer pool.Close()
		products = productrepo.NewPostgres(pool, logger)
		orders = orderrepo.NewPostgres(pool, logger)
		users = userrepo.NewPostgres(pool)
		tokens = tokenrepo.NewPostgres(pool)
		store = unitofwork.NewPostgres(pool, logger)
	}

	app := &session.App{
		Auth:      authsvc.New(users, tokens, cfg.TokenTTL, logger),
		Inventory: inventorysvc.New(products, orders, logger),
		Engine: checkoutsvc.New(store,
			checkoutsvc.WithTimeout(cfg.CheckoutTimeout),
			checkoutsvc.WithLogger(logger)),
		Money:  receipt.New(cfg.CurrencySymbol),
		Logger: logger,
	}
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		app.ReadPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			return string(b), err
		}
	}
	return app.Run(ctx, in, out)
}
