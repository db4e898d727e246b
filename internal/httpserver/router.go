package httpserver

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/cart"
	"superstore/internal/domain"
	"superstore/internal/receipt"
	"superstore/internal/service/customer"
)

type authService interface {
	Authenticate(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
	IssueToken(ctx context.Context, u *domain.User) (string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	TTLSeconds() int
}

type inventoryService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error)
	AddStock(ctx context.Context, productID int64, qty int) (*domain.Product, error)
	TotalEarnings(ctx context.Context) (decimal.Decimal, error)
}

type checkoutService interface {
	Checkout(ctx context.Context, c *cart.Cart, in customer.Input) (*domain.Order, error)
}

// Deps are the services behind the API.
type Deps struct {
	Auth      authService
	Inventory inventoryService
	Checkout  checkoutService
	Receipts  receipt.Formatter
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{deps: deps, logger: logger}
	router.POST("/auth/token", h.token)

	api := router.Group("/", authenticate(deps.Auth))
	api.GET("/products", h.listProducts)
	api.POST("/checkout", requireCapability(domain.CapCheckout), h.checkout)
	api.POST("/products", requireCapability(domain.CapManageInventory), h.addProduct)
	api.POST("/products/:id/stock", requireCapability(domain.CapManageInventory), h.addStock)
	api.GET("/reports/earnings", requireCapability(domain.CapViewReports), h.earnings)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
