package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/cart"
	"superstore/internal/domain"
	"superstore/internal/service/customer"
)

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Role        string `json:"role"`
}

type productResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Price         string    `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
}

type addProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type addStockRequest struct {
	Quantity int `json:"quantity"`
}

type checkoutLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type checkoutRequest struct {
	Customer customer.Input `json:"customer"`
	Lines    []checkoutLine `json:"lines"`
}

type orderLineResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	PriceAtSale string `json:"priceAtSale"`
	Subtotal    string `json:"subtotal"`
}

type orderResponse struct {
	ID          int64               `json:"id"`
	Customer    domain.Customer     `json:"customer"`
	TotalAmount string              `json:"totalAmount"`
	Lines       []orderLineResponse `json:"lines"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type checkoutResponse struct {
	Order   orderResponse `json:"order"`
	Receipt string        `json:"receipt"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		CreatedAt:     p.CreatedAt,
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	lines := make([]orderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineResponse{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			PriceAtSale: l.PriceAtSale.StringFixed(2),
			Subtotal:    l.Subtotal().StringFixed(2),
		})
	}
	return orderResponse{
		ID:          o.ID,
		Customer:    o.Customer,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Lines:       lines,
		CreatedAt:   o.CreatedAt,
	}
}

func (h *handlers) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "username, password and role are required"))
		return
	}
	role, ok := domain.ParseRole(strings.ToLower(req.Role))
	if !ok {
		writeError(c, domain.NewValidationError("role", "must be billing or admin"))
		return
	}
	u, err := h.deps.Auth.Authenticate(c.Request.Context(), req.Username, req.Password, role)
	if err != nil {
		writeError(c, err)
		return
	}
	token, err := h.deps.Auth.IssueToken(c.Request.Context(), u)
	if err != nil {
		h.logger.Error("issue token", zap.Int64("user_id", u.ID), zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   h.deps.Auth.TTLSeconds(),
		Role:        string(u.Role),
	})
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.deps.Inventory.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "results": out})
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "malformed checkout request"))
		return
	}
	ctx := c.Request.Context()
	basket := cart.New()
	for _, l := range req.Lines {
		p, err := h.deps.Inventory.GetProduct(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = domain.NewValidationError("product_id", "unknown product "+strconv.FormatInt(l.ProductID, 10))
			}
			writeError(c, err)
			return
		}
		if err := basket.Add(*p, l.Quantity); err != nil {
			writeError(c, err)
			return
		}
	}
	order, err := h.deps.Checkout.Checkout(ctx, basket, req.Customer)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, checkoutResponse{
		Order:   toOrderResponse(order),
		Receipt: h.deps.Receipts.Format(order),
	})
}

func (h *handlers) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "malformed product"))
		return
	}
	p, err := h.deps.Inventory.AddProduct(c.Request.Context(), req.Name, req.Price, req.Stock)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(*p))
}

func (h *handlers) addStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, domain.NewValidationError("id", "must be an integer"))
		return
	}
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.NewValidationError("body", "malformed stock update"))
		return
	}
	p, err := h.deps.Inventory.AddStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(*p))
}

func (h *handlers) earnings(c *gin.Context) {
	total, err := h.deps.Inventory.TotalEarnings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalEarnings": total.StringFixed(2)})
}
