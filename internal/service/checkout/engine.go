// Package checkout turns a cart into a committed order. The customer, the
// order, every stock decrement and every order line are written in one unit
// of work; either all of them persist or none do.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"superstore/internal/cart"
	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/repository/unitofwork"
	"superstore/internal/service/customer"
)

const rollbackTimeout = 5 * time.Second

// Engine runs checkouts against a unit-of-work store.
type Engine struct {
	store    unitofwork.Store
	resolver *customer.Resolver
	timeout  time.Duration
	logger   *zap.Logger
	observe  func(from, to State)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTimeout bounds a whole checkout, including waiting for row locks.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithTransitionHook is called on every state change of every checkout.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(e *Engine) { e.observe = fn }
}

// New returns an Engine writing to store.
func New(store unitofwork.Store, opts ...Option) *Engine {
	e := &Engine{store: store, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	e.resolver = customer.NewResolver(e.logger)
	return e
}

// Checkout sells the contents of c to the customer described by in.
//
// An empty cart fails with domain.ErrEmptyCart and bad customer input with a
// *domain.ValidationError; neither opens a unit of work. If any line cannot be
// decremented the whole unit is rolled back and a *domain.InsufficientStockError
// names the product. The returned order is only produced after a successful commit.
// Checkout never modifies c.
func (e *Engine) Checkout(ctx context.Context, c *cart.Cart, in customer.Input) (*domain.Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	lines := c.Lines()
	total := c.Total()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	m := &machine{state: StateIdle, observe: e.observe}
	unit, err := e.store.Begin(ctx)
	if err != nil {
		_ = m.to(StateRolledBack)
		e.logger.Error("checkout: begin failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if m.state.IsTerminal() {
			return
		}
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), rollbackTimeout)
		defer cancel()
		if rbErr := unit.Rollback(rctx); rbErr != nil {
			e.logger.Error("checkout: rollback failed", zap.Error(rbErr))
		}
		_ = m.to(StateRolledBack)
	}()

	cust, err := e.resolver.Resolve(ctx, unit, in)
	if err != nil {
		e.logger.Warn("checkout: resolve customer", zap.String("mobile", in.Mobile), zap.Error(err))
		return nil, fmt.Errorf("resolve customer: %w", err)
	}
	if err := m.to(StateCustomerResolved); err != nil {
		return nil, err
	}

	orderID, createdAt, err := unit.CreateOrder(ctx, cust.ID, total)
	if err != nil {
		e.logger.Error("checkout: create order", zap.Int64("customer_id", cust.ID), zap.Error(err))
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := m.to(StateOrderCreated); err != nil {
		return nil, err
	}
	log := e.logger.With(zap.Int64("order_id", orderID))

	order := &domain.Order{
		ID:          orderID,
		CustomerID:  cust.ID,
		Customer:    *cust,
		TotalAmount: total,
		CreatedAt:   createdAt,
		Lines:       make([]domain.OrderLine, 0, len(lines)),
	}
	for _, l := range lines {
		n, err := unit.DecrementStockIfAvailable(ctx, l.ProductID, l.Quantity)
		if err != nil {
			log.Error("checkout: decrement stock", zap.Int64("product_id", l.ProductID), zap.Error(err))
			return nil, fmt.Errorf("decrement stock for %s: %w", l.Name, err)
		}
		if n == 0 {
			log.Info("checkout: insufficient stock", zap.Int64("product_id", l.ProductID), zap.Int("qty", l.Quantity))
			return nil, &domain.InsufficientStockError{ProductID: l.ProductID, ProductName: l.Name}
		}
		ol := domain.OrderLine{
			OrderID:     orderID,
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			PriceAtSale: l.UnitPrice,
		}
		if err := unit.CreateOrderLine(ctx, ol); err != nil {
			log.Error("checkout: create order line", zap.Int64("product_id", l.ProductID), zap.Error(err))
			return nil, fmt.Errorf("create order line for %s: %w", l.Name, err)
		}
		order.Lines = append(order.Lines, ol)
	}
	if !order.LinesTotal().Equal(total) {
		return nil, &domain.IntegrityError{
			Entity: "order",
			Detail: fmt.Sprintf("total %s does not match line subtotals %s", total, order.LinesTotal()),
		}
	}
	if err := m.to(StateLinesApplied); err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		log.Error("checkout: commit", zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.StorageUnavailableError{Op: "commit", Err: err}
		}
		return nil, fmt.Errorf("commit order: %w", err)
	}
	if err := m.to(StateCommitted); err != nil {
		return nil, err
	}
	log.Info("checkout: committed",
		zap.Int64("customer_id", cust.ID),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", total.StringFixed(2)))
	return order, nil
}
