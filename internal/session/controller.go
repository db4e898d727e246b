// Package session drives the cashier's billing loop and the administrator's
// inventory portal on a text terminal.
package session

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"superstore/internal/cart"
	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/receipt"
	"superstore/internal/service/customer"
)

// Catalog is the inventory reader the billing loop lists products from.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Checkouter commits a cart as an order.
type Checkouter interface {
	Checkout(ctx context.Context, c *cart.Cart, in customer.Input) (*domain.Order, error)
}

// Controller is one cashier's billing session. It is not safe for concurrent use;
// each till gets its own Controller.
type Controller struct {
	catalog  Catalog
	engine   Checkouter
	receipts receipt.Formatter
	logger   *zap.Logger

	cart     *cart.Cart
	products []domain.Product
	byID     map[int64]domain.Product
}

// New starts a billing session for an operator holding role.
// Roles without the checkout capability get domain.ErrForbidden.
func New(role domain.Role, catalog Catalog, engine Checkouter, receipts receipt.Formatter, logger *zap.Logger) (*Controller, error) {
	if !role.Can(domain.CapCheckout) {
		return nil, fmt.Errorf("billing session for %q: %w", role, domain.ErrForbidden)
	}
	return &Controller{
		catalog:  catalog,
		engine:   engine,
		receipts: receipts,
		logger:   logging.OrNop(logger),
		cart:     cart.New(),
		byID:     map[int64]domain.Product{},
	}, nil
}

// Refresh reloads the catalog snapshot used to validate additions.
func (c *Controller) Refresh(ctx context.Context) error {
	products, err := c.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	c.products = products
	c.byID = make(map[int64]domain.Product, len(products))
	for _, p := range products {
		c.byID[p.ID] = p
	}
	return nil
}

// Products returns the last catalog snapshot.
func (c *Controller) Products() []domain.Product {
	return c.products
}

// Cart exposes the current cart for display.
func (c *Controller) Cart() *cart.Cart {
	return c.cart
}

// Add puts qty of productID into the cart, checked against the last snapshot.
func (c *Controller) Add(productID int64, qty int) error {
	p, ok := c.byID[productID]
	if !ok {
		return domain.NewValidationError("item", fmt.Sprintf("invalid item number %d", productID))
	}
	return c.cart.Add(p, qty)
}

// Reset abandons the current cart.
func (c *Controller) Reset() {
	c.cart.Reset()
}

// Checkout hands the cart to the engine. The cart is emptied afterwards
// whether or not the checkout succeeded.
func (c *Controller) Checkout(ctx context.Context, in customer.Input) (*domain.Order, error) {
	defer c.cart.Reset()
	order, err := c.engine.Checkout(ctx, c.cart, in)
	switch {
	case err == nil:
		return order, nil
	case domain.IsValidation(err) || domain.IsInsufficientStock(err):
		c.logger.Info("session: checkout rejected", zap.Error(err))
	default:
		c.logger.Warn("session: checkout failed", zap.Error(err))
	}
	return nil, err
}

// Run reads commands from in until "back" or end of input:
//
//	<item no>             add an item, the quantity is asked next
//	c, checkout, d, done  check out the cart
//	r, reset              empty the cart
//	b, back               leave the billing portal
func (c *Controller) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return c.run(ctx, newPrompter(in, out))
}

func (c *Controller) run(ctx context.Context, p *prompter) error {
	out := p.out
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Refresh(ctx); err != nil {
			p.fail("Error fetching inventory: %v", err)
			return err
		}
		c.render(out)

		cmd, ok := p.ask("Enter Item No. or Command: ")
		if !ok {
			return nil
		}
		switch strings.ToLower(cmd) {
		case "b", "back":
			fmt.Fprintln(out, "Exiting Billing Portal.")
			return nil
		case "r", "reset":
			c.Reset()
			fmt.Fprintln(out, "Order reset.")
		case "c", "checkout", "d", "done":
			if c.cart.IsEmpty() {
				p.fail("Order is empty. Cannot check out.")
				continue
			}
			if !c.checkoutInteractive(ctx, p, out) {
				return nil
			}
		default:
			if !c.addInteractive(p, out, cmd) {
				return nil
			}
		}
	}
}

func (c *Controller) addInteractive(p *prompter, out io.Writer, cmd string) bool {
	id, err := strconv.ParseInt(cmd, 10, 64)
	if err != nil {
		p.fail("Invalid Item Number or Command: %s", cmd)
		return true
	}
	prod, ok := c.byID[id]
	if !ok {
		p.fail("Invalid Item Number or Command: %s", cmd)
		return true
	}
	raw, ok := p.ask(fmt.Sprintf("Enter quantity for %s (Stock: %d): ", prod.Name, prod.StockQuantity-c.cart.Quantity(id)))
	if !ok {
		return false
	}
	if raw == "" {
		p.fail("Quantity cannot be empty.")
		return true
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		p.fail("Invalid quantity. Must be a whole number.")
		return true
	}
	if err := c.Add(id, qty); err != nil {
		p.fail("%v", err)
		return true
	}
	fmt.Fprintf(out, "-> Added %s x%d. Current Total: %s\n", prod.Name, qty, c.receipts.Amount(c.cart.Total()))
	return true
}

func (c *Controller) checkoutInteractive(ctx context.Context, p *prompter, out io.Writer) bool {
	fmt.Fprintln(out, "\n--- CUSTOMER DETAILS ---")
	var in customer.Input
	var ok bool
	if in.Name, ok = p.ask("Enter Customer Name: "); !ok {
		return false
	}
	if in.Mobile, ok = p.ask("Enter Customer Mobile (10 digits): "); !ok {
		return false
	}
	if in.Email, ok = p.ask("Enter Customer Email (optional): "); !ok {
		return false
	}
	order, err := c.Checkout(ctx, in)
	if err != nil {
		p.fail("TRANSACTION FAILED: %v", err)
		return true
	}
	fmt.Fprintln(out, c.receipts.Format(order))
	return true
}

func (c *Controller) render(out io.Writer) {
	fmt.Fprintln(out, "--- CURRENT INVENTORY & BILLING ---")
	writeCatalog(out, c.products, c.receipts)
	if !c.cart.IsEmpty() {
		fmt.Fprintln(out, "\n--- CURRENT ORDER ITEMS ---")
		for _, l := range c.cart.Lines() {
			fmt.Fprintf(out, "- %s x%d (%s)\n", l.Name, l.Quantity, c.receipts.Amount(l.Subtotal))
		}
		fmt.Fprintf(out, "TOTAL: %s\n", c.receipts.Amount(c.cart.Total()))
	}
	fmt.Fprintln(out, "\nOptions: [ITEM NO.] to add item | [C]heckout | [R]eset | [D] Done | [B]ack (Main Menu)")
}
