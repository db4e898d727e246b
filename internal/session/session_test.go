package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"superstore/internal/cart"
	"superstore/internal/domain"
	"superstore/internal/receipt"
	"superstore/internal/repository/memory"
	"superstore/internal/service/auth"
	"superstore/internal/service/checkout"
	"superstore/internal/service/customer"
	"superstore/internal/service/inventory"
)

type env struct {
	store  *memory.Store
	inv    *inventory.Service
	engine *checkout.Engine
	money  receipt.Formatter
}

func newEnv(t *testing.T) env {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	inv := inventory.New(s.Products(), s.Orders(), nil)
	_, err := inv.AddProduct(ctx, "Pen", decimal.RequireFromString("10.00"), 100)
	require.NoError(t, err)
	_, err = inv.AddProduct(ctx, "Book", decimal.RequireFromString("150.00"), 20)
	require.NoError(t, err)
	return env{store: s, inv: inv, engine: checkout.New(s), money: receipt.New("Rs.")}
}

func (e env) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := e.inv.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.StockQuantity
}

func TestNew_RequiresCheckoutCapability(t *testing.T) {
	e := newEnv(t)
	_, err := New(domain.RoleAdmin, e.inv, e.engine, e.money, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = New(domain.RoleBilling, e.inv, e.engine, e.money, nil)
	assert.NoError(t, err)

	_, err = NewAdminPortal(domain.RoleBilling, e.inv, e.money, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestController_AddAndCheckout(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c, err := New(domain.RoleBilling, e.inv, e.engine, e.money, nil)
	require.NoError(t, err)
	require.NoError(t, c.Refresh(ctx))
	require.Len(t, c.Products(), 2)

	require.NoError(t, c.Add(1, 2))
	require.NoError(t, c.Add(2, 1))
	assert.True(t, domain.IsValidation(c.Add(99, 1)))
	assert.True(t, domain.IsValidation(c.Add(2, 20)))
	assert.True(t, c.Cart().Total().Equal(decimal.RequireFromString("170")))

	order, err := c.Checkout(ctx, customer.Input{Name: "Asha", Mobile: "9876543210"})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("170")))
	assert.True(t, c.Cart().IsEmpty())
	assert.Equal(t, 98, e.stock(t, 1))
}

type failingEngine struct{ calls int }

func (f *failingEngine) Checkout(context.Context, *cart.Cart, customer.Input) (*domain.Order, error) {
	f.calls++
	return nil, errors.New("storage down")
}

func TestController_CheckoutFailureStillResets(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	eng := &failingEngine{}
	c, err := New(domain.RoleBilling, e.inv, eng, e.money, nil)
	require.NoError(t, err)
	require.NoError(t, c.Refresh(ctx))
	require.NoError(t, c.Add(1, 1))

	_, err = c.Checkout(ctx, customer.Input{Name: "Asha", Mobile: "9876543210"})
	require.Error(t, err)
	assert.Equal(t, 1, eng.calls)
	assert.True(t, c.Cart().IsEmpty())
}

func TestController_Run(t *testing.T) {
	e := newEnv(t)
	c, err := New(domain.RoleBilling, e.inv, e.engine, e.money, nil)
	require.NoError(t, err)

	script := strings.Join([]string{
		"c",          // empty cart
		"7",          // unknown item
		"1", "x",     // bad quantity
		"1", "2",     // Pen x2
		"2", "1",     // Book x1
		"r",          // reset
		"1", "2",     // Pen x2 again
		"1", "3",     // consolidated to 5
		"checkout", "Asha", "9876543210", "",
		"b",
	}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, c.Run(context.Background(), strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "Order is empty. Cannot check out.")
	assert.Contains(t, text, "Invalid Item Number or Command: 7")
	assert.Contains(t, text, "Invalid quantity. Must be a whole number.")
	assert.Contains(t, text, "Order reset.")
	assert.Contains(t, text, "- Pen x5 (Rs.50.00)")
	// the quantity prompt counts what is already in the cart
	assert.Contains(t, text, "Enter quantity for Pen (Stock: 98): ")
	assert.Contains(t, text, "SUPER STORE SALES RECEIPT")
	assert.Contains(t, text, "Rs.50.00")
	assert.Contains(t, text, "Exiting Billing Portal.")
	assert.Equal(t, 95, e.stock(t, 1))
	assert.Equal(t, 20, e.stock(t, 2))
}

func TestController_RunReportsFailedCheckout(t *testing.T) {
	e := newEnv(t)
	c, err := New(domain.RoleBilling, e.inv, e.engine, e.money, nil)
	require.NoError(t, err)

	script := "1\n2\nc\nAsha\n12345\n\nb\n"
	var out bytes.Buffer
	require.NoError(t, c.Run(context.Background(), strings.NewReader(script), &out))

	assert.Contains(t, out.String(), "TRANSACTION FAILED: invalid mobile")
	assert.Equal(t, 100, e.stock(t, 1))
	assert.True(t, c.Cart().IsEmpty())
}

func TestAdminPortal_Run(t *testing.T) {
	e := newEnv(t)
	portal, err := NewAdminPortal(domain.RoleAdmin, e.inv, e.money, nil)
	require.NoError(t, err)

	script := strings.Join([]string{
		"1", "Notebook", "45.50", "50",
		"1", "Pen", "1", "1",
		"1", "Eraser", "-2",
		"2", "1", "10",
		"2", "42",
		"3",
		"4",
		"9",
		"5",
	}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, portal.Run(context.Background(), strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "Successfully added new product: Notebook (ID: 3)")
	assert.Contains(t, text, "Product named 'Pen' already exists.")
	assert.Contains(t, text, "Invalid price.")
	assert.Contains(t, text, "Stock updated for Pen. Added 10 units.")
	assert.Contains(t, text, "Invalid Item Number.")
	assert.Contains(t, text, "| 3   | Notebook")
	assert.Contains(t, text, "TOTAL SUPERSTORE EARNINGS: Rs.0.00")
	assert.Contains(t, text, "Invalid choice. Please select 1-5.")
	assert.Contains(t, text, "Exiting Inventory Portal.")
	assert.Equal(t, 110, e.stock(t, 1))
}

func TestApp_Run(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = e.store.Users().Upsert(ctx, "cashier", string(hash), domain.RoleBilling)
	require.NoError(t, err)
	_, err = e.store.Users().Upsert(ctx, "admin", string(hash), domain.RoleAdmin)
	require.NoError(t, err)

	app := &App{
		Auth:      auth.New(e.store.Users(), e.store.Tokens(), 0, nil),
		Inventory: e.inv,
		Engine:    e.engine,
		Money:     e.money,
	}
	script := strings.Join([]string{
		"2", "cashier", "pw", // cashier cannot open the inventory portal
		"1", "cashier", "pw",
		"2", "4", "d", "Ravi", "9123456780", "ravi@example.com", "b",
		"2", "admin", "pw", "4", "5",
		"3",
	}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, app.Run(ctx, strings.NewReader(script), &out))

	text := out.String()
	assert.Contains(t, text, "Invalid credentials or insufficient role access.")
	assert.Contains(t, text, "Welcome, cashier (billing)")
	assert.Contains(t, text, "Customer Name: Ravi")
	assert.Contains(t, text, "TOTAL SUPERSTORE EARNINGS: Rs.600.00")
	assert.Contains(t, text, "Goodbye!")
	assert.Equal(t, 16, e.stock(t, 2))
}
