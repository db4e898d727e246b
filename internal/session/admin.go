package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/receipt"
	"superstore/internal/service/inventory"
)

// InventoryAdmin is what the inventory portal needs from the inventory service.
type InventoryAdmin interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	AddProduct(ctx context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error)
	AddStock(ctx context.Context, productID int64, qty int) (*domain.Product, error)
	TotalEarnings(ctx context.Context) (decimal.Decimal, error)
}

// AdminPortal is the administrator's inventory management menu.
type AdminPortal struct {
	svc    InventoryAdmin
	money  receipt.Formatter
	logger *zap.Logger
}

// NewAdminPortal opens the portal for role; it needs both inventory and report access.
func NewAdminPortal(role domain.Role, svc InventoryAdmin, money receipt.Formatter, logger *zap.Logger) (*AdminPortal, error) {
	if !role.Can(domain.CapManageInventory) || !role.Can(domain.CapViewReports) {
		return nil, fmt.Errorf("inventory portal for %q: %w", role, domain.ErrForbidden)
	}
	return &AdminPortal{svc: svc, money: money, logger: logging.OrNop(logger)}, nil
}

// Run shows the menu until option 5 or end of input.
func (a *AdminPortal) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	return a.run(ctx, newPrompter(in, out))
}

func (a *AdminPortal) run(ctx context.Context, p *prompter) error {
	out := p.out
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(out, "\n--- INVENTORY MANAGEMENT PORTAL ---")
		fmt.Fprintln(out, "1. Add New Product (Name, Price, Initial Stock)")
		fmt.Fprintln(out, "2. Update Existing Product Stock")
		fmt.Fprintln(out, "3. View Current Inventory")
		fmt.Fprintln(out, "4. View Financial Reports (Total Earnings)")
		fmt.Fprintln(out, "5. Back to Main Menu")

		choice, ok := p.ask("Enter choice (1-5): ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			ok = a.addProduct(ctx, p, out)
		case "2":
			ok = a.addStock(ctx, p, out)
		case "3":
			a.showInventory(ctx, p, out)
		case "4":
			a.showEarnings(ctx, p, out)
		case "5":
			fmt.Fprintln(out, "Exiting Inventory Portal.")
			return nil
		default:
			p.fail("Invalid choice. Please select 1-5.")
		}
		if !ok {
			return nil
		}
	}
}

func (a *AdminPortal) addProduct(ctx context.Context, p *prompter, out io.Writer) bool {
	fmt.Fprintln(out, "\n--- ADD NEW PRODUCT ---")
	name, ok := p.ask("Enter new product name: ")
	if !ok {
		return false
	}
	if name == "" {
		p.fail("Product name cannot be empty.")
		return true
	}
	rawPrice, ok := p.ask("Enter price (e.g., 12.50): ")
	if !ok {
		return false
	}
	price, err := inventory.ParsePrice(rawPrice)
	if err != nil {
		p.fail("Invalid price. Must be a non-negative number.")
		return true
	}
	rawQty, ok := p.ask("Enter initial stock quantity: ")
	if !ok {
		return false
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil || qty < 0 {
		p.fail("Invalid quantity. Must be a non-negative integer.")
		return true
	}

	prod, err := a.svc.AddProduct(ctx, name, price, qty)
	switch {
	case err == nil:
		fmt.Fprintf(out, "\n-> Successfully added new product: %s (ID: %d)\n", prod.Name, prod.ID)
	case errors.Is(err, domain.ErrAlreadyExists):
		p.fail("Error: Product named '%s' already exists.", name)
	default:
		a.logger.Error("admin: add product", zap.Error(err))
		p.fail("DB Error: %v", err)
	}
	return true
}

func (a *AdminPortal) addStock(ctx context.Context, p *prompter, out io.Writer) bool {
	products, err := a.svc.ListProducts(ctx)
	if err != nil {
		p.fail("DB Error: %v", err)
		return true
	}
	if len(products) == 0 {
		fmt.Fprintln(out, "Inventory is empty.")
		return true
	}
	fmt.Fprintln(out, "\n--- UPDATE EXISTING STOCK ---")
	writeCatalog(out, products, a.money)

	rawID, ok := p.ask("Enter Item No. to update stock: ")
	if !ok {
		return false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || !containsProduct(products, id) {
		p.fail("Invalid Item Number.")
		return true
	}
	rawQty, ok := p.ask("Enter quantity to ADD to stock: ")
	if !ok {
		return false
	}
	qty, err := strconv.Atoi(rawQty)
	if err != nil || qty < 0 {
		p.fail("Quantity to add must be a positive integer.")
		return true
	}
	prod, err := a.svc.AddStock(ctx, id, qty)
	if err != nil {
		a.logger.Error("admin: add stock", zap.Int64("product_id", id), zap.Error(err))
		p.fail("DB Error: %v", err)
		return true
	}
	fmt.Fprintf(out, "\n-> Stock updated for %s. Added %d units.\n", prod.Name, qty)
	return true
}

func (a *AdminPortal) showInventory(ctx context.Context, p *prompter, out io.Writer) {
	products, err := a.svc.ListProducts(ctx)
	if err != nil {
		p.fail("DB Error: %v", err)
		return
	}
	if len(products) == 0 {
		fmt.Fprintln(out, "\nInventory is currently empty.")
		return
	}
	fmt.Fprintln(out, "\n--- CURRENT INVENTORY ---")
	writeCatalog(out, products, a.money)
}

func (a *AdminPortal) showEarnings(ctx context.Context, p *prompter, out io.Writer) {
	total, err := a.svc.TotalEarnings(ctx)
	if err != nil {
		p.fail("DB Error fetching total earnings: %v", err)
		return
	}
	fmt.Fprintln(out, "\n--- FINANCIAL REPORTS ---")
	fmt.Fprintln(out, "=============================================")
	fmt.Fprintf(out, "TOTAL SUPERSTORE EARNINGS: %s\n", a.money.Amount(total))
	fmt.Fprintln(out, "=============================================")
}

func containsProduct(products []domain.Product, id int64) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}
