package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"superstore/internal/domain"
	"superstore/internal/logging"
	"superstore/internal/receipt"
)

// Authenticator verifies an operator for a role.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string, role domain.Role) (*domain.User, error)
}

// Inventory serves both portals.
type Inventory interface {
	Catalog
	InventoryAdmin
}

// App is the terminal main menu: log in as cashier or administrator, then run
// the matching portal.
type App struct {
	Auth      Authenticator
	Inventory Inventory
	Engine    Checkouter
	Money     receipt.Formatter
	Logger    *zap.Logger
	// ReadPassword reads a password without echo. When nil the password is
	// read as a plain input line.
	ReadPassword func() (string, error)
}

// Run shows the main menu until "Exit System" or end of input.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	logger := logging.OrNop(a.Logger)
	p := newPrompter(in, out)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(out, "=============================================")
		fmt.Fprintln(out, " SUPER STORE MANAGEMENT SYSTEM")
		fmt.Fprintln(out, "=============================================")
		fmt.Fprintln(out, "1. Billing Section Login (CASHIER)")
		fmt.Fprintln(out, "2. Inventory Management Login (MANAGER)")
		fmt.Fprintln(out, "3. Exit System")
		fmt.Fprintln(out, "---------------------------------------------")

		choice, ok := p.ask("Enter choice (1-3): ")
		if !ok {
			return nil
		}
		var err error
		switch choice {
		case "1":
			err = a.billing(ctx, p, logger)
		case "2":
			err = a.inventory(ctx, p, logger)
		case "3":
			fmt.Fprintln(out, "Exiting system. Goodbye!")
			return nil
		default:
			p.fail("Invalid choice. Please select 1, 2, or 3.")
			continue
		}
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case err != nil && !errors.Is(err, domain.ErrUnauthorized):
			logger.Warn("session: portal closed", zap.Error(err))
		}
	}
}

func (a *App) billing(ctx context.Context, p *prompter, logger *zap.Logger) error {
	u, err := a.login(ctx, p, domain.RoleBilling)
	if err != nil {
		return err
	}
	c, err := New(u.Role, a.Inventory, a.Engine, a.Money, logger.With(zap.String("operator", u.Username)))
	if err != nil {
		return err
	}
	return c.run(ctx, p)
}

func (a *App) inventory(ctx context.Context, p *prompter, logger *zap.Logger) error {
	u, err := a.login(ctx, p, domain.RoleAdmin)
	if err != nil {
		return err
	}
	portal, err := NewAdminPortal(u.Role, a.Inventory, a.Money, logger.With(zap.String("operator", u.Username)))
	if err != nil {
		return err
	}
	return portal.run(ctx, p)
}

func (a *App) login(ctx context.Context, p *prompter, role domain.Role) (*domain.User, error) {
	fmt.Fprintf(p.out, "\n--- %s LOGIN ---\n", map[domain.Role]string{domain.RoleBilling: "BILLING", domain.RoleAdmin: "ADMIN"}[role])
	username, ok := p.ask("Username: ")
	if !ok {
		return nil, io.EOF
	}
	var password string
	if a.ReadPassword != nil {
		fmt.Fprint(p.out, "Password: ")
		pw, err := a.ReadPassword()
		fmt.Fprintln(p.out)
		if err != nil {
			return nil, err
		}
		password = pw
	} else if password, ok = p.ask("Password: "); !ok {
		return nil, io.EOF
	}

	u, err := a.Auth.Authenticate(ctx, username, password, role)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			p.fail("Invalid credentials or insufficient role access.")
		} else {
			p.fail("DB Error during authentication: %v", err)
		}
		return nil, err
	}
	fmt.Fprintf(p.out, "\n--- Login Successful. Welcome, %s (%s) ---\n\n", u.Username, u.Role)
	return u, nil
}
