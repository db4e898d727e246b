// Package memory keeps the catalog, customers, orders and operators in process.
// It implements the same contracts as the Postgres repositories and is used by
// unit tests and the database-free terminal demo.
package memory

import (
	"context"
	"errors"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"superstore/internal/domain"
	"superstore/internal/repository/order"
	"superstore/internal/repository/product"
	"superstore/internal/repository/token"
	"superstore/internal/repository/unitofwork"
	"superstore/internal/repository/user"
)

var errUnitClosed = errors.New("unit of work already closed")

// maxStock matches the INT stock_quantity column.
const maxStock = math.MaxInt32

// Store is an in-memory implementation of unitofwork.Store plus the product,
// order, user and token repositories.
//
// A unit of work holds the store-wide unit slot from Begin until Commit or
// Rollback, so units are serialized. Unit writes are buffered in the unit and
// applied together on Commit; readers outside the unit only ever see committed
// state. Guarded decrements outside a unit also take the slot.
type Store struct {
	slot chan struct{}

	mu        sync.RWMutex
	now       func() time.Time
	products  map[int64]*domain.Product
	customers map[int64]*domain.Customer
	byMobile  map[string]int64
	orders    map[int64]*domain.Order
	users     map[int64]*domain.User
	tokens    map[string]token.Token
	nextID    map[string]int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		slot:      make(chan struct{}, 1),
		now:       time.Now,
		products:  make(map[int64]*domain.Product),
		customers: make(map[int64]*domain.Customer),
		byMobile:  make(map[string]int64),
		orders:    make(map[int64]*domain.Order),
		users:     make(map[int64]*domain.User),
		tokens:    make(map[string]token.Token),
		nextID:    make(map[string]int64),
	}
}

var _ unitofwork.Store = (*Store)(nil)

// Products returns the catalog view of the store.
func (s *Store) Products() product.Repository { return productView{s} }

// Orders returns the order view of the store.
func (s *Store) Orders() order.Repository { return orderView{s} }

// Users returns the operator view of the store.
func (s *Store) Users() user.Repository { return userView{s} }

// Tokens returns the access token view of the store.
func (s *Store) Tokens() token.Repository { return tokenView{s} }

// Begin waits for the unit slot or for ctx to be done.
func (s *Store) Begin(ctx context.Context) (unitofwork.Unit, error) {
	select {
	case s.slot <- struct{}{}:
		return &unit{store: s}, nil
	case <-ctx.Done():
		return nil, &domain.StorageUnavailableError{Op: "begin transaction", Err: ctx.Err()}
	}
}

// id must be called with mu held for writing.
func (s *Store) id(seq string) int64 {
	s.nextID[seq]++
	return s.nextID[seq]
}

func (s *Store) sortedProducts() []domain.Product {
	ids := slices.Sorted(maps.Keys(s.products))
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.products[id])
	}
	return out
}

type unit struct {
	store  *Store
	closed bool

	customers []*domain.Customer
	byMobile  map[string]*domain.Customer
	orders    []*domain.Order
	lines     []domain.OrderLine
	reserved  map[int64]int
}

func (u *unit) release() {
	u.closed = true
	u.customers, u.byMobile, u.orders, u.lines, u.reserved = nil, nil, nil, nil, nil
	<-u.store.slot
}

// customer must be called with mu held.
func (u *unit) customer(id int64) (*domain.Customer, bool) {
	for _, c := range u.customers {
		if c.ID == id {
			return c, true
		}
	}
	c, ok := u.store.customers[id]
	return c, ok
}

// orderExists must be called with mu held.
func (u *unit) orderExists(id int64) bool {
	for _, o := range u.orders {
		if o.ID == id {
			return true
		}
	}
	_, ok := u.store.orders[id]
	return ok
}

func (u *unit) FindCustomerByMobile(_ context.Context, mobile string) (*domain.Customer, error) {
	if u.closed {
		return nil, errUnitClosed
	}
	if c, ok := u.byMobile[mobile]; ok {
		out := *c
		return &out, nil
	}
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byMobile[mobile]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *s.customers[id]
	return &c, nil
}

func (u *unit) CreateCustomer(_ context.Context, name, mobile string, email *string) (int64, error) {
	if u.closed {
		return 0, errUnitClosed
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byMobile[mobile]; exists {
		return 0, domain.ErrAlreadyExists
	}
	if _, exists := u.byMobile[mobile]; exists {
		return 0, domain.ErrAlreadyExists
	}
	c := &domain.Customer{ID: s.id("customers"), Name: name, MobileNumber: mobile, CreatedAt: s.now()}
	if email != nil {
		e := *email
		c.Email = &e
	}
	if u.byMobile == nil {
		u.byMobile = make(map[string]*domain.Customer)
	}
	u.customers = append(u.customers, c)
	u.byMobile[mobile] = c
	return c.ID, nil
}

func (u *unit) CreateOrder(_ context.Context, customerID int64, total decimal.Decimal) (int64, time.Time, error) {
	if u.closed {
		return 0, time.Time{}, errUnitClosed
	}
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := u.customer(customerID)
	if !ok {
		return 0, time.Time{}, &domain.IntegrityError{Entity: "order", Detail: "unknown customer", Err: domain.ErrNotFound}
	}
	if total.IsNegative() {
		return 0, time.Time{}, &domain.IntegrityError{Entity: "order", Detail: "negative total"}
	}
	o := &domain.Order{ID: s.id("orders"), CustomerID: customerID, Customer: *c, TotalAmount: total, CreatedAt: s.now()}
	u.orders = append(u.orders, o)
	return o.ID, o.CreatedAt, nil
}

func (u *unit) DecrementStockIfAvailable(_ context.Context, productID int64, qty int) (int64, error) {
	if u.closed {
		return 0, errUnitClosed
	}
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok || qty > p.StockQuantity-u.reserved[productID] {
		return 0, nil
	}
	if u.reserved == nil {
		u.reserved = make(map[int64]int)
	}
	u.reserved[productID] += qty
	return 1, nil
}

func (u *unit) CreateOrderLine(_ context.Context, line domain.OrderLine) error {
	if u.closed {
		return errUnitClosed
	}
	if line.Quantity <= 0 {
		return &domain.IntegrityError{Entity: "order item", Detail: "quantity must be positive"}
	}
	s := u.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !u.orderExists(line.OrderID) {
		return &domain.IntegrityError{Entity: "order item", Detail: "unknown order", Err: domain.ErrNotFound}
	}
	p, ok := s.products[line.ProductID]
	if !ok {
		return &domain.IntegrityError{Entity: "order item", Detail: "unknown product", Err: domain.ErrNotFound}
	}
	line.ProductName = p.Name
	u.lines = append(u.lines, line)
	return nil
}

// Commit checks every reservation against the current stock before applying
// anything, then publishes the unit's writes at once.
func (u *unit) Commit(context.Context) error {
	if u.closed {
		return errUnitClosed
	}
	defer u.release()
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, qty := range u.reserved {
		p, ok := s.products[id]
		if !ok || p.StockQuantity < qty {
			return &domain.IntegrityError{Entity: "product", Detail: "stock changed before commit"}
		}
	}
	for id, qty := range u.reserved {
		s.products[id].StockQuantity -= qty
	}
	for _, c := range u.customers {
		s.customers[c.ID] = c
		s.byMobile[c.MobileNumber] = c.ID
	}
	for _, o := range u.orders {
		s.orders[o.ID] = o
	}
	for _, l := range u.lines {
		o := s.orders[l.OrderID]
		o.Lines = append(o.Lines, l)
	}
	return nil
}

// Rollback discards the buffered writes. Rolling back a closed unit is a no-op.
func (u *unit) Rollback(context.Context) error {
	if u.closed {
		return nil
	}
	u.release()
	return nil
}

type productView struct{ s *Store }

func (v productView) List(context.Context) ([]domain.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.sortedProducts(), nil
}

func (v productView) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	p, ok := v.s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *p
	return &out, nil
}

func (v productView) Create(_ context.Context, name string, price decimal.Decimal, stock int) (*domain.Product, error) {
	switch {
	case strings.TrimSpace(name) == "":
		return nil, &domain.IntegrityError{Entity: "product", Detail: "empty name"}
	case price.IsNegative():
		return nil, &domain.IntegrityError{Entity: "product " + name, Detail: "negative price"}
	case stock < 0:
		return nil, &domain.IntegrityError{Entity: "product " + name, Detail: "negative stock"}
	case stock > maxStock:
		return nil, &domain.ValidationError{Field: "product", Reason: "integer out of range"}
	}
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.Name == name {
			return nil, &domain.IntegrityError{Entity: "product " + name, Detail: "already exists", Err: domain.ErrAlreadyExists}
		}
	}
	p := &domain.Product{ID: s.id("products"), Name: name, Price: price.Round(2), StockQuantity: stock, CreatedAt: s.now()}
	s.products[p.ID] = p
	out := *p
	return &out, nil
}

func (v productView) AddStock(_ context.Context, id int64, qty int) (*domain.Product, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if qty > maxStock-p.StockQuantity {
		return nil, &domain.ValidationError{Field: "product", Reason: "integer out of range"}
	}
	if p.StockQuantity+qty < 0 {
		return nil, &domain.IntegrityError{Entity: "product", Detail: "negative stock"}
	}
	p.StockQuantity += qty
	out := *p
	return &out, nil
}

func (v productView) DecrementIfAvailable(ctx context.Context, id int64, qty int) (int64, error) {
	s := v.s
	select {
	case s.slot <- struct{}{}:
		defer func() { <-s.slot }()
	case <-ctx.Done():
		return 0, &domain.StorageUnavailableError{Op: "decrement stock", Err: ctx.Err()}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || qty > p.StockQuantity {
		return 0, nil
	}
	p.StockQuantity -= qty
	return 1, nil
}

type orderView struct{ s *Store }

func (v orderView) Create(context.Context, int64, decimal.Decimal) (int64, time.Time, error) {
	return 0, time.Time{}, errors.New("memory store: orders are created inside a unit of work")
}

func (v orderView) CreateLine(context.Context, domain.OrderLine) error {
	return errors.New("memory store: order lines are created inside a unit of work")
}

func (v orderView) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	o, ok := v.s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *o
	out.Lines = slices.Clone(o.Lines)
	return &out, nil
}

func (v orderView) SumTotals(context.Context) (decimal.Decimal, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	total := decimal.Zero
	for _, o := range v.s.orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

type userView struct{ s *Store }

func (v userView) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for _, u := range v.s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (v userView) GetByID(_ context.Context, id int64) (*domain.User, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	u, ok := v.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (v userView) Upsert(_ context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u.PasswordHash = passwordHash
			u.Role = role
			out := *u
			return &out, nil
		}
	}
	u := &domain.User{ID: s.id("users"), Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: s.now()}
	s.users[u.ID] = u
	out := *u
	return &out, nil
}

type tokenView struct{ s *Store }

func (v tokenView) Create(_ context.Context, t token.Token) error {
	s := v.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[t.Token]; exists {
		return domain.ErrAlreadyExists
	}
	if _, ok := s.users[t.UserID]; !ok {
		return &domain.IntegrityError{Entity: "token", Detail: "unknown user", Err: domain.ErrNotFound}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	s.tokens[t.Token] = t
	return nil
}

func (v tokenView) Get(_ context.Context, tok string) (*token.Token, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	t, ok := v.s.tokens[tok]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (v tokenView) Delete(_ context.Context, tok string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.tokens[tok]; !ok {
		return domain.ErrNotFound
	}
	delete(v.s.tokens, tok)
	return nil
}
