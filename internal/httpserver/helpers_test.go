package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"superstore/internal/domain"
	"superstore/internal/receipt"
	"superstore/internal/repository/memory"
	"superstore/internal/service/auth"
	"superstore/internal/service/checkout"
	"superstore/internal/service/inventory"
)

type testAPI struct {
	router *gin.Engine
	deps   Deps
	store  *memory.Store
	inv    *inventory.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := memory.NewStore()
	inv := inventory.New(store.Products(), store.Orders(), nil)
	if _, err := inv.AddProduct(ctx, "Pen", decimal.RequireFromString("10.00"), 100); err != nil {
		t.Fatalf("seed pen: %v", err)
	}
	if _, err := inv.AddProduct(ctx, "Book", decimal.RequireFromString("150.00"), 20); err != nil {
		t.Fatalf("seed book: %v", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	for _, u := range []struct {
		name string
		role domain.Role
	}{{"cashier", domain.RoleBilling}, {"admin", domain.RoleAdmin}} {
		if _, err := store.Users().Upsert(ctx, u.name, string(hash), u.role); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	deps := Deps{
		Auth:      auth.New(store.Users(), store.Tokens(), time.Hour, nil),
		Inventory: inv,
		Checkout:  checkout.New(store),
		Receipts:  receipt.New("₹"),
	}
	return &testAPI{router: buildRouter(zap.NewNop(), nil, deps, nil), deps: deps, store: store, inv: inv}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, user, role string) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/auth/token", "", `{"username":"`+user+`","password":"pw","role":"`+role+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body=%s", user, rec.Code, rec.Body.String())
	}
	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	return resp.AccessToken
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}
