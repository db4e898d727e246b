package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CHECKOUT_TIMEOUT_SECONDS", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SEED_ADMIN_PASSWORD", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 5*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "₹", cfg.CurrencySymbol)
	assert.Equal(t, "admin123", cfg.SeedAdminPassword)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CHECKOUT_TIMEOUT_SECONDS", "2")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}
