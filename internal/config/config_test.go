package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, 4, cfg.FeaturedCount)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())

	rules, err := cfg.Pricing.Rules()
	require.NoError(t, err)
	assert.True(t, rules.FreeShippingThreshold.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "discount10", rules.PromoCode)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("FEATURED_COUNT", "6")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("PRICING_SHIPPING_FEE", "350")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 6, cfg.FeaturedCount)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	rules, err := cfg.Pricing.Rules()
	require.NoError(t, err)
	assert.True(t, rules.ShippingFee.Equal(decimal.NewFromInt(350)))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paintshop.yaml")
	body := "http_addr: \":7070\"\npricing:\n  promo_code: SPRING\n  tax_rate: 0.25\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	loader, err := Load(path, nil)
	require.NoError(t, err)

	cfg := loader.Config()
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	rules, err := cfg.Pricing.Rules()
	require.NoError(t, err)
	assert.Equal(t, "SPRING", rules.PromoCode)
	assert.True(t, rules.TaxRate.Equal(decimal.RequireFromString("0.25")))
	assert.True(t, rules.ShippingFee.Equal(decimal.NewFromInt(500)), "unset keys keep defaults")
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_driver: mongo\n"), 0o600))

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store_driver")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}

func TestPricingRulesValidation(t *testing.T) {
	p := FromEnv().Pricing

	bad := p
	bad.TaxRate = "1.5"
	_, err := bad.Rules()
	assert.Error(t, err)

	bad = p
	bad.ShippingFee = "-1"
	_, err = bad.Rules()
	assert.Error(t, err)

	bad = p
	bad.FreeShippingThreshold = "lots"
	_, err = bad.Rules()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := FromEnv()
	cfg.TokenSecret = ""
	assert.Error(t, cfg.Validate())

	cfg = FromEnv()
	cfg.StoreDriver = DriverPostgres
	cfg.DBConnString = ""
	assert.Error(t, cfg.Validate())
}
