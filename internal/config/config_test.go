package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Debug)
	assert.Equal(t, "/cgi-bin/.protectiv/fingerprint", cfg.Delivery.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Delivery.Timeout())
	assert.Equal(t, 3, cfg.Delivery.Retries)
	assert.Equal(t, 100*time.Millisecond, cfg.Collect.SettleDelay())
	assert.Equal(t, 5*time.Second, cfg.Helper.GenerateTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFileOnDefaults(t *testing.T) {
	path := writeConfig(t, `
debug: true
delivery:
  retries: 5
  base_url: https://shop.example.com
collect:
  fonts: [Arial, Verdana]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 5, cfg.Delivery.Retries)
	assert.Equal(t, 5000, cfg.Delivery.TimeoutMs, "unset keys keep defaults")
	assert.Equal(t, DefaultEndpoint, cfg.Delivery.Endpoint)
	assert.Equal(t, []string{"Arial", "Verdana"}, cfg.Collect.Fonts)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "delivery:\n  retries: 5\n")
	t.Setenv("FINGERPRINT_DELIVERY_RETRIES", "7")
	t.Setenv("FINGERPRINT_DELIVERY_TIMEOUT_MS", "250")
	t.Setenv("FINGERPRINT_STORAGE_MONGODB_URI", "mongodb://db:27017")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Delivery.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.Delivery.Timeout())
	assert.Equal(t, "mongodb://db:27017", cfg.Storage.MongoDB.URI)
}

func TestLoadMissingDefaultPathFallsBack(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Delivery.Retries)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default().Delivery, cfg.Delivery)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no endpoint", func(c *Config) { c.Delivery.Endpoint = "" }},
		{"zero retries", func(c *Config) { c.Delivery.Retries = 0 }},
		{"too many retries", func(c *Config) { c.Delivery.Retries = MaxRetries + 1 }},
		{"negative generate timeout", func(c *Config) { c.Helper.GenerateTimeoutMs = -1 }},
		{"zero timeout", func(c *Config) { c.Delivery.TimeoutMs = 0 }},
		{"bad transport", func(c *Config) { c.Delivery.Transport = "carrier-pigeon" }},
		{"negative settle", func(c *Config) { c.Collect.SettleDelayMs = -1 }},
		{"helper without url", func(c *Config) { c.Helper.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		delivery DeliveryConfig
		page     string
		want     string
		wantErr  bool
	}{
		{
			name:     "relative against page",
			delivery: DeliveryConfig{Endpoint: DefaultEndpoint},
			page:     "https://shop.example.com/cart?x=1",
			want:     "https://shop.example.com/cgi-bin/.protectiv/fingerprint",
		},
		{
			name:     "base url wins over page",
			delivery: DeliveryConfig{Endpoint: DefaultEndpoint, BaseURL: "http://collector.local:8080"},
			page:     "https://shop.example.com/",
			want:     "http://collector.local:8080/cgi-bin/.protectiv/fingerprint",
		},
		{
			name:     "absolute endpoint",
			delivery: DeliveryConfig{Endpoint: "https://fp.example.net/in"},
			want:     "https://fp.example.net/in",
		},
		{
			name:     "relative without base",
			delivery: DeliveryConfig{Endpoint: DefaultEndpoint},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.delivery.ResolveEndpoint(tt.page)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
