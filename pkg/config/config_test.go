package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Shopify.StoreDomain() != "team-gamma.myshopify.com" {
		t.Fatalf("unexpected store domain: %q", cfg.Shopify.StoreDomain())
	}
	if cfg.Shopify.APIVersion != DefaultStorefrontAPIVersion {
		t.Fatalf("expected default api version, got %q", cfg.Shopify.APIVersion)
	}
	if got := cfg.Shopify.RequestTimeout; got != 30*time.Second {
		t.Fatalf("expected request timeout 30s, got %v", got)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("unexpected port %q", cfg.App.Port)
	}
	if len(cfg.CORS.AllowedOrigins) != 4 {
		t.Fatalf("expected default CORS allow-list, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
	if cfg.RateLimit.Window != time.Minute || cfg.RateLimit.CartLimit != 10 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvShopifyAccessToken); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvShopifyAccessToken, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing access token to return an error")
	}
}

func TestLoad_BlankShopNameRejected(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvShopifyShopName, "   ")

	if _, err := Load(); err == nil {
		t.Fatal("expected blank shop name to return an error")
	}
}

func TestLoad_OverridesAndLists(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCORSAllowedOrigins, "https://a.example.com,https://b.example.com")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvRateLimitWindow, "30s")
	t.Setenv(EnvShopifyEndpoint, "http://127.0.0.1:9999/graphql.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("expected redis enabled")
	}
	if cfg.RateLimit.Window != 30*time.Second {
		t.Fatalf("unexpected window %v", cfg.RateLimit.Window)
	}
	if got := cfg.Shopify.StorefrontURL(); got != "http://127.0.0.1:9999/graphql.json" {
		t.Fatalf("endpoint override ignored: %q", got)
	}
}

func TestShopifyStorefrontURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  ShopifyConfig
		want string
	}{
		{
			name: "bare domain",
			cfg:  ShopifyConfig{ShopName: "shop.myshopify.com", APIVersion: "2023-10"},
			want: "https://shop.myshopify.com/api/2023-10/graphql.json",
		},
		{
			name: "scheme and trailing slash",
			cfg:  ShopifyConfig{ShopName: "https://shop.myshopify.com/", APIVersion: "2024-01"},
			want: "https://shop.myshopify.com/api/2024-01/graphql.json",
		},
		{
			name: "empty version falls back",
			cfg:  ShopifyConfig{ShopName: "shop.myshopify.com"},
			want: "https://shop.myshopify.com/api/2023-10/graphql.json",
		},
	}

	for _, tt := range tests {
		if got := tt.cfg.StorefrontURL(); got != tt.want {
			t.Fatalf("%s: expected %q got %q", tt.name, tt.want, got)
		}
	}
}

func TestLoad_LogFormatFollowsEnvironment(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		format string
		want   string
	}{
		{name: "development defaults to console", env: "DEVELOPMENT", want: LogFormatConsole},
		{name: "production defaults to json", env: "production", want: LogFormatJSON},
		{name: "explicit format wins", env: "development", format: LogFormatJSON, want: LogFormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMinimalEnv(t)
			t.Setenv(EnvAppEnv, tt.env)
			if tt.format != "" {
				t.Setenv(EnvLogFormat, tt.format)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			if got := cfg.App.LogOutputFormat(); got != tt.want {
				t.Fatalf("expected log format %q got %q", tt.want, got)
			}
		})
	}
}

func TestLoad_LevelAndLimits(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvRateLimitIP, "5")
	t.Setenv(EnvMetricsEnabled, "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.App.LogLevel)
	}
	if cfg.RateLimit.IPLimit != 5 {
		t.Fatalf("unexpected ip limit %d", cfg.RateLimit.IPLimit)
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("expected metrics disabled")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvShopifyShopName, "team-gamma.myshopify.com")
	t.Setenv(EnvShopifyAccessToken, "storefront-token")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvCORSAllowedOrigins, "")
	if err := os.Unsetenv(EnvCORSAllowedOrigins); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvCORSAllowedOrigins, err)
	}
	for _, key := range []string{
		EnvAppEnv, EnvLogLevel, EnvLogFormat, EnvRedisURL, EnvRedisAddr, EnvShopifyEndpoint,
		EnvShopifyAPIVersion, EnvShopifyRequestTimeout, EnvRateLimitWindow, EnvRateLimitIP,
		EnvRateLimitCart, EnvMetricsEnabled,
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}
