package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Shopify   ShopifyConfig
	CORS      CORSConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Shopify.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT"`
	LogWarnStack    bool          `envconfig:"LOG_WARN_STACK" default:"false"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// LogOutputFormat returns LOG_FORMAT when set. Otherwise development logs to the console and every
// other environment logs JSON.
func (a AppConfig) LogOutputFormat() string {
	if format := strings.TrimSpace(a.LogFormat); format != "" {
		return format
	}
	if a.IsDev() {
		return LogFormatConsole
	}
	return LogFormatJSON
}

// ShopifyConfig holds the Storefront API credentials for a single store.
type ShopifyConfig struct {
	ShopName       string        `envconfig:"SHOPIFY_SHOP_NAME" required:"true"`
	AccessToken    string        `envconfig:"SHOPIFY_ACCESS_TOKEN" required:"true"`
	APIVersion     string        `envconfig:"SHOPIFY_STOREFRONT_API_VERSION" default:"2023-10"`
	Endpoint       string        `envconfig:"SHOPIFY_STOREFRONT_ENDPOINT"`
	RequestTimeout time.Duration `envconfig:"SHOPIFY_REQUEST_TIMEOUT" default:"30s"`
}

// StoreDomain returns the shop host without scheme or trailing slash.
func (s ShopifyConfig) StoreDomain() string {
	domain := strings.TrimSpace(s.ShopName)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

// StorefrontURL returns the GraphQL endpoint, honouring an explicit override.
func (s ShopifyConfig) StorefrontURL() string {
	if endpoint := strings.TrimSpace(s.Endpoint); endpoint != "" {
		return endpoint
	}
	version := strings.TrimSpace(s.APIVersion)
	if version == "" {
		version = DefaultStorefrontAPIVersion
	}
	u := url.URL{
		Scheme: "https",
		Host:   s.StoreDomain(),
		Path:   fmt.Sprintf("/api/%s/graphql.json", version),
	}
	return u.String()
}

func (s ShopifyConfig) validate() error {
	missing := []string{}
	if s.StoreDomain() == "" {
		missing = append(missing, EnvShopifyShopName)
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		missing = append(missing, EnvShopifyAccessToken)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing shopify configuration: %s", strings.Join(missing, ", "))
	}
	if endpoint := strings.TrimSpace(s.Endpoint); endpoint != "" {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid %s: %w", EnvShopifyEndpoint, err)
		}
	}
	return nil
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"https://team-gamma-checkout-extension.myshopify.com,https://*.ngrok-free.app,http://localhost:8080,https://efca-49-249-2-6.ngrok-free.app"`
}

type RedisConfig struct {
	URL          string        `envconfig:"REDIS_URL"`
	Address      string        `envconfig:"REDIS_ADDR"`
	Password     string        `envconfig:"REDIS_PASSWORD"`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type RateLimitConfig struct {
	Window    time.Duration `envconfig:"DISCOUNT_RATE_LIMIT_WINDOW" default:"1m"`
	IPLimit   int           `envconfig:"DISCOUNT_RATE_LIMIT_IP" default:"30"`
	CartLimit int           `envconfig:"DISCOUNT_RATE_LIMIT_CART" default:"10"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"METRICS_PATH" default:"/metrics"`
}
