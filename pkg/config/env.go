package config

// EnvPrefix is empty: every field carries its full variable name in the envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev = "development"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"

	DefaultStorefrontAPIVersion = "2023-10"
)

const (
	EnvAppEnv                = "APP_ENV"
	EnvPort                  = "PORT"
	EnvLogLevel              = "LOG_LEVEL"
	EnvLogFormat             = "LOG_FORMAT"
	EnvShopifyShopName       = "SHOPIFY_SHOP_NAME"
	EnvShopifyAccessToken    = "SHOPIFY_ACCESS_TOKEN"
	EnvShopifyAPIVersion     = "SHOPIFY_STOREFRONT_API_VERSION"
	EnvShopifyEndpoint       = "SHOPIFY_STOREFRONT_ENDPOINT"
	EnvShopifyRequestTimeout = "SHOPIFY_REQUEST_TIMEOUT"
	EnvCORSAllowedOrigins    = "CORS_ALLOWED_ORIGINS"
	EnvRedisURL              = "REDIS_URL"
	EnvRedisAddr             = "REDIS_ADDR"
	EnvRateLimitWindow       = "DISCOUNT_RATE_LIMIT_WINDOW"
	EnvRateLimitIP           = "DISCOUNT_RATE_LIMIT_IP"
	EnvRateLimitCart         = "DISCOUNT_RATE_LIMIT_CART"
	EnvMetricsEnabled        = "METRICS_ENABLED"
)
