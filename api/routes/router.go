package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teamgamma/storefront-discount-relay/api/controllers"
	"github.com/teamgamma/storefront-discount-relay/api/middleware"
	"github.com/teamgamma/storefront-discount-relay/internal/discount"
	"github.com/teamgamma/storefront-discount-relay/pkg/config"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
	"github.com/teamgamma/storefront-discount-relay/pkg/redis"
)

// NewRouter composes the middleware chain and the route table. redisClient and gatherer are
// optional.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	discountService discount.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	var readiness redis.Pinger
	applyLimit := func(next http.Handler) http.Handler { return next }
	if redisClient != nil {
		readiness = redisClient
		policy := middleware.NewRateLimitPolicy("apply_discount", cfg.RateLimit.Window, cfg.RateLimit.IPLimit, cfg.RateLimit.CartLimit)
		applyLimit = middleware.DiscountRateLimit(policy, redisClient, logg)
	}

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Method(http.MethodGet, path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.With(applyLimit).Post("/apply-discount", controllers.ApplyDiscount(discountService, logg))

	return r
}
