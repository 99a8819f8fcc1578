package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/teamgamma/storefront-discount-relay/api/responses"
	"github.com/teamgamma/storefront-discount-relay/pkg/config"
	pkgerrors "github.com/teamgamma/storefront-discount-relay/pkg/errors"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
)

const (
	envHeader    = "X-Discount-Relay-Env"
	readyTimeout = 2 * time.Second
)

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready when the optional redis dependency answers a ping.
func HealthReady(cfg *config.Config, redis pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := redis.Ping(ctx); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "health.ready.redis_failed", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				}
				responses.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"redis":  "unreachable",
				})
				return
			}
		}
		responses.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
