package middleware

import (
	"fmt"
	"net/http"

	"github.com/teamgamma/storefront-discount-relay/api/responses"
	pkgerrors "github.com/teamgamma/storefront-discount-relay/pkg/errors"
	"github.com/teamgamma/storefront-discount-relay/pkg/logger"
)

// Recoverer turns a handler panic into a 500 response carrying the panic value as the
// diagnostic.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := fmt.Errorf("panic: %v", rec)
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec), "path": r.URL.Path})
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
