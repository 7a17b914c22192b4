package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oceannemj/site-web-JKM/api/responses"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. The log line carries
// the route and, when the panic happened under an order or product route,
// the id being worked on.
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
					ctx = logg.WithFields(ctx, panicFields(r, rec))
					logg.Error(ctx, "panic.recovered", err)
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request aborted"))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicFields(r *http.Request, rec any) map[string]any {
	fields := map[string]any{
		"panic":  rec,
		"method": r.Method,
		"path":   r.URL.Path,
	}
	if role := RoleFromContext(r.Context()); role != "" {
		fields["actor_role"] = role
	}
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return fields
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		fields["route"] = pattern
	}
	if id := rctx.URLParam("orderId"); id != "" {
		fields["order_id"] = id
	}
	if id := rctx.URLParam("productId"); id != "" {
		fields["product_id"] = id
	}
	return fields
}
