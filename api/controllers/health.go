package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/oceannemj/site-web-JKM/api/responses"
	"github.com/oceannemj/site-web-JKM/pkg/config"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency checked by /health/ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Layette-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every named dependency. Nil entries are reported as
// disabled and do not fail readiness.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Layette-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := make(map[string]string, len(deps))
		var failed error
		for name, dep := range deps {
			if dep == nil {
				checks[name] = "disabled"
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				if failed == nil {
					failed = pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				}
				continue
			}
			checks[name] = "up"
		}

		if failed != nil {
			if typed := pkgerrors.As(failed); typed != nil {
				failed = typed.WithDetails(checks)
			}
			responses.WriteError(r.Context(), logg, w, failed)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
