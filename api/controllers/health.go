package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

const readinessTimeout = 3 * time.Second

// Pinger is any dependency that can report its liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every configured dependency. Nil pingers are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var errs error
		failed := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				errs = multierr.Append(errs, err)
				failed[name] = err.Error()
			}
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unavailable").WithDetails(failed))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
