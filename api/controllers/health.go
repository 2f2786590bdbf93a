package controllers

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/db"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
	"github.com/kiranakart/kiranakart-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-KiranaKart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-KiranaKart-Env", cfg.App.Env)

		var errs error
		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("database unreachable: %w", err))
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("redis unreachable: %w", err))
			}
		}
		if errs != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependencies unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
