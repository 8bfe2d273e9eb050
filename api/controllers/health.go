package controllers

import (
	"net/http"

	"github.com/angelmondragon/crossborder-pricing/api/responses"
	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db"
	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XB-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, pinger db.Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XB-Env", cfg.App.Env)
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
