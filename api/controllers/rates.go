package controllers

import (
	"net/http"

	"github.com/angelmondragon/crossborder-pricing/api/responses"
	"github.com/angelmondragon/crossborder-pricing/api/validators"
	"github.com/angelmondragon/crossborder-pricing/internal/exchange"
	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
)

// GetExchangeRate resolves the rate for a lane given as ?from=US&to=NP.
func GetExchangeRate(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}

		from, err := validators.RequireCountryParam(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.RequireCountryParam(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCountryPair(ctx, from, to)
		}

		result := svc.Resolve(ctx, exchange.ResolveInput{
			OriginCountry:      from,
			DestinationCountry: to,
		})
		responses.WriteSuccess(w, result)
	}
}

// InvalidateExchangeRate drops the cached rate for a lane so the next
// resolve re-reads the stores. Used by admin tooling after rate edits.
func InvalidateExchangeRate(svc exchange.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "exchange rate service unavailable"))
			return
		}

		from, err := validators.RequireCountryParam(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.RequireCountryParam(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		svc.Invalidate(r.Context(), from, to)
		responses.WriteSuccess(w, map[string]string{"status": "invalidated"})
	}
}
