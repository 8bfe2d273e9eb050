package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
)

// RequireCountryParam reads a two-letter country code query parameter.
func RequireCountryParam(r *http.Request, key string) (string, error) {
	raw := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get(key)))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").WithDetails(map[string]any{"field": key})
	}
	if len(raw) != 2 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a two-letter country code").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
