package exchange

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
)

type routeFinder interface {
	FindActive(ctx context.Context, origin, destination string) (*models.ShippingRoute, error)
}

type settingsLoader interface {
	Get(ctx context.Context, code string) (*models.CountrySettings, error)
}

// Service resolves an exchange rate between two countries through a
// three-tier fallback chain. Resolution never fails: store errors and
// missing configuration fold into a low-confidence identity rate, because
// pricing must stay available when rate data is degraded.
type Service interface {
	Resolve(ctx context.Context, input ResolveInput) Result
	Invalidate(ctx context.Context, origin, destination string)
}

// ResolveInput names the lane to resolve. Currencies are optional; when
// omitted they are looked up from country settings.
type ResolveInput struct {
	OriginCountry       string
	DestinationCountry  string
	OriginCurrency      string
	DestinationCurrency string
}

type service struct {
	routes    routeFinder
	countries settingsLoader
	cache     RateCache
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// NewService wires an exchange rate resolver.
func NewService(routes routeFinder, countries settingsLoader, cache RateCache, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if routes == nil {
		return nil, fmt.Errorf("route repository required")
	}
	if countries == nil {
		return nil, fmt.Errorf("country settings repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("rate cache required")
	}
	return &service{
		routes:    routes,
		countries: countries,
		cache:     cache,
		logg:      logg,
		metrics:   m,
	}, nil
}

func (s *service) Resolve(ctx context.Context, input ResolveInput) Result {
	origin := normalize(input.OriginCountry)
	destination := normalize(input.DestinationCountry)
	originCurrency := normalize(input.OriginCurrency)
	destinationCurrency := normalize(input.DestinationCurrency)

	// Same currency needs no lookup at all.
	if originCurrency != "" && originCurrency == destinationCurrency {
		return identityResult()
	}

	if cached, ok := s.cache.Get(ctx, origin, destination); ok {
		s.metrics.IncCacheHit()
		return *cached
	}
	s.metrics.IncCacheMiss()

	result := s.resolve(ctx, origin, destination, originCurrency, destinationCurrency)
	s.cache.Set(ctx, origin, destination, result)
	return result
}

// Invalidate drops any cached rate for the lane, forcing the next Resolve
// to hit the stores. Admin tooling calls this after editing route rates.
func (s *service) Invalidate(ctx context.Context, origin, destination string) {
	s.cache.Invalidate(ctx, normalize(origin), normalize(destination))
}

func (s *service) resolve(ctx context.Context, origin, destination, originCurrency, destinationCurrency string) Result {
	route, err := s.routes.FindActive(ctx, origin, destination)
	if err == nil && route != nil && route.HasExchangeRate() {
		return Result{
			Rate:       route.ExchangeRate,
			Source:     enums.RateSourceShippingRoute,
			Confidence: enums.RateConfidenceHigh,
		}
	}
	if err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("route rate lookup %s:%s failed: %v", origin, destination, err))
	}

	from, fromErr := s.countries.Get(ctx, origin)
	to, toErr := s.countries.Get(ctx, destination)

	// Currencies not supplied by the caller resolve from settings; equal
	// currencies short-circuit to the identity rate.
	if originCurrency == "" && from != nil {
		originCurrency = normalize(from.CurrencyCode)
	}
	if destinationCurrency == "" && to != nil {
		destinationCurrency = normalize(to.CurrencyCode)
	}
	if originCurrency != "" && originCurrency == destinationCurrency {
		return identityResult()
	}

	if fromErr == nil && toErr == nil && from.HasUSDRate() && to.HasUSDRate() {
		return Result{
			Rate:       to.RateFromUSD.Div(from.RateFromUSD),
			Source:     enums.RateSourceCountrySettings,
			Confidence: enums.RateConfidenceMedium,
			Warning:    fmt.Sprintf("rate derived via USD cross rate (%s -> USD -> %s)", origin, destination),
		}
	}

	s.metrics.IncFallback("exchange_rate")
	result := identityResult()
	result.Source = enums.RateSourceFallback
	result.Confidence = enums.RateConfidenceLow
	result.Warning = fallbackWarning(origin, destination, from, fromErr, to, toErr)
	if s.logg != nil {
		s.logg.Warn(ctx, "exchange rate fallback: "+result.Warning)
	}
	return result
}

func fallbackWarning(origin, destination string, from *models.CountrySettings, fromErr error, to *models.CountrySettings, toErr error) string {
	missing := make([]string, 0, 2)
	if fromErr != nil || from == nil || !from.HasUSDRate() {
		missing = append(missing, origin)
	}
	if toErr != nil || to == nil || !to.HasUSDRate() {
		missing = append(missing, destination)
	}
	return fmt.Sprintf("no usable exchange rate for %s, using 1.0", strings.Join(missing, ", "))
}

func normalize(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}
