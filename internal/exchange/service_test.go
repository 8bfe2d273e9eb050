package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

type fakeRoutes struct {
	route *models.ShippingRoute
	err   error
	calls int
}

func (f *fakeRoutes) FindActive(_ context.Context, _, _ string) (*models.ShippingRoute, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.route == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.route, nil
}

type fakeCountries struct {
	settings map[string]*models.CountrySettings
	err      error
}

func (f *fakeCountries) Get(_ context.Context, code string) (*models.CountrySettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.settings[code]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newTestService(t *testing.T, routes *fakeRoutes, countries *fakeCountries) Service {
	t.Helper()
	svc, err := NewService(routes, countries, NewMemoryCache(15*time.Minute, nil), nil, nil)
	if err != nil {
		t.Fatalf("NewService error: %v", err)
	}
	return svc
}

func TestResolveUsesRouteRate(t *testing.T) {
	routes := &fakeRoutes{route: &models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             true,
		ExchangeRate:       decimal.RequireFromString("132.5"),
	}}
	svc := newTestService(t, routes, &fakeCountries{})

	got := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "US", DestinationCountry: "NP"})

	if !got.Rate.Equal(decimal.RequireFromString("132.5")) {
		t.Fatalf("unexpected rate %s", got.Rate)
	}
	if got.Source != enums.RateSourceShippingRoute || got.Confidence != enums.RateConfidenceHigh {
		t.Fatalf("route rates must be high confidence: %+v", got)
	}
	if got.Warning != "" {
		t.Fatalf("route rates carry no warning: %q", got.Warning)
	}
}

func TestResolveCrossRateFromCountrySettings(t *testing.T) {
	countries := &fakeCountries{settings: map[string]*models.CountrySettings{
		"US": {Code: "US", CurrencyCode: "USD", RateFromUSD: decimal.NewFromInt(1)},
		"NP": {Code: "NP", CurrencyCode: "NPR", RateFromUSD: decimal.RequireFromString("132.5")},
	}}
	svc := newTestService(t, &fakeRoutes{}, countries)

	got := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "US", DestinationCountry: "NP"})

	if !got.Rate.Equal(decimal.RequireFromString("132.5")) {
		t.Fatalf("unexpected cross rate %s", got.Rate)
	}
	if got.Source != enums.RateSourceCountrySettings || got.Confidence != enums.RateConfidenceMedium {
		t.Fatalf("cross rates are medium confidence: %+v", got)
	}
	if got.Warning == "" {
		t.Fatal("cross rates must name the USD path in a warning")
	}
}

func TestResolveFallbackWhenNothingConfigured(t *testing.T) {
	svc := newTestService(t, &fakeRoutes{}, &fakeCountries{})

	got := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "XX", DestinationCountry: "YY"})

	if !got.Rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("fallback rate must be 1, got %s", got.Rate)
	}
	if got.Source != enums.RateSourceFallback || got.Confidence != enums.RateConfidenceLow {
		t.Fatalf("unexpected fallback grading: %+v", got)
	}
	if got.Warning == "" {
		t.Fatal("fallback must carry a non-empty warning")
	}
}

func TestResolveStoreErrorsFoldIntoFallback(t *testing.T) {
	routes := &fakeRoutes{err: errors.New("connection refused")}
	countries := &fakeCountries{err: errors.New("connection refused")}
	svc := newTestService(t, routes, countries)

	got := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "US", DestinationCountry: "NP"})

	if got.Source != enums.RateSourceFallback || !got.Rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("store failures must degrade, not propagate: %+v", got)
	}
}

func TestResolveSameCurrencySkipsLookups(t *testing.T) {
	routes := &fakeRoutes{}
	svc := newTestService(t, routes, &fakeCountries{})

	got := svc.Resolve(context.Background(), ResolveInput{
		OriginCountry:       "DE",
		DestinationCountry:  "FR",
		OriginCurrency:      "EUR",
		DestinationCurrency: "eur",
	})

	if !got.Rate.Equal(decimal.NewFromInt(1)) || got.Confidence != enums.RateConfidenceHigh {
		t.Fatalf("same currency should be identity/high: %+v", got)
	}
	if routes.calls != 0 {
		t.Fatalf("same currency must not hit the route store, got %d calls", routes.calls)
	}
}

func TestResolveSameCurrencyResolvedFromSettings(t *testing.T) {
	countries := &fakeCountries{settings: map[string]*models.CountrySettings{
		"DE": {Code: "DE", CurrencyCode: "EUR", RateFromUSD: decimal.RequireFromString("0.9")},
		"FR": {Code: "FR", CurrencyCode: "EUR", RateFromUSD: decimal.RequireFromString("0.9")},
	}}
	svc := newTestService(t, &fakeRoutes{}, countries)

	got := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "DE", DestinationCountry: "FR"})

	if !got.Rate.Equal(decimal.NewFromInt(1)) || got.Confidence != enums.RateConfidenceHigh {
		t.Fatalf("settings-resolved equal currencies should be identity/high: %+v", got)
	}
}

func TestResolveCachesFullResult(t *testing.T) {
	routes := &fakeRoutes{}
	svc := newTestService(t, routes, &fakeCountries{})

	first := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "XX", DestinationCountry: "YY"})
	second := svc.Resolve(context.Background(), ResolveInput{OriginCountry: "XX", DestinationCountry: "YY"})

	if routes.calls != 1 {
		t.Fatalf("second resolve should be served from cache, got %d store calls", routes.calls)
	}
	if second.Warning != first.Warning || second.Confidence != first.Confidence {
		t.Fatalf("cache hits must preserve warning and confidence: %+v vs %+v", first, second)
	}
}

func TestInvalidateForcesRefresh(t *testing.T) {
	routes := &fakeRoutes{}
	svc := newTestService(t, routes, &fakeCountries{})
	ctx := context.Background()

	svc.Resolve(ctx, ResolveInput{OriginCountry: "US", DestinationCountry: "NP"})
	svc.Invalidate(ctx, "US", "NP")
	svc.Resolve(ctx, ResolveInput{OriginCountry: "US", DestinationCountry: "NP"})

	if routes.calls != 2 {
		t.Fatalf("invalidate should force a second store read, got %d", routes.calls)
	}
}
