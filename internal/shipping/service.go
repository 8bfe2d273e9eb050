package shipping

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db"
	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
	"github.com/angelmondragon/crossborder-pricing/pkg/money"
)

// kg to lb conversion factor for routes declared in pounds.
const kgToLb = 2.20462

type routeFinder interface {
	FindActive(ctx context.Context, origin, destination string) (*models.ShippingRoute, error)
}

type settingsLoader interface {
	Get(ctx context.Context, code string) (*models.CountrySettings, error)
}

// CostInput describes one shipment to price. Price is in origin currency
// and weight is always supplied in kilograms.
type CostInput struct {
	OriginCountry      string
	DestinationCountry string
	WeightKg           float64
	Price              decimal.Decimal
}

// Cost is the priced shipment. FallbackUsed marks costs that came from the
// hardcoded default rather than configuration.
type Cost struct {
	Cost         decimal.Decimal      `json:"cost"`
	Carrier      string               `json:"carrier"`
	DeliveryDays string               `json:"delivery_days"`
	Method       enums.ShippingMethod `json:"method"`
	FallbackUsed bool                 `json:"fallback_used"`
	Warning      string               `json:"warning,omitempty"`
}

// Service computes international shipping cost for a lane. Route-specific
// rules win; a per-country formula covers lanes without a route; a
// hardcoded default covers degraded stores. It never returns an error:
// shipping pricing must not block quote creation.
type Service interface {
	GetShippingCost(ctx context.Context, input CostInput) Cost
}

type service struct {
	routes    routeFinder
	countries settingsLoader
	defaults  config.PricingConfig
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// NewService wires a shipping cost engine.
func NewService(routes routeFinder, countries settingsLoader, defaults config.PricingConfig, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if routes == nil {
		return nil, fmt.Errorf("route repository required")
	}
	if countries == nil {
		return nil, fmt.Errorf("country settings repository required")
	}
	return &service{
		routes:    routes,
		countries: countries,
		defaults:  defaults,
		logg:      logg,
		metrics:   m,
	}, nil
}

func (s *service) GetShippingCost(ctx context.Context, input CostInput) Cost {
	route, err := s.routes.FindActive(ctx, input.OriginCountry, input.DestinationCountry)
	if err == nil {
		return s.routeCost(route, input)
	}
	if !db.IsNotFound(err) && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("route lookup %s:%s failed: %v", input.OriginCountry, input.DestinationCountry, err))
	}

	settings, err := s.countries.Get(ctx, input.DestinationCountry)
	if err != nil {
		if !db.IsNotFound(err) && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("country settings lookup %s failed: %v", input.DestinationCountry, err))
		}
		s.metrics.IncFallback("shipping")
		return s.defaultCost(input.DestinationCountry)
	}

	return s.formulaCost(settings, input)
}

// routeCost prices against a configured route. The computed base is floored
// by the first matching weight tier, then the percentage cost is added.
func (s *service) routeCost(route *models.ShippingRoute, input CostInput) Cost {
	weight := convertWeight(input.WeightKg, route.WeightUnit)

	base := route.BaseShippingCost.Add(decimal.NewFromFloat(weight).Mul(route.CostPerKg))
	for _, tier := range route.WeightTiers {
		if tier.Contains(weight) {
			if tier.Cost.GreaterThan(base) {
				base = tier.Cost
			}
			break
		}
	}

	percentageCost := money.Percent(input.Price, route.CostPercentage)

	cost := Cost{
		Cost:   money.Round2(base.Add(percentageCost)),
		Method: enums.ShippingMethodRoute,
	}
	if len(route.Carriers) > 0 {
		cost.Carrier = route.Carriers[0].Name
		cost.DeliveryDays = route.Carriers[0].Days
	} else {
		cost.Carrier = s.defaults.DefaultShippingCarrier
		cost.DeliveryDays = s.defaults.DefaultShippingDays
	}
	return cost
}

// formulaCost prices a lane without a route from the destination country's
// generic settings.
func (s *service) formulaCost(settings *models.CountrySettings, input CostInput) Cost {
	total := settings.MinShipping.Add(money.Percent(input.Price, settings.AdditionalShippingPercent))
	if input.WeightKg > 1 {
		extraWeight := decimal.NewFromFloat(input.WeightKg - 1)
		total = total.Add(extraWeight.Mul(settings.AdditionalWeightCost))
	}

	return Cost{
		Cost:         money.Round2(total),
		Carrier:      s.defaults.DefaultShippingCarrier,
		DeliveryDays: s.defaults.DefaultShippingDays,
		Method:       enums.ShippingMethodFormula,
	}
}

// defaultCost is the last resort when neither a route nor country settings
// are readable.
func (s *service) defaultCost(destination string) Cost {
	return Cost{
		Cost:         decimal.NewFromFloat(s.defaults.DefaultShippingCost).Round(2),
		Carrier:      s.defaults.DefaultShippingCarrier,
		DeliveryDays: s.defaults.DefaultShippingDays,
		Method:       enums.ShippingMethodDefault,
		FallbackUsed: true,
		Warning:      fmt.Sprintf("no shipping configuration for %s, using default cost", destination),
	}
}

func convertWeight(weightKg float64, unit enums.WeightUnit) float64 {
	if unit == enums.WeightUnitLb {
		return weightKg * kgToLb
	}
	return weightKg
}
