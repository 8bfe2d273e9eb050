package customs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
)

type tierLister interface {
	ListActive(ctx context.Context, origin, destination string) ([]models.CustomsTier, error)
}

type settingsLoader interface {
	Get(ctx context.Context, code string) (*models.CountrySettings, error)
}

// CalcInput describes the consignment the duty applies to. Price is in
// origin currency; weight is in kilograms.
type CalcInput struct {
	OriginCountry      string
	DestinationCountry string
	ItemPrice          decimal.Decimal
	ItemWeight         float64
}

// Result carries the matched duty/VAT percentages. FallbackUsed marks
// results not backed by a matched tier; operators see these via the warning
// and the fallback metric, they are never silently absorbed.
type Result struct {
	CustomsPercentage decimal.Decimal `json:"customs_percentage"`
	VATPercentage     decimal.Decimal `json:"vat_percentage"`

	AppliedTierID   *uuid.UUID `json:"applied_tier_id,omitempty"`
	AppliedPriority *int       `json:"applied_priority,omitempty"`

	OriginCountry      string `json:"origin_country"`
	DestinationCountry string `json:"destination_country"`

	FallbackUsed bool   `json:"fallback_used"`
	Warning      string `json:"warning,omitempty"`
}

// Service matches a consignment against the lane's priority-ordered customs
// tiers. Missing configuration or store failures degrade to the
// destination's flat percentages (or zero duty) rather than blocking
// checkout.
type Service interface {
	Calculate(ctx context.Context, input CalcInput) Result
}

type service struct {
	tiers     tierLister
	countries settingsLoader
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// NewService wires a customs and tax engine.
func NewService(tiers tierLister, countries settingsLoader, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if tiers == nil {
		return nil, fmt.Errorf("customs tier repository required")
	}
	if countries == nil {
		return nil, fmt.Errorf("country settings repository required")
	}
	return &service{
		tiers:     tiers,
		countries: countries,
		logg:      logg,
		metrics:   m,
	}, nil
}

func (s *service) Calculate(ctx context.Context, input CalcInput) Result {
	tiers, err := s.tiers.ListActive(ctx, input.OriginCountry, input.DestinationCountry)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("customs tier lookup %s:%s failed: %v", input.OriginCountry, input.DestinationCountry, err))
		}
		return s.fallback(ctx, input, "customs tiers unavailable")
	}

	for _, tier := range tiers {
		if tierApplies(tier, input.ItemPrice, input.ItemWeight) {
			tierID := tier.ID
			priority := tier.PriorityOrder
			return Result{
				CustomsPercentage:  tier.CustomsPercentage,
				VATPercentage:      tier.VATPercentage,
				AppliedTierID:      &tierID,
				AppliedPriority:    &priority,
				OriginCountry:      input.OriginCountry,
				DestinationCountry: input.DestinationCountry,
			}
		}
	}

	if len(tiers) == 0 {
		return s.fallback(ctx, input, "no customs tiers configured")
	}
	return s.fallback(ctx, input, "no customs tier matched")
}

// fallback returns the destination's flat route-level percentages, or zero
// duty when even those are unavailable.
func (s *service) fallback(ctx context.Context, input CalcInput, reason string) Result {
	s.metrics.IncFallback("customs")

	result := Result{
		CustomsPercentage:  decimal.Zero,
		VATPercentage:      decimal.Zero,
		OriginCountry:      input.OriginCountry,
		DestinationCountry: input.DestinationCountry,
		FallbackUsed:       true,
		Warning:            fmt.Sprintf("%s for %s:%s, using flat country percentages", reason, input.OriginCountry, input.DestinationCountry),
	}

	settings, err := s.countries.Get(ctx, input.DestinationCountry)
	if err != nil {
		result.Warning = fmt.Sprintf("%s for %s:%s, no country settings either, using zero duty", reason, input.OriginCountry, input.DestinationCountry)
		return result
	}
	result.CustomsPercentage = settings.CustomsPercent
	result.VATPercentage = settings.VATPercent
	return result
}

func tierApplies(tier models.CustomsTier, price decimal.Decimal, weight float64) bool {
	priceMatch := matchPrice(tier, price)
	weightMatch := matchWeight(tier, weight)

	if tier.LogicType == enums.TierLogicOr {
		return priceMatch || weightMatch
	}
	return priceMatch && weightMatch
}

func matchPrice(tier models.CustomsTier, price decimal.Decimal) bool {
	if tier.PriceMin != nil && price.LessThan(*tier.PriceMin) {
		return false
	}
	if tier.PriceMax != nil && price.GreaterThan(*tier.PriceMax) {
		return false
	}
	return true
}

func matchWeight(tier models.CustomsTier, weight float64) bool {
	if tier.WeightMin != nil && weight < *tier.WeightMin {
		return false
	}
	if tier.WeightMax != nil && weight > *tier.WeightMax {
		return false
	}
	return true
}
