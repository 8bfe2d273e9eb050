package exchange

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

// Result is a resolved exchange rate plus how much to trust it. It is
// ephemeral: recomputed per call and cacheable whole, so warnings and
// confidence survive cache hits.
type Result struct {
	Rate       decimal.Decimal      `json:"rate"`
	Source     enums.RateSource     `json:"source"`
	Confidence enums.RateConfidence `json:"confidence"`
	Warning    string               `json:"warning,omitempty"`
}

func identityResult() Result {
	return Result{
		Rate:       decimal.NewFromInt(1),
		Source:     enums.RateSourceShippingRoute,
		Confidence: enums.RateConfidenceHigh,
	}
}
