package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/api/responses"
	"github.com/angelmondragon/crossborder-pricing/api/validators"
	"github.com/angelmondragon/crossborder-pricing/internal/quote"
	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
)

// PriceQuoteRequest is the landed-cost pricing payload. Monetary fields are
// in origin currency; weight is kilograms per unit.
type PriceQuoteRequest struct {
	OriginCountry      string `json:"origin_country" validate:"required,len=2"`
	DestinationCountry string `json:"destination_country" validate:"required,len=2"`

	ItemPrice    decimal.Decimal `json:"item_price" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	ItemWeightKg float64         `json:"item_weight_kg" validate:"min=0"`

	MerchantShipping decimal.Decimal `json:"merchant_shipping"`
	DomesticShipping decimal.Decimal `json:"domestic_shipping"`
	HandlingCharge   decimal.Decimal `json:"handling_charge"`
	Insurance        decimal.Decimal `json:"insurance"`
	Discount         decimal.Decimal `json:"discount"`

	GatewayFixedFee   *decimal.Decimal `json:"gateway_fixed_fee,omitempty"`
	GatewayPercentFee *decimal.Decimal `json:"gateway_percent_fee,omitempty"`
}

// PriceQuote computes a full quote breakdown for a lane.
func PriceQuote(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload PriceQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCountryPair(ctx, payload.OriginCountry, payload.DestinationCountry)
		}

		breakdown, err := svc.CalculateQuote(ctx, quote.Input{
			OriginCountry:      payload.OriginCountry,
			DestinationCountry: payload.DestinationCountry,
			ItemPrice:          payload.ItemPrice,
			Quantity:           payload.Quantity,
			ItemWeightKg:       payload.ItemWeightKg,
			MerchantShipping:   payload.MerchantShipping,
			DomesticShipping:   payload.DomesticShipping,
			HandlingCharge:     payload.HandlingCharge,
			Insurance:          payload.Insurance,
			Discount:           payload.Discount,
			GatewayFixedFee:    payload.GatewayFixedFee,
			GatewayPercentFee:  payload.GatewayPercentFee,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, breakdown)
	}
}
