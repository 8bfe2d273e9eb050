package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/internal/customs"
	"github.com/angelmondragon/crossborder-pricing/internal/exchange"
	"github.com/angelmondragon/crossborder-pricing/internal/shipping"
	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
	"github.com/angelmondragon/crossborder-pricing/pkg/money"
	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
)

type settingsLoader interface {
	Get(ctx context.Context, code string) (*models.CountrySettings, error)
}

// Input is everything the caller controls about a quote. Money fields are
// in origin currency; weight is per unit, in kilograms.
type Input struct {
	OriginCountry      string
	DestinationCountry string

	ItemPrice    decimal.Decimal
	Quantity     int
	ItemWeightKg float64

	MerchantShipping decimal.Decimal
	DomesticShipping decimal.Decimal
	HandlingCharge   decimal.Decimal
	Insurance        decimal.Decimal
	Discount         decimal.Decimal

	// Nil means use the configured platform defaults.
	GatewayFixedFee   *decimal.Decimal
	GatewayPercentFee *decimal.Decimal
}

// Breakdown is the assembled landed cost, denominated entirely in origin
// currency. It is a pure function of its inputs plus the one resolved rate;
// re-pricing replaces it wholesale.
type Breakdown struct {
	OriginCountry      string `json:"origin_country"`
	DestinationCountry string `json:"destination_country"`
	Currency           string `json:"currency"`

	ItemPrice             decimal.Decimal `json:"item_price"`
	SalesTax              decimal.Decimal `json:"sales_tax"`
	MerchantShipping      decimal.Decimal `json:"merchant_shipping"`
	DomesticShipping      decimal.Decimal `json:"domestic_shipping"`
	InternationalShipping decimal.Decimal `json:"international_shipping"`
	CustomsDuty           decimal.Decimal `json:"customs_duty"`
	HandlingCharge        decimal.Decimal `json:"handling_charge"`
	Insurance             decimal.Decimal `json:"insurance"`
	Discount              decimal.Decimal `json:"discount"`
	PaymentGatewayFee     decimal.Decimal `json:"payment_gateway_fee"`
	SubTotal              decimal.Decimal `json:"sub_total"`
	VAT                   decimal.Decimal `json:"vat"`
	FinalTotal            decimal.Decimal `json:"final_total"`

	ExchangeRate exchange.Result `json:"exchange_rate"`
	Shipping     shipping.Cost   `json:"shipping"`
	Customs      customs.Result  `json:"customs"`

	FallbackUsed bool     `json:"fallback_used"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Service assembles all cost components into a payable total. The exchange
// rate is resolved exactly once per computation and threaded through every
// destination-currency leg, so the parts always agree with the whole.
type Service interface {
	CalculateQuote(ctx context.Context, input Input) (*Breakdown, error)
}

type service struct {
	rates     exchange.Service
	shipping  shipping.Service
	customs   customs.Service
	countries settingsLoader
	defaults  config.PricingConfig
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// NewService wires a quote total assembler.
func NewService(rates exchange.Service, shippingSvc shipping.Service, customsSvc customs.Service, countries settingsLoader, defaults config.PricingConfig, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if rates == nil {
		return nil, fmt.Errorf("exchange rate resolver required")
	}
	if shippingSvc == nil {
		return nil, fmt.Errorf("shipping cost engine required")
	}
	if customsSvc == nil {
		return nil, fmt.Errorf("customs engine required")
	}
	if countries == nil {
		return nil, fmt.Errorf("country settings repository required")
	}
	return &service{
		rates:     rates,
		shipping:  shippingSvc,
		customs:   customsSvc,
		countries: countries,
		defaults:  defaults,
		logg:      logg,
		metrics:   m,
	}, nil
}

func (s *service) CalculateQuote(ctx context.Context, input Input) (*Breakdown, error) {
	start := time.Now()

	if err := validate(input); err != nil {
		return nil, err
	}

	totalItemPrice := input.ItemPrice.Mul(decimal.NewFromInt(int64(input.Quantity)))
	totalWeight := input.ItemWeightKg * float64(input.Quantity)

	var warnings []string

	originSettings, err := s.countries.Get(ctx, input.OriginCountry)
	if err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("origin settings lookup %s failed: %v", input.OriginCountry, err))
	}
	destSettings, err := s.countries.Get(ctx, input.DestinationCountry)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("no settings for %s, sales tax assumed 0", input.DestinationCountry))
	}

	currency := "USD"
	originCurrency := ""
	destinationCurrency := ""
	if originSettings != nil {
		currency = originSettings.CurrencyCode
		originCurrency = originSettings.CurrencyCode
	}
	if destSettings != nil {
		destinationCurrency = destSettings.CurrencyCode
	}

	// One rate per computation. Every destination-currency leg below uses
	// this value; none re-resolves.
	rate := s.rates.Resolve(ctx, exchange.ResolveInput{
		OriginCountry:       input.OriginCountry,
		DestinationCountry:  input.DestinationCountry,
		OriginCurrency:      originCurrency,
		DestinationCurrency: destinationCurrency,
	})
	if rate.Warning != "" {
		warnings = append(warnings, rate.Warning)
	}

	ship := s.shipping.GetShippingCost(ctx, shipping.CostInput{
		OriginCountry:      input.OriginCountry,
		DestinationCountry: input.DestinationCountry,
		WeightKg:           totalWeight,
		Price:              totalItemPrice,
	})
	if ship.Warning != "" {
		warnings = append(warnings, ship.Warning)
	}

	duty := s.customs.Calculate(ctx, customs.CalcInput{
		OriginCountry:      input.OriginCountry,
		DestinationCountry: input.DestinationCountry,
		ItemPrice:          totalItemPrice,
		ItemWeight:         totalWeight,
	})
	if duty.Warning != "" {
		warnings = append(warnings, duty.Warning)
	}

	salesTaxPercent := decimal.Zero
	if destSettings != nil {
		salesTaxPercent = destSettings.SalesTaxPercent
	}
	salesTax := money.Percent(totalItemPrice, salesTaxPercent)

	// Customs is levied on goods plus everything spent getting them to the
	// border. VAT is not part of the customs base.
	customsBase := totalItemPrice.Add(salesTax).Add(input.MerchantShipping).Add(ship.Cost)
	customsDuty := s.destinationLeg(customsBase, duty.CustomsPercentage, rate.Rate)

	subTotalBeforeFees := totalItemPrice.
		Add(salesTax).
		Add(input.MerchantShipping).
		Add(ship.Cost).
		Add(customsDuty).
		Add(input.DomesticShipping).
		Add(input.HandlingCharge).
		Add(input.Insurance).
		Sub(input.Discount)

	fixedFee := decimal.NewFromFloat(s.defaults.GatewayFixedFee)
	if input.GatewayFixedFee != nil {
		fixedFee = *input.GatewayFixedFee
	}
	percentFee := decimal.NewFromFloat(s.defaults.GatewayPercentFee)
	if input.GatewayPercentFee != nil {
		percentFee = *input.GatewayPercentFee
	}
	gatewayFee := fixedFee.Add(money.Percent(subTotalBeforeFees, percentFee))
	subTotal := subTotalBeforeFees.Add(gatewayFee)

	vat := money.Round2(s.destinationLeg(subTotal, duty.VATPercentage, rate.Rate))
	finalTotal := money.Round2(subTotal.Add(vat))

	breakdown := &Breakdown{
		OriginCountry:      input.OriginCountry,
		DestinationCountry: input.DestinationCountry,
		Currency:           currency,

		ItemPrice:             money.Round(totalItemPrice, currency),
		SalesTax:              money.Round(salesTax, currency),
		MerchantShipping:      money.Round(input.MerchantShipping, currency),
		DomesticShipping:      money.Round(input.DomesticShipping, currency),
		InternationalShipping: money.Round(ship.Cost, currency),
		CustomsDuty:           money.Round(customsDuty, currency),
		HandlingCharge:        money.Round(input.HandlingCharge, currency),
		Insurance:             money.Round(input.Insurance, currency),
		Discount:              money.Round(input.Discount, currency),
		PaymentGatewayFee:     money.Round(gatewayFee, currency),
		SubTotal:              money.Round(subTotal, currency),
		VAT:                   money.Round(vat, currency),
		FinalTotal:            money.Round(finalTotal, currency),

		ExchangeRate: rate,
		Shipping:     ship,
		Customs:      duty,

		FallbackUsed: ship.FallbackUsed || duty.FallbackUsed,
		Warnings:     warnings,
	}

	s.metrics.ObserveQuoteDuration(time.Since(start))
	return breakdown, nil
}

// destinationLeg converts a base into destination currency, applies the
// percentage there, and converts the result back, all at the single
// resolved rate.
func (s *service) destinationLeg(base decimal.Decimal, percent decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	if percent.IsZero() {
		return decimal.Zero
	}
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}
	destBase := money.Convert(base, rate)
	destAmount := money.Percent(destBase, percent)
	return destAmount.Div(rate)
}

func validate(input Input) error {
	details := map[string]string{}
	if input.OriginCountry == "" {
		details["origin_country"] = "is required"
	}
	if input.DestinationCountry == "" {
		details["destination_country"] = "is required"
	}
	if input.ItemPrice.IsNegative() {
		details["item_price"] = "must be non-negative"
	}
	if input.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if input.ItemWeightKg < 0 {
		details["item_weight_kg"] = "must be non-negative"
	}
	if input.MerchantShipping.IsNegative() || input.DomesticShipping.IsNegative() ||
		input.HandlingCharge.IsNegative() || input.Insurance.IsNegative() {
		details["charges"] = "must be non-negative"
	}
	if input.Discount.IsNegative() {
		details["discount"] = "must be non-negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid quote input").WithDetails(details)
	}
	return nil
}
