package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

// CountrySettings carries the per-country pricing defaults used when no
// route-specific configuration applies, plus the USD anchor rate.
type CountrySettings struct {
	Code         string          `gorm:"column:code;size:2;primaryKey"`
	CurrencyCode string          `gorm:"column:currency_code;size:3;not null"`
	RateFromUSD  decimal.Decimal `gorm:"column:rate_from_usd;type:numeric(20,8);not null;default:0"`

	SalesTaxPercent decimal.Decimal `gorm:"column:sales_tax_percent;type:numeric(7,4);not null;default:0"`
	VATPercent      decimal.Decimal `gorm:"column:vat_percent;type:numeric(7,4);not null;default:0"`
	CustomsPercent  decimal.Decimal `gorm:"column:customs_percent;type:numeric(7,4);not null;default:0"`

	MinShipping               decimal.Decimal  `gorm:"column:min_shipping;type:numeric(12,2);not null;default:0"`
	AdditionalShippingPercent decimal.Decimal  `gorm:"column:additional_shipping_percent;type:numeric(7,4);not null;default:0"`
	AdditionalWeightCost      decimal.Decimal  `gorm:"column:additional_weight_cost;type:numeric(12,2);not null;default:0"`
	WeightUnit                enums.WeightUnit `gorm:"column:weight_unit;size:4;not null;default:kg"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// HasUSDRate reports whether the country can participate in a USD cross-rate.
func (s CountrySettings) HasUSDRate() bool {
	return s.RateFromUSD.IsPositive()
}
