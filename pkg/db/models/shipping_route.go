package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	"github.com/angelmondragon/crossborder-pricing/pkg/types"
)

// ShippingRoute configures pricing for one origin-destination lane.
// Routes are owned by the routing admin tooling; the pricing engines only
// ever read them.
type ShippingRoute struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OriginCountry      string            `gorm:"column:origin_country;size:2;not null;index:idx_shipping_routes_lane"`
	DestinationCountry string            `gorm:"column:destination_country;size:2;not null;index:idx_shipping_routes_lane"`
	Active             bool              `gorm:"column:active;not null;default:true"`
	ExchangeRate       decimal.Decimal   `gorm:"column:exchange_rate;type:numeric(20,8);default:0"`
	BaseShippingCost   decimal.Decimal   `gorm:"column:base_shipping_cost;type:numeric(12,2);not null"`
	CostPerKg          decimal.Decimal   `gorm:"column:cost_per_kg;type:numeric(12,2);not null;default:0"`
	CostPercentage     decimal.Decimal   `gorm:"column:cost_percentage;type:numeric(7,4);not null;default:0"`
	WeightUnit         enums.WeightUnit  `gorm:"column:weight_unit;size:4;not null;default:kg"`
	WeightTiers        types.WeightTiers `gorm:"column:weight_tiers;type:jsonb"`
	Carriers           types.Carriers    `gorm:"column:carriers;type:jsonb"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// HasExchangeRate reports whether the route pins its own usable rate.
func (r ShippingRoute) HasExchangeRate() bool {
	return r.ExchangeRate.IsPositive()
}
