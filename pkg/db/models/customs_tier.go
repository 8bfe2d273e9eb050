package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

// CustomsTier is one priority-ordered duty/VAT rule for a lane. Nil bounds
// mean the condition is open on that side.
type CustomsTier struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OriginCountry      string          `gorm:"column:origin_country;size:2;not null;index:idx_customs_tiers_lane"`
	DestinationCountry string          `gorm:"column:destination_country;size:2;not null;index:idx_customs_tiers_lane"`
	Active             bool            `gorm:"column:active;not null;default:true"`
	PriorityOrder      int             `gorm:"column:priority_order;not null"`
	LogicType          enums.TierLogic `gorm:"column:logic_type;size:3;not null;default:AND"`

	PriceMin  *decimal.Decimal `gorm:"column:price_min;type:numeric(12,2)"`
	PriceMax  *decimal.Decimal `gorm:"column:price_max;type:numeric(12,2)"`
	WeightMin *float64         `gorm:"column:weight_min;type:numeric(10,3)"`
	WeightMax *float64         `gorm:"column:weight_max;type:numeric(10,3)"`

	CustomsPercentage decimal.Decimal `gorm:"column:customs_percentage;type:numeric(7,4);not null;default:0"`
	VATPercentage     decimal.Decimal `gorm:"column:vat_percentage;type:numeric(7,4);not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
