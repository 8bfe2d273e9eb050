package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

// PaymentLedgerEntry records one settled transaction or refund against a
// quote. Entries are append-only: the gateway webhook layer writes them and
// nothing ever mutates or deletes one. Refunds are appended as their own
// entries, not edits.
type PaymentLedgerEntry struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	QuoteID uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`

	Amount   decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency string          `gorm:"column:currency;size:3;not null"`

	// USDEquivalent is captured at settlement time when the gateway reports
	// it. When nil the fold derives it from the rate at payment.
	USDEquivalent         *decimal.Decimal `gorm:"column:usd_equivalent;type:numeric(14,2)"`
	ExchangeRateAtPayment decimal.Decimal  `gorm:"column:exchange_rate_at_payment;type:numeric(20,8);not null;default:0"`

	// TransactionType may be empty for legacy rows; a "completed" status
	// with no type counts as a payment.
	TransactionType enums.TransactionType `gorm:"column:transaction_type;size:32"`
	Status          string                `gorm:"column:status;size:32;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
