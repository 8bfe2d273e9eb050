package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
	"github.com/angelmondragon/crossborder-pricing/pkg/metrics"
	"github.com/angelmondragon/crossborder-pricing/pkg/money"
)

const completedStatus = "completed"

// SummaryInput anchors the reconciliation. ExchangeRateToUSD is the quote
// currency per US dollar; zero means the quote is already in USD.
type SummaryInput struct {
	QuoteID           uuid.UUID
	FinalTotal        decimal.Decimal
	Currency          string
	ExchangeRateToUSD decimal.Decimal
}

// Summary is the reconciled payment state of a quote. Quote-currency and
// USD figures are both reported; status decisions use USD only so the
// answer does not flip with rate drift.
type Summary struct {
	QuoteID  uuid.UUID `json:"quote_id"`
	Currency string    `json:"currency"`

	FinalTotal    decimal.Decimal `json:"final_total"`
	FinalTotalUsd decimal.Decimal `json:"final_total_usd"`

	TotalPaid    decimal.Decimal `json:"total_paid"`
	TotalPaidUsd decimal.Decimal `json:"total_paid_usd"`

	Remaining    decimal.Decimal `json:"remaining"`
	RemainingUsd decimal.Decimal `json:"remaining_usd"`

	OverpaidAmount    decimal.Decimal `json:"overpaid_amount"`
	OverpaidAmountUsd decimal.Decimal `json:"overpaid_amount_usd"`

	Status         enums.PaymentStatus `json:"status"`
	IsOverpaid     bool                `json:"is_overpaid"`
	PercentagePaid decimal.Decimal     `json:"percentage_paid"`

	EntryCount int `json:"entry_count"`
}

// Service reconciles the payment ledger against a quote total.
type Service interface {
	CalculateSummary(ctx context.Context, input SummaryInput) Summary
	Summarize(input SummaryInput, entries []models.PaymentLedgerEntry) Summary
	RecordPayment(ctx context.Context, entry *models.PaymentLedgerEntry) error
}

type service struct {
	ledger    Repository
	tolerance decimal.Decimal
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
}

// NewService wires a payment reconciliation service.
func NewService(ledger Repository, pricing config.PricingConfig, logg *logger.Logger, m *metrics.PricingMetrics) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("payment ledger repository required")
	}
	tolerance := decimal.NewFromFloat(pricing.PaymentToleranceUSD)
	if !tolerance.IsPositive() {
		tolerance = decimal.NewFromFloat(0.01)
	}
	return &service{
		ledger:    ledger,
		tolerance: tolerance,
		logg:      logg,
		metrics:   m,
	}, nil
}

// CalculateSummary folds the quote's ledger into a summary. A ledger read
// failure degrades to a zero-payment summary rather than an error, so a
// quote page still renders when the ledger store is down.
func (s *service) CalculateSummary(ctx context.Context, input SummaryInput) Summary {
	entries, err := s.ledger.ListByQuoteID(ctx, input.QuoteID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("ledger read for quote %s failed: %v", input.QuoteID, err))
		}
		s.metrics.IncFallback("payment_ledger")
		entries = nil
	}
	return s.Summarize(input, entries)
}

func (s *service) RecordPayment(ctx context.Context, entry *models.PaymentLedgerEntry) error {
	return s.ledger.Append(ctx, entry)
}

// Summarize is the pure fold over ledger entries. Entries that are neither
// credits nor debits are ignored, except legacy completed rows with no
// type, which count as payments.
func (s *service) Summarize(input SummaryInput, entries []models.PaymentLedgerEntry) Summary {
	rate := input.ExchangeRateToUSD
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(1)
	}

	totalPaid := decimal.Zero
	totalPaidUsd := decimal.Zero
	counted := 0

	for _, entry := range entries {
		credit := entry.TransactionType.IsCredit() ||
			(entry.TransactionType == "" && entry.Status == completedStatus)
		debit := entry.TransactionType.IsDebit()
		if !credit && !debit {
			continue
		}

		usd := entryUSD(entry)
		if debit {
			totalPaid = totalPaid.Sub(entry.Amount)
			totalPaidUsd = totalPaidUsd.Sub(usd)
		} else {
			totalPaid = totalPaid.Add(entry.Amount)
			totalPaidUsd = totalPaidUsd.Add(usd)
		}
		counted++
	}

	finalTotalUsd := input.FinalTotal.Div(rate)

	remaining := decimal.Max(decimal.Zero, input.FinalTotal.Sub(totalPaid))
	remainingUsd := decimal.Max(decimal.Zero, finalTotalUsd.Sub(totalPaidUsd))

	status := enums.PaymentStatusUnpaid
	switch {
	case remainingUsd.LessThanOrEqual(s.tolerance):
		status = enums.PaymentStatusPaid
	case totalPaidUsd.GreaterThan(s.tolerance):
		status = enums.PaymentStatusPartial
	}

	isOverpaid := totalPaidUsd.GreaterThan(finalTotalUsd.Add(s.tolerance))
	overpaid := decimal.Max(decimal.Zero, totalPaid.Sub(input.FinalTotal))
	overpaidUsd := decimal.Max(decimal.Zero, totalPaidUsd.Sub(finalTotalUsd))

	percentagePaid := decimal.Zero
	if finalTotalUsd.IsPositive() {
		percentagePaid = money.Round2(totalPaidUsd.Div(finalTotalUsd).Mul(decimal.NewFromInt(100)))
	}

	return Summary{
		QuoteID:  input.QuoteID,
		Currency: input.Currency,

		FinalTotal:    money.Round(input.FinalTotal, input.Currency),
		FinalTotalUsd: money.Round2(finalTotalUsd),

		TotalPaid:    money.Round(totalPaid, input.Currency),
		TotalPaidUsd: money.Round2(totalPaidUsd),

		Remaining:    money.Round(remaining, input.Currency),
		RemainingUsd: money.Round2(remainingUsd),

		OverpaidAmount:    money.Round(overpaid, input.Currency),
		OverpaidAmountUsd: money.Round2(overpaidUsd),

		Status:         status,
		IsOverpaid:     isOverpaid,
		PercentagePaid: percentagePaid,

		EntryCount: counted,
	}
}

// entryUSD prefers the USD equivalent captured at settlement; otherwise it
// derives one from the rate recorded when the payment landed.
func entryUSD(entry models.PaymentLedgerEntry) decimal.Decimal {
	if entry.USDEquivalent != nil {
		return *entry.USDEquivalent
	}
	if entry.ExchangeRateAtPayment.IsPositive() {
		return entry.Amount.Div(entry.ExchangeRateAtPayment)
	}
	return entry.Amount
}
