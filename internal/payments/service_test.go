package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/pkg/config"
	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
)

type fakeLedger struct {
	entries  []models.PaymentLedgerEntry
	err      error
	appended []*models.PaymentLedgerEntry
}

func (f *fakeLedger) Append(_ context.Context, entry *models.PaymentLedgerEntry) error {
	f.appended = append(f.appended, entry)
	return f.err
}

func (f *fakeLedger) ListByQuoteID(_ context.Context, _ uuid.UUID) ([]models.PaymentLedgerEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func newLedgerService(t *testing.T, ledger Repository) Service {
	t.Helper()
	svc, err := NewService(ledger, config.PricingConfig{PaymentToleranceUSD: 0.01}, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func usdInput(finalTotal string) SummaryInput {
	return SummaryInput{
		QuoteID:           uuid.New(),
		FinalTotal:        decimal.RequireFromString(finalTotal),
		Currency:          "USD",
		ExchangeRateToUSD: decimal.NewFromInt(1),
	}
}

func payment(amount string, txType enums.TransactionType) models.PaymentLedgerEntry {
	return models.PaymentLedgerEntry{
		ID:                    uuid.New(),
		Amount:                decimal.RequireFromString(amount),
		Currency:              "USD",
		ExchangeRateAtPayment: decimal.NewFromInt(1),
		TransactionType:       txType,
		Status:                completedStatus,
	}
}

func TestSummarizeSinglePaymentWithinTolerance(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{
		payment("100.005", enums.TransactionTypePayment),
	})

	if got.Status != enums.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
	if got.IsOverpaid {
		t.Fatal("0.005 over is inside tolerance, not an overpayment")
	}
}

func TestSummarizeDoublePaymentOverpaid(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{
		payment("100.005", enums.TransactionTypePayment),
		payment("100.005", enums.TransactionTypePayment),
	})

	if got.Status != enums.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
	if !got.IsOverpaid {
		t.Fatal("expected overpayment")
	}
	if !got.OverpaidAmountUsd.Equal(decimal.RequireFromString("100.01")) {
		t.Fatalf("overpaid usd = %s, want 100.01", got.OverpaidAmountUsd)
	}
}

func TestSummarizeRefundsSubtract(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{
		payment("100.00", enums.TransactionTypeCustomerPayment),
		payment("30.00", enums.TransactionTypePartialRefund),
	})

	if got.Status != enums.PaymentStatusPartial {
		t.Fatalf("status = %q, want partial", got.Status)
	}
	if !got.TotalPaid.Equal(decimal.RequireFromString("70.00")) {
		t.Fatalf("total paid = %s, want 70.00", got.TotalPaid)
	}
	if !got.Remaining.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("remaining = %s, want 30.00", got.Remaining)
	}
}

func TestSummarizeLegacyCompletedEntryCounts(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	legacy := payment("100.00", "")
	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{legacy})

	if got.Status != enums.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
	if got.EntryCount != 1 {
		t.Fatalf("entry count = %d, want 1", got.EntryCount)
	}
}

func TestSummarizePendingEntryIgnored(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	pending := payment("100.00", "")
	pending.Status = "pending"
	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{pending})

	if got.Status != enums.PaymentStatusUnpaid {
		t.Fatalf("status = %q, want unpaid", got.Status)
	}
	if got.EntryCount != 0 {
		t.Fatalf("entry count = %d, want 0", got.EntryCount)
	}
}

func TestSummarizeStoredUSDEquivalentWins(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	stored := decimal.RequireFromString("98.00")
	entry := models.PaymentLedgerEntry{
		ID:                    uuid.New(),
		Amount:                decimal.RequireFromString("13250.00"),
		Currency:              "NPR",
		USDEquivalent:         &stored,
		ExchangeRateAtPayment: decimal.RequireFromString("130"),
		TransactionType:       enums.TransactionTypePayment,
		Status:                completedStatus,
	}

	input := SummaryInput{
		QuoteID:           uuid.New(),
		FinalTotal:        decimal.RequireFromString("13250.00"),
		Currency:          "NPR",
		ExchangeRateToUSD: decimal.RequireFromString("132.5"),
	}
	got := svc.Summarize(input, []models.PaymentLedgerEntry{entry})

	if !got.TotalPaidUsd.Equal(stored) {
		t.Fatalf("total paid usd = %s, want stored 98.00", got.TotalPaidUsd)
	}
}

func TestSummarizeDerivesUSDFromPaymentRate(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	entry := models.PaymentLedgerEntry{
		ID:                    uuid.New(),
		Amount:                decimal.RequireFromString("13250.00"),
		Currency:              "NPR",
		ExchangeRateAtPayment: decimal.RequireFromString("132.5"),
		TransactionType:       enums.TransactionTypePayment,
		Status:                completedStatus,
	}

	input := SummaryInput{
		QuoteID:           uuid.New(),
		FinalTotal:        decimal.RequireFromString("13250.00"),
		Currency:          "NPR",
		ExchangeRateToUSD: decimal.RequireFromString("132.5"),
	}
	got := svc.Summarize(input, []models.PaymentLedgerEntry{entry})

	if !got.TotalPaidUsd.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("total paid usd = %s, want 100.00", got.TotalPaidUsd)
	}
	if got.Status != enums.PaymentStatusPaid {
		t.Fatalf("status = %q, want paid", got.Status)
	}
}

func TestSummarizeRemainingNeverNegative(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	got := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{
		payment("250.00", enums.TransactionTypePayment),
	})

	if !got.Remaining.IsZero() {
		t.Fatalf("remaining = %s, want 0", got.Remaining)
	}
	if !got.RemainingUsd.IsZero() {
		t.Fatalf("remaining usd = %s, want 0", got.RemainingUsd)
	}
	if !got.OverpaidAmount.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("overpaid = %s, want 150.00", got.OverpaidAmount)
	}
}

func TestSummarizeRoundsToCurrencyPrecision(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	npr := models.PaymentLedgerEntry{
		ID:                    uuid.New(),
		Amount:                decimal.RequireFromString("400.5"),
		Currency:              "NPR",
		ExchangeRateAtPayment: decimal.RequireFromString("132.5"),
		TransactionType:       enums.TransactionTypePayment,
		Status:                completedStatus,
	}
	input := SummaryInput{
		QuoteID:           uuid.New(),
		FinalTotal:        decimal.RequireFromString("1000"),
		Currency:          "NPR",
		ExchangeRateToUSD: decimal.RequireFromString("132.5"),
	}
	got := svc.Summarize(input, []models.PaymentLedgerEntry{npr})

	if !got.TotalPaid.Equal(decimal.RequireFromString("401")) {
		t.Fatalf("total paid = %s, want whole-rupee 401", got.TotalPaid)
	}
	if !got.Remaining.Equal(decimal.RequireFromString("600")) {
		t.Fatalf("remaining = %s, want whole-rupee 600", got.Remaining)
	}

	usd := svc.Summarize(usdInput("100.00"), []models.PaymentLedgerEntry{
		payment("100.005", enums.TransactionTypePayment),
	})
	if !usd.TotalPaid.Equal(decimal.RequireFromString("100.01")) {
		t.Fatalf("total paid = %s, want 2dp 100.01", usd.TotalPaid)
	}
}

func TestSummarizePercentagePaid(t *testing.T) {
	svc := newLedgerService(t, &fakeLedger{})

	got := svc.Summarize(usdInput("200.00"), []models.PaymentLedgerEntry{
		payment("50.00", enums.TransactionTypePayment),
	})

	if !got.PercentagePaid.Equal(decimal.RequireFromString("25")) {
		t.Fatalf("percentage paid = %s, want 25", got.PercentagePaid)
	}
}

func TestCalculateSummaryLedgerFailureDegrades(t *testing.T) {
	ledger := &fakeLedger{err: errors.New("connection refused")}
	svc := newLedgerService(t, ledger)

	input := usdInput("100.00")
	got := svc.CalculateSummary(context.Background(), input)

	if got.Status != enums.PaymentStatusUnpaid {
		t.Fatalf("status = %q, want unpaid", got.Status)
	}
	if !got.TotalPaid.IsZero() || !got.TotalPaidUsd.IsZero() {
		t.Fatalf("expected zero payments, got %s / %s usd", got.TotalPaid, got.TotalPaidUsd)
	}
	if !got.Remaining.Equal(input.FinalTotal) {
		t.Fatalf("remaining = %s, want full total", got.Remaining)
	}
}

func TestRecordPaymentAppends(t *testing.T) {
	ledger := &fakeLedger{}
	svc := newLedgerService(t, ledger)

	entry := payment("10.00", enums.TransactionTypePayment)
	if err := svc.RecordPayment(context.Background(), &entry); err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}
	if len(ledger.appended) != 1 {
		t.Fatalf("appended = %d entries, want 1", len(ledger.appended))
	}
}
