package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/crossborder-pricing/api/responses"
	"github.com/angelmondragon/crossborder-pricing/api/validators"
	"github.com/angelmondragon/crossborder-pricing/internal/payments"
	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
	"github.com/angelmondragon/crossborder-pricing/pkg/enums"
	pkgerrors "github.com/angelmondragon/crossborder-pricing/pkg/errors"
	"github.com/angelmondragon/crossborder-pricing/pkg/logger"
)

// PaymentSummaryRequest anchors reconciliation to the quote's priced total.
type PaymentSummaryRequest struct {
	FinalTotal        decimal.Decimal `json:"final_total" validate:"required"`
	Currency          string          `json:"currency" validate:"required,len=3"`
	ExchangeRateToUSD decimal.Decimal `json:"exchange_rate_to_usd"`
}

// RecordPaymentRequest appends one settled transaction to a quote's ledger.
type RecordPaymentRequest struct {
	Amount                decimal.Decimal  `json:"amount" validate:"required"`
	Currency              string           `json:"currency" validate:"required,len=3"`
	USDEquivalent         *decimal.Decimal `json:"usd_equivalent,omitempty"`
	ExchangeRateAtPayment decimal.Decimal  `json:"exchange_rate_at_payment"`
	TransactionType       string           `json:"transaction_type" validate:"required"`
	Status                string           `json:"status" validate:"required"`
}

// PaymentSummary reconciles a quote's ledger into paid/partial/unpaid.
func PaymentSummary(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload PaymentSummaryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithQuoteID(ctx, quoteID.String())
		}

		summary := svc.CalculateSummary(ctx, payments.SummaryInput{
			QuoteID:           quoteID,
			FinalTotal:        payload.FinalTotal,
			Currency:          payload.Currency,
			ExchangeRateToUSD: payload.ExchangeRateToUSD,
		})
		responses.WriteSuccess(w, summary)
	}
}

// RecordPayment appends a ledger entry. Entries are immutable once written.
func RecordPayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		quoteID, err := parseQuoteID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload RecordPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txType, err := enums.ParseTransactionType(payload.TransactionType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}
		if payload.Amount.IsNegative() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative"))
			return
		}

		entry := models.PaymentLedgerEntry{
			QuoteID:               quoteID,
			Amount:                payload.Amount,
			Currency:              payload.Currency,
			USDEquivalent:         payload.USDEquivalent,
			ExchangeRateAtPayment: payload.ExchangeRateAtPayment,
			TransactionType:       txType,
			Status:                payload.Status,
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithQuoteID(ctx, quoteID.String())
		}

		if err := svc.RecordPayment(ctx, &entry); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append ledger entry"))
			return
		}
		responses.WriteCreated(w, entry)
	}
}

func parseQuoteID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "quoteID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quote id")
	}
	return id, nil
}
