package enums

import "fmt"

// TransactionType classifies a payment ledger entry.
type TransactionType string

const (
	TransactionTypePayment         TransactionType = "payment"
	TransactionTypeCustomerPayment TransactionType = "customer_payment"
	TransactionTypeRefund          TransactionType = "refund"
	TransactionTypePartialRefund   TransactionType = "partial_refund"
)

var validTransactionTypes = []TransactionType{
	TransactionTypePayment,
	TransactionTypeCustomerPayment,
	TransactionTypeRefund,
	TransactionTypePartialRefund,
}

// String implements fmt.Stringer.
func (t TransactionType) String() string {
	return string(t)
}

// IsValid reports whether the transaction type is recognized.
func (t TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsCredit reports whether the entry adds to the amount paid.
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypePayment || t == TransactionTypeCustomerPayment
}

// IsDebit reports whether the entry subtracts from the amount paid.
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeRefund || t == TransactionTypePartialRefund
}

// ParseTransactionType converts a raw string into a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
