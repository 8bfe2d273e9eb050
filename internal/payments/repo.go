package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
)

// Repository reads and appends payment ledger entries. The ledger is
// append-only; there is deliberately no update or delete.
type Repository interface {
	Append(ctx context.Context, entry *models.PaymentLedgerEntry) error
	ListByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]models.PaymentLedgerEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Append(ctx context.Context, entry *models.PaymentLedgerEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByQuoteID(ctx context.Context, quoteID uuid.UUID) ([]models.PaymentLedgerEntry, error) {
	var entries []models.PaymentLedgerEntry
	err := r.db.WithContext(ctx).
		Where("quote_id = ?", quoteID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
