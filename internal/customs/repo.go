package customs

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
)

// Repository reads customs tier configuration for a lane, in evaluation
// order.
type Repository interface {
	ListActive(ctx context.Context, origin, destination string) ([]models.CustomsTier, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a customs tier repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context, origin, destination string) ([]models.CustomsTier, error) {
	var tiers []models.CustomsTier
	err := r.db.WithContext(ctx).
		Where("origin_country = ? AND destination_country = ? AND active = ?",
			normalize(origin), normalize(destination), true).
		Order("priority_order ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, err
	}
	return tiers, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
