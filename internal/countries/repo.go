package countries

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
)

// Repository reads per-country pricing settings.
type Repository interface {
	Get(ctx context.Context, code string) (*models.CountrySettings, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a country settings repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, code string) (*models.CountrySettings, error) {
	var settings models.CountrySettings
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}
