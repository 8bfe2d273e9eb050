package routes

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
)

// Repository reads shipping route configuration. Routes are maintained by
// admin tooling outside this service; the pricing engines never write them.
type Repository interface {
	FindActive(ctx context.Context, origin, destination string) (*models.ShippingRoute, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a route repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindActive(ctx context.Context, origin, destination string) (*models.ShippingRoute, error) {
	var route models.ShippingRoute
	err := r.db.WithContext(ctx).
		Where("origin_country = ? AND destination_country = ? AND active = ?",
			normalizeCountry(origin), normalizeCountry(destination), true).
		Order("updated_at DESC").
		First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func normalizeCountry(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
