package routes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/crossborder-pricing/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.ShippingRoute{}); err != nil {
		t.Fatalf("migrate routes: %v", err)
	}
	return db
}

func seedRoute(t *testing.T, db *gorm.DB, route models.ShippingRoute) models.ShippingRoute {
	t.Helper()
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	if err := db.Create(&route).Error; err != nil {
		t.Fatalf("seed route: %v", err)
	}
	return route
}

func TestFindActiveMatchesLane(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	want := seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             true,
		BaseShippingCost:   decimal.NewFromInt(12),
	})
	seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "IN",
		Active:             true,
		BaseShippingCost:   decimal.NewFromInt(20),
	})

	got, err := repo.FindActive(ctx, "US", "NP")
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("route = %s, want %s", got.ID, want.ID)
	}
}

func TestFindActiveNormalizesCountryCodes(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             true,
		BaseShippingCost:   decimal.NewFromInt(12),
	})

	got, err := repo.FindActive(context.Background(), " us ", "np")
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if got.DestinationCountry != "NP" {
		t.Fatalf("destination = %q, want NP", got.DestinationCountry)
	}
}

func TestFindActiveSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             false,
		BaseShippingCost:   decimal.NewFromInt(12),
	})

	_, err := repo.FindActive(context.Background(), "US", "NP")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("err = %v, want record not found", err)
	}
}

func TestFindActivePrefersFreshestRoute(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	stale := seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             true,
		BaseShippingCost:   decimal.NewFromInt(12),
		UpdatedAt:          time.Now().Add(-48 * time.Hour),
	})
	fresh := seedRoute(t, db, models.ShippingRoute{
		OriginCountry:      "US",
		DestinationCountry: "NP",
		Active:             true,
		BaseShippingCost:   decimal.NewFromInt(15),
		UpdatedAt:          time.Now(),
	})

	got, err := repo.FindActive(context.Background(), "US", "NP")
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if got.ID != fresh.ID {
		t.Fatalf("route = %s, want freshest %s (stale %s)", got.ID, fresh.ID, stale.ID)
	}
}
