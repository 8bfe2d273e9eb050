package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func floatPtr(v float64) *float64 { return &v }

func TestWeightTierContains(t *testing.T) {
	bounded := WeightTier{Min: 1, Max: floatPtr(5), Cost: decimal.NewFromInt(30)}
	open := WeightTier{Min: 5, Cost: decimal.NewFromInt(80)}

	if !bounded.Contains(1) || !bounded.Contains(5) {
		t.Fatal("bounds should be inclusive")
	}
	if bounded.Contains(0.5) || bounded.Contains(5.01) {
		t.Fatal("values outside bounds should not match")
	}
	if !open.Contains(500) {
		t.Fatal("nil max should be unbounded above")
	}
	if open.Contains(4.9) {
		t.Fatal("open tier still enforces min")
	}
}

func TestWeightTiersScanRoundTrip(t *testing.T) {
	tiers := WeightTiers{
		{Min: 0, Max: floatPtr(1), Cost: decimal.RequireFromString("12.50")},
		{Min: 1, Cost: decimal.RequireFromString("22.00")},
	}

	raw, err := tiers.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}

	var decoded WeightTiers
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 tiers, got %d", len(decoded))
	}
	if decoded[0].Max == nil || *decoded[0].Max != 1 {
		t.Fatalf("bounded tier lost its max: %+v", decoded[0])
	}
	if decoded[1].Max != nil {
		t.Fatalf("open tier grew a max: %+v", decoded[1])
	}
	if !decoded[1].Cost.Equal(decimal.RequireFromString("22.00")) {
		t.Fatalf("cost mismatch: %s", decoded[1].Cost)
	}
}

func TestCarriersScanNil(t *testing.T) {
	var c Carriers
	if err := c.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if c != nil {
		t.Fatal("nil column should scan to nil slice")
	}
}
