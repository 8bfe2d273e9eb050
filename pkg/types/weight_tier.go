package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// WeightTier is a [min,max] cost rule on a shipping route. A nil Max means
// the tier is unbounded above. Weights are in the route's declared unit.
type WeightTier struct {
	Min  float64         `json:"min"`
	Max  *float64        `json:"max"`
	Cost decimal.Decimal `json:"cost"`
}

// Contains reports whether the converted weight falls inside the tier.
func (t WeightTier) Contains(weight float64) bool {
	if weight < t.Min {
		return false
	}
	if t.Max != nil && weight > *t.Max {
		return false
	}
	return true
}

// WeightTiers is the ordered tier list stored as jsonb on a route row.
type WeightTiers []WeightTier

// Value implements driver.Valuer.
func (t WeightTiers) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *WeightTiers) Scan(value any) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, t)
	case string:
		return json.Unmarshal([]byte(raw), t)
	default:
		return fmt.Errorf("unsupported weight tier column type %T", value)
	}
}
