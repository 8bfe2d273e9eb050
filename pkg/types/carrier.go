package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Carrier is one delivery option offered on a shipping route.
type Carrier struct {
	Name string `json:"name"`
	Days string `json:"days"`
}

// Carriers is the carrier list stored as jsonb on a route row.
type Carriers []Carrier

// Value implements driver.Valuer.
func (c Carriers) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Carriers) Scan(value any) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch raw := value.(type) {
	case []byte:
		return json.Unmarshal(raw, c)
	case string:
		return json.Unmarshal([]byte(raw), c)
	default:
		return fmt.Errorf("unsupported carrier column type %T", value)
	}
}
