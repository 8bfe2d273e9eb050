package enums

import "fmt"

// TierLogic controls how a customs tier combines its price and weight
// conditions.
type TierLogic string

const (
	TierLogicAnd TierLogic = "AND"
	TierLogicOr  TierLogic = "OR"
)

var validTierLogics = []TierLogic{
	TierLogicAnd,
	TierLogicOr,
}

// String implements fmt.Stringer.
func (l TierLogic) String() string {
	return string(l)
}

// IsValid reports whether the tier logic is recognized.
func (l TierLogic) IsValid() bool {
	for _, candidate := range validTierLogics {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseTierLogic converts a raw string into a TierLogic.
func ParseTierLogic(value string) (TierLogic, error) {
	for _, candidate := range validTierLogics {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier logic %q", value)
}
