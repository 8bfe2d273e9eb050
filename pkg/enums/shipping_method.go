package enums

import "fmt"

// ShippingMethod records which calculation produced a shipping cost.
type ShippingMethod string

const (
	// ShippingMethodRoute means a configured route drove the calculation.
	ShippingMethodRoute ShippingMethod = "route"
	// ShippingMethodFormula means the per-country generic formula was used.
	ShippingMethodFormula ShippingMethod = "formula"
	// ShippingMethodDefault means every lookup failed and the hardcoded
	// default was returned.
	ShippingMethodDefault ShippingMethod = "default"
)

var validShippingMethods = []ShippingMethod{
	ShippingMethodRoute,
	ShippingMethodFormula,
	ShippingMethodDefault,
}

// String implements fmt.Stringer.
func (m ShippingMethod) String() string {
	return string(m)
}

// IsValid reports whether the shipping method is recognized.
func (m ShippingMethod) IsValid() bool {
	for _, candidate := range validShippingMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseShippingMethod converts a raw string into a ShippingMethod.
func ParseShippingMethod(value string) (ShippingMethod, error) {
	for _, candidate := range validShippingMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping method %q", value)
}
