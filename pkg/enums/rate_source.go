package enums

import "fmt"

// RateSource identifies which step of the fallback chain produced an
// exchange rate.
type RateSource string

const (
	RateSourceShippingRoute   RateSource = "shipping_route"
	RateSourceCountrySettings RateSource = "country_settings"
	RateSourceFallback        RateSource = "fallback"
)

var validRateSources = []RateSource{
	RateSourceShippingRoute,
	RateSourceCountrySettings,
	RateSourceFallback,
}

// String implements fmt.Stringer.
func (s RateSource) String() string {
	return string(s)
}

// IsValid reports whether the rate source is recognized.
func (s RateSource) IsValid() bool {
	for _, candidate := range validRateSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRateSource converts a raw string into a RateSource.
func ParseRateSource(value string) (RateSource, error) {
	for _, candidate := range validRateSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rate source %q", value)
}
