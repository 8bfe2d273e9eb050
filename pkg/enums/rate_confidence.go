package enums

import "fmt"

// RateConfidence grades how reliable a resolved exchange rate is. Low
// confidence results carry a warning the caller is expected to surface.
type RateConfidence string

const (
	RateConfidenceHigh   RateConfidence = "high"
	RateConfidenceMedium RateConfidence = "medium"
	RateConfidenceLow    RateConfidence = "low"
)

var validRateConfidences = []RateConfidence{
	RateConfidenceHigh,
	RateConfidenceMedium,
	RateConfidenceLow,
}

// String implements fmt.Stringer.
func (c RateConfidence) String() string {
	return string(c)
}

// IsValid reports whether the confidence grade is recognized.
func (c RateConfidence) IsValid() bool {
	for _, candidate := range validRateConfidences {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseRateConfidence converts a raw string into a RateConfidence.
func ParseRateConfidence(value string) (RateConfidence, error) {
	for _, candidate := range validRateConfidences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rate confidence %q", value)
}
