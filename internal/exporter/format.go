package exporter

import (
	"fmt"
	"math"
)

// formatFloat formats a float64 for CSV output with a fixed number of
// decimal places. NaN is written as the bare "nan" marker the parsers
// round-trip.
func formatFloat(f float64, decimals int) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return fmt.Sprintf("%.*f", decimals, f)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
