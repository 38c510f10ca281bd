package quality

import (
	"math"
)

// evaluateRules computes the directly-invalid mask from the three
// per-sample rules. Every rule is evaluated for every sample, with no
// short-circuiting, so the per-rule counts stay meaningful even when
// several rules flag the same index.
//
// Note on missing data: a NaN that survived imputation compares false
// against every bound, so rules 1-3 never flag it. That mirrors the
// neighbor-mean imputer's documented gap behavior rather than inventing
// a fifth rule.
func evaluateRules(eda, temperature []float64, cfg Config, period float64) ([]bool, RuleCounts) {
	invalid := make([]bool, len(eda))
	var counts RuleCounts

	for i := range eda {
		outOfRange := eda[i] < cfg.Floor || eda[i] > cfg.Ceiling

		// The first sample has no predecessor; its slope is zero by
		// construction and cannot violate the bound.
		slope := 0.0
		if i >= 1 {
			slope = (eda[i] - eda[i-1]) / period
		}
		tooSteep := math.Abs(slope) > cfg.MaxSlopePerSecond

		outOfTempRange := false
		if temperature != nil {
			outOfTempRange = temperature[i] < cfg.TempMin || temperature[i] > cfg.TempMax
		}

		if outOfRange {
			counts.Range++
		}
		if tooSteep {
			counts.Slope++
		}
		if outOfTempRange {
			counts.Temperature++
		}
		invalid[i] = outOfRange || tooSteep || outOfTempRange
	}
	return invalid, counts
}
