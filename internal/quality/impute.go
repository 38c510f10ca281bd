package quality

import (
	"math"
)

// imputeMissing fills isolated NaN gaps in a copy of the series using the
// arithmetic mean of the immediate neighbors. The scan runs left to right
// and writes in place, and the neighbor values are used regardless of
// whether they are themselves finite. Consequences, kept deliberately:
//
//   - a NaN at either boundary is never imputed;
//   - in a run of two or more NaNs the neighbor mean itself consumes a
//     NaN, so the result stays NaN and is not revisited.
//
// Returns the imputed copy and the number of interior NaNs encountered.
func imputeMissing(series []float64) ([]float64, int) {
	out := make([]float64, len(series))
	copy(out, series)

	imputed := 0
	for i := 1; i < len(out)-1; i++ {
		if !math.IsNaN(out[i]) {
			continue
		}
		out[i] = (out[i-1] + out[i+1]) / 2
		imputed++
	}
	return out, imputed
}
