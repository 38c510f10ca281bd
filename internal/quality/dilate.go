package quality

import (
	"math"
)

// radiusSamples converts the dilation radius to a whole number of
// samples. Rounding at the sampling-period boundary is pinned by test;
// the result is clamped to one so a directly invalid sample always
// remains invalid after spreading.
func radiusSamples(seconds, period float64) int {
	r := int(math.Round(seconds / period))
	if r < 1 {
		r = 1
	}
	return r
}

// dilate spreads each invalid sample over the symmetric window
// [i-radius+1, i+radius-1], clamped to the series bounds. A difference
// array replaces the per-index window write so the scan is linear in the
// series length, with output identical to OR-ing the windows directly.
// The operation is idempotent and monotonic in the radius.
func dilate(invalid []bool, radius int) []bool {
	n := len(invalid)
	out := make([]bool, n)
	if n == 0 {
		return out
	}

	diff := make([]int, n+1)
	for i, bad := range invalid {
		if !bad {
			continue
		}
		lo := i - radius + 1
		if lo < 0 {
			lo = 0
		}
		hi := i + radius - 1
		if hi > n-1 {
			hi = n - 1
		}
		diff[lo]++
		diff[hi+1]--
	}

	covered := 0
	for i := 0; i < n; i++ {
		covered += diff[i]
		out[i] = covered > 0
	}
	return out
}

// validityMask inverts the dilated invalid mask and counts the invalid
// entries.
func validityMask(invalid []bool) ([]bool, int) {
	mask := make([]bool, len(invalid))
	bad := 0
	for i, v := range invalid {
		mask[i] = !v
		if v {
			bad++
		}
	}
	return mask, bad
}
