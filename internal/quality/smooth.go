package quality

import (
	"errors"
	"math"
)

// errAllUndefined marks a filter output with no finite sample left in it.
var errAllUndefined = errors.New("filtered output contains no finite value")

// windowSamples converts a window duration to a whole number of samples,
// never below one.
func windowSamples(seconds, period float64) int {
	w := int(math.Round(seconds / period))
	if w < 1 {
		w = 1
	}
	return w
}

// movingAverage applies a causal moving average of the given window
// length. The window shrinks at the left edge so early samples average
// over what is available instead of padding.
func movingAverage(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		sum := 0.0
		for j := lo; j <= i; j++ {
			sum += series[j]
		}
		out[i] = sum / float64(i-lo+1)
	}
	return out
}

// reverse returns a reversed copy.
func reverse(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[len(series)-1-i] = v
	}
	return out
}

// zeroPhaseFilter smooths the series with a forward pass and a second
// pass over the reversed signal, so the two group delays cancel and
// feature timing is preserved. Fails when the output has no finite
// sample left, which happens when unimputed NaNs blanket the series
// once the window spreads them.
func zeroPhaseFilter(series []float64, window int) ([]float64, error) {
	forward := movingAverage(series, window)
	out := reverse(movingAverage(reverse(forward), window))

	finite := false
	for _, v := range out {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = true
			break
		}
	}
	if !finite {
		return nil, errAllUndefined
	}
	return out, nil
}

// smoothed carries the per-channel outcome of the smoothing stage. The
// two channels fail differently: EDA failure aborts the run, temperature
// failure degrades to the unfiltered series.
type smoothed struct {
	eda          []float64
	temperature  []float64
	tempFellBack bool
}

// smooth runs the zero-phase filter over both channels. A disabled
// window is a passthrough of the post-imputation data. The temperature
// slice may be nil when the input has no temperature channel.
func smooth(eda, temperature []float64, cfg Config, period float64) (smoothed, error) {
	if cfg.FilterWindowSeconds == DisabledFilterWindow {
		return smoothed{eda: eda, temperature: temperature}, nil
	}

	window := windowSamples(cfg.FilterWindowSeconds, period)

	filteredEDA, err := zeroPhaseFilter(eda, window)
	if err != nil {
		return smoothed{}, &FilterError{Channel: ChannelEDA, Err: err}
	}

	out := smoothed{eda: filteredEDA}
	if temperature == nil {
		return out, nil
	}

	filteredTemp, err := zeroPhaseFilter(temperature, window)
	if err != nil {
		out.temperature = temperature
		out.tempFellBack = true
		return out, nil
	}
	out.temperature = filteredTemp
	return out, nil
}
