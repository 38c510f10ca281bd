package quality

import (
	"fmt"
)

// DisabledFilterWindow is the sentinel value of Config.FilterWindowSeconds
// that turns smoothing off entirely.
const DisabledFilterWindow = 0

// Channel identifies one of the input signal channels.
type Channel string

const (
	// ChannelEDA is the electrodermal activity channel (microsiemens).
	ChannelEDA Channel = "eda"
	// ChannelTemperature is the skin temperature channel (degrees Celsius).
	ChannelTemperature Channel = "temperature"
)

// Input holds the sample series for a single quality-assessment run.
// EDA and Time must have identical length; Time is in seconds, strictly
// increasing with a constant step. Temperature is optional: a nil slice
// means no temperature channel was recorded, and the temperature rule is
// skipped entirely rather than evaluated against dummy bounds.
type Input struct {
	EDA         []float64 `json:"eda"`
	Time        []float64 `json:"time"`
	Temperature []float64 `json:"temperature,omitempty"`
}

// HasTemperature reports whether a temperature channel was supplied.
func (in Input) HasTemperature() bool {
	return in.Temperature != nil
}

// Config holds the quality-assessment thresholds.
type Config struct {
	// FilterWindowSeconds is the zero-phase moving-average window duration.
	// DisabledFilterWindow (0) disables smoothing.
	FilterWindowSeconds float64 `yaml:"filter_window_seconds" json:"filter_window_seconds" validate:"gte=0"`

	// Floor and Ceiling bound the plausible EDA range in microsiemens.
	Floor   float64 `yaml:"eda_floor" json:"eda_floor" validate:"gte=0"`
	Ceiling float64 `yaml:"eda_ceiling" json:"eda_ceiling" validate:"gt=0"`

	// MaxSlopePerSecond bounds the instantaneous slope magnitude (uS/s).
	MaxSlopePerSecond float64 `yaml:"max_slope_per_second" json:"max_slope_per_second" validate:"gt=0"`

	// TempMin and TempMax bound plausible skin temperature (Celsius).
	// Ignored when the input has no temperature channel.
	TempMin float64 `yaml:"temp_min" json:"temp_min"`
	TempMax float64 `yaml:"temp_max" json:"temp_max"`

	// DilationRadiusSeconds is the symmetric radius to which each directly
	// invalid sample spreads its invalidity.
	DilationRadiusSeconds float64 `yaml:"dilation_radius_seconds" json:"dilation_radius_seconds" validate:"gte=0"`
}

// DefaultConfig returns the standard ambulatory-EDA thresholds.
func DefaultConfig() Config {
	return Config{
		FilterWindowSeconds:   DisabledFilterWindow,
		Floor:                 0.05,
		Ceiling:               60.0,
		MaxSlopePerSecond:     10.0,
		TempMin:               30.0,
		TempMax:               40.0,
		DilationRadiusSeconds: 5.0,
	}
}

// RuleCounts records how many samples each rule flagged. A sample flagged
// by more than one rule is counted once per rule.
type RuleCounts struct {
	Range       int `json:"range"`
	Slope       int `json:"slope"`
	Temperature int `json:"temperature"`
}

// Result is the outcome of one assessment run. All slices are freshly
// allocated and owned by the caller; the engine retains no references.
type Result struct {
	// ValidityMask has one entry per input sample, true = usable.
	ValidityMask []bool `json:"validity_mask"`

	// FilteredEDA is the smoothed (or post-imputation passthrough) EDA
	// series the rules were evaluated against. The raw input is never
	// mutated.
	FilteredEDA []float64 `json:"filtered_eda"`

	// SamplingPeriod is the constant step derived from the time series.
	SamplingPeriod float64 `json:"sampling_period"`

	// ImputedEDA and ImputedTemperature count the missing samples the
	// neighbor-mean imputer touched in each channel.
	ImputedEDA         int `json:"imputed_eda"`
	ImputedTemperature int `json:"imputed_temperature"`

	// DirectlyInvalid counts samples flagged by rules 1-3 before
	// neighborhood spreading.
	DirectlyInvalid int        `json:"directly_invalid"`
	RuleCounts      RuleCounts `json:"rule_counts"`

	// InvalidSamples counts false entries in ValidityMask after dilation.
	InvalidSamples int `json:"invalid_samples"`
}

// PercentValid returns the share of usable samples in [0, 100].
func (r *Result) PercentValid() float64 {
	if len(r.ValidityMask) == 0 {
		return 0
	}
	valid := len(r.ValidityMask) - r.InvalidSamples
	return 100 * float64(valid) / float64(len(r.ValidityMask))
}

// ValidationError represents a structural input error. It is raised before
// any numeric processing and never silently corrected.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return ve.Message
}

// FilterError reports a channel-specific smoothing failure. For the EDA
// channel it aborts the run; for the temperature channel the smoother
// recovers by falling back to the unfiltered series.
type FilterError struct {
	Channel Channel
	Err     error
}

// Error implements the error interface
func (fe *FilterError) Error() string {
	return fmt.Sprintf("filtering %s channel: %v", fe.Channel, fe.Err)
}

// Unwrap exposes the underlying failure for errors.Is/As.
func (fe *FilterError) Unwrap() error {
	return fe.Err
}
