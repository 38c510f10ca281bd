package quality

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// A single validator instance is shared across runs; it is safe for
// concurrent use.
var validate = validator.New()

// Relative epsilon for the constant-step check on the time series.
// Timestamps in wearable exports are synthesized from a start time and a
// sampling rate, so anything beyond float rounding noise means a
// malformed series. Unix-epoch timestamps sit near 1e9 where a ULP is
// around 2e-7, hence a relative rather than absolute bound.
const stepTolerance = 1e-6

// ValidateInput checks every structural precondition before any numeric
// processing: series lengths, time-series shape, and threshold ordering.
// It returns the derived sampling period on success. This is the only
// fatal-error path ahead of the smoother.
func ValidateInput(in Input, cfg Config) (float64, error) {
	if err := validate.Struct(cfg); err != nil {
		return 0, ValidationError{
			Field:   "config",
			Message: "configuration failed validation: " + err.Error(),
			Value:   cfg,
		}
	}

	if cfg.Floor >= cfg.Ceiling {
		return 0, ValidationError{
			Field:   "eda_floor",
			Message: "EDA floor must be strictly below ceiling",
			Value:   map[string]float64{"floor": cfg.Floor, "ceiling": cfg.Ceiling},
		}
	}

	if in.HasTemperature() && cfg.TempMin >= cfg.TempMax {
		return 0, ValidationError{
			Field:   "temp_min",
			Message: "temperature minimum must be strictly below maximum",
			Value:   map[string]float64{"min": cfg.TempMin, "max": cfg.TempMax},
		}
	}

	if len(in.EDA) != len(in.Time) {
		return 0, ValidationError{
			Field:   "time",
			Message: "EDA and time series lengths differ",
			Value:   map[string]int{"eda": len(in.EDA), "time": len(in.Time)},
		}
	}

	if in.HasTemperature() && len(in.Temperature) != len(in.EDA) {
		return 0, ValidationError{
			Field:   "temperature",
			Message: "temperature and EDA series lengths differ",
			Value:   map[string]int{"eda": len(in.EDA), "temperature": len(in.Temperature)},
		}
	}

	if len(in.Time) < 2 {
		return 0, ValidationError{
			Field:   "time",
			Message: "at least two samples are required to derive the sampling period",
			Value:   len(in.Time),
		}
	}

	period := in.Time[1] - in.Time[0]
	if period <= 0 || math.IsNaN(period) || math.IsInf(period, 0) {
		return 0, ValidationError{
			Field:   "time",
			Message: "sampling period must be positive and finite",
			Value:   period,
		}
	}

	for i := 2; i < len(in.Time); i++ {
		step := in.Time[i] - in.Time[i-1]
		if math.Abs(step-period) > stepTolerance*math.Max(1, math.Abs(in.Time[i])) {
			return 0, ValidationError{
				Field:   "time",
				Message: "time series step is not constant",
				Value:   map[string]float64{"expected": period, "got": step},
			}
		}
	}

	return period, nil
}
