package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantSeries(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

func timeSeries(n int, period float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(i) * period
	}
	return s
}

func TestValidateInput(t *testing.T) {
	t.Run("accepts well-formed input and derives period", func(t *testing.T) {
		in := Input{
			EDA:         constantSeries(10, 1.0),
			Time:        timeSeries(10, 0.25),
			Temperature: constantSeries(10, 33.0),
		}

		period, err := ValidateInput(in, DefaultConfig())
		require.NoError(t, err)
		assert.InDelta(t, 0.25, period, 1e-12)
	})

	t.Run("accepts absent temperature with inverted temp bounds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TempMin = 50
		cfg.TempMax = 10 // ignored without a temperature channel

		in := Input{EDA: constantSeries(5, 1.0), Time: timeSeries(5, 1.0)}
		_, err := ValidateInput(in, cfg)
		require.NoError(t, err)
	})

	t.Run("tolerates unix-epoch timestamp jitter", func(t *testing.T) {
		// Timestamps synthesized as start + i/rate carry float rounding
		// noise near 1e9; the constant-step check must not reject it.
		start := 1.7e9
		times := make([]float64, 64)
		for i := range times {
			times[i] = start + float64(i)/4.0
		}

		in := Input{EDA: constantSeries(64, 1.0), Time: times}
		period, err := ValidateInput(in, DefaultConfig())
		require.NoError(t, err)
		assert.InDelta(t, 0.25, period, 1e-6)
	})

	tests := []struct {
		name   string
		input  Input
		modify func(*Config)
		field  string
	}{
		{
			name:  "length mismatch between EDA and time",
			input: Input{EDA: constantSeries(10, 1.0), Time: timeSeries(9, 1.0)},
			field: "time",
		},
		{
			name: "length mismatch on temperature",
			input: Input{
				EDA:         constantSeries(10, 1.0),
				Time:        timeSeries(10, 1.0),
				Temperature: constantSeries(8, 33.0),
			},
			field: "temperature",
		},
		{
			name:   "floor at ceiling",
			input:  Input{EDA: constantSeries(10, 1.0), Time: timeSeries(10, 1.0)},
			modify: func(c *Config) { c.Floor = 60; c.Ceiling = 60 },
			field:  "eda_floor",
		},
		{
			name:   "floor above ceiling",
			input:  Input{EDA: constantSeries(10, 1.0), Time: timeSeries(10, 1.0)},
			modify: func(c *Config) { c.Floor = 80; c.Ceiling = 60 },
			field:  "eda_floor",
		},
		{
			name: "temperature bounds inverted with temperature present",
			input: Input{
				EDA:         constantSeries(10, 1.0),
				Time:        timeSeries(10, 1.0),
				Temperature: constantSeries(10, 33.0),
			},
			modify: func(c *Config) { c.TempMin = 40; c.TempMax = 30 },
			field:  "temp_min",
		},
		{
			name:  "single sample",
			input: Input{EDA: constantSeries(1, 1.0), Time: timeSeries(1, 1.0)},
			field: "time",
		},
		{
			name:  "non-increasing time series",
			input: Input{EDA: constantSeries(3, 1.0), Time: []float64{2, 1, 0}},
			field: "time",
		},
		{
			name:  "non-constant step",
			input: Input{EDA: constantSeries(4, 1.0), Time: []float64{0, 1, 2, 4}},
			field: "time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.modify != nil {
				tt.modify(&cfg)
			}

			_, err := ValidateInput(tt.input, cfg)
			require.Error(t, err)

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("negative thresholds rejected by struct validation", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxSlopePerSecond = -1

		in := Input{EDA: constantSeries(5, 1.0), Time: timeSeries(5, 1.0)}
		_, err := ValidateInput(in, cfg)
		require.Error(t, err)

		var verr ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "config", verr.Field)
	})
}
