package quality

import (
	"context"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAssessor(t *testing.T) {
	ctx := context.Background()

	t.Run("creation with nil logger", func(t *testing.T) {
		a := NewAssessor(DefaultConfig(), nil)
		require.NotNil(t, a)
		assert.Equal(t, DefaultConfig(), a.Config())
	})

	t.Run("clean constant recording is fully valid", func(t *testing.T) {
		a := NewAssessor(DefaultConfig(), testLogger())

		res, err := a.Assess(ctx, Input{
			EDA:         constantSeries(100, 1.0),
			Time:        timeSeries(100, 0.25),
			Temperature: constantSeries(100, 33.0),
		})
		require.NoError(t, err)

		assert.Len(t, res.ValidityMask, 100)
		assert.Len(t, res.FilteredEDA, 100)
		assert.Equal(t, 0, res.InvalidSamples)
		assert.InDelta(t, 100.0, res.PercentValid(), 1e-12)
		assert.InDelta(t, 0.25, res.SamplingPeriod, 1e-12)
		for i, ok := range res.ValidityMask {
			assert.True(t, ok, "index %d", i)
		}
	})

	t.Run("single ceiling excursion dilates to its neighborhood", func(t *testing.T) {
		// 10 samples at 1 Hz with one value above the ceiling. With the
		// slope rule relaxed, only the range rule fires at index 5, and a
		// 2 s radius (2 samples) spreads one sample to each side.
		cfg := DefaultConfig()
		cfg.MaxSlopePerSecond = 1000
		cfg.DilationRadiusSeconds = 2
		a := NewAssessor(cfg, testLogger())

		res, err := a.Assess(ctx, Input{
			EDA:  []float64{1, 1, 1, 1, 1, 61, 1, 1, 1, 1},
			Time: timeSeries(10, 1.0),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, res.DirectlyInvalid)
		assert.Equal(t, RuleCounts{Range: 1}, res.RuleCounts)
		assert.Equal(t,
			[]bool{true, true, true, true, false, false, false, true, true, true},
			res.ValidityMask)
	})

	t.Run("ceiling excursion also trips the slope rule on both edges", func(t *testing.T) {
		// Same series with the default 10 uS/s bound: the jumps into and
		// out of the excursion flag indices 5 and 6 as well, so dilation
		// covers 4 through 7.
		cfg := DefaultConfig()
		cfg.DilationRadiusSeconds = 2
		a := NewAssessor(cfg, testLogger())

		res, err := a.Assess(ctx, Input{
			EDA:  []float64{1, 1, 1, 1, 1, 61, 1, 1, 1, 1},
			Time: timeSeries(10, 1.0),
		})
		require.NoError(t, err)

		assert.Equal(t, 2, res.DirectlyInvalid)
		assert.Equal(t, RuleCounts{Range: 1, Slope: 2}, res.RuleCounts)
		assert.Equal(t,
			[]bool{true, true, true, true, false, false, false, false, true, true},
			res.ValidityMask)
	})

	t.Run("slope jump flagged when both endpoints are in range", func(t *testing.T) {
		a := NewAssessor(DefaultConfig(), testLogger())

		res, err := a.Assess(ctx, Input{
			EDA:  []float64{1, 1, 1, 1, 30, 30, 30, 30, 30, 30},
			Time: timeSeries(10, 1.0),
		})
		require.NoError(t, err)

		assert.Equal(t, RuleCounts{Slope: 1}, res.RuleCounts)
		assert.False(t, res.ValidityMask[4])
	})

	t.Run("temperature bounds are inert without a temperature channel", func(t *testing.T) {
		in := Input{EDA: constantSeries(50, 1.0), Time: timeSeries(50, 1.0)}

		base := NewAssessor(DefaultConfig(), testLogger())
		want, err := base.Assess(ctx, in)
		require.NoError(t, err)

		for _, bounds := range [][2]float64{{-100, -50}, {0, 1}, {200, 300}} {
			cfg := DefaultConfig()
			cfg.TempMin, cfg.TempMax = bounds[0], bounds[1]

			got, err := NewAssessor(cfg, testLogger()).Assess(ctx, in)
			require.NoError(t, err)
			assert.Equal(t, want.ValidityMask, got.ValidityMask, "bounds %v", bounds)
		}
	})

	t.Run("disabled smoothing round-trips the post-imputation series", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FilterWindowSeconds = DisabledFilterWindow
		a := NewAssessor(cfg, testLogger())

		eda := []float64{1, 1.2, nan, 1.4, 1.5}
		res, err := a.Assess(ctx, Input{EDA: eda, Time: timeSeries(5, 1.0)})
		require.NoError(t, err)

		assert.Equal(t, 1, res.ImputedEDA)
		assert.InDeltaSlice(t, []float64{1, 1.2, 1.3, 1.4, 1.5}, res.FilteredEDA, 1e-9)
		assert.True(t, math.IsNaN(eda[2]), "raw input must not be mutated")
	})

	t.Run("smoothing changes the evaluated series", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FilterWindowSeconds = 2.0
		a := NewAssessor(cfg, testLogger())

		eda := constantSeries(30, 1.0)
		eda[15] = 5.0
		res, err := a.Assess(ctx, Input{EDA: eda, Time: timeSeries(30, 1.0)})
		require.NoError(t, err)

		assert.Less(t, res.FilteredEDA[15], 5.0)
		assert.NotEqual(t, eda, res.FilteredEDA)
	})

	t.Run("all-missing EDA with smoothing enabled is a fatal filter error", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FilterWindowSeconds = 2.0
		a := NewAssessor(cfg, testLogger())

		eda := make([]float64, 10)
		for i := range eda {
			eda[i] = nan
		}
		_, err := a.Assess(ctx, Input{EDA: eda, Time: timeSeries(10, 1.0)})

		var ferr *FilterError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, ChannelEDA, ferr.Channel)
	})

	t.Run("all-missing temperature degrades with a warning, run succeeds", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FilterWindowSeconds = 2.0
		a := NewAssessor(cfg, testLogger())

		temp := make([]float64, 10)
		for i := range temp {
			temp[i] = nan
		}
		res, err := a.Assess(ctx, Input{
			EDA:         constantSeries(10, 1.0),
			Time:        timeSeries(10, 1.0),
			Temperature: temp,
		})
		require.NoError(t, err)
		// NaN temperature compares false against the bounds, so the
		// unfiltered fallback flags nothing.
		assert.Equal(t, 0, res.RuleCounts.Temperature)
	})

	t.Run("widening the radius never recovers samples", func(t *testing.T) {
		eda := constantSeries(60, 1.0)
		eda[20] = 61
		eda[45] = 0.01
		in := Input{EDA: eda, Time: timeSeries(60, 1.0)}

		prevInvalid := 0
		for _, radius := range []float64{0, 1, 2, 5, 10, 30} {
			cfg := DefaultConfig()
			cfg.DilationRadiusSeconds = radius

			res, err := NewAssessor(cfg, testLogger()).Assess(ctx, in)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.InvalidSamples, prevInvalid, "radius %v", radius)
			prevInvalid = res.InvalidSamples
		}
	})

	t.Run("validation failure reports no result", func(t *testing.T) {
		a := NewAssessor(DefaultConfig(), testLogger())

		res, err := a.Assess(ctx, Input{EDA: constantSeries(5, 1.0), Time: timeSeries(4, 1.0)})
		assert.Nil(t, res)

		var verr ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("repeated runs are deterministic", func(t *testing.T) {
		a := NewAssessor(DefaultConfig(), testLogger())
		in := Input{
			EDA:  []float64{1, 2, 61, 2, 1, 1, 1, 0.01, 1, 1},
			Time: timeSeries(10, 1.0),
		}

		first, err := a.Assess(ctx, in)
		require.NoError(t, err)
		second, err := a.Assess(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
