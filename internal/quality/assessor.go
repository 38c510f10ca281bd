package quality

import (
	"context"
	"log/slog"
	"time"
)

// Assessor runs the quality-assessment pipeline over one recording at a
// time: validation, neighbor-mean imputation, optional zero-phase
// smoothing, the three per-sample rules, and invalidity dilation. It is
// a pure function of its inputs and configuration and keeps no state
// between runs, so a single Assessor may be shared across goroutines.
type Assessor struct {
	cfg    Config
	logger *slog.Logger
}

// NewAssessor creates an assessor with the given thresholds.
func NewAssessor(cfg Config, logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{cfg: cfg, logger: logger}
}

// Config returns the thresholds the assessor was built with.
func (a *Assessor) Config() Config {
	return a.cfg
}

// Assess runs the full pipeline and returns the validity mask alongside
// the filtered EDA series. The input slices are never mutated; every
// returned slice is freshly allocated. Structural problems surface as
// ValidationError before any processing; an EDA-channel filter failure
// surfaces as FilterError and aborts the run.
func (a *Assessor) Assess(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	period, err := ValidateInput(in, a.cfg)
	if err != nil {
		a.logger.ErrorContext(ctx, "input validation failed", "error", err)
		return nil, err
	}

	a.logger.InfoContext(ctx, "starting quality assessment",
		"samples", len(in.EDA),
		"sampling_period", period,
		"has_temperature", in.HasTemperature(),
		"smoothing_enabled", a.cfg.FilterWindowSeconds != DisabledFilterWindow,
	)

	eda, imputedEDA := imputeMissing(in.EDA)
	if imputedEDA > 0 {
		a.logger.InfoContext(ctx, "imputed missing EDA samples", "count", imputedEDA)
	}

	var temperature []float64
	imputedTemp := 0
	if in.HasTemperature() {
		temperature, imputedTemp = imputeMissing(in.Temperature)
		if imputedTemp > 0 {
			a.logger.InfoContext(ctx, "imputed missing temperature samples", "count", imputedTemp)
		}
	}

	sm, err := smooth(eda, temperature, a.cfg, period)
	if err != nil {
		a.logger.ErrorContext(ctx, "EDA smoothing failed", "error", err)
		return nil, err
	}
	if sm.tempFellBack {
		a.logger.WarnContext(ctx, "temperature smoothing failed, using unfiltered temperature")
	}

	invalid, counts := evaluateRules(sm.eda, sm.temperature, a.cfg, period)
	direct := 0
	for _, bad := range invalid {
		if bad {
			direct++
		}
	}

	dilated := dilate(invalid, radiusSamples(a.cfg.DilationRadiusSeconds, period))
	mask, invalidCount := validityMask(dilated)

	result := &Result{
		ValidityMask:       mask,
		FilteredEDA:        sm.eda,
		SamplingPeriod:     period,
		ImputedEDA:         imputedEDA,
		ImputedTemperature: imputedTemp,
		DirectlyInvalid:    direct,
		RuleCounts:         counts,
		InvalidSamples:     invalidCount,
	}

	a.logger.InfoContext(ctx, "quality assessment complete",
		"samples", len(in.EDA),
		"directly_invalid", direct,
		"invalid_after_dilation", invalidCount,
		"percent_valid", result.PercentValid(),
		"duration", time.Since(start),
	)
	return result, nil
}
