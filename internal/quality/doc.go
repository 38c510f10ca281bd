// Package quality implements automated quality assessment for ambulatory
// electrodermal activity (EDA) recordings.
//
// Long wearable recordings accumulate stretches of implausible signal from
// motion, poor electrode contact, or outright sensor detachment, and at
// multi-hour lengths manual inspection does not scale. This package flags
// those stretches deterministically with four rules and returns a
// per-sample validity mask alongside the smoothed series the rules were
// evaluated against.
//
// # Pipeline
//
// One assessment run is a fixed sequence of pure stages:
//
//  1. Structural validation of the series and thresholds (validate.go).
//  2. Neighbor-mean imputation of isolated missing samples (impute.go).
//  3. Optional zero-phase moving-average smoothing of the EDA and
//     temperature channels (smooth.go).
//  4. Per-sample rules: plausible EDA range, maximum slope magnitude, and
//     plausible skin temperature (rules.go).
//  5. Morphological dilation of the invalid samples to a symmetric time
//     radius, because an artifact corrupts its neighborhood even where
//     the instantaneous values pass the rules (dilate.go).
//
// The temperature channel is optional. When it is absent the temperature
// rule is skipped outright; there are no sentinel channels or dummy
// bounds involved.
//
// # Usage
//
//	assessor := quality.NewAssessor(quality.DefaultConfig(), logger)
//	result, err := assessor.Assess(ctx, quality.Input{
//	    EDA:  eda,
//	    Time: timestamps,
//	})
//	if err != nil {
//	    return err
//	}
//	// result.ValidityMask, result.FilteredEDA
//
// The engine is batch-only and synchronous: it operates on fully
// materialized series, holds no state between runs, and allocates fresh
// output slices on every call.
package quality
