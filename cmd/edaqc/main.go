// Command edaqc runs automated quality assessment over wearable EDA
// session exports: it parses each session, applies the rule engine, and
// writes per-sample results plus a batch summary CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"edaqc/internal/config"
	"edaqc/internal/dataprocessing"
	"edaqc/internal/exporter"
	"edaqc/internal/infrastructure"
	"edaqc/internal/quality"
)

func main() {
	in := flag.String("in", "", "session directory, .xlsx workbook, or root of session directories (defaults to configured input dir)")
	out := flag.String("out", "", "output directory for result CSVs (defaults to configured output dir)")
	configPath := flag.String("config", "", "path to edaqc.yaml (defaults to ./edaqc.yaml when present)")
	workers := flag.Int("workers", 4, "number of sessions assessed concurrently")
	excelBOM := flag.Bool("excel-bom", false, "prefix result CSVs with a UTF-8 BOM for Excel")

	floor := flag.Float64("floor", 0, "EDA floor in uS (overrides config)")
	ceiling := flag.Float64("ceiling", 0, "EDA ceiling in uS (overrides config)")
	maxSlope := flag.Float64("max-slope", 0, "max slope magnitude in uS/s (overrides config)")
	tempMin := flag.Float64("temp-min", 0, "temperature minimum in C (overrides config)")
	tempMax := flag.Float64("temp-max", 0, "temperature maximum in C (overrides config)")
	window := flag.Float64("window", 0, "smoothing window in seconds, 0 disables (overrides config)")
	radius := flag.Float64("radius", 0, "dilation radius in seconds (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Only flags the user actually passed override the config.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "floor":
			cfg.Quality.Floor = *floor
		case "ceiling":
			cfg.Quality.Ceiling = *ceiling
		case "max-slope":
			cfg.Quality.MaxSlopePerSecond = *maxSlope
		case "temp-min":
			cfg.Quality.TempMin = *tempMin
		case "temp-max":
			cfg.Quality.TempMax = *tempMax
		case "window":
			cfg.Quality.FilterWindowSeconds = *window
		case "radius":
			cfg.Quality.DilationRadiusSeconds = *radius
		}
	})
	if *in == "" {
		*in = cfg.Paths.InputDir
	}
	if *out == "" {
		*out = cfg.Paths.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())
	if err := run(ctx, cfg, *in, *out, *workers, *excelBOM, logger); err != nil {
		logger.ErrorContext(ctx, "batch failed", "error", err)
		os.Exit(1)
	}
}

// sessionOutcome pairs one assessed session with its result for the
// summary pass.
type sessionOutcome struct {
	session *dataprocessing.Session
	result  *quality.Result
}

// run assesses every session under in and writes results under out.
// Sessions fail independently; the batch only errors when nothing could
// be assessed cleanly.
func run(ctx context.Context, cfg *config.Config, in, out string, workers int, excelBOM bool, logger *slog.Logger) error {
	sessions, err := resolveSessions(in)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions found under %s", in)
	}

	logger.InfoContext(ctx, "starting batch assessment",
		"sessions", len(sessions),
		"input", in,
		"output", out,
		"workers", workers,
	)

	assessor := quality.NewAssessor(cfg.Quality, logger)
	writer := exporter.NewCSVWriter(out, logger)
	writer.BOMPrefix = excelBOM

	outcomes := make([]*sessionOutcome, len(sessions))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range sessions {
		g.Go(func() error {
			outcome, err := assessSession(gctx, assessor, writer, path)
			if err != nil {
				logger.ErrorContext(gctx, "session assessment failed",
					"session", path, "error", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil // keep the rest of the batch going
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Summary rows are appended sequentially so the file order matches
	// the session order regardless of worker scheduling.
	for _, outcome := range outcomes {
		if outcome == nil {
			continue
		}
		if err := writer.AppendSummary(outcome.session, outcome.result); err != nil {
			return fmt.Errorf("append summary: %w", err)
		}
	}

	logger.InfoContext(ctx, "batch assessment complete",
		"sessions", len(sessions),
		"failed", failed,
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d sessions failed", failed, len(sessions))
	}
	return nil
}

// assessSession loads, assesses and exports a single session.
func assessSession(ctx context.Context, assessor *quality.Assessor, writer *exporter.CSVWriter, path string) (*sessionOutcome, error) {
	session, err := dataprocessing.LoadSession(path, infrastructure.LoggerFromContext(ctx))
	if err != nil {
		return nil, err
	}

	result, err := assessor.Assess(ctx, session.Input)
	if err != nil {
		return nil, err
	}

	if _, err := writer.WriteSamples(session, result); err != nil {
		return nil, err
	}
	return &sessionOutcome{session: session, result: result}, nil
}

// resolveSessions treats in as a single session when it parses as one
// (a directory with an EDA channel, or a workbook), otherwise as a root
// of sessions.
func resolveSessions(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, fmt.Errorf("stat input %s: %w", in, err)
	}
	if !info.IsDir() {
		return []string{in}, nil
	}

	// A directory holding an EDA.csv is itself a session.
	if _, err := os.Stat(filepath.Join(in, "EDA.csv")); err == nil {
		return []string{in}, nil
	}
	return dataprocessing.DiscoverSessions(in)
}
