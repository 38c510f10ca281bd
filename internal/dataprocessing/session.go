package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edaqc/internal/quality"
)

// Channel file names inside a session export directory.
const (
	edaFileName  = "EDA.csv"
	tempFileName = "TEMP.csv"
)

// Session is one parsed wearable recording, ready for assessment.
type Session struct {
	// Name identifies the session, taken from the directory or workbook
	// file name.
	Name string

	// StartTime is the recording start from the export header.
	StartTime time.Time

	// SamplingRate is the EDA channel rate in Hz.
	SamplingRate float64

	// Input holds the materialized series. Time is synthesized from
	// StartTime and SamplingRate; Temperature is nil when the export has
	// no usable temperature channel.
	Input quality.Input
}

// channel is one parsed export channel before assembly into a Session.
type channel struct {
	start   float64 // unix seconds
	rate    float64 // Hz
	samples []float64
}

// LoadSession parses a session export at path. A directory is read as a
// CSV export (EDA.csv required, TEMP.csv optional); an .xlsx file is read
// as a workbook with the same per-sheet layout. A temperature channel
// that does not line up with the EDA channel is dropped with a warning
// rather than failing the session.
func LoadSession(path string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat session %s: %w", path, err)
	}

	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			return loadWorkbookSession(path, logger)
		}
		return nil, fmt.Errorf("session %s: not a directory or .xlsx workbook", path)
	}
	return loadCSVSession(path, logger)
}

// loadCSVSession reads an Empatica-style directory export.
func loadCSVSession(dir string, logger *slog.Logger) (*Session, error) {
	eda, err := parseChannelFile(filepath.Join(dir, edaFileName))
	if err != nil {
		return nil, fmt.Errorf("parse EDA channel: %w", err)
	}

	var temp *channel
	tempPath := filepath.Join(dir, tempFileName)
	if _, err := os.Stat(tempPath); err == nil {
		parsed, err := parseChannelFile(tempPath)
		if err != nil {
			return nil, fmt.Errorf("parse temperature channel: %w", err)
		}
		temp = parsed
	}

	return assembleSession(filepath.Base(dir), eda, temp, logger)
}

// assembleSession builds the engine input from the parsed channels.
func assembleSession(name string, eda *channel, temp *channel, logger *slog.Logger) (*Session, error) {
	in := quality.Input{
		EDA:  eda.samples,
		Time: synthesizeTime(eda.start, eda.rate, len(eda.samples)),
	}

	if temp != nil {
		if len(temp.samples) == len(eda.samples) {
			in.Temperature = temp.samples
		} else {
			logger.Warn("temperature channel length mismatch, dropping channel",
				"session", name,
				"eda_samples", len(eda.samples),
				"temperature_samples", len(temp.samples))
		}
	}

	sec := math.Floor(eda.start)
	nsec := (eda.start - sec) * float64(time.Second)
	return &Session{
		Name:         name,
		StartTime:    time.Unix(int64(sec), int64(nsec)).UTC(),
		SamplingRate: eda.rate,
		Input:        in,
	}, nil
}

// synthesizeTime expands the export header into explicit timestamps in
// seconds, one per sample.
func synthesizeTime(start, rate float64, n int) []float64 {
	times := make([]float64, n)
	for i := range times {
		times[i] = start + float64(i)/rate
	}
	return times
}

// DiscoverSessions lists the session export paths directly under root:
// directories containing an EDA.csv, plus .xlsx workbooks.
func DiscoverSessions(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read sessions root %s: %w", root, err)
	}

	var sessions []string
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() {
			if _, err := os.Stat(filepath.Join(path, edaFileName)); err == nil {
				sessions = append(sessions, path)
			}
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
			sessions = append(sessions, path)
		}
	}
	return sessions, nil
}
