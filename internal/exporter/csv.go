package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"edaqc/internal/dataprocessing"
	"edaqc/internal/quality"
)

// summaryFileName collects one row per assessed session.
const summaryFileName = "summary.csv"

// CSVWriter writes assessment results under a single output directory.
type CSVWriter struct {
	outDir string
	logger *slog.Logger

	// BOMPrefix adds a UTF-8 BOM so Excel opens the files cleanly.
	BOMPrefix bool
}

// NewCSVWriter creates a writer rooted at outDir.
func NewCSVWriter(outDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outDir: outDir, logger: logger}
}

// WriteSamples writes the per-sample result file for one session:
// timestamp, raw EDA, filtered EDA and the validity flag, one row per
// sample. Returns the written path.
func (w *CSVWriter) WriteSamples(session *dataprocessing.Session, result *quality.Result) (string, error) {
	path := filepath.Join(w.outDir, session.Name+"_quality.csv")

	file, err := w.createFile(path, false)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "eda_raw", "eda_filtered", "valid"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i := range result.ValidityMask {
		record := []string{
			formatFloat(session.Input.Time[i], 6),
			formatFloat(session.Input.EDA[i], 6),
			formatFloat(result.FilteredEDA[i], 6),
			formatBool(result.ValidityMask[i]),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}

	w.logger.Info("wrote sample results",
		slog.String("path", path),
		slog.Int("samples", len(result.ValidityMask)))
	return path, nil
}

// AppendSummary appends one session row to the batch summary file,
// writing the header first when the file is new.
func (w *CSVWriter) AppendSummary(session *dataprocessing.Session, result *quality.Result) error {
	path := filepath.Join(w.outDir, summaryFileName)

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	file, err := w.createFile(path, true)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if isNew {
		header := []string{
			"session", "samples", "sampling_period",
			"imputed_eda", "imputed_temperature",
			"range_flags", "slope_flags", "temperature_flags",
			"directly_invalid", "invalid_samples", "percent_valid",
		}
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	record := []string{
		session.Name,
		strconv.Itoa(len(result.ValidityMask)),
		formatFloat(result.SamplingPeriod, 6),
		strconv.Itoa(result.ImputedEDA),
		strconv.Itoa(result.ImputedTemperature),
		strconv.Itoa(result.RuleCounts.Range),
		strconv.Itoa(result.RuleCounts.Slope),
		strconv.Itoa(result.RuleCounts.Temperature),
		strconv.Itoa(result.DirectlyInvalid),
		strconv.Itoa(result.InvalidSamples),
		formatFloat(result.PercentValid(), 2),
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("write summary record: %w", err)
	}

	writer.Flush()
	return writer.Error()
}

// createFile opens a result file, creating the output directory when
// needed. The BOM is only written for fresh files, never on append.
func (w *CSVWriter) createFile(path string, appendMode bool) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	var fresh bool
	if appendMode {
		_, err := os.Stat(path)
		fresh = os.IsNotExist(err)
		flags |= os.O_APPEND
	} else {
		fresh = true
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if w.BOMPrefix && fresh {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	return file, nil
}
