package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet name candidates per channel. Collection platforms are not
// consistent about casing or suffixes, so discovery tries the common
// spellings before giving up.
var (
	edaSheetNames  = []string{"EDA", "eda", "Eda", "GSR", "EDA "}
	tempSheetNames = []string{"TEMP", "temp", "Temp", "Temperature", "TEMP "}
)

// loadWorkbookSession reads an .xlsx session export: one sheet per
// channel, each laid out like the CSV export (row 1 start timestamp,
// row 2 sampling rate, one sample per following row).
func loadWorkbookSession(path string, logger *slog.Logger) (*Session, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	eda, err := parseChannelSheet(f, edaSheetNames)
	if err != nil {
		return nil, fmt.Errorf("parse EDA sheet in %s: %w", path, err)
	}

	temp, err := parseChannelSheet(f, tempSheetNames)
	if err != nil {
		// Temperature is optional in workbooks just like TEMP.csv is.
		logger.Debug("no usable temperature sheet in workbook",
			"workbook", path, "reason", err.Error())
		temp = nil
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return assembleSession(name, eda, temp, logger)
}

// parseChannelSheet finds a channel sheet by its candidate names and
// parses the CSV-equivalent layout out of the first column.
func parseChannelSheet(f *excelize.File, candidates []string) (*channel, error) {
	var rows [][]string
	var found bool

	for _, name := range candidates {
		if r, err := f.GetRows(name); err == nil && len(r) > 0 {
			rows = r
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("no sheet named any of %v", candidates)
	}

	if len(rows) < 3 {
		return nil, fmt.Errorf("sheet has %d rows, need header plus samples", len(rows))
	}

	start, err := parseCell(rows[0], "start timestamp")
	if err != nil {
		return nil, err
	}
	rate, err := parseCell(rows[1], "sampling rate")
	if err != nil {
		return nil, err
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("sampling rate must be positive, got %v", rate)
	}

	samples := make([]float64, 0, len(rows)-2)
	for i, row := range rows[2:] {
		raw := ""
		if len(row) > 0 {
			raw = row[0]
		}
		value, err := parseSample(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+3, err)
		}
		samples = append(samples, value)
	}
	return &channel{start: start, rate: rate, samples: samples}, nil
}

// parseCell parses the first cell of a header row.
func parseCell(row []string, what string) (float64, error) {
	if len(row) == 0 {
		return 0, fmt.Errorf("missing %s header row", what)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, row[0], err)
	}
	return value, nil
}
