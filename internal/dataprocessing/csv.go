package dataprocessing

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// parseChannelFile reads one channel export: the first line is the
// session start as a unix timestamp, the second is the sampling rate in
// Hz, and every following line is one sample. Blank lines and the
// conventional missing-value markers become NaN for the imputer;
// anything else non-numeric is a structural error.
func parseChannelFile(path string) (*channel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	start, err := readHeaderValue(scanner, "start timestamp")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rate, err := readHeaderValue(scanner, "sampling rate")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("%s: sampling rate must be positive, got %v", path, rate)
	}

	var samples []float64
	line := 2
	for scanner.Scan() {
		line++
		value, err := parseSample(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		samples = append(samples, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: no samples after header", path)
	}
	return &channel{start: start, rate: rate, samples: samples}, nil
}

// readHeaderValue consumes one header line and parses it as a float.
// Vendor exports sometimes put the value in the first CSV column with
// trailing columns for other sensors, so only the first field counts.
func readHeaderValue(scanner *bufio.Scanner, what string) (float64, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("missing %s header line", what)
	}

	field := strings.TrimSpace(strings.Split(scanner.Text(), ",")[0])
	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", what, field, err)
	}
	return value, nil
}

// parseSample converts one sample line, mapping the accepted
// missing-value spellings to NaN.
func parseSample(raw string) (float64, error) {
	field := strings.TrimSpace(strings.Split(raw, ",")[0])
	switch strings.ToLower(field) {
	case "", "nan", "na":
		return math.NaN(), nil
	}

	value, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("bad sample %q: %w", field, err)
	}
	return value, nil
}
