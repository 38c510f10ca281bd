// Package dataprocessing parses wearable sensor session exports into the
// plain numeric series the quality engine consumes.
//
// Two export shapes are supported: a directory of per-channel CSV files
// (EDA.csv required, TEMP.csv optional) in the common wearable layout
// where the first line is the session start unix timestamp and the
// second is the sampling rate in Hz, and an .xlsx workbook with one
// sheet per channel in the same layout. The timestamp column the engine
// needs is synthesized from the header, and missing-value markers become
// NaN for the imputer to handle.
package dataprocessing
