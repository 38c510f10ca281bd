// Package exporter writes assessment results to CSV: a per-sample file
// for each session (timestamp, raw EDA, filtered EDA, validity flag) and
// an appendable batch summary with per-rule flag counts.
package exporter
