// Package exporter writes pipeline outputs to disk: enriched datasets as
// CSV, and the correlated-pairs plus feature-importance reports as CSV and
// as a combined XLSX workbook for review.
package exporter
