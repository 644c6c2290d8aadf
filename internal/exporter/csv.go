package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"creditrisk/internal/features"
	"creditrisk/internal/selection"
)

// CSVWriter writes pipeline outputs beneath a reports directory.
type CSVWriter struct {
	reportsDir string
	logger     *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at reportsDir.
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{reportsDir: reportsDir, logger: logger}
}

// WriteFrame writes an enriched frame to name.csv under the reports
// directory. The target column leads when the frame is labeled, followed by
// every raw and derived column in declaration order. Returns the full path
// of the written file.
func (w *CSVWriter) WriteFrame(frame *features.Frame, name string) (string, error) {
	if frame == nil {
		return "", fmt.Errorf("write frame: frame is nil")
	}

	cols := features.Columns()
	headers := make([]string, 0, len(cols)+1)
	if frame.Labeled {
		headers = append(headers, "SeriousDlqin2yrs")
	}
	for _, col := range cols {
		headers = append(headers, col.Name)
	}

	records := make([][]string, 0, len(frame.Rows))
	for i := range frame.Rows {
		row := &frame.Rows[i]
		record := make([]string, 0, len(headers))
		if frame.Labeled {
			record = append(record, formatFloat(row.Target))
		}
		for _, col := range cols {
			record = append(record, formatFloat(col.Get(row)))
		}
		records = append(records, record)
	}

	return w.write(name, headers, records)
}

// WritePairs writes the correlated-pairs report, one pair per row with the
// absolute correlation already ordered strongest first.
func (w *CSVWriter) WritePairs(pairs []selection.CorrelatedPair, name string) (string, error) {
	headers := []string{"FeatureA", "FeatureB", "Correlation"}
	records := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, []string{p.FieldA, p.FieldB, formatFloat(p.Correlation)})
	}
	return w.write(name, headers, records)
}

// WriteImportance writes the ranked feature importances with 1-based ranks.
func (w *CSVWriter) WriteImportance(report *selection.ImportanceReport, name string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("write importance: report is nil")
	}
	headers := []string{"Rank", "Feature", "Importance"}
	records := make([][]string, 0, len(report.Ranked))
	for i, fi := range report.Ranked {
		records = append(records, []string{
			strconv.Itoa(i + 1),
			fi.Name,
			formatFloat(fi.Importance),
		})
	}
	return w.write(name, headers, records)
}

func (w *CSVWriter) write(name string, headers []string, records [][]string) (string, error) {
	fullPath := filepath.Join(w.reportsDir, name)

	w.logger.Info("writing CSV report",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return fullPath, writer.Error()
}

// formatFloat renders a value for CSV output. Missing values serialize as
// empty cells so spreadsheet tools treat them as blanks rather than text.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
