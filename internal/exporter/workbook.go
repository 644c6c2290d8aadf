package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"creditrisk/internal/selection"
)

const (
	sheetPairs      = "Correlated Pairs"
	sheetImportance = "Feature Importance"
	sheetTop        = "Selected Features"
)

// WriteWorkbook writes the selection reports to a single XLSX workbook with
// one sheet per report. The workbook is meant for analyst review; the CSV
// reports remain the machine-readable output.
func WriteWorkbook(path string, pairs []selection.CorrelatedPair, report *selection.ImportanceReport, logger *slog.Logger) error {
	if report == nil {
		return fmt.Errorf("write workbook: report is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPairs); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetImportance); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetImportance, err)
	}
	if _, err := f.NewSheet(sheetTop); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetTop, err)
	}

	writePairsSheet(f, pairs)
	writeImportanceSheet(f, report)
	writeTopSheet(f, report)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	logger.Info("wrote selection workbook",
		slog.String("path", path),
		slog.Int("pair_count", len(pairs)),
		slog.Int("feature_count", len(report.Ranked)))
	return nil
}

func writePairsSheet(f *excelize.File, pairs []selection.CorrelatedPair) {
	f.SetCellValue(sheetPairs, "A1", "Feature A")
	f.SetCellValue(sheetPairs, "B1", "Feature B")
	f.SetCellValue(sheetPairs, "C1", "Correlation")
	for i, p := range pairs {
		row := i + 2
		f.SetCellValue(sheetPairs, cell("A", row), p.FieldA)
		f.SetCellValue(sheetPairs, cell("B", row), p.FieldB)
		f.SetCellValue(sheetPairs, cell("C", row), p.Correlation)
	}
}

func writeImportanceSheet(f *excelize.File, report *selection.ImportanceReport) {
	f.SetCellValue(sheetImportance, "A1", "Rank")
	f.SetCellValue(sheetImportance, "B1", "Feature")
	f.SetCellValue(sheetImportance, "C1", "Importance")
	for i, fi := range report.Ranked {
		row := i + 2
		f.SetCellValue(sheetImportance, cell("A", row), i+1)
		f.SetCellValue(sheetImportance, cell("B", row), fi.Name)
		f.SetCellValue(sheetImportance, cell("C", row), fi.Importance)
	}
}

func writeTopSheet(f *excelize.File, report *selection.ImportanceReport) {
	f.SetCellValue(sheetTop, "A1", "Feature")
	for i, name := range report.TopFeatures {
		f.SetCellValue(sheetTop, cell("A", i+2), name)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
