// Command pipeline runs the credit-delinquency feature pipeline: it loads
// the raw borrower CSVs (optionally extracting them from a ZIP archive
// first), cleans and enriches each split, screens the enriched training set
// for collinear features, ranks features by random-forest importance, and
// writes the enriched datasets and selection reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"creditrisk/internal/config"
	"creditrisk/internal/dataset"
	"creditrisk/internal/exporter"
	"creditrisk/internal/infrastructure"
	"creditrisk/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	archivePath := flag.String("archive", "", "ZIP archive to extract input CSVs from before loading")
	trainPath := flag.String("train", "", "path to the labeled training CSV (required)")
	testPath := flag.String("test", "", "path to the test CSV (optional)")
	outDir := flag.String("out", "", "output directory for reports (defaults to configured reports dir)")
	flag.Parse()

	if err := run(*configPath, *archivePath, *trainPath, *testPath, *outDir); err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, archivePath, trainPath, testPath, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, closeLogger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer closeLogger()

	if outDir == "" {
		outDir = cfg.Paths.ReportsDir
	}

	ctx := context.Background()

	if archivePath != "" {
		extracted, err := dataset.ExtractArchive(archivePath, cfg.Paths.WorkDir)
		if err != nil {
			return fmt.Errorf("extract archive %s: %w", archivePath, err)
		}
		logger.InfoContext(ctx, "extracted input archive",
			"archive", archivePath,
			"files", len(extracted),
		)
		if trainPath == "" {
			trainPath = findExtracted(extracted, "train")
		}
		if testPath == "" {
			testPath = findExtracted(extracted, "test")
		}
	}

	if trainPath == "" {
		return fmt.Errorf("no training CSV: pass -train or -archive")
	}

	train, err := dataset.ReadCSVFile(trainPath)
	if err != nil {
		return fmt.Errorf("load training data %s: %w", trainPath, err)
	}
	if !train.Labeled {
		return fmt.Errorf("training data %s has no %s column", trainPath, dataset.FieldTarget)
	}
	logger.InfoContext(ctx, "loaded training data",
		"path", trainPath,
		"records", train.Len(),
	)

	var test *dataset.Dataset
	if testPath != "" {
		test, err = dataset.ReadCSVFile(testPath)
		if err != nil {
			return fmt.Errorf("load test data %s: %w", testPath, err)
		}
		logger.InfoContext(ctx, "loaded test data",
			"path", testPath,
			"records", test.Len(),
		)
	}

	runner := pipeline.NewRunner(cfg.Pipeline, logger)
	result, err := runner.Run(ctx, train, test)
	if err != nil {
		return err
	}

	return export(result, outDir, logger)
}

// export writes the enriched frames and both selection reports.
func export(result *pipeline.Result, outDir string, logger *slog.Logger) error {
	writer := exporter.NewCSVWriter(outDir, logger)

	if _, err := writer.WriteFrame(result.Train, "train_enhanced.csv"); err != nil {
		return fmt.Errorf("export train frame: %w", err)
	}
	if result.Test != nil {
		if _, err := writer.WriteFrame(result.Test, "test_enhanced.csv"); err != nil {
			return fmt.Errorf("export test frame: %w", err)
		}
	}
	if _, err := writer.WritePairs(result.Pairs, "correlated_pairs.csv"); err != nil {
		return fmt.Errorf("export correlated pairs: %w", err)
	}
	if _, err := writer.WriteImportance(result.Ranking, "feature_importance.csv"); err != nil {
		return fmt.Errorf("export feature importance: %w", err)
	}

	workbookPath := filepath.Join(outDir, "feature_selection.xlsx")
	if err := exporter.WriteWorkbook(workbookPath, result.Pairs, result.Ranking, logger); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	return nil
}

// findExtracted returns the extracted CSV whose base name contains the
// given marker, preferring an exact "<marker>.csv" match.
func findExtracted(paths []string, marker string) string {
	var partial string
	for _, p := range paths {
		base := strings.ToLower(filepath.Base(p))
		if base == marker+".csv" {
			return p
		}
		if strings.Contains(base, marker) && partial == "" {
			partial = p
		}
	}
	return partial
}
