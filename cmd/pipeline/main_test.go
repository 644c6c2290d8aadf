package main

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/dataset"
	"creditrisk/internal/shared/testutil"
)

func writeDatasetCSV(t *testing.T, path string, ds *dataset.Dataset) {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{dataset.FieldTarget}
	for _, f := range dataset.RawFields() {
		header = append(header, f.Name)
	}
	require.NoError(t, w.Write(header))

	for i := range ds.Records {
		rec := &ds.Records[i]
		row := []string{strconv.FormatFloat(rec.Target, 'f', -1, 64)}
		for _, f := range dataset.RawFields() {
			row = append(row, strconv.FormatFloat(f.Get(rec), 'f', -1, 64))
		}
		require.NoError(t, w.Write(row))
	}
}

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`
logging:
  level: error
paths:
  data_dir: %[1]s
  reports_dir: %[1]s
  work_dir: %[1]s
pipeline:
  forest:
    trees: 10
    max_depth: 5
`, dir)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	trainPath := filepath.Join(tmpDir, "train.csv")
	testPath := filepath.Join(tmpDir, "test.csv")
	writeDatasetCSV(t, trainPath, testutil.SampleDataset(120, 3))
	writeDatasetCSV(t, testPath, testutil.SampleDataset(40, 4))

	outDir := filepath.Join(tmpDir, "reports")
	cfgPath := writeTestConfig(t, tmpDir)

	require.NoError(t, run(cfgPath, "", trainPath, testPath, outDir))

	for _, name := range []string{
		"train_enhanced.csv",
		"test_enhanced.csv",
		"correlated_pairs.csv",
		"feature_importance.csv",
		"feature_selection.xlsx",
	} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestRunFromArchive(t *testing.T) {
	tmpDir := t.TempDir()

	trainPath := filepath.Join(tmpDir, "cs-train.csv")
	writeDatasetCSV(t, trainPath, testutil.SampleDataset(100, 7))
	trainBytes, err := os.ReadFile(trainPath)
	require.NoError(t, err)

	archivePath := filepath.Join(tmpDir, "input.zip")
	archive, err := os.Create(archivePath)
	require.NoError(t, err)
	zw := zip.NewWriter(archive)
	member, err := zw.Create("data/cs-train.csv")
	require.NoError(t, err)
	_, err = member.Write(trainBytes)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, archive.Close())

	outDir := filepath.Join(tmpDir, "reports")
	cfgPath := writeTestConfig(t, tmpDir)

	require.NoError(t, run(cfgPath, archivePath, "", "", outDir))
	assert.FileExists(t, filepath.Join(outDir, "train_enhanced.csv"))
}

func TestRunMissingTrainData(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := writeTestConfig(t, tmpDir)

	err := run(cfgPath, "", "", "", tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no training CSV")
}

func TestFindExtracted(t *testing.T) {
	paths := []string{
		"/work/cs-test.csv",
		"/work/train.csv",
		"/work/extra-training-notes.csv",
	}
	assert.Equal(t, "/work/train.csv", findExtracted(paths, "train"))
	assert.Equal(t, "/work/cs-test.csv", findExtracted(paths, "test"))
	assert.Empty(t, findExtracted(paths, "validation"))
}
