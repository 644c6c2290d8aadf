package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditrisk/internal/selection"
	"creditrisk/internal/shared/testutil"
)

func TestWriteWorkbook(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	path := filepath.Join(t.TempDir(), "reports", "feature_selection.xlsx")

	pairs := []selection.CorrelatedPair{
		{FieldA: "TotalPastDue", FieldB: "WeightedDelinquencyScore", Correlation: 0.987},
	}
	report := &selection.ImportanceReport{
		Ranked: []selection.FeatureImportance{
			{Name: "RevolvingUtilizationOfUnsecuredLines", Importance: 0.4},
			{Name: "DebtRatio", Importance: 0.1},
		},
		TopFeatures: []string{"RevolvingUtilizationOfUnsecuredLines", "DebtRatio"},
	}

	require.NoError(t, WriteWorkbook(path, pairs, report, logger))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetPairs, sheetImportance, sheetTop}, f.GetSheetList())

	v, err := f.GetCellValue(sheetPairs, "A2")
	require.NoError(t, err)
	assert.Equal(t, "TotalPastDue", v)

	v, err = f.GetCellValue(sheetImportance, "B2")
	require.NoError(t, err)
	assert.Equal(t, "RevolvingUtilizationOfUnsecuredLines", v)

	v, err = f.GetCellValue(sheetImportance, "A3")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	v, err = f.GetCellValue(sheetTop, "A3")
	require.NoError(t, err)
	assert.Equal(t, "DebtRatio", v)
}

func TestWriteWorkbookNilReport(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	err := WriteWorkbook(filepath.Join(t.TempDir(), "x.xlsx"), nil, nil, logger)
	require.Error(t, err)
}
