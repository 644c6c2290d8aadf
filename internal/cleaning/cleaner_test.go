package cleaning

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/dataset"
	"creditrisk/internal/shared/testutil"
)

func defaultCleaner(t *testing.T) *Cleaner {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	return NewCleaner(
		Bounds{Lower: DefaultLowerPercentile, Upper: DefaultUpperPercentile},
		DefaultDelinquencyCap,
		logger,
	)
}

func TestBoundsIsValid(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		want   bool
	}{
		{"defaults", Bounds{Lower: 0.01, Upper: 0.99}, true},
		{"full unit interval", Bounds{Lower: 0, Upper: 1}, true},
		{"inverted", Bounds{Lower: 0.99, Upper: 0.01}, false},
		{"equal", Bounds{Lower: 0.5, Upper: 0.5}, false},
		{"negative lower", Bounds{Lower: -0.1, Upper: 0.9}, false},
		{"upper above one", Bounds{Lower: 0.1, Upper: 1.1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bounds.IsValid())
		})
	}
}

func TestCleanPostconditions(t *testing.T) {
	cleaner := defaultCleaner(t)
	dirty := testutil.DirtyDataset()

	cleaned, err := cleaner.Clean(context.Background(), dirty)
	require.NoError(t, err)
	require.Equal(t, dirty.Len(), cleaned.Len())

	for i := range cleaned.Records {
		rec := &cleaned.Records[i]

		assert.Greater(t, rec.Age, 0.0, "record %d age", i)

		for _, count := range []float64{rec.PastDue30, rec.PastDue60, rec.PastDue90} {
			assert.GreaterOrEqual(t, count, 0.0, "record %d delinquency", i)
			assert.LessOrEqual(t, count, DefaultDelinquencyCap+0.0, "record %d delinquency", i)
		}

		for _, f := range dataset.RawFields() {
			assert.False(t, math.IsNaN(f.Get(rec)),
				"record %d field %s still missing", i, f.Name)
		}
	}

	// The extreme utilization outlier was clipped well below its raw value.
	for i := range cleaned.Records {
		assert.Less(t, cleaned.Records[i].Utilization, 5021.0)
	}
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	cleaner := defaultCleaner(t)
	dirty := testutil.DirtyDataset()

	_, err := cleaner.Clean(context.Background(), dirty)
	require.NoError(t, err)

	// The original still carries its missing markers and sentinels.
	assert.True(t, math.IsNaN(dirty.Records[0].MonthlyIncome))
	assert.True(t, math.IsNaN(dirty.Records[0].Dependents))
	assert.Equal(t, 0.0, dirty.Records[0].Age)
	assert.Equal(t, 5021.0, dirty.Records[4].Utilization)
}

func TestCleanImputesWithMedian(t *testing.T) {
	cleaner := defaultCleaner(t)
	dirty := testutil.DirtyDataset()

	// Median over the seven non-missing incomes.
	incomes := make([]float64, 0, dirty.Len())
	for i := range dirty.Records {
		if v := dirty.Records[i].MonthlyIncome; !math.IsNaN(v) {
			incomes = append(incomes, v)
		}
	}
	wantIncome := dataset.Median(incomes)

	cleaned, err := cleaner.Clean(context.Background(), dirty)
	require.NoError(t, err)

	assert.InDelta(t, wantIncome, cleaned.Records[0].MonthlyIncome, 1e-9)
	assert.InDelta(t, 1.0, cleaned.Records[0].Dependents, 1e-9)
}

func TestCleanZeroAgeBecomesMedianOfNonZeroAges(t *testing.T) {
	// Tied extremes in every column keep interpolated percentile bounds at
	// min/max, so winsorization moves nothing and the age fix is isolated.
	ages := []float64{0, 30, 30, 45, 50, 50, 55, 70, 70}
	ds := &dataset.Dataset{Labeled: true}
	for _, age := range ages {
		ds.Records = append(ds.Records, dataset.Record{
			Utilization:   0.5,
			Age:           age,
			DebtRatio:     0.4,
			MonthlyIncome: 5000,
			Dependents:    1,
		})
	}

	cleaner := defaultCleaner(t)
	cleaned, err := cleaner.Clean(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cleaned.Records[0].Age)
	for i := 1; i < cleaned.Len(); i++ {
		assert.Equal(t, ages[i], cleaned.Records[i].Age, "record %d", i)
	}
}

func TestCleanIdempotentOnCleanedData(t *testing.T) {
	cleaner := defaultCleaner(t)

	cleaned, err := cleaner.Clean(context.Background(), testutil.DirtyDataset())
	require.NoError(t, err)

	// Duplicate every record so each value carries a tie; interpolated
	// percentile bounds then coincide with column min/max and a second
	// clean has nothing left to change.
	doubled := &dataset.Dataset{Labeled: cleaned.Labeled}
	for i := range cleaned.Records {
		doubled.Records = append(doubled.Records, cleaned.Records[i], cleaned.Records[i])
	}

	again, err := cleaner.Clean(context.Background(), doubled)
	require.NoError(t, err)
	assert.Equal(t, doubled.Records, again.Records)
}

func TestCleanErrors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("empty dataset", func(t *testing.T) {
		cleaner := defaultCleaner(t)
		_, err := cleaner.Clean(context.Background(), &dataset.Dataset{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty dataset")
	})

	t.Run("invalid bounds", func(t *testing.T) {
		cleaner := NewCleaner(Bounds{Lower: 0.9, Upper: 0.1}, DefaultDelinquencyCap, logger)
		_, err := cleaner.Clean(context.Background(), testutil.DirtyDataset())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid winsorization bounds")
	})

	t.Run("imputed field with no finite values", func(t *testing.T) {
		ds := testutil.DirtyDataset()
		for i := range ds.Records {
			ds.Records[i].MonthlyIncome = math.NaN()
		}
		cleaner := defaultCleaner(t)
		_, err := cleaner.Clean(context.Background(), ds)
		require.Error(t, err)
		assert.Contains(t, err.Error(), dataset.FieldMonthlyIncome)
	})
}

func TestCleanLogsSummary(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	cleaner := NewCleaner(
		Bounds{Lower: DefaultLowerPercentile, Upper: DefaultUpperPercentile},
		DefaultDelinquencyCap,
		logger,
	)

	_, err := cleaner.Clean(context.Background(), testutil.DirtyDataset())
	require.NoError(t, err)

	assert.True(t, handler.ContainsMessage("dataset cleaned"))
	// Two cells were missing and one zero age was fixed.
	assert.EqualValues(t, 2, handler.AttrValue("imputed_cells"))
	assert.EqualValues(t, 1, handler.AttrValue("zero_age_fixes"))
}
