package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditrisk/internal/config"
	"creditrisk/internal/dataset"
	"creditrisk/internal/features"
	"creditrisk/internal/shared/testutil"
)

func testPipelineConfig() config.PipelineConfig {
	cfg := config.DefaultConfig().Pipeline
	cfg.Forest.Trees = 15
	cfg.Forest.MaxDepth = 6
	return cfg
}

func TestRunnerRun(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	runner := NewRunner(testPipelineConfig(), logger)

	train := testutil.SampleDataset(150, 3)
	test := testutil.SampleDataset(50, 4)

	result, err := runner.Run(context.Background(), train, test)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Greater(t, result.Duration.Nanoseconds(), int64(0))

	require.NotNil(t, result.Train)
	assert.Equal(t, train.Len(), result.Train.Len())
	require.NotNil(t, result.Test)
	assert.Equal(t, test.Len(), result.Test.Len())

	require.NotNil(t, result.Ranking)
	assert.Len(t, result.Ranking.Ranked, len(features.ColumnNames()))
	assert.Len(t, result.Ranking.TopFeatures, testPipelineConfig().TopFeatures)

	// Derived columns repeat raw signals, so the screen always finds pairs
	// at the default threshold (TotalPastDue vs WeightedDelinquencyScore
	// and friends).
	assert.NotEmpty(t, result.Pairs)

	assert.True(t, handler.ContainsMessage("starting pipeline run"))
	assert.True(t, handler.ContainsMessage("pipeline run completed"))
}

func TestRunnerRunWithoutTestSet(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	runner := NewRunner(testPipelineConfig(), logger)

	result, err := runner.Run(context.Background(), testutil.SampleDataset(120, 9), nil)
	require.NoError(t, err)
	assert.Nil(t, result.Test)
	require.NotNil(t, result.Train)
}

func TestRunnerSplitsUseOwnStatistics(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	runner := NewRunner(testPipelineConfig(), logger)

	train := testutil.SampleDataset(150, 3)
	test := testutil.SampleDataset(50, 4)

	result, err := runner.Run(context.Background(), train, test)
	require.NoError(t, err)

	// Each split is min-max scaled against its own bounds, so both contain
	// an exact 0 and an exact 1 in the scaled utilization column.
	for _, frame := range []*features.Frame{result.Train, result.Test} {
		values, ok := frame.ColumnValues(features.ColUtilizationScaled)
		require.True(t, ok)
		min, max := values[0], values[0]
		for _, v := range values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		assert.Equal(t, 0.0, min)
		assert.Equal(t, 1.0, max)
	}
}

func TestRunnerRunErrors(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	runner := NewRunner(testPipelineConfig(), logger)
	ctx := context.Background()

	t.Run("empty train set", func(t *testing.T) {
		_, err := runner.Run(ctx, &dataset.Dataset{}, nil)
		require.Error(t, err)
	})

	t.Run("unlabeled train set", func(t *testing.T) {
		train := testutil.SampleDataset(50, 1)
		train.Labeled = false
		_, err := runner.Run(ctx, train, nil)
		require.Error(t, err)
	})

	t.Run("empty test set", func(t *testing.T) {
		_, err := runner.Run(ctx, testutil.SampleDataset(50, 1), &dataset.Dataset{})
		require.Error(t, err)
	})
}
