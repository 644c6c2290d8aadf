// Package pipeline composes the cleaning, feature-synthesis, and
// feature-selection stages into a single batch run over the train and test
// datasets.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"creditrisk/internal/cleaning"
	"creditrisk/internal/config"
	"creditrisk/internal/dataset"
	"creditrisk/internal/features"
	"creditrisk/internal/selection"
)

// Result carries everything a run produces: the enriched frames, the
// multicollinearity report, and the importance ranking.
type Result struct {
	RunID    string
	Train    *features.Frame
	Test     *features.Frame
	Pairs    []selection.CorrelatedPair
	Ranking  *selection.ImportanceReport
	Duration time.Duration
}

// Runner orchestrates one pipeline run. Each dataset is cleaned and
// enriched against its own statistics; train and test never share medians,
// percentiles, or min/max bounds.
type Runner struct {
	cfg    config.PipelineConfig
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg config.PipelineConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes the full pipeline: clean and enrich the train set, do the
// same for the optional test set, then screen the enriched train set for
// collinear pairs and rank its features by importance. The run is
// all-or-nothing; no partial result is returned on failure.
func (r *Runner) Run(ctx context.Context, train, test *dataset.Dataset) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With("run_id", runID)

	logger.InfoContext(ctx, "starting pipeline run",
		"train_records", train.Len(),
		"test_records", datasetLen(test),
		"correlation_threshold", r.cfg.CorrelationThreshold,
		"top_features", r.cfg.TopFeatures,
	)

	trainFrame, err := r.enrich(ctx, train, "train", logger)
	if err != nil {
		return nil, fmt.Errorf("enrich train dataset: %w", err)
	}

	var testFrame *features.Frame
	if test != nil {
		testFrame, err = r.enrich(ctx, test, "test", logger)
		if err != nil {
			return nil, fmt.Errorf("enrich test dataset: %w", err)
		}
	}

	pairs, err := selection.FindCorrelatedPairs(trainFrame, r.cfg.CorrelationThreshold)
	if err != nil {
		return nil, fmt.Errorf("multicollinearity screen: %w", err)
	}
	logger.InfoContext(ctx, "multicollinearity screen completed",
		"correlated_pairs", len(pairs),
	)

	forest := selection.NewRandomForest(r.cfg.Forest)
	ranking, err := selection.RankImportance(ctx, forest, trainFrame, r.cfg.TopFeatures, logger)
	if err != nil {
		return nil, fmt.Errorf("importance ranking: %w", err)
	}

	duration := time.Since(start)
	logger.InfoContext(ctx, "pipeline run completed",
		"duration", duration,
	)

	return &Result{
		RunID:    runID,
		Train:    trainFrame,
		Test:     testFrame,
		Pairs:    pairs,
		Ranking:  ranking,
		Duration: duration,
	}, nil
}

// enrich runs Cleaner then Synthesizer over one dataset with its own
// statistics.
func (r *Runner) enrich(ctx context.Context, ds *dataset.Dataset, split string, logger *slog.Logger) (*features.Frame, error) {
	stageLogger := logger.With("split", split)

	cleaner := cleaning.NewCleaner(
		cleaning.Bounds{Lower: r.cfg.WinsorLower, Upper: r.cfg.WinsorUpper},
		r.cfg.DelinquencyCap,
		stageLogger,
	)
	cleaned, err := cleaner.Clean(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}

	synth := features.NewSynthesizer(stageLogger)
	frame, err := synth.Enhance(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	return frame, nil
}

func datasetLen(ds *dataset.Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.Len()
}
