package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"creditrisk/internal/features"
)

// Classifier is the pluggable capability required by the importance
// ranking: anything that can fit a feature matrix against binary labels and
// expose a per-feature importance score.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	FeatureImportances() []float64
}

// FeatureImportance is one row of the importance report.
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// ImportanceReport holds features ordered by descending importance plus the
// names of the top N.
type ImportanceReport struct {
	Ranked      []FeatureImportance `json:"ranked"`
	TopFeatures []string            `json:"top_features"`
}

// RankImportance fits clf over the frame's feature matrix and labels and
// returns the importance report. The frame must be labeled and contain at
// least one positive example; anything else is a statistical-validity error,
// not a degenerate result.
func RankImportance(ctx context.Context, clf Classifier, frame *features.Frame, topN int, logger *slog.Logger) (*ImportanceReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if frame.Len() < 2 {
		return nil, fmt.Errorf("importance ranking over %d records: %w", frame.Len(), ErrTooFewRecords)
	}
	if !frame.Labeled {
		return nil, fmt.Errorf("importance ranking requires a labeled frame")
	}
	if topN <= 0 {
		return nil, fmt.Errorf("importance ranking: top-N must be positive, got %d", topN)
	}

	X, names := frame.Matrix()
	y, positives := frame.Labels()
	if len(y) != len(X) {
		return nil, fmt.Errorf("importance ranking: %d rows but %d labels", len(X), len(y))
	}
	if positives == 0 {
		return nil, ErrNoPositiveLabels
	}

	start := time.Now()
	logger.InfoContext(ctx, "fitting importance classifier",
		"records", len(X),
		"columns", len(names),
		"positive_labels", positives,
	)

	if err := clf.Fit(X, y); err != nil {
		return nil, fmt.Errorf("fit importance classifier: %w", err)
	}

	importances := clf.FeatureImportances()
	if len(importances) != len(names) {
		return nil, fmt.Errorf("importance ranking: classifier returned %d scores for %d columns",
			len(importances), len(names))
	}

	ranked := make([]FeatureImportance, len(names))
	for i, name := range names {
		ranked[i] = FeatureImportance{Name: name, Importance: importances[i]}
	}
	// Ties break on name so the report is deterministic.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Importance != ranked[j].Importance {
			return ranked[i].Importance > ranked[j].Importance
		}
		return ranked[i].Name < ranked[j].Name
	})

	if topN > len(ranked) {
		topN = len(ranked)
	}
	top := make([]string, topN)
	for i := 0; i < topN; i++ {
		top[i] = ranked[i].Name
	}

	logger.InfoContext(ctx, "importance ranking completed",
		"duration", time.Since(start),
		"top_feature", top[0],
	)
	return &ImportanceReport{Ranked: ranked, TopFeatures: top}, nil
}
