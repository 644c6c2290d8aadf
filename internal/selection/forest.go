package selection

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// ErrNoPositiveLabels is returned when importance ranking is attempted on
// labels with no positive-class examples.
var ErrNoPositiveLabels = errors.New("selection: no positive-class examples in labels")

// ForestConfig configures the auxiliary random-forest classifier.
type ForestConfig struct {
	// Trees is the ensemble size.
	Trees int `yaml:"trees" envconfig:"TREES"`
	// MaxDepth bounds every tree; 0 means unbounded, which the importance
	// ranking rejects to keep fitting cheap and rankings stable.
	MaxDepth int `yaml:"max_depth" envconfig:"MAX_DEPTH"`
	// MinSamplesSplit is the minimum node size eligible for splitting.
	MinSamplesSplit int `yaml:"min_samples_split" envconfig:"MIN_SAMPLES_SPLIT"`
	// MinSamplesLeaf is the minimum sample count in each child.
	MinSamplesLeaf int `yaml:"min_samples_leaf" envconfig:"MIN_SAMPLES_LEAF"`
	// MaxFeatures is the per-split feature subsample; 0 means sqrt(p).
	MaxFeatures int `yaml:"max_features" envconfig:"MAX_FEATURES"`
	// Seed fixes the forest's randomness. Tree i draws from Seed+i, so the
	// fitted ensemble is identical however many trees fit concurrently.
	Seed int64 `yaml:"seed" envconfig:"SEED"`
	// MaxConcurrency bounds parallel tree fitting.
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY"`
}

// DefaultForestConfig returns the forest configuration used by the
// importance ranking unless overridden.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Seed:            42,
		MaxConcurrency:  4,
	}
}

// IsValid reports whether the configuration is usable.
func (c ForestConfig) IsValid() bool {
	return c.Trees > 0 && c.MaxDepth > 0 && c.MinSamplesSplit >= 2 &&
		c.MinSamplesLeaf >= 1 && c.MaxFeatures >= 0 && c.MaxConcurrency > 0
}

// RandomForest is an ensemble of CART trees with bootstrap sampling,
// per-split feature subsampling, and balanced class weighting.
type RandomForest struct {
	cfg       ForestConfig
	trees     []*decisionTree
	nFeatures int
}

// NewRandomForest creates an unfitted forest.
func NewRandomForest(cfg ForestConfig) *RandomForest {
	return &RandomForest{cfg: cfg}
}

// Fit trains the forest on the feature matrix X and binary labels y.
// Class weights are balanced: each class contributes n/(2*count(class)), so
// the minority delinquent class is not drowned out by the majority.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) < 2 {
		return fmt.Errorf("forest fit over %d records: %w", len(X), ErrTooFewRecords)
	}
	if len(y) != len(X) {
		return fmt.Errorf("forest fit: %d rows but %d labels", len(X), len(y))
	}
	if !rf.cfg.IsValid() {
		return fmt.Errorf("forest fit: invalid configuration %+v", rf.cfg)
	}

	n := len(X)
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return fmt.Errorf("forest fit: row %d has %d features, want %d", i, len(X[i]), p)
		}
	}

	pos := 0
	for _, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("forest fit: label %d is not binary", label)
		}
		if label == 1 {
			pos++
		}
	}
	if pos == 0 {
		return ErrNoPositiveLabels
	}
	neg := n - pos

	weights := [2]float64{1, 1}
	if neg > 0 {
		weights[0] = float64(n) / (2 * float64(neg))
		weights[1] = float64(n) / (2 * float64(pos))
	}

	maxFeatures := rf.cfg.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Sqrt(float64(p)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	rf.nFeatures = p
	rf.trees = make([]*decisionTree, rf.cfg.Trees)

	var g errgroup.Group
	g.SetLimit(rf.cfg.MaxConcurrency)
	for i := 0; i < rf.cfg.Trees; i++ {
		i := i
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(rf.cfg.Seed + int64(i)))

			// Bootstrap by index; the matrix itself is never copied.
			sample := make([]int, n)
			for j := range sample {
				sample[j] = rnd.Intn(n)
			}

			tree := &decisionTree{cfg: treeConfig{
				maxDepth:        rf.cfg.MaxDepth,
				minSamplesSplit: rf.cfg.MinSamplesSplit,
				minSamplesLeaf:  rf.cfg.MinSamplesLeaf,
				maxFeatures:     maxFeatures,
				classWeights:    weights,
			}}
			tree.fit(X, y, sample, rnd)
			rf.trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return nil
}

// FeatureImportances returns the per-feature mean impurity decrease across
// trees, normalized to sum to 1 when any split was accepted.
func (rf *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, rf.nFeatures)
	if len(rf.trees) == 0 {
		return out
	}
	for _, tree := range rf.trees {
		for f, imp := range tree.importances {
			out[f] += imp
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total > 0 {
		for f := range out {
			out[f] /= total
		}
	}
	return out
}

// PredictProba returns the positive-class probability for each row of X,
// averaged over trees.
func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.trees) == 0 {
		return out
	}
	for i, x := range X {
		sum := 0.0
		for _, tree := range rf.trees {
			sum += tree.predictProba(x)
		}
		out[i] = sum / float64(len(rf.trees))
	}
	return out
}

// Predict returns the majority-vote class for each row of X.
func (rf *RandomForest) Predict(X [][]float64) []int {
	probas := rf.PredictProba(X)
	out := make([]int, len(probas))
	for i, p := range probas {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}
