package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"creditrisk/internal/features"
)

// ErrTooFewRecords is returned when a statistical operation is attempted on
// a dataset with fewer than two records.
var ErrTooFewRecords = errors.New("selection: need at least 2 records")

// CorrelatedPair is one entry of the multicollinearity report.
type CorrelatedPair struct {
	FieldA      string  `json:"field_a"`
	FieldB      string  `json:"field_b"`
	Correlation float64 `json:"correlation"`
}

// FindCorrelatedPairs computes the pairwise Pearson correlation matrix over
// every numeric column of the frame (the target is not a column) and returns
// the strict-upper-triangle pairs whose absolute correlation strictly
// exceeds threshold. Pairs are ordered by |correlation| descending, then by
// field names, so the report is deterministic.
func FindCorrelatedPairs(frame *features.Frame, threshold float64) ([]CorrelatedPair, error) {
	if frame.Len() < 2 {
		return nil, fmt.Errorf("correlation over %d records: %w", frame.Len(), ErrTooFewRecords)
	}
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("correlation threshold %.3f outside [0, 1)", threshold)
	}

	cols := features.Columns()
	values := make([][]float64, len(cols))
	for j, c := range cols {
		col := make([]float64, frame.Len())
		for i := range frame.Rows {
			col[i] = c.Get(&frame.Rows[i])
		}
		values[j] = col
	}

	var pairs []CorrelatedPair
	for a := 0; a < len(cols); a++ {
		for b := a + 1; b < len(cols); b++ {
			r := stat.Correlation(values[a], values[b], nil)
			// Constant columns produce NaN; they carry no linear signal.
			if math.IsNaN(r) {
				continue
			}
			if math.Abs(r) > threshold {
				pairs = append(pairs, CorrelatedPair{
					FieldA:      cols[a].Name,
					FieldB:      cols[b].Name,
					Correlation: r,
				})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].Correlation), math.Abs(pairs[j].Correlation)
		if ai != aj {
			return ai > aj
		}
		if pairs[i].FieldA != pairs[j].FieldA {
			return pairs[i].FieldA < pairs[j].FieldA
		}
		return pairs[i].FieldB < pairs[j].FieldB
	})
	return pairs, nil
}
