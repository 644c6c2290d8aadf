package features

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"creditrisk/internal/dataset"
)

// Synthesizer derives the enriched feature set from a cleaned dataset.
type Synthesizer struct {
	logger *slog.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{logger: logger}
}

// Enhance computes every derived field for ds and returns the enriched
// frame. It is deterministic and total for any dataset satisfying the
// cleaner's postconditions; a violated postcondition (negative age, missing
// raw value) fails fast with a validation error instead of producing
// nonsensical features.
//
// Order is fixed: per-record formulas, then the dataset-level fields
// (NormalizedIncomePerDependent and the min-max _Scaled pair), then one
// repair pass that turns ±Inf into NaN and fills every NaN cell with the
// column median over the remaining finite values.
func (s *Synthesizer) Enhance(ctx context.Context, ds *dataset.Dataset) (*Frame, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("enhance: empty dataset")
	}
	if err := validateCleaned(ds); err != nil {
		return nil, fmt.Errorf("enhance: %w", err)
	}

	frame := &Frame{
		Rows:    make([]Row, ds.Len()),
		Labeled: ds.Labeled,
	}
	for i := range ds.Records {
		frame.Rows[i] = computeRow(ds.Records[i])
	}

	s.normalizeIncomePerDependent(frame)
	s.scaleMinMax(frame)

	repaired := s.repairDegenerate(frame)

	s.logger.InfoContext(ctx, "feature synthesis completed",
		"records", frame.Len(),
		"columns", len(Columns()),
		"repaired_cells", repaired,
	)
	return frame, nil
}

// validateCleaned fails fast when the cleaner's postconditions do not hold.
func validateCleaned(ds *dataset.Dataset) error {
	for i := range ds.Records {
		rec := &ds.Records[i]
		if rec.Age <= 0 || math.IsNaN(rec.Age) {
			return fmt.Errorf("record %d: non-positive age %v violates cleaned-dataset invariant", i, rec.Age)
		}
		if rec.Utilization < 0 {
			return fmt.Errorf("record %d: negative utilization %v", i, rec.Utilization)
		}
		if rec.PastDue30 < 0 || rec.PastDue60 < 0 || rec.PastDue90 < 0 {
			return fmt.Errorf("record %d: negative delinquency count", i)
		}
		for _, f := range dataset.RawFields() {
			if math.IsNaN(f.Get(rec)) {
				return fmt.Errorf("record %d: field %s still missing after cleaning", i, f.Name)
			}
		}
	}
	return nil
}

// normalizeIncomePerDependent divides IncomePerDependent by its own dataset
// median, computed post hoc on the derived field. A zero median degenerates
// to 0, mirroring the min==max rule for the scaled fields.
func (s *Synthesizer) normalizeIncomePerDependent(frame *Frame) {
	values := make([]float64, frame.Len())
	for i := range frame.Rows {
		values[i] = frame.Rows[i].IncomePerDependent
	}
	median := dataset.Median(values)

	for i := range frame.Rows {
		if median == 0 || math.IsNaN(median) {
			frame.Rows[i].NormalizedIncomePerDependent = 0
			continue
		}
		frame.Rows[i].NormalizedIncomePerDependent = frame.Rows[i].IncomePerDependent / median
	}
}

// scaleMinMax fills the _Scaled fields with (x-min)/(max-min) over the
// dataset. A degenerate column (max == min) scales to 0 for every record.
func (s *Synthesizer) scaleMinMax(frame *Frame) {
	type scaled struct {
		get func(*Row) float64
		set func(*Row, float64)
	}
	targets := []scaled{
		{func(r *Row) float64 { return r.Utilization },
			func(r *Row, v float64) { r.UtilizationScaled = v }},
		{func(r *Row) float64 { return r.DebtRatio },
			func(r *Row, v float64) { r.DebtRatioScaled = v }},
	}

	for _, t := range targets {
		min, max := math.Inf(1), math.Inf(-1)
		for i := range frame.Rows {
			v := t.get(&frame.Rows[i])
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		span := max - min
		for i := range frame.Rows {
			if span == 0 {
				t.set(&frame.Rows[i], 0)
				continue
			}
			t.set(&frame.Rows[i], (t.get(&frame.Rows[i])-min)/span)
		}
	}
}

// repairDegenerate is the mandatory final pass over the whole enriched
// schema: ±Inf becomes NaN, then every NaN cell is filled with the column
// median over the remaining finite values. Returns the number of repaired
// cells.
func (s *Synthesizer) repairDegenerate(frame *Frame) int {
	repaired := 0
	values := make([]float64, frame.Len())

	for _, col := range Columns() {
		degenerate := 0
		for i := range frame.Rows {
			v := col.Get(&frame.Rows[i])
			if math.IsInf(v, 0) {
				v = math.NaN()
				col.Set(&frame.Rows[i], v)
			}
			if math.IsNaN(v) {
				degenerate++
			}
			values[i] = v
		}
		if degenerate == 0 {
			continue
		}

		median := dataset.Median(values)
		if math.IsNaN(median) {
			// Whole column is degenerate; nothing finite to impute from.
			median = 0
		}
		for i := range frame.Rows {
			if math.IsNaN(col.Get(&frame.Rows[i])) {
				col.Set(&frame.Rows[i], median)
				repaired++
			}
		}
	}
	return repaired
}
