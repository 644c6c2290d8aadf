// Package cleaning repairs raw borrower records before feature synthesis:
// median imputation for fields with missing entries, percentile
// winsorization of every raw numeric field, a zero-age sentinel fix, and a
// hard cap on the delinquency counts.
package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"creditrisk/internal/dataset"
)

// Bounds are the winsorization percentiles applied to raw fields.
type Bounds struct {
	Lower float64
	Upper float64
}

// IsValid reports whether the bounds form a proper sub-unit interval.
func (b Bounds) IsValid() bool {
	return b.Lower >= 0 && b.Upper <= 1 && b.Lower < b.Upper
}

// Defaults per the pipeline contract.
const (
	DefaultLowerPercentile = 0.01
	DefaultUpperPercentile = 0.99
	DefaultDelinquencyCap  = 20
)

// imputedFields are the raw fields whose missing entries are replaced with
// the dataset median.
var imputedFields = []string{dataset.FieldMonthlyIncome, dataset.FieldDependents}

// delinquencyFields are capped at the configured upper bound after
// winsorization; the tighter of the two bounds wins.
var delinquencyFields = []string{dataset.FieldPastDue30, dataset.FieldPastDue60, dataset.FieldPastDue90}

// Cleaner repairs a raw dataset. It never mutates its input; Clean returns a
// new dataset value.
type Cleaner struct {
	bounds         Bounds
	delinquencyCap float64
	logger         *slog.Logger
}

// NewCleaner creates a Cleaner with the given winsorization bounds and
// delinquency cap.
func NewCleaner(bounds Bounds, delinquencyCap float64, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{bounds: bounds, delinquencyCap: delinquencyCap, logger: logger}
}

// Clean repairs every record in ds and returns the cleaned copy.
//
// Stage order is fixed:
//  1. impute missing MonthlyIncome and Dependents with the dataset median
//     computed over non-missing values;
//  2. replace exact-zero ages with the median of the non-zero ages (zero
//     age is a sentinel, not a measurement);
//  3. winsorize all ten raw fields into their [lower, upper] percentile
//     range, percentiles computed after imputation and the age fix;
//  4. cap the three delinquency counts at the configured bound.
//
// The zero-age fix runs before winsorization. Run the other way round,
// clipping lifts a lone zero age to the interpolated 1st-percentile bound,
// the sentinel disappears, and the record keeps a nonsense age instead of
// the dataset median.
func (c *Cleaner) Clean(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("clean: empty dataset")
	}
	if !c.bounds.IsValid() {
		return nil, fmt.Errorf("clean: invalid winsorization bounds: lower=%.3f, upper=%.3f",
			c.bounds.Lower, c.bounds.Upper)
	}

	out := ds.Clone()

	rawStats := dataset.ComputeStats(out)
	imputed, err := c.imputeMissing(out, rawStats)
	if err != nil {
		return nil, err
	}

	zeroAges := c.fixZeroAges(out)

	// Recompute percentile bounds over the imputed and age-corrected values
	// so the clip range reflects the complete column.
	clipStats := dataset.ComputeStats(out)
	clipped, err := c.winsorize(out, clipStats)
	if err != nil {
		return nil, err
	}

	capped := c.capDelinquencies(out)

	c.logger.InfoContext(ctx, "dataset cleaned",
		"records", out.Len(),
		"imputed_cells", imputed,
		"clipped_cells", clipped,
		"zero_age_fixes", zeroAges,
		"capped_delinquencies", capped,
	)
	return out, nil
}

// imputeMissing replaces NaN entries of the designated fields with the field
// median computed over non-missing values.
func (c *Cleaner) imputeMissing(ds *dataset.Dataset, stats dataset.Stats) (int, error) {
	imputed := 0
	for _, name := range imputedFields {
		f, err := fieldByName(name)
		if err != nil {
			return 0, err
		}
		fs, ok := stats[name]
		if !ok {
			return 0, &dataset.SchemaError{Field: name}
		}
		if fs.FiniteCount == 0 {
			return 0, fmt.Errorf("clean: field %s has no finite values to impute from", name)
		}
		for i := range ds.Records {
			if math.IsNaN(f.Get(&ds.Records[i])) {
				f.Set(&ds.Records[i], fs.Median)
				imputed++
			}
		}
	}
	return imputed, nil
}

// winsorize clamps every raw field into its [P01, P99] range.
func (c *Cleaner) winsorize(ds *dataset.Dataset, stats dataset.Stats) (int, error) {
	clipped := 0
	for _, f := range dataset.RawFields() {
		fs, ok := stats[f.Name]
		if !ok {
			return 0, &dataset.SchemaError{Field: f.Name}
		}
		if math.IsNaN(fs.P01) || math.IsNaN(fs.P99) {
			return 0, fmt.Errorf("clean: field %s has no finite values to clip against", f.Name)
		}
		for i := range ds.Records {
			v := f.Get(&ds.Records[i])
			switch {
			case math.IsNaN(v):
				// Only non-designated fields may still carry NaN here;
				// they pass through untouched.
			case v < fs.P01:
				f.Set(&ds.Records[i], fs.P01)
				clipped++
			case v > fs.P99:
				f.Set(&ds.Records[i], fs.P99)
				clipped++
			}
		}
	}
	return clipped, nil
}

// fixZeroAges replaces exact-zero ages with the median of the non-zero
// ages.
func (c *Cleaner) fixZeroAges(ds *dataset.Dataset) int {
	ages := make([]float64, 0, ds.Len())
	for i := range ds.Records {
		if ds.Records[i].Age != 0 {
			ages = append(ages, ds.Records[i].Age)
		}
	}
	medianAge := dataset.Median(ages)

	fixed := 0
	for i := range ds.Records {
		if ds.Records[i].Age == 0 {
			ds.Records[i].Age = medianAge
			fixed++
		}
	}
	return fixed
}

// capDelinquencies applies the coarse upper bound to the three delinquency
// counts. This is in addition to the percentile clip; the tighter bound
// binds.
func (c *Cleaner) capDelinquencies(ds *dataset.Dataset) int {
	capped := 0
	for _, name := range delinquencyFields {
		f, _ := fieldByName(name)
		for i := range ds.Records {
			if f.Get(&ds.Records[i]) > c.delinquencyCap {
				f.Set(&ds.Records[i], c.delinquencyCap)
				capped++
			}
		}
	}
	return capped
}

func fieldByName(name string) (dataset.Field, error) {
	for _, f := range dataset.RawFields() {
		if f.Name == name {
			return f, nil
		}
	}
	return dataset.Field{}, &dataset.SchemaError{Field: name}
}
