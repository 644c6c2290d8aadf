package dataset

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FieldStats holds the per-field aggregate statistics computed over a single
// dataset: median, 1st/99th percentile, and min/max, all over finite values
// only. MissingCount records how many entries were NaN.
type FieldStats struct {
	Median       float64
	P01          float64
	P99          float64
	Min          float64
	Max          float64
	MissingCount int
	FiniteCount  int
}

// Stats maps raw-field names to their dataset-level statistics.
type Stats map[string]FieldStats

// Has reports whether statistics exist for the named field.
func (s Stats) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ComputeStats runs the explicit statistics pre-pass over a dataset. All
// percentiles use linear interpolation (gonum stat.LinInterp) so bounds are
// reproducible across train/validation runs.
func ComputeStats(d *Dataset) Stats {
	out := make(Stats, len(RawFields()))
	buf := make([]float64, 0, d.Len())

	for _, f := range RawFields() {
		buf = buf[:0]
		missing := 0
		for i := range d.Records {
			v := f.Get(&d.Records[i])
			if math.IsNaN(v) || math.IsInf(v, 0) {
				missing++
				continue
			}
			buf = append(buf, v)
		}
		out[f.Name] = statsOf(buf, missing)
	}
	return out
}

// statsOf computes FieldStats over the given finite values.
func statsOf(values []float64, missing int) FieldStats {
	fs := FieldStats{MissingCount: missing, FiniteCount: len(values)}
	if len(values) == 0 {
		fs.Median = math.NaN()
		fs.P01 = math.NaN()
		fs.P99 = math.NaN()
		fs.Min = math.NaN()
		fs.Max = math.NaN()
		return fs
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	fs.Median = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	fs.P01 = stat.Quantile(0.01, stat.LinInterp, sorted, nil)
	fs.P99 = stat.Quantile(0.99, stat.LinInterp, sorted, nil)
	fs.Min = sorted[0]
	fs.Max = sorted[len(sorted)-1]
	return fs
}

// Median returns the median of the finite values in the slice, or NaN when
// no finite values remain.
func Median(values []float64) float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN()
	}
	sort.Float64s(finite)
	return stat.Quantile(0.5, stat.LinInterp, finite, nil)
}
