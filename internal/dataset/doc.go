// Package dataset defines the in-memory tabular model for borrower
// observations and the dataset-level statistics used by the cleaning and
// feature-synthesis stages.
//
// A Dataset is an ordered collection of Records sharing one fixed schema of
// ten raw numeric fields plus an optional binary delinquency label. Missing
// values are represented as NaN. Statistics (median, 1st/99th percentile,
// min/max) are computed by an explicit pre-pass over a single dataset and
// threaded into downstream stages, so train and test splits never share
// statistics.
//
// The package also owns the input glue around the core pipeline: CSV
// parsing for the raw schema and ZIP extraction for compressed inputs.
package dataset
