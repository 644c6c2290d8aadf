// Package features synthesizes the derived feature set for cleaned borrower
// records. Formulas are grouped into families (ratio, utilization,
// delinquency, age, credit-line, interaction, risk-index, transform,
// scaling); every constant in them is part of the contract, not a tunable.
//
// Enhance is a pure, deterministic, total function of a cleaned dataset plus
// statistics it computes internally over that same dataset. After all
// formulas run, a single mandatory repair pass replaces any ±Inf produced by
// partially guarded divisions with NaN and then fills every NaN cell with
// the column median over the remaining finite values.
//
//   - frame.go: enriched Row/Frame model and the ordered column table
//   - families.go: per-record formulas for all feature families
//   - synthesizer.go: orchestration, input validation, dataset-level
//     features, and the infinity->missing->median repair pass
package features
