// Package selection ranks the enriched feature set by predictive value.
//
// Two independent, read-only operations are provided over an enriched frame:
// a multicollinearity screen that reports every unordered field pair whose
// absolute Pearson correlation strictly exceeds a threshold, and an
// importance ranking that fits a seeded random-forest classifier with
// balanced class weights and orders features by mean impurity decrease.
//
// The forest is the only stochastic-seeming step in the pipeline. Each tree
// derives its random source from the configured seed plus its index, so a
// fitted forest (and therefore the ranking) is reproducible bit-for-bit for
// a fixed seed regardless of fitting concurrency.
package selection
