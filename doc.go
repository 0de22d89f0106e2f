// Package wle analyzes the Weight Lifting Exercises dataset: wearable
// sensor readings (belt, arm, dumbbell, forearm) recorded while six
// participants performed unilateral dumbbell biceps curls correctly
// (class A) and with four common mistakes (classes B through E).
//
// The pipeline loads the raw CSV, removes window summary statistics and
// bookkeeping columns, splits the rows into stratified training and
// test sets, tunes a random forest by repeated stratified
// cross-validation over the number of features considered per split,
// and evaluates the selected model exactly once on the held-out rows.
// The run produces a markdown report with the confusion matrix,
// per-class sensitivity, specificity and one-vs-rest ROC/AUC, plus
// exploratory scatter plots.
//
// The cmd/wlereport command drives a full run; the pipeline package is
// the programmatic entry point.
package wle
