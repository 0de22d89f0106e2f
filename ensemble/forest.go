// Package ensemble provides the random-forest classifier backing the
// pipeline. Tree construction and voting are delegated to
// malaschitz/randomForest; this package wraps that library behind the
// estimator surface the rest of the repository speaks (mat.Matrix in,
// mat.Matrix out, structured errors, fitted-state tracking) and adds
// the cross-validated grid search used for model selection.
package ensemble

import (
	randomforest "github.com/malaschitz/randomForest"
	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/core/model"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// RandomForestClassifier is a bagged ensemble of decision trees with
// per-split feature subsampling.
type RandomForestClassifier struct {
	model.BaseEstimator

	// Hyperparameters
	nEstimators int
	maxFeatures int // features considered per split; 0 lets the library default to sqrt(p)
	leafSize    int

	// Fitted state
	forest     *randomforest.Forest
	classes_   []int
	nFeatures_ int
}

// RandomForestOption is a functional option for RandomForestClassifier.
type RandomForestOption func(*RandomForestClassifier)

// WithNEstimators sets the number of trees in the forest.
func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.nEstimators = n }
}

// WithMaxFeatures sets the number of features considered per split.
func WithMaxFeatures(m int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.maxFeatures = m }
}

// WithLeafSize sets the minimum number of samples in a leaf.
func WithLeafSize(s int) RandomForestOption {
	return func(rf *RandomForestClassifier) { rf.leafSize = s }
}

// NewRandomForestClassifier creates a classifier with 500 trees and
// library defaults for the remaining hyperparameters.
func NewRandomForestClassifier(opts ...RandomForestOption) *RandomForestClassifier {
	rf := &RandomForestClassifier{
		nEstimators: 500,
	}
	for _, opt := range opts {
		opt(rf)
	}
	return rf
}

// NEstimators returns the configured number of trees.
func (rf *RandomForestClassifier) NEstimators() int { return rf.nEstimators }

// MaxFeatures returns the configured per-split feature count.
func (rf *RandomForestClassifier) MaxFeatures() int { return rf.maxFeatures }

// Fit trains the forest. X is n x p; y is an n x 1 column of
// non-negative class codes. The backing library fans tree training out
// across its own worker pool and returns only when the whole forest is
// built.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RandomForestClassifier.Fit")
	}
	if yRows != nSamples {
		return errors.NewDimensionError("RandomForestClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("RandomForestClassifier.Fit", "y must be a single column of class codes")
	}
	if rf.nEstimators <= 0 {
		return errors.NewValidationError("nEstimators", "must be positive", rf.nEstimators)
	}
	if rf.maxFeatures < 0 || rf.maxFeatures > nFeatures {
		return errors.NewValidationError("maxFeatures", "must be between 0 and the feature count", rf.maxFeatures)
	}

	xData := make([][]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		xData[i] = mat.Row(nil, i, X)
	}
	labels := make([]int, nSamples)
	maxClass := 0
	seen := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		code := int(v)
		if float64(code) != v || code < 0 {
			return errors.NewValueError("RandomForestClassifier.Fit", "class codes must be non-negative integers")
		}
		labels[i] = code
		seen[code] = true
		if code > maxClass {
			maxClass = code
		}
	}
	if len(seen) < 2 {
		return errors.NewValueError("RandomForestClassifier.Fit", "need at least two classes")
	}

	forest := &randomforest.Forest{
		Data: randomforest.ForestData{X: xData, Class: labels},
	}
	if rf.maxFeatures > 0 {
		forest.MFeatures = rf.maxFeatures
	}
	if rf.leafSize > 0 {
		forest.LeafSize = rf.leafSize
	}
	forest.Train(rf.nEstimators)

	rf.forest = forest
	rf.nFeatures_ = nFeatures
	rf.classes_ = make([]int, maxClass+1)
	for c := 0; c <= maxClass; c++ {
		rf.classes_[c] = c
	}
	rf.SetFitted()
	return nil
}

// Predict returns an n x 1 column of predicted class codes.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	proba, err := rf.predictProba(X, "Predict")
	if err != nil {
		return nil, err
	}
	n, k := proba.Dims()
	out := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		best, bestVote := 0, proba.At(i, 0)
		for c := 1; c < k; c++ {
			if proba.At(i, c) > bestVote {
				best, bestVote = c, proba.At(i, c)
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// PredictProba returns an n x k matrix of per-class vote fractions.
// Each row sums to 1.
func (rf *RandomForestClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	return rf.predictProba(X, "PredictProba")
}

func (rf *RandomForestClassifier) predictProba(X mat.Matrix, method string) (*mat.Dense, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", method)
	}
	n, p := X.Dims()
	if p != rf.nFeatures_ {
		return nil, errors.NewDimensionError("RandomForestClassifier."+method, rf.nFeatures_, p, 1)
	}

	k := len(rf.classes_)
	out := mat.NewDense(n, k, nil)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		votes := rf.forest.Vote(row)
		for c := 0; c < k && c < len(votes); c++ {
			out.Set(i, c, votes[c])
		}
	}
	return out, nil
}

// ClassIDs returns the class codes seen during Fit, ascending.
func (rf *RandomForestClassifier) ClassIDs() []int {
	out := make([]int, len(rf.classes_))
	copy(out, rf.classes_)
	return out
}

// FeatureImportances returns the fitted forest's per-feature
// importance scores, or an error before Fit.
func (rf *RandomForestClassifier) FeatureImportances() ([]float64, error) {
	if !rf.IsFitted() {
		return nil, errors.NewNotFittedError("RandomForestClassifier", "FeatureImportances")
	}
	out := make([]float64, len(rf.forest.FeatureImportance))
	copy(out, rf.forest.FeatureImportance)
	return out, nil
}
