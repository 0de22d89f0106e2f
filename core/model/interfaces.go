// Package model defines the capability interfaces the pipeline
// orchestration depends on. The pipeline never names a concrete model
// type; any classifier satisfying these interfaces can back it, which
// keeps the orchestration testable with a stub.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is a model that can be trained.
type Fitter interface {
	// Fit trains the model. X is n x p, y is an n x 1 column of class
	// codes.
	Fit(X, y mat.Matrix) error
}

// Predictor is a fitted model that can predict class codes.
type Predictor interface {
	// Predict returns an n x 1 column of predicted class codes.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the full capability surface the evaluation stage
// needs: fitting, label prediction, and per-class probabilities.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns an n x k matrix of class probabilities,
	// one column per class in ClassIDs order. Rows sum to 1.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// ClassIDs returns the distinct class codes seen during Fit, in
	// ascending order.
	ClassIDs() []int
}
