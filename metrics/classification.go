// Package metrics implements the evaluation statistics of the
// pipeline: accuracy, the multiclass confusion matrix, and one-vs-rest
// ROC/AUC.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// Accuracy returns the fraction of positions where yTrue and yPred
// agree.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "Accuracy")
	}
	if yTrue.Len() != yPred.Len() {
		return 0, errors.NewDimensionError("Accuracy", yTrue.Len(), yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(yTrue.Len()), nil
}

// ClassificationError returns 1 - Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

// AccuracyMatrix is the mat.Matrix wrapper around Accuracy; it uses
// the first column of each input.
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := firstColumn(yTrue, "AccuracyMatrix")
	if err != nil {
		return 0, err
	}
	pv, err := firstColumn(yPred, "AccuracyMatrix")
	if err != nil {
		return 0, err
	}
	return Accuracy(tv, pv)
}

func firstColumn(m mat.Matrix, op string) (*mat.VecDense, error) {
	if m == nil {
		return nil, errors.NewValueError(op, "nil matrix")
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}
