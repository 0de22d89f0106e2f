package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// AUC computes the area under the ROC curve for binary labels (0/1)
// and real-valued scores, using the rank statistic with average ranks
// for tied scores. When only one class is present the metric is
// undefined; a warning is emitted and 0.5 is returned.
func AUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "AUC")
	}
	if yTrue.Len() != yPred.Len() {
		return 0, errors.NewDimensionError("AUC", yTrue.Len(), yPred.Len(), 0)
	}

	n := yTrue.Len()
	nPos := 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
		default:
			return 0, errors.NewValueError("AUC", "labels must be binary (0 or 1)")
		}
	}
	nNeg := n - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("auc", "only one class present", 0.5))
		return 0.5, nil
	}

	// Rank scores ascending, averaging ranks across ties, then apply
	// the Mann-Whitney identity.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) < yPred.AtVec(order[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yPred.AtVec(order[j+1]) == yPred.AtVec(order[i]) {
			j++
		}
		avgRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avgRank
		}
		i = j + 1
	}

	sumRanksPos := 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			sumRanksPos += ranks[i]
		}
	}
	auc := (sumRanksPos - float64(nPos)*float64(nPos+1)/2) / (float64(nPos) * float64(nNeg))
	return auc, nil
}

// AUCMatrix is the mat.Matrix wrapper around AUC; it uses the first
// column of each input.
func AUCMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	tv, err := firstColumn(yTrue, "AUCMatrix")
	if err != nil {
		return 0, err
	}
	pv, err := firstColumn(yPred, "AUCMatrix")
	if err != nil {
		return 0, err
	}
	return AUC(tv, pv)
}

// OneVsRestAUC computes the AUC for a single class of a multiclass
// problem: rows of class are the positives, every other row a
// negative, scored by the class's probability column in proba.
func OneVsRestAUC(yTrue []int, proba mat.Matrix, class int) (float64, error) {
	r, c := proba.Dims()
	if len(yTrue) != r {
		return 0, errors.NewDimensionError("OneVsRestAUC", len(yTrue), r, 0)
	}
	if class < 0 || class >= c {
		return 0, errors.NewValueError("OneVsRestAUC", "class index out of range")
	}

	binary := mat.NewVecDense(r, nil)
	scores := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		if yTrue[i] == class {
			binary.SetVec(i, 1)
		}
		scores.SetVec(i, proba.At(i, class))
	}
	return AUC(binary, scores)
}

// ROCPoint is one operating point of a ROC curve.
type ROCPoint struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// ROCCurve returns the ROC operating points for binary labels and
// scores, from the (0,0) corner (threshold above every score) to
// (1,1). One point is produced per distinct score.
func ROCCurve(yTrue, yPred *mat.VecDense) ([]ROCPoint, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ROCCurve")
	}
	if yTrue.Len() != yPred.Len() {
		return nil, errors.NewDimensionError("ROCCurve", yTrue.Len(), yPred.Len(), 0)
	}

	n := yTrue.Len()
	nPos, nNeg := 0, 0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
			nNeg++
		default:
			return nil, errors.NewValueError("ROCCurve", "labels must be binary (0 or 1)")
		}
	}
	if nPos == 0 || nNeg == 0 {
		return nil, errors.NewValueError("ROCCurve", "need both classes to trace a curve")
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) > yPred.AtVec(order[b])
	})

	points := []ROCPoint{{FPR: 0, TPR: 0, Threshold: yPred.AtVec(order[0]) + 1}}
	tp, fp := 0, 0
	for i := 0; i < n; {
		threshold := yPred.AtVec(order[i])
		// Consume the whole tie group before emitting a point.
		for i < n && yPred.AtVec(order[i]) == threshold {
			if yTrue.AtVec(order[i]) == 1 {
				tp++
			} else {
				fp++
			}
			i++
		}
		points = append(points, ROCPoint{
			FPR:       float64(fp) / float64(nNeg),
			TPR:       float64(tp) / float64(nPos),
			Threshold: threshold,
		})
	}
	return points, nil
}
