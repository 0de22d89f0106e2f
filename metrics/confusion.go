package metrics

import (
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// ConfusionMatrix holds predicted-vs-actual counts for a multiclass
// problem. Counts[i][j] is the number of rows whose actual class is i
// and predicted class is j.
type ConfusionMatrix struct {
	Classes []string
	Counts  [][]int
	Total   int
}

// NewConfusionMatrix tallies the predicted-vs-actual counts. yTrue and
// yPred hold class codes indexing into classes.
func NewConfusionMatrix(yTrue, yPred []int, classes []string) (*ConfusionMatrix, error) {
	if len(yTrue) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewConfusionMatrix")
	}
	if len(yTrue) != len(yPred) {
		return nil, errors.NewDimensionError("NewConfusionMatrix", len(yTrue), len(yPred), 0)
	}

	k := len(classes)
	counts := make([][]int, k)
	for i := range counts {
		counts[i] = make([]int, k)
	}

	for i := range yTrue {
		a, p := yTrue[i], yPred[i]
		if a < 0 || a >= k {
			return nil, errors.NewValueError("NewConfusionMatrix", "actual class code out of range")
		}
		if p < 0 || p >= k {
			return nil, errors.NewValueError("NewConfusionMatrix", "predicted class code out of range")
		}
		counts[a][p]++
	}

	return &ConfusionMatrix{Classes: classes, Counts: counts, Total: len(yTrue)}, nil
}

// Trace returns the number of correctly classified rows.
func (m *ConfusionMatrix) Trace() int {
	t := 0
	for i := range m.Counts {
		t += m.Counts[i][i]
	}
	return t
}

// Accuracy returns Trace / Total.
func (m *ConfusionMatrix) Accuracy() float64 {
	return float64(m.Trace()) / float64(m.Total)
}

// ActualTotal returns the number of rows whose actual class is i.
func (m *ConfusionMatrix) ActualTotal(i int) int {
	t := 0
	for j := range m.Counts[i] {
		t += m.Counts[i][j]
	}
	return t
}

// PredictedTotal returns the number of rows predicted as class j.
func (m *ConfusionMatrix) PredictedTotal(j int) int {
	t := 0
	for i := range m.Counts {
		t += m.Counts[i][j]
	}
	return t
}

// Sensitivity returns the true-positive rate for class i: of the rows
// actually in class i, the fraction predicted as i. Zero actual rows
// yield 0.
func (m *ConfusionMatrix) Sensitivity(i int) float64 {
	actual := m.ActualTotal(i)
	if actual == 0 {
		return 0
	}
	return float64(m.Counts[i][i]) / float64(actual)
}

// Specificity returns the true-negative rate for class i: of the rows
// not in class i, the fraction not predicted as i.
func (m *ConfusionMatrix) Specificity(i int) float64 {
	negatives := m.Total - m.ActualTotal(i)
	if negatives == 0 {
		return 0
	}
	falsePositives := m.PredictedTotal(i) - m.Counts[i][i]
	return float64(negatives-falsePositives) / float64(negatives)
}

// Precision returns the positive predictive value for class i: of the
// rows predicted as i, the fraction actually in class i. Zero
// predictions yield 0.
func (m *ConfusionMatrix) Precision(i int) float64 {
	predicted := m.PredictedTotal(i)
	if predicted == 0 {
		return 0
	}
	return float64(m.Counts[i][i]) / float64(predicted)
}
