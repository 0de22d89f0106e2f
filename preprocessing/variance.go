// Package preprocessing holds the diagnostic screens run on the
// feature block before training. The near-zero-variance screen flags
// columns whose value distribution is too degenerate to carry signal;
// in this pipeline the result is reported, not acted on.
package preprocessing

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// Thresholds for flagging a column as near-zero-variance: the ratio of
// the most common value's count to the second most common value's
// count, and the percentage of distinct values relative to the row
// count.
const (
	FreqRatioThreshold     = 95.0 / 19.0
	PercentUniqueThreshold = 10.0
)

// VarianceScreen is the per-column diagnostic.
type VarianceScreen struct {
	Name          string
	Variance      float64
	FreqRatio     float64
	PercentUnique float64
	ZeroVariance  bool
	NearZero      bool
}

// NearZeroVariance screens every column of X. names must have one
// entry per column.
func NearZeroVariance(X mat.Matrix, names []string) ([]VarianceScreen, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NearZeroVariance")
	}
	if len(names) != c {
		return nil, errors.NewDimensionError("NearZeroVariance", c, len(names), 1)
	}

	screens := make([]VarianceScreen, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		screens[j] = screenColumn(names[j], col)
	}
	return screens, nil
}

// NearZeroCount returns the number of flagged columns.
func NearZeroCount(screens []VarianceScreen) int {
	n := 0
	for _, s := range screens {
		if s.NearZero {
			n++
		}
	}
	return n
}

func screenColumn(name string, col []float64) VarianceScreen {
	counts := make(map[float64]int, len(col))
	for _, v := range col {
		counts[v]++
	}

	// Top two value frequencies.
	freqs := make([]int, 0, len(counts))
	for _, n := range counts {
		freqs = append(freqs, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(freqs)))

	s := VarianceScreen{
		Name:          name,
		Variance:      stat.Variance(col, nil),
		PercentUnique: 100 * float64(len(counts)) / float64(len(col)),
	}

	if len(freqs) == 1 {
		// A single distinct value: zero variance, ratio undefined.
		s.ZeroVariance = true
		s.NearZero = true
		return s
	}

	s.FreqRatio = float64(freqs[0]) / float64(freqs[1])
	s.NearZero = s.FreqRatio >= FreqRatioThreshold && s.PercentUnique <= PercentUniqueThreshold
	return s
}
