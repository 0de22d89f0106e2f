// Package partition implements the deterministic row-partitioning
// steps: the stratified train/test split and the repeated stratified
// k-fold splitter backing cross-validation. All randomness is PCG
// seeded from an explicit configuration value; the same seed and input
// ordering always produce the same assignment.
package partition

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// Split holds a train/test partition as row indices into the source
// table. The two slices are disjoint and together cover every row
// exactly once.
type Split struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedSplit partitions rows into train and test subsets so that
// each class contributes trainFrac of its rows (round half up) to the
// training set. y holds the class code of each row.
func StratifiedSplit(y []int, trainFrac float64, seed uint64) (*Split, error) {
	if len(y) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "StratifiedSplit")
	}
	if trainFrac <= 0 || trainFrac >= 1 {
		return nil, errors.NewValidationError("trainFrac", "must be in (0, 1)", trainFrac)
	}

	groups := groupByClass(y)
	classes := sortedClasses(groups)

	split := &Split{}
	for i, c := range classes {
		idx := groups[c]
		// Each class gets its own generator stream so adding or
		// removing one class does not reshuffle the others.
		r := rand.New(rand.NewPCG(seed, uint64(i)))
		shuffled := make([]int, len(idx))
		copy(shuffled, idx)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		nTrain := int(math.Round(trainFrac * float64(len(shuffled))))
		split.TrainIndices = append(split.TrainIndices, shuffled[:nTrain]...)
		split.TestIndices = append(split.TestIndices, shuffled[nTrain:]...)
	}

	sort.Ints(split.TrainIndices)
	sort.Ints(split.TestIndices)
	return split, nil
}

func groupByClass(y []int) map[int][]int {
	groups := make(map[int][]int)
	for i, c := range y {
		groups[c] = append(groups[c], i)
	}
	return groups
}

func sortedClasses(groups map[int][]int) []int {
	classes := make([]int, 0, len(groups))
	for c := range groups {
		classes = append(classes, c)
	}
	sort.Ints(classes)
	return classes
}
