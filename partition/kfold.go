package partition

import (
	"math/rand/v2"
)

// Fold is one cross-validation fold: the rows to fit on and the
// held-out rows to score on.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// RepeatedStratifiedKFold generates NSplits stratified folds, NRepeats
// times with different shufflings. Each repeat derives its generator
// from the base seed, so the full fold sequence is reproducible.
type RepeatedStratifiedKFold struct {
	NSplits  int
	NRepeats int
	Seed     uint64
}

// NewRepeatedStratifiedKFold creates a splitter. Fewer than 2 splits
// or 1 repeat are raised to the minimum.
func NewRepeatedStratifiedKFold(nSplits, nRepeats int, seed uint64) *RepeatedStratifiedKFold {
	if nSplits < 2 {
		nSplits = 2
	}
	if nRepeats < 1 {
		nRepeats = 1
	}
	return &RepeatedStratifiedKFold{NSplits: nSplits, NRepeats: nRepeats, Seed: seed}
}

// NumFolds returns the total number of folds produced by Split.
func (rs *RepeatedStratifiedKFold) NumFolds() int {
	return rs.NSplits * rs.NRepeats
}

// Split generates the folds for class codes y. Within each repeat the
// test sets are disjoint and cover all rows; each class is spread
// round-robin across folds so class proportions are preserved.
func (rs *RepeatedStratifiedKFold) Split(y []int) []Fold {
	n := len(y)
	groups := groupByClass(y)
	classes := sortedClasses(groups)

	folds := make([]Fold, 0, rs.NumFolds())
	for rep := 0; rep < rs.NRepeats; rep++ {
		testSets := make([][]int, rs.NSplits)

		for ci, c := range classes {
			idx := groups[c]
			r := rand.New(rand.NewPCG(rs.Seed+uint64(rep), uint64(ci)))
			shuffled := make([]int, len(idx))
			copy(shuffled, idx)
			r.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			// Offset the round-robin start by class so remainder rows
			// land on different folds instead of all piling onto fold 0.
			for j, row := range shuffled {
				f := (j + ci) % rs.NSplits
				testSets[f] = append(testSets[f], row)
			}
		}

		for f := 0; f < rs.NSplits; f++ {
			inTest := make([]bool, n)
			for _, row := range testSets[f] {
				inTest[row] = true
			}
			train := make([]int, 0, n-len(testSets[f]))
			for row := 0; row < n; row++ {
				if !inTest[row] {
					train = append(train, row)
				}
			}
			test := make([]int, len(testSets[f]))
			copy(test, testSets[f])
			folds = append(folds, Fold{TrainIndices: train, TestIndices: test})
		}
	}
	return folds
}
