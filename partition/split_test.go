package partition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticLabels builds a label vector with the given count per class.
func syntheticLabels(counts []int) []int {
	var y []int
	for c, n := range counts {
		for i := 0; i < n; i++ {
			y = append(y, c)
		}
	}
	return y
}

func TestStratifiedSplitPartitionExactness(t *testing.T) {
	y := syntheticLabels([]int{500, 300, 200, 150, 100})

	split, err := StratifiedSplit(y, 0.6, 134)
	require.NoError(t, err)

	seen := make(map[int]int)
	for _, i := range split.TrainIndices {
		seen[i]++
	}
	for _, i := range split.TestIndices {
		seen[i]++
	}

	require.Len(t, seen, len(y), "every row must appear")
	for i, count := range seen {
		require.Equal(t, 1, count, "row %d assigned %d times", i, count)
	}
}

func TestStratifiedSplitProportions(t *testing.T) {
	counts := []int{5580, 3797, 3422, 3216, 3607} // class sizes of the canonical 19,622-row table
	y := syntheticLabels(counts)
	require.Len(t, y, 19622)

	split, err := StratifiedSplit(y, 0.6, 134)
	require.NoError(t, err)

	// Global counts are within one rounding step per class.
	assert.InDelta(t, 11773, len(split.TrainIndices), float64(len(counts)))
	assert.InDelta(t, 7849, len(split.TestIndices), float64(len(counts)))

	// Per-class train fraction stays within 1% of the requested one.
	trainByClass := make(map[int]int)
	for _, i := range split.TrainIndices {
		trainByClass[y[i]]++
	}
	for c, total := range counts {
		frac := float64(trainByClass[c]) / float64(total)
		assert.LessOrEqual(t, math.Abs(frac-0.6), 0.01, "class %d train fraction %f", c, frac)
	}
}

func TestStratifiedSplitDeterministic(t *testing.T) {
	y := syntheticLabels([]int{120, 80, 60})

	first, err := StratifiedSplit(y, 0.6, 134)
	require.NoError(t, err)
	second, err := StratifiedSplit(y, 0.6, 134)
	require.NoError(t, err)

	assert.Equal(t, first.TrainIndices, second.TrainIndices)
	assert.Equal(t, first.TestIndices, second.TestIndices)

	other, err := StratifiedSplit(y, 0.6, 135)
	require.NoError(t, err)
	assert.NotEqual(t, first.TrainIndices, other.TrainIndices, "a different seed should move rows")
}

func TestStratifiedSplitValidation(t *testing.T) {
	tests := []struct {
		name string
		y    []int
		frac float64
	}{
		{name: "empty labels", y: nil, frac: 0.6},
		{name: "fraction zero", y: []int{0, 1}, frac: 0},
		{name: "fraction one", y: []int{0, 1}, frac: 1},
		{name: "fraction above one", y: []int{0, 1}, frac: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := StratifiedSplit(tt.y, tt.frac, 134)
			assert.Error(t, err)
		})
	}
}
