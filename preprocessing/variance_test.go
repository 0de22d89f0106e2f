package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNearZeroVariance(t *testing.T) {
	const n = 200
	// Column 0: constant. Column 1: one rare value in a sea of a
	// common one. Column 2: well spread.
	data := make([]float64, n*3)
	for i := 0; i < n; i++ {
		data[i*3+0] = 1.0
		if i < 2 {
			data[i*3+1] = 5.0
		} else {
			data[i*3+1] = 0.0
		}
		data[i*3+2] = float64(i) * 0.37
	}
	X := mat.NewDense(n, 3, data)

	screens, err := NearZeroVariance(X, []string{"constant", "degenerate", "spread"})
	require.NoError(t, err)
	require.Len(t, screens, 3)

	assert.True(t, screens[0].ZeroVariance)
	assert.True(t, screens[0].NearZero)
	assert.Zero(t, screens[0].Variance)

	assert.False(t, screens[1].ZeroVariance)
	assert.True(t, screens[1].NearZero, "198:2 ratio with 1%% unique values should be flagged")
	assert.InDelta(t, 99.0, screens[1].FreqRatio, 1e-9)

	assert.False(t, screens[2].NearZero)
	assert.InDelta(t, 100.0, screens[2].PercentUnique, 1e-9)

	assert.Equal(t, 2, NearZeroCount(screens))
}

func TestNearZeroVarianceBalancedColumnNotFlagged(t *testing.T) {
	// Two values in even proportions: low unique percentage but a
	// frequency ratio of 1.
	data := make([]float64, 100)
	for i := range data {
		data[i] = float64(i % 2)
	}
	X := mat.NewDense(100, 1, data)

	screens, err := NearZeroVariance(X, []string{"binary"})
	require.NoError(t, err)
	assert.False(t, screens[0].NearZero)
	assert.InDelta(t, 1.0, screens[0].FreqRatio, 1e-9)
}

func TestNearZeroVarianceValidation(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := NearZeroVariance(X, []string{"only_one_name"})
	assert.Error(t, err)

	_, err = NearZeroVariance(&mat.Dense{}, nil)
	assert.Error(t, err)
}
