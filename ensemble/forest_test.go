package ensemble

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// separableData builds an easily separable three-class problem: each
// class occupies its own region of a two-feature space, with a little
// noise.
func separableData(n int) (*mat.Dense, *mat.Dense) {
	r := rand.New(rand.NewPCG(1, 2))
	X := mat.NewDense(n, 2, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		c := i % 3
		X.Set(i, 0, float64(c)*10+r.Float64())
		X.Set(i, 1, float64(c)*-5+r.Float64())
		y.Set(i, 0, float64(c))
	}
	return X, y
}

func TestRandomForestClassifierFitPredict(t *testing.T) {
	X, y := separableData(300)

	clf := NewRandomForestClassifier(WithNEstimators(50))
	require.NoError(t, clf.Fit(X, y))
	assert.True(t, clf.IsFitted())
	assert.Equal(t, []int{0, 1, 2}, clf.ClassIDs())

	pred, err := clf.Predict(X)
	require.NoError(t, err)

	r, c := pred.Dims()
	assert.Equal(t, 300, r)
	assert.Equal(t, 1, c)

	correct := 0
	for i := 0; i < r; i++ {
		if pred.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}
	assert.Greater(t, float64(correct)/float64(r), 0.95, "well-separated classes should be learned")
}

func TestRandomForestClassifierPredictProba(t *testing.T) {
	X, y := separableData(150)

	clf := NewRandomForestClassifier(WithNEstimators(50))
	require.NoError(t, clf.Fit(X, y))

	proba, err := clf.PredictProba(X)
	require.NoError(t, err)

	r, c := proba.Dims()
	require.Equal(t, 150, r)
	require.Equal(t, 3, c)

	for i := 0; i < r; i++ {
		rowSum := 0.0
		for j := 0; j < c; j++ {
			p := proba.At(i, j)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			rowSum += p
		}
		assert.InDelta(t, 1.0, rowSum, 1e-9, "row %d should sum to 1", i)
	}
}

func TestRandomForestClassifierNotFitted(t *testing.T) {
	clf := NewRandomForestClassifier()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := clf.Predict(X)
	require.Error(t, err)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	_, err = clf.PredictProba(X)
	assert.Error(t, err)

	_, err = clf.FeatureImportances()
	assert.Error(t, err)
}

func TestRandomForestClassifierFitValidation(t *testing.T) {
	X, y := separableData(30)

	tests := []struct {
		name string
		clf  *RandomForestClassifier
		x    mat.Matrix
		y    mat.Matrix
	}{
		{
			name: "row mismatch",
			clf:  NewRandomForestClassifier(),
			x:    X,
			y:    mat.NewDense(10, 1, nil),
		},
		{
			name: "y not a column",
			clf:  NewRandomForestClassifier(),
			x:    X,
			y:    mat.NewDense(30, 2, nil),
		},
		{
			name: "zero trees",
			clf:  NewRandomForestClassifier(WithNEstimators(0)),
			x:    X,
			y:    y,
		},
		{
			name: "max features above feature count",
			clf:  NewRandomForestClassifier(WithMaxFeatures(5)),
			x:    X,
			y:    y,
		},
		{
			name: "single class",
			clf:  NewRandomForestClassifier(),
			x:    X,
			y:    mat.NewDense(30, 1, nil),
		},
		{
			name: "fractional class code",
			clf:  NewRandomForestClassifier(),
			x:    mat.NewDense(2, 1, []float64{1, 2}),
			y:    mat.NewDense(2, 1, []float64{0.5, 1}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.clf.Fit(tt.x, tt.y))
		})
	}
}

func TestRandomForestClassifierPredictDimensionCheck(t *testing.T) {
	X, y := separableData(60)
	clf := NewRandomForestClassifier(WithNEstimators(20))
	require.NoError(t, clf.Fit(X, y))

	_, err := clf.Predict(mat.NewDense(3, 5, nil))
	require.Error(t, err)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))
}

func TestRandomForestClassifierFeatureImportances(t *testing.T) {
	X, y := separableData(200)
	clf := NewRandomForestClassifier(WithNEstimators(50))
	require.NoError(t, clf.Fit(X, y))

	imp, err := clf.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, imp, 2)
	for i, v := range imp {
		assert.False(t, math.IsNaN(v), "importance %d is NaN", i)
	}
}
