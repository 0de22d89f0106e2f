package visualize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/dataset"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/metrics"
)

func testTable() *dataset.Table {
	return &dataset.Table{
		Features: []string{"roll_belt", "pitch_belt"},
		X: mat.NewDense(6, 2, []float64{
			1.1, 8.0,
			1.2, 8.1,
			5.0, 3.0,
			5.1, 3.2,
			9.0, -2.0,
			9.2, -2.1,
		}),
		Subject: []string{"pedro", "pedro", "carlitos", "carlitos", "pedro", "carlitos"},
		Label:   []string{"A", "A", "B", "B", "C", "C"},
	}
}

func TestClassScatter(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir()}

	path, err := r.ClassScatter(testTable(), "roll_belt", "pitch_belt", 134, "scatter.png")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, "scatter.png", filepath.Base(path))
}

func TestSubjectScatter(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir()}

	path, err := r.SubjectScatter(testTable(), "roll_belt", "pitch_belt", 134, "by_subject.png")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestClassScatterUnknownColumn(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir()}

	_, err := r.ClassScatter(testTable(), "no_such_column", "pitch_belt", 134, "scatter.png")
	assert.Error(t, err)
}

func TestROCCurves(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir()}

	curves := []ClassCurve{
		{
			Class: "A",
			AUC:   1.0,
			Points: []metrics.ROCPoint{
				{FPR: 0, TPR: 0}, {FPR: 0, TPR: 1}, {FPR: 1, TPR: 1},
			},
		},
		{
			Class: "B",
			AUC:   0.5,
			Points: []metrics.ROCPoint{
				{FPR: 0, TPR: 0}, {FPR: 0.5, TPR: 0.5}, {FPR: 1, TPR: 1},
			},
		},
	}

	path, err := r.ROCCurves(curves, "roc.png")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestROCCurvesEmpty(t *testing.T) {
	r := &Renderer{OutDir: t.TempDir()}
	_, err := r.ROCCurves(nil, "roc.png")
	assert.Error(t, err)
}
