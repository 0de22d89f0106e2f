package ensemble

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/core/model"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/core/parallel"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/metrics"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/partition"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// CVConfig configures the cross-validated grid search. Candidates
// holds the per-split feature counts to try; the best mean accuracy
// wins.
type CVConfig struct {
	Folds      int
	Repeats    int
	Seed       uint64
	Workers    int
	Trees      int
	LeafSize   int
	Candidates []int
}

// CandidateScore is the cross-validation outcome for one candidate
// feature-subset size.
type CandidateScore struct {
	MaxFeatures    int
	FoldAccuracies []float64
}

// MeanAccuracy returns the mean fold accuracy.
func (s *CandidateScore) MeanAccuracy() float64 {
	return stat.Mean(s.FoldAccuracies, nil)
}

// StdAccuracy returns the standard deviation of the fold accuracies.
func (s *CandidateScore) StdAccuracy() float64 {
	if len(s.FoldAccuracies) < 2 {
		return 0
	}
	return stat.StdDev(s.FoldAccuracies, nil)
}

// CVResult is the outcome of TrainWithCV: every candidate's fold
// accuracies, the index of the winner, and the final model refit on
// the full training input with the winning configuration.
type CVResult struct {
	Candidates []CandidateScore
	BestIndex  int
	Model      model.Classifier
}

// Best returns the winning candidate's score.
func (r *CVResult) Best() *CandidateScore {
	return &r.Candidates[r.BestIndex]
}

// TrainWithCV runs the grid search. Every candidate is scored on the
// same repeated stratified folds (derived from cfg.Seed); folds are
// evaluated concurrently on at most cfg.Workers goroutines. The final
// model is refit on all of X, y.
func TrainWithCV(X, y mat.Matrix, cfg CVConfig) (*CVResult, error) {
	if len(cfg.Candidates) == 0 {
		return nil, errors.NewValidationError("candidates", "grid must not be empty", cfg.Candidates)
	}
	nSamples, _ := X.Dims()
	yRows, yCols := y.Dims()
	if yRows != nSamples || yCols != 1 {
		return nil, errors.NewDimensionError("TrainWithCV", nSamples, yRows, 0)
	}

	codes := make([]int, nSamples)
	for i := 0; i < nSamples; i++ {
		codes[i] = int(y.At(i, 0))
	}

	splitter := partition.NewRepeatedStratifiedKFold(cfg.Folds, cfg.Repeats, cfg.Seed)
	folds := splitter.Split(codes)

	result := &CVResult{}
	for _, mf := range cfg.Candidates {
		score, err := scoreCandidate(X, y, folds, mf, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "candidate max_features=%d", mf)
		}
		result.Candidates = append(result.Candidates, *score)
	}

	for i := range result.Candidates {
		if result.Candidates[i].MeanAccuracy() > result.Candidates[result.BestIndex].MeanAccuracy() {
			result.BestIndex = i
		}
	}

	final := NewRandomForestClassifier(
		WithNEstimators(cfg.Trees),
		WithMaxFeatures(result.Best().MaxFeatures),
		WithLeafSize(cfg.LeafSize),
	)
	if err := final.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "refit with best candidate")
	}
	result.Model = final
	return result, nil
}

// scoreCandidate fits and scores one grid candidate on every fold.
// Folds run concurrently; each goroutine owns a disjoint slice range
// of the results, so no locking is needed.
func scoreCandidate(X, y mat.Matrix, folds []partition.Fold, maxFeatures int, cfg CVConfig) (*CandidateScore, error) {
	accs := make([]float64, len(folds))
	errs := make([]error, len(folds))

	parallel.ParallelizeWorkers(len(folds), cfg.Workers, func(start, end int) {
		for f := start; f < end; f++ {
			accs[f], errs[f] = scoreFold(X, y, folds[f], maxFeatures, cfg)
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &CandidateScore{MaxFeatures: maxFeatures, FoldAccuracies: accs}, nil
}

func scoreFold(X, y mat.Matrix, fold partition.Fold, maxFeatures int, cfg CVConfig) (float64, error) {
	trainX, trainY := subset(X, y, fold.TrainIndices)
	testX, testY := subset(X, y, fold.TestIndices)

	clf := NewRandomForestClassifier(
		WithNEstimators(cfg.Trees),
		WithMaxFeatures(maxFeatures),
		WithLeafSize(cfg.LeafSize),
	)
	if err := clf.Fit(trainX, trainY); err != nil {
		return 0, err
	}
	pred, err := clf.Predict(testX)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(testY, pred)
}

func subset(X, y mat.Matrix, rows []int) (*mat.Dense, *mat.Dense) {
	_, p := X.Dims()
	subX := mat.NewDense(len(rows), p, nil)
	subY := mat.NewDense(len(rows), 1, nil)
	for i, r := range rows {
		subX.SetRow(i, mat.Row(nil, r, X))
		subY.Set(i, 0, y.At(r, 0))
	}
	return subX, subY
}
