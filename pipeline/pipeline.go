// Package pipeline wires the analysis stages into one run: load the
// raw table, filter its columns, split train/test, screen variances,
// render exploratory plots, tune and fit the forest, evaluate on the
// held-out rows, and write the markdown report.
package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/core/model"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/dataset"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/ensemble"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/metrics"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/partition"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/log"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/preprocessing"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/report"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/visualize"
)

// ReportFileName is the markdown artifact written into the output
// directory.
const ReportFileName = "report.md"

// Trainer runs the cross-validated grid search. The pipeline depends
// on this narrow interface rather than on ensemble directly so the
// orchestration can be tested without growing real forests.
type Trainer interface {
	Train(X, y mat.Matrix, cfg ensemble.CVConfig) (*ensemble.CVResult, error)
}

// TrainerFunc adapts a function to the Trainer interface.
type TrainerFunc func(X, y mat.Matrix, cfg ensemble.CVConfig) (*ensemble.CVResult, error)

// Train calls f.
func (f TrainerFunc) Train(X, y mat.Matrix, cfg ensemble.CVConfig) (*ensemble.CVResult, error) {
	return f(X, y, cfg)
}

// Pipeline executes a full report run.
type Pipeline struct {
	cfg     Config
	logger  zerolog.Logger
	trainer Trainer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTrainer replaces the default cross-validated forest trainer.
func WithTrainer(t Trainer) Option {
	return func(p *Pipeline) { p.trainer = t }
}

// New builds a Pipeline for cfg.
func New(cfg Config, logger zerolog.Logger, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:     cfg,
		logger:  logger,
		trainer: TrainerFunc(ensemble.TrainWithCV),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes every stage and returns the path of the written report.
func (p *Pipeline) Run() (string, error) {
	started := time.Now()
	rep := &report.Report{
		GeneratedAt:   started,
		DataPath:      p.cfg.DataPath,
		Seed:          p.cfg.Seed,
		TrainFraction: p.cfg.TrainFraction,
		Folds:         p.cfg.Folds,
		Repeats:       p.cfg.Repeats,
		Trees:         p.cfg.Trees,
	}

	train, test, classes, err := p.prepare(rep)
	if err != nil {
		return "", err
	}
	if err := p.explore(rep, train); err != nil {
		return "", err
	}
	result, err := p.tune(rep, train, classes)
	if err != nil {
		return "", err
	}
	if err := p.evaluate(rep, result.Model, test, classes); err != nil {
		return "", err
	}

	path := filepath.Join(p.cfg.OutDir, ReportFileName)
	if err := rep.WriteFile(path); err != nil {
		return "", stageErr("report", err)
	}

	p.logger.Info().
		Str(log.OperationKey, "run").
		Int64(log.DurationMsKey, time.Since(started).Milliseconds()).
		Str("report", path).
		Msg("analysis complete")
	return path, nil
}

// prepare loads the file, filters columns, builds the typed table and
// splits it into train and test subsets. The returned class order is
// derived from the full table and is the single label-code space for
// the rest of the run; encoding the subsets independently would shift
// codes whenever a rare class misses one side of the split.
func (p *Pipeline) prepare(rep *report.Report) (*dataset.Table, *dataset.Table, []string, error) {
	defer p.stageTimer("prepare")()

	raw, err := dataset.Load(p.cfg.DataPath)
	if err != nil {
		return nil, nil, nil, stageErr("load", err)
	}
	rep.Rows = len(raw.Records)
	rep.RawColumns = len(raw.Header)

	filter := dataset.FilterColumns(raw.Header)
	rep.Filter = filter
	for _, rule := range filter.ZeroMatchRules {
		p.logger.Warn().
			Str(log.StageKey, "filter").
			Str("rule", rule).
			Msg("drop rule matched no column; the input header may have changed")
	}
	p.logger.Info().
		Str(log.StageKey, "filter").
		Int("columns.raw", len(raw.Header)).
		Int("columns.retained", len(filter.Retained)).
		Int("columns.dropped", filter.DroppedCount()).
		Msg("columns filtered")

	tbl, err := dataset.Build(raw, filter)
	if err != nil {
		return nil, nil, nil, stageErr("build", err)
	}
	rep.Subjects = tbl.Subjects()

	codes, classes := tbl.EncodeLabels()
	rep.Classes = classes

	split, err := partition.StratifiedSplit(codes, p.cfg.TrainFraction, p.cfg.Seed)
	if err != nil {
		return nil, nil, nil, stageErr("split", err)
	}
	train, err := tbl.Select(split.TrainIndices)
	if err != nil {
		return nil, nil, nil, stageErr("split", err)
	}
	test, err := tbl.Select(split.TestIndices)
	if err != nil {
		return nil, nil, nil, stageErr("split", err)
	}
	rep.TrainRows = train.NumRows()
	rep.TestRows = test.NumRows()

	p.logger.Info().
		Str(log.StageKey, "split").
		Int(log.SamplesKey, tbl.NumRows()).
		Int(log.FeaturesKey, tbl.NumFeatures()).
		Int("rows.train", train.NumRows()).
		Int("rows.test", test.NumRows()).
		Msg("stratified split done")
	return train, test, classes, nil
}

// explore runs the variance screen and renders the scatter plots, both
// on training rows only.
func (p *Pipeline) explore(rep *report.Report, train *dataset.Table) error {
	defer p.stageTimer("explore")()

	screens, err := preprocessing.NearZeroVariance(train.X, train.Features)
	if err != nil {
		return stageErr("variance screen", err)
	}
	rep.Screen = screens
	if n := preprocessing.NearZeroCount(screens); n > 0 {
		p.logger.Warn().
			Str(log.StageKey, "screen").
			Int("columns.flagged", n).
			Msg("near-zero-variance columns present (reported, not dropped)")
	}

	r := &visualize.Renderer{OutDir: p.cfg.OutDir}
	for i, pair := range p.cfg.PlotPairs {
		file := fmt.Sprintf("scatter_%02d_%s_%s.png", i+1, pair.X, pair.Y)
		path, err := r.ClassScatter(train, pair.X, pair.Y, p.cfg.Seed, file)
		if err != nil {
			return stageErr("plots", err)
		}
		rep.Plots = append(rep.Plots, path)

		file = fmt.Sprintf("scatter_%02d_%s_%s_by_subject.png", i+1, pair.X, pair.Y)
		path, err = r.SubjectScatter(train, pair.X, pair.Y, p.cfg.Seed, file)
		if err != nil {
			return stageErr("plots", err)
		}
		rep.Plots = append(rep.Plots, path)
	}
	return nil
}

// tune runs the cross-validated grid search on the training rows.
func (p *Pipeline) tune(rep *report.Report, train *dataset.Table, classes []string) (*ensemble.CVResult, error) {
	defer p.stageTimer("tune")()

	X, y, err := designMatrices(train, classes)
	if err != nil {
		return nil, stageErr("cross-validation", err)
	}
	result, err := p.trainer.Train(X, y, ensemble.CVConfig{
		Folds:      p.cfg.Folds,
		Repeats:    p.cfg.Repeats,
		Seed:       p.cfg.Seed,
		Workers:    p.cfg.Workers,
		Trees:      p.cfg.Trees,
		LeafSize:   p.cfg.LeafSize,
		Candidates: clampGrid(p.cfg.Grid, train.NumFeatures()),
	})
	if err != nil {
		return nil, stageErr("cross-validation", err)
	}
	rep.CV = result

	best := result.Best()
	p.logger.Info().
		Str(log.StageKey, "tune").
		Str(log.ModelNameKey, "RandomForestClassifier").
		Int("max_features", best.MaxFeatures).
		Float64(log.AccuracyKey, best.MeanAccuracy()).
		Msg("grid search done")
	return result, nil
}

// evaluate scores the fitted model once on the held-out test rows.
// classes is the full table's class order; the model predicts codes in
// that space, so the test labels must be encoded in it too, even when
// a rare class has no test rows.
func (p *Pipeline) evaluate(rep *report.Report, clf model.Classifier, test *dataset.Table, classes []string) error {
	defer p.stageTimer("evaluate")()

	X := test.X
	codes, err := test.EncodeLabelsIn(classes)
	if err != nil {
		return stageErr("evaluate", err)
	}

	pred, err := clf.Predict(X)
	if err != nil {
		return stageErr("predict", err)
	}
	predCodes := make([]int, len(codes))
	for i := range predCodes {
		predCodes[i] = int(pred.At(i, 0))
	}

	cm, err := metrics.NewConfusionMatrix(codes, predCodes, classes)
	if err != nil {
		return stageErr("confusion matrix", err)
	}
	rep.Confusion = cm

	proba, err := clf.PredictProba(X)
	if err != nil {
		return stageErr("predict probabilities", err)
	}

	var curves []visualize.ClassCurve
	for k, class := range classes {
		auc, err := metrics.OneVsRestAUC(codes, proba, k)
		if err != nil {
			return stageErr("auc", err)
		}
		rep.AUC = append(rep.AUC, report.ClassAUC{Class: class, AUC: auc})

		// A class with no test rows has an undefined curve (the AUC
		// above already warned and defaulted); skip its plot line.
		if cm.ActualTotal(k) == 0 {
			p.logger.Warn().
				Str(log.StageKey, "evaluate").
				Str("class", class).
				Msg("class has no test rows; ROC curve omitted")
			continue
		}
		points, err := rocPoints(codes, proba, k)
		if err != nil {
			return stageErr("roc curve", err)
		}
		curves = append(curves, visualize.ClassCurve{Class: class, Points: points, AUC: auc})
	}

	r := &visualize.Renderer{OutDir: p.cfg.OutDir}
	rocPath, err := r.ROCCurves(curves, "roc.png")
	if err != nil {
		return stageErr("roc plot", err)
	}
	rep.Plots = append(rep.Plots, rocPath)

	if ranked, ok := clf.(interface{ FeatureImportances() ([]float64, error) }); ok {
		imp, err := ranked.FeatureImportances()
		if err != nil {
			return stageErr("feature importances", err)
		}
		for j, w := range imp {
			rep.Importance = append(rep.Importance, report.FeatureWeight{Name: test.Features[j], Weight: w})
		}
	}

	p.logger.Info().
		Str(log.StageKey, "evaluate").
		Int(log.SamplesKey, cm.Total).
		Float64(log.AccuracyKey, cm.Accuracy()).
		Msg("test-set evaluation done")
	return nil
}

// stageTimer logs the elapsed time of a stage when the returned
// function runs.
func (p *Pipeline) stageTimer(stage string) func() {
	start := time.Now()
	return func() {
		p.logger.Debug().
			Str(log.StageKey, stage).
			Int64(log.DurationMsKey, time.Since(start).Milliseconds()).
			Msg("stage finished")
	}
}

func stageErr(stage string, err error) error {
	return errors.Wrapf(err, "stage %s", stage)
}

// designMatrices returns the feature block and the label codes as a
// column matrix, encoded in the given class order.
func designMatrices(tbl *dataset.Table, classes []string) (*mat.Dense, *mat.Dense, error) {
	codes, err := tbl.EncodeLabelsIn(classes)
	if err != nil {
		return nil, nil, err
	}
	y := mat.NewDense(len(codes), 1, nil)
	for i, c := range codes {
		y.Set(i, 0, float64(c))
	}
	return tbl.X, y, nil
}

// clampGrid drops candidate sizes exceeding the actual feature count
// and deduplicates what remains, preserving order.
func clampGrid(grid []int, nFeatures int) []int {
	seen := make(map[int]struct{}, len(grid))
	var out []int
	for _, g := range grid {
		if g > nFeatures {
			g = nFeatures
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}

// rocPoints builds the one-vs-rest ROC curve inputs for one class.
func rocPoints(codes []int, proba mat.Matrix, class int) ([]metrics.ROCPoint, error) {
	r, _ := proba.Dims()
	binary := mat.NewVecDense(r, nil)
	scores := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		if codes[i] == class {
			binary.SetVec(i, 1)
		}
		scores.SetVec(i, proba.At(i, class))
	}
	return metrics.ROCCurve(binary, scores)
}
