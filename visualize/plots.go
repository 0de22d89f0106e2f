// Package visualize renders the exploratory and diagnostic plots of
// the analysis as PNG files: jittered scatter plots of sensor columns
// colored by outcome class, and the per-class ROC curves of the final
// model.
package visualize

import (
	"math/rand/v2"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/dataset"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/metrics"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

// Renderer writes plot files into OutDir, creating it on first use.
type Renderer struct {
	OutDir string
}

// jitterFraction scales the uniform noise added to scatter points,
// relative to each axis range. Enough to unstack identical sensor
// readings without distorting the clusters.
const jitterFraction = 0.01

// ClassScatter renders a scatter plot of two feature columns with one
// color per outcome class and a little seeded jitter. It returns the
// written file path.
func (r *Renderer) ClassScatter(tbl *dataset.Table, xName, yName string, seed uint64, file string) (string, error) {
	return r.groupedScatter(tbl, xName, yName, tbl.Label, tbl.Classes(), "outcome class", seed, file)
}

// SubjectScatter is ClassScatter grouped by participant instead of
// outcome, showing how much of a column's spread is between-subject.
func (r *Renderer) SubjectScatter(tbl *dataset.Table, xName, yName string, seed uint64, file string) (string, error) {
	return r.groupedScatter(tbl, xName, yName, tbl.Subject, tbl.Subjects(), "subject", seed, file)
}

func (r *Renderer) groupedScatter(tbl *dataset.Table, xName, yName string, rowGroup, groups []string, groupLabel string, seed uint64, file string) (string, error) {
	xs, err := tbl.Column(xName)
	if err != nil {
		return "", err
	}
	ys, err := tbl.Column(yName)
	if err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = xName + " vs " + yName + " by " + groupLabel
	p.X.Label.Text = xName
	p.Y.Label.Text = yName

	jx := jitterFraction * valueRange(xs)
	jy := jitterFraction * valueRange(ys)
	rng := rand.New(rand.NewPCG(seed, 0))

	for i, group := range groups {
		pts := make(plotter.XYs, 0)
		for row, g := range rowGroup {
			if g != group {
				continue
			}
			pts = append(pts, plotter.XY{
				X: xs[row] + jx*(rng.Float64()*2-1),
				Y: ys[row] + jy*(rng.Float64()*2-1),
			})
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return "", errors.Wrapf(err, "scatter for %s %q", groupLabel, group)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
		p.Legend.Add(group, sc)
	}

	return r.save(p, file)
}

// ClassCurve is one class's ROC curve.
type ClassCurve struct {
	Class  string
	Points []metrics.ROCPoint
	AUC    float64
}

// ROCCurves renders the one-vs-rest ROC curves of every class on a
// single plot, with the chance diagonal for reference. It returns the
// written file path.
func (r *Renderer) ROCCurves(curves []ClassCurve, file string) (string, error) {
	if len(curves) == 0 {
		return "", errors.Wrap(errors.ErrEmptyData, "ROCCurves")
	}

	p := plot.New()
	p.Title.Text = "One-vs-rest ROC curves"
	p.X.Label.Text = "False positive rate"
	p.Y.Label.Text = "True positive rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1

	for i, curve := range curves {
		pts := make(plotter.XYs, len(curve.Points))
		for j, pt := range curve.Points {
			pts[j] = plotter.XY{X: pt.FPR, Y: pt.TPR}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", errors.Wrapf(err, "roc line for class %q", curve.Class)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(curve.Class, line)
	}

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return "", errors.Wrap(err, "chance diagonal")
	}
	diag.Dashes = plotutil.Dashes(1)
	p.Add(diag)

	return r.save(p, file)
}

func (r *Renderer) save(p *plot.Plot, file string) (string, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "create output dir %q", r.OutDir)
	}
	path := filepath.Join(r.OutDir, file)
	if err := p.Save(7*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "render plot %q", path)
	}
	return path, nil
}

func valueRange(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	min, max := vs[0], vs[0]
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}
