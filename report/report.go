// Package report renders the analysis outcome as a static markdown
// document: narrative, the column-filter report, partition summary,
// variance screen, cross-validation summary, confusion matrix,
// per-class statistics, AUC table, and links to the rendered plots.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/dataset"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/ensemble"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/metrics"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/preprocessing"
)

// ClassAUC pairs an outcome class with its one-vs-rest AUC.
type ClassAUC struct {
	Class string
	AUC   float64
}

// FeatureWeight pairs a feature with its importance in the final model.
type FeatureWeight struct {
	Name   string
	Weight float64
}

// Report collects everything the rendered document shows.
type Report struct {
	GeneratedAt time.Time
	DataPath    string

	Rows       int
	RawColumns int
	Subjects   []string
	Classes    []string

	Filter *dataset.FilterReport

	Seed          uint64
	TrainFraction float64
	TrainRows     int
	TestRows      int

	Screen []preprocessing.VarianceScreen

	Folds   int
	Repeats int
	Trees   int
	CV      *ensemble.CVResult

	Confusion  *metrics.ConfusionMatrix
	AUC        []ClassAUC
	Importance []FeatureWeight

	Plots []string
}

var tmpl = template.Must(template.New("report").Parse(`# Qualitative activity recognition of weight lifting exercises

Generated: {{ .GeneratedAt.Format "2006-01-02 15:04:05 MST" }}

## Data

Source file: ` + "`{{ .DataPath }}`" + ` with {{ .Rows }} observations of
{{ .RawColumns }} variables, from {{ len .Subjects }} participants
({{ .SubjectList }}). The outcome ` + "`classe`" + ` takes {{ len .Classes }}
values ({{ .ClassList }}): class A is the exercise performed correctly,
the remaining classes are four common mistakes.

{{ .FilterSection }}
## Partitioning

Rows were split into a {{ .TrainPercent }}% training set and a
{{ .TestPercent }}% test set, stratified by ` + "`classe`" + ` with random
seed {{ .Seed }}: {{ .TrainRows }} training rows, {{ .TestRows }} test
rows. All model selection below uses the training rows only; the test
rows are touched exactly once, by the final fitted model.

{{ .ScreenSection }}
{{ .CVSection }}
{{ .EvaluationSection }}
{{ .ImportanceSection }}
{{ .PlotsSection }}`))

// Render writes the markdown document to w.
func (r *Report) Render(w io.Writer) error {
	if err := tmpl.Execute(w, r); err != nil {
		return errors.Wrap(err, "render report")
	}
	return nil
}

// WriteFile renders the document into path, creating parent
// directories as needed.
func (r *Report) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create report dir for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create report %q", path)
	}
	defer func() { _ = f.Close() }()
	return r.Render(f)
}

// Template accessors. These keep formatting decisions out of the
// template body.

// SubjectList returns the subjects joined for prose.
func (r *Report) SubjectList() string { return strings.Join(r.Subjects, ", ") }

// ClassList returns the classes joined for prose.
func (r *Report) ClassList() string { return strings.Join(r.Classes, ", ") }

// TrainPercent returns the training fraction as a percentage.
func (r *Report) TrainPercent() int { return int(r.TrainFraction*100 + 0.5) }

// TestPercent returns the test fraction as a percentage.
func (r *Report) TestPercent() int { return 100 - r.TrainPercent() }

// FilterSection renders the column-filter outcome.
func (r *Report) FilterSection() string {
	var b strings.Builder
	b.WriteString("## Column filtering\n\n")
	fmt.Fprintf(&b, "Of the %d raw columns, %d were dropped as window summary\n", r.RawColumns, r.Filter.DroppedCount())
	fmt.Fprintf(&b, "statistics, timestamps, or bookkeeping; %d remain (%d numeric\n", len(r.Filter.Retained), len(r.Filter.NumericColumns()))
	b.WriteString("predictors plus the subject and outcome columns).\n\n")

	b.WriteString("| Rule | Dropped columns |\n|---|---|\n")
	rules := make([]string, 0, len(r.Filter.Dropped))
	for rule := range r.Filter.Dropped {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	for _, rule := range rules {
		fmt.Fprintf(&b, "| `%s` | %d |\n", rule, len(r.Filter.Dropped[rule]))
	}
	if len(r.Filter.ZeroMatchRules) > 0 {
		fmt.Fprintf(&b, "\nRules matching no column: `%s`. A non-empty list here\nusually means the input header changed shape.\n", strings.Join(r.Filter.ZeroMatchRules, "`, `"))
	}
	return b.String()
}

// ScreenSection renders the near-zero-variance diagnostic.
func (r *Report) ScreenSection() string {
	var b strings.Builder
	b.WriteString("## Near-zero-variance screen\n\n")

	flagged := preprocessing.NearZeroCount(r.Screen)
	if flagged == 0 {
		fmt.Fprintf(&b, "None of the %d retained predictors is near zero variance;\nall are kept.\n", len(r.Screen))
		return b.String()
	}

	fmt.Fprintf(&b, "%d of %d predictors were flagged as near zero variance\n(diagnostic only; none is dropped in this run):\n\n", flagged, len(r.Screen))
	b.WriteString("| Column | Freq. ratio | % unique | Variance |\n|---|---|---|---|\n")
	for _, s := range r.Screen {
		if !s.NearZero {
			continue
		}
		fmt.Fprintf(&b, "| `%s` | %.2f | %.2f | %.4g |\n", s.Name, s.FreqRatio, s.PercentUnique, s.Variance)
	}
	return b.String()
}

// CVSection renders the cross-validation summary table.
func (r *Report) CVSection() string {
	var b strings.Builder
	b.WriteString("## Model selection\n\n")
	fmt.Fprintf(&b, "A random forest of %d trees was tuned over the number of\n", r.Trees)
	fmt.Fprintf(&b, "features considered per split, scored by %d-fold cross-validation\nrepeated %d times on the training rows:\n\n", r.Folds, r.Repeats)

	b.WriteString("| Features per split | Mean accuracy | Std. dev. | |\n|---|---|---|---|\n")
	for i, cand := range r.CV.Candidates {
		marker := ""
		if i == r.CV.BestIndex {
			marker = "selected"
		}
		fmt.Fprintf(&b, "| %d | %.4f | %.4f | %s |\n", cand.MaxFeatures, cand.MeanAccuracy(), cand.StdAccuracy(), marker)
	}
	return b.String()
}

// EvaluationSection renders the confusion matrix, per-class rates and
// AUC values on the held-out test rows.
func (r *Report) EvaluationSection() string {
	var b strings.Builder
	m := r.Confusion

	b.WriteString("## Test-set evaluation\n\n")
	fmt.Fprintf(&b, "The selected model classifies the %d held-out test rows with\naccuracy %.4f.\n\n", m.Total, m.Accuracy())

	b.WriteString("### Confusion matrix (rows: actual, columns: predicted)\n\n")
	b.WriteString("| |")
	for _, c := range m.Classes {
		fmt.Fprintf(&b, " %s |", c)
	}
	b.WriteString("\n|---|")
	for range m.Classes {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, c := range m.Classes {
		fmt.Fprintf(&b, "| **%s** |", c)
		for j := range m.Classes {
			fmt.Fprintf(&b, " %d |", m.Counts[i][j])
		}
		b.WriteString("\n")
	}

	b.WriteString("\n### Per-class statistics\n\n")
	b.WriteString("| Class | Sensitivity | Specificity | Precision | AUC |\n|---|---|---|---|---|\n")
	aucByClass := make(map[string]float64, len(r.AUC))
	for _, a := range r.AUC {
		aucByClass[a.Class] = a.AUC
	}
	for i, c := range m.Classes {
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.4f |\n", c, m.Sensitivity(i), m.Specificity(i), m.Precision(i), aucByClass[c])
	}
	return b.String()
}

// ImportanceSection renders the top feature importances of the final
// model.
func (r *Report) ImportanceSection() string {
	if len(r.Importance) == 0 {
		return ""
	}
	sorted := make([]FeatureWeight, len(r.Importance))
	copy(sorted, r.Importance)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Weight > sorted[b].Weight })
	if len(sorted) > 20 {
		sorted = sorted[:20]
	}

	var b strings.Builder
	b.WriteString("## Feature importance\n\n")
	b.WriteString("| Feature | Importance |\n|---|---|\n")
	for _, fw := range sorted {
		fmt.Fprintf(&b, "| `%s` | %.4f |\n", fw.Name, fw.Weight)
	}
	return b.String()
}

// PlotsSection renders links to the plot artifacts.
func (r *Report) PlotsSection() string {
	if len(r.Plots) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Plots\n\n")
	for _, p := range r.Plots {
		name := filepath.Base(p)
		fmt.Fprintf(&b, "![%s](%s)\n", name, name)
	}
	return b.String()
}
