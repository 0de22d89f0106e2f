// Package dataset loads the wearable-sensor sample table and applies
// the column filter that reduces the raw file to the modeling columns:
// one subject identifier, one outcome label, and the numeric sensor
// features.
package dataset

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
)

const (
	// LabelColumn is the outcome label: the manner in which the
	// exercise was performed, one of five classes.
	LabelColumn = "classe"
	// SubjectColumn identifies which of the six participants produced
	// the row.
	SubjectColumn = "user_name"
)

// Table is the filtered in-memory sample table. X holds the numeric
// feature block; Subject and Label run parallel to its rows.
type Table struct {
	Features []string
	X        *mat.Dense
	Subject  []string
	Label    []string
}

// NumRows returns the number of observations.
func (t *Table) NumRows() int {
	return len(t.Label)
}

// NumFeatures returns the number of numeric feature columns.
func (t *Table) NumFeatures() int {
	return len(t.Features)
}

// Classes returns the distinct outcome labels in ascending order.
func (t *Table) Classes() []string {
	return distinct(t.Label)
}

// Subjects returns the distinct subject identifiers in ascending order.
func (t *Table) Subjects() []string {
	return distinct(t.Subject)
}

// EncodeLabels maps each row's outcome label to its index in the
// ascending class order and returns the codes together with that
// order.
func (t *Table) EncodeLabels() ([]int, []string) {
	classes := t.Classes()
	codes, _ := t.EncodeLabelsIn(classes)
	return codes, classes
}

// EncodeLabelsIn maps each row's outcome label to its index in the
// given class order. Subsets of one table must share the parent's
// order, or a class missing from one subset would shift the codes of
// every class sorting after it. Fails on a label not in classes.
func (t *Table) EncodeLabelsIn(classes []string) ([]int, error) {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	codes := make([]int, len(t.Label))
	for i, l := range t.Label {
		code, ok := index[l]
		if !ok {
			return nil, errors.NewValueError("Table.EncodeLabelsIn", "label "+l+" not in the class order")
		}
		codes[i] = code
	}
	return codes, nil
}

// Select returns a new table containing the given rows, in the given
// order. It fails if any index is out of range.
func (t *Table) Select(rows []int) (*Table, error) {
	n := t.NumRows()
	sub := &Table{
		Features: t.Features,
		X:        mat.NewDense(len(rows), t.NumFeatures(), nil),
		Subject:  make([]string, len(rows)),
		Label:    make([]string, len(rows)),
	}
	for i, r := range rows {
		if r < 0 || r >= n {
			return nil, errors.NewValueError("Table.Select", "row index out of range")
		}
		sub.X.SetRow(i, mat.Row(nil, r, t.X))
		sub.Subject[i] = t.Subject[r]
		sub.Label[i] = t.Label[r]
	}
	return sub, nil
}

// Column returns the values of the named feature column.
func (t *Table) Column(name string) ([]float64, error) {
	for j, f := range t.Features {
		if f == name {
			return mat.Col(nil, j, t.X), nil
		}
	}
	return nil, errors.Newf("wle: no feature column named %q", name)
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
