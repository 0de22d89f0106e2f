package dataset

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/DobrinPenchev/Practical-Machine-Learning-Project/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// RawTable is the unfiltered file contents: a header and string
// records, one per observation.
type RawTable struct {
	Header  []string
	Records [][]string
}

// Load reads a comma-delimited table with a header row. Every record
// must have the same number of fields as the header; csv.Reader
// enforces that.
func Load(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %q", path)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parse dataset %q", path)
	}
	if len(rows) < 2 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "dataset %q has no observations", path)
	}
	return &RawTable{Header: rows[0], Records: rows[1:]}, nil
}

// Build parses the retained columns of raw into a typed Table. The
// subject and label columns must be present and non-empty in every
// row; retained feature columns must parse as floats. Quoted values
// and NA markers only occur in the summary-statistic columns the
// filter removes, so any parse failure here is a real data error.
func Build(raw *RawTable, rep *FilterReport) (*Table, error) {
	colIdx := make(map[string]int, len(raw.Header))
	for i, name := range raw.Header {
		colIdx[name] = i
	}

	labelIdx, ok := colIdx[LabelColumn]
	if !ok {
		return nil, errors.NewValidationError("header", "missing outcome label column", LabelColumn)
	}
	subjectIdx, ok := colIdx[SubjectColumn]
	if !ok {
		return nil, errors.NewValidationError("header", "missing subject column", SubjectColumn)
	}

	features := rep.NumericColumns()
	featureIdx := make([]int, len(features))
	for j, name := range features {
		idx, ok := colIdx[name]
		if !ok {
			return nil, errors.NewValidationError("header", "retained column not in header", name)
		}
		featureIdx[j] = idx
	}

	n := len(raw.Records)
	tbl := &Table{
		Features: features,
		X:        mat.NewDense(n, len(features), nil),
		Subject:  make([]string, n),
		Label:    make([]string, n),
	}

	for i, rec := range raw.Records {
		if rec[labelIdx] == "" {
			return nil, errors.NewValidationError(LabelColumn, "empty outcome label", i)
		}
		if rec[subjectIdx] == "" {
			return nil, errors.NewValidationError(SubjectColumn, "empty subject identifier", i)
		}
		tbl.Label[i] = rec[labelIdx]
		tbl.Subject[i] = rec[subjectIdx]

		for j, idx := range featureIdx {
			v, err := strconv.ParseFloat(rec[idx], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d, column %q: non-numeric value %q", i+1, features[j], rec[idx])
			}
			tbl.X.Set(i, j, v)
		}
	}
	return tbl, nil
}
