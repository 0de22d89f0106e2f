package dataset

import (
	"strings"
)

// Column-name rules for measurements that are summary statistics of a
// sliding window, bookkeeping, or timestamps rather than raw sensor
// features. Anything matching a rule is excluded from modeling.
var dropPrefixes = []string{
	"min", "max", "avg", "amplitude", "stddev",
	"kurtosis", "skewness", "var", "raw", "cvtd",
}

const (
	indexColumn      = "X"
	windowSuffix     = "window"
	prefixRulePrefix = "prefix:"
)

// FilterReport is the explicit outcome of column filtering: which
// columns survive, which were dropped by which rule, and which rules
// matched nothing. Keeping this as a first-class value (instead of a
// silent side effect of pattern matching) makes a header drift in the
// input file visible in logs and in the rendered report.
type FilterReport struct {
	// Retained lists surviving columns in input order, including the
	// subject and label columns.
	Retained []string
	// Dropped maps rule name ("prefix:min", "index:X",
	// "suffix:window") to the columns it removed, in input order.
	Dropped map[string][]string
	// ZeroMatchRules lists rules that removed no column. A non-empty
	// slice usually means the input header changed shape.
	ZeroMatchRules []string
}

// FilterColumns applies the drop rules to header and returns the
// report. It never fails: a rule matching nothing is recorded, not an
// error. The operation is idempotent; re-filtering the retained set
// yields the same set.
func FilterColumns(header []string) *FilterReport {
	rep := &FilterReport{
		Dropped: make(map[string][]string),
	}

	rules := make([]string, 0, len(dropPrefixes)+2)
	for _, p := range dropPrefixes {
		rules = append(rules, prefixRulePrefix+p)
	}
	rules = append(rules, "index:"+indexColumn, "suffix:"+windowSuffix)

	for _, name := range header {
		rule := matchRule(name)
		if rule == "" {
			rep.Retained = append(rep.Retained, name)
			continue
		}
		rep.Dropped[rule] = append(rep.Dropped[rule], name)
	}

	for _, rule := range rules {
		if len(rep.Dropped[rule]) == 0 {
			rep.ZeroMatchRules = append(rep.ZeroMatchRules, rule)
		}
	}
	return rep
}

// matchRule returns the name of the first rule dropping the column, or
// "" when the column is retained.
func matchRule(name string) string {
	if name == indexColumn {
		return "index:" + indexColumn
	}
	if strings.HasSuffix(name, windowSuffix) {
		return "suffix:" + windowSuffix
	}
	for _, p := range dropPrefixes {
		if strings.HasPrefix(name, p) {
			return prefixRulePrefix + p
		}
	}
	return ""
}

// NumericColumns returns the retained columns minus the subject and
// label columns, i.e. the model's feature set, in input order.
func (r *FilterReport) NumericColumns() []string {
	out := make([]string, 0, len(r.Retained))
	for _, name := range r.Retained {
		if name == SubjectColumn || name == LabelColumn {
			continue
		}
		out = append(out, name)
	}
	return out
}

// DroppedCount returns the total number of dropped columns.
func (r *FilterReport) DroppedCount() int {
	n := 0
	for _, cols := range r.Dropped {
		n += len(cols)
	}
	return n
}
