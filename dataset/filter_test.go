package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// canonicalHeader reproduces the shape of the full sample file: 7
// bookkeeping columns, 38 columns per sensor location (13 raw sensor
// features plus 25 window summary statistics), and the outcome label.
// 160 columns total. The "picth" spellings are faithful to the source
// file.
func canonicalHeader() []string {
	header := []string{
		"X", "user_name",
		"raw_timestamp_part_1", "raw_timestamp_part_2", "cvtd_timestamp",
		"new_window", "num_window",
	}
	for _, loc := range []string{"belt", "arm", "dumbbell", "forearm"} {
		header = append(header,
			"roll_"+loc, "pitch_"+loc, "yaw_"+loc, "total_accel_"+loc,
			"kurtosis_roll_"+loc, "kurtosis_picth_"+loc, "kurtosis_yaw_"+loc,
			"skewness_roll_"+loc, "skewness_picth_"+loc, "skewness_yaw_"+loc,
			"max_roll_"+loc, "max_picth_"+loc, "max_yaw_"+loc,
			"min_roll_"+loc, "min_pitch_"+loc, "min_yaw_"+loc,
			"amplitude_roll_"+loc, "amplitude_pitch_"+loc, "amplitude_yaw_"+loc,
			"var_total_accel_"+loc,
			"avg_roll_"+loc, "stddev_roll_"+loc, "var_roll_"+loc,
			"avg_pitch_"+loc, "stddev_pitch_"+loc, "var_pitch_"+loc,
			"avg_yaw_"+loc, "stddev_yaw_"+loc, "var_yaw_"+loc,
		)
		for _, axis := range []string{"x", "y", "z"} {
			header = append(header, fmt.Sprintf("gyros_%s_%s", loc, axis))
		}
		for _, axis := range []string{"x", "y", "z"} {
			header = append(header, fmt.Sprintf("accel_%s_%s", loc, axis))
		}
		for _, axis := range []string{"x", "y", "z"} {
			header = append(header, fmt.Sprintf("magnet_%s_%s", loc, axis))
		}
	}
	return append(header, "classe")
}

func TestFilterColumnsCanonicalHeader(t *testing.T) {
	header := canonicalHeader()
	require.Len(t, header, 160)

	rep := FilterColumns(header)

	assert.Len(t, rep.Retained, 54, "2 categorical + 52 numeric columns should survive")
	assert.Len(t, rep.NumericColumns(), 52)
	assert.Equal(t, 160-54, rep.DroppedCount())
	assert.Empty(t, rep.ZeroMatchRules, "every rule should match on the canonical header")

	assert.Contains(t, rep.Retained, LabelColumn)
	assert.Contains(t, rep.Retained, SubjectColumn)
	assert.NotContains(t, rep.NumericColumns(), LabelColumn)
	assert.NotContains(t, rep.NumericColumns(), SubjectColumn)
}

func TestFilterColumnsRules(t *testing.T) {
	tests := []struct {
		name   string
		column string
		rule   string
	}{
		{name: "row index", column: "X", rule: "index:X"},
		{name: "window indicator", column: "new_window", rule: "suffix:window"},
		{name: "window number", column: "num_window", rule: "suffix:window"},
		{name: "raw timestamp", column: "raw_timestamp_part_1", rule: "prefix:raw"},
		{name: "converted timestamp", column: "cvtd_timestamp", rule: "prefix:cvtd"},
		{name: "window minimum", column: "min_roll_belt", rule: "prefix:min"},
		{name: "window maximum", column: "max_picth_arm", rule: "prefix:max"},
		{name: "window average", column: "avg_yaw_forearm", rule: "prefix:avg"},
		{name: "window amplitude", column: "amplitude_pitch_dumbbell", rule: "prefix:amplitude"},
		{name: "window stddev", column: "stddev_roll_arm", rule: "prefix:stddev"},
		{name: "window variance", column: "var_total_accel_belt", rule: "prefix:var"},
		{name: "window kurtosis", column: "kurtosis_yaw_belt", rule: "prefix:kurtosis"},
		{name: "window skewness", column: "skewness_roll_forearm", rule: "prefix:skewness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := FilterColumns([]string{tt.column, "roll_belt", "classe", "user_name"})
			assert.Equal(t, []string{tt.column}, rep.Dropped[tt.rule])
			assert.Equal(t, []string{"roll_belt", "classe", "user_name"}, rep.Retained)
		})
	}
}

func TestFilterColumnsIdempotent(t *testing.T) {
	rep := FilterColumns(canonicalHeader())
	again := FilterColumns(rep.Retained)

	assert.Equal(t, rep.Retained, again.Retained)
	assert.Zero(t, again.DroppedCount(), "re-filtering the retained set should drop nothing")
}

func TestFilterColumnsZeroMatchReported(t *testing.T) {
	rep := FilterColumns([]string{"roll_belt", "pitch_belt", "classe", "user_name"})

	assert.Equal(t, []string{"roll_belt", "pitch_belt", "classe", "user_name"}, rep.Retained)
	// No rule matches anything; all of them must be reported.
	assert.Len(t, rep.ZeroMatchRules, 12)
}
