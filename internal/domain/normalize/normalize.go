// Package normalize coerces the boolean-coded, date and score columns of the
// enriched match table into consistent types.
package normalize

import (
	"context"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/okian/wcprep/internal/domain/table"
)

// Default column sets.
var (
	DefaultFlagColumns = []string{
		"group_stage",
		"knockout_stage",
		"replayed",
		"replay",
		"extra_time",
		"penalty_shootout",
		"home_team_win",
		"away_team_win",
		"draw",
	}
	DefaultDateColumns  = []string{"match_date"}
	DefaultScoreColumns = []string{
		"home_team_score",
		"away_team_score",
		"home_team_score_margin",
		"away_team_score_margin",
		"home_team_score_penalties",
		"away_team_score_penalties",
	}
)

// minYear is the earliest year a parsed date may carry.
const minYear = 1

var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Option applies a configuration option to the normalizer.
type Option func(*normalizer)

// WithFlagColumns overrides the boolean-coded column list.
func WithFlagColumns(cols ...string) Option {
	return func(n *normalizer) { n.flags = cols }
}

// WithDateColumns overrides the date column list.
func WithDateColumns(cols ...string) Option {
	return func(n *normalizer) { n.dates = cols }
}

// WithScoreColumns overrides the score column list.
func WithScoreColumns(cols ...string) Option {
	return func(n *normalizer) { n.scores = cols }
}

type normalizer struct {
	flags  []string
	dates  []string
	scores []string
}

// ColumnReport counts what happened to one column.
type ColumnReport struct {
	Column  string
	Missing int // values that were missing on input
	Coerced int // present values that failed to convert
}

// Report lists the columns that were normalized, in processing order.
// Columns absent from the input are listed in Skipped.
type Report struct {
	Columns []ColumnReport
	Skipped []string
}

// Normalize returns a copy of t with the configured columns converted.
// Unconvertible values never fail the call: flags fall back to 0, dates and
// scores become Missing.
func Normalize(ctx context.Context, t *table.Table, opts ...Option) (*table.Table, Report, error) {
	n := &normalizer{
		flags:  slices.Clone(DefaultFlagColumns),
		dates:  slices.Clone(DefaultDateColumns),
		scores: slices.Clone(DefaultScoreColumns),
	}
	for _, opt := range opts {
		opt(n)
	}

	out := t.Clone()
	var rep Report
	passes := []struct {
		cols []string
		fn   func(*table.Table, int) ColumnReport
	}{
		{n.dates, normalizeDates},
		{n.flags, normalizeFlags},
		{n.scores, normalizeScores},
	}
	for _, p := range passes {
		for _, col := range p.cols {
			if err := ctx.Err(); err != nil {
				return nil, rep, err
			}
			idx := out.Index(col)
			if idx < 0 {
				rep.Skipped = append(rep.Skipped, col)
				continue
			}
			cr := p.fn(out, idx)
			cr.Column = col
			rep.Columns = append(rep.Columns, cr)
		}
	}
	return out, rep, nil
}

// normalizeFlags stores every value as 0 or 1. Missing and unparseable values
// become 0.
func normalizeFlags(t *table.Table, idx int) ColumnReport {
	var cr ColumnReport
	for _, row := range t.Rows {
		v := row[idx]
		if v.IsMissing() {
			cr.Missing++
			row[idx] = table.Integer(0)
			continue
		}
		f, ok := v.Numeric()
		if !ok {
			cr.Coerced++
			row[idx] = table.Integer(0)
			continue
		}
		row[idx] = table.Integer(flagValue(f))
	}
	return cr
}

// flagValue narrows a numeric flag. Anything that truncates to zero is 0,
// every other value is 1.
func flagValue(f float64) int64 {
	if math.IsNaN(f) || math.Trunc(f) == 0 {
		return 0
	}
	return 1
}

func normalizeDates(t *table.Table, idx int) ColumnReport {
	var cr ColumnReport
	for _, row := range t.Rows {
		v := row[idx]
		switch v.Kind() {
		case table.Missing:
			cr.Missing++
		case table.Date:
		default:
			ts, ok := ParseDate(v.Text())
			if !ok {
				cr.Coerced++
				row[idx] = table.NA()
				continue
			}
			row[idx] = table.DateOf(ts)
		}
	}
	return cr
}

// ParseDate parses s with the ISO layouts first and falls back to a
// format-guessing parser. Values without an offset are read as UTC; values
// with one keep their wall clock. Fragments such as "1/" that the fallback
// resolves to year zero are rejected.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil || ts.Year() < minYear {
		return time.Time{}, false
	}
	return ts, true
}

// normalizeScores converts values to numbers. The column stays integral when
// every value converts to an integer, otherwise it becomes float.
func normalizeScores(t *table.Table, idx int) ColumnReport {
	var cr ColumnReport
	nums := make([]float64, len(t.Rows))
	valid := make([]bool, len(t.Rows))
	integral := true
	for r, row := range t.Rows {
		v := row[idx]
		if v.IsMissing() {
			cr.Missing++
			integral = false
			continue
		}
		f, ok := v.Numeric()
		if !ok {
			cr.Coerced++
			integral = false
			continue
		}
		nums[r], valid[r] = f, true
		switch v.Kind() {
		case table.Float:
			integral = false
		case table.String:
			if _, err := strconv.ParseInt(strings.TrimSpace(v.Text()), 10, 64); err != nil {
				integral = false
			}
		}
	}
	for r, row := range t.Rows {
		switch {
		case !valid[r]:
			row[idx] = table.NA()
		case integral:
			row[idx] = table.Integer(int64(nums[r]))
		default:
			row[idx] = table.Number(nums[r])
		}
	}
	return cr
}
