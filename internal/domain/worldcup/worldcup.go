// Package worldcup restricts match records to men's World Cup tournaments and
// attaches the tournament year to each of them.
package worldcup

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/wcprep/internal/domain/table"
)

// Column names used by the filter and the join.
const (
	ColTournamentID   = "tournament_id"
	ColTournamentName = "tournament_name"
	ColYear           = "year"
)

// DefaultNamePattern selects men's World Cup tournaments.
const DefaultNamePattern = "FIFA Men's World Cup"

// Option applies a configuration option to the filter.
type Option func(*filter)

// WithNamePattern sets the literal substring a tournament name must contain.
func WithNamePattern(pattern string) Option {
	return func(f *filter) {
		if pattern != "" {
			f.pattern = pattern
		}
	}
}

type filter struct {
	pattern string
}

// Stats summarizes one filter+join pass.
type Stats struct {
	TournamentsScanned    int
	TournamentsQualifying int
	MatchesScanned        int
	MatchesKept           int
}

// FilterMensWorldCup keeps the matches whose tournament name contains the
// configured pattern and appends a year column looked up by tournament id.
// Neither input is modified.
func FilterMensWorldCup(ctx context.Context, matches, tournaments *table.Table, opts ...Option) (*table.Table, Stats, error) {
	f := &filter{pattern: DefaultNamePattern}
	for _, opt := range opts {
		opt(f)
	}

	stats := Stats{TournamentsScanned: tournaments.Len(), MatchesScanned: matches.Len()}

	years, err := f.qualifyingYears(tournaments)
	if err != nil {
		return nil, stats, err
	}
	stats.TournamentsQualifying = len(years)

	if err := ctx.Err(); err != nil {
		return nil, stats, err
	}

	idIdx := matches.Index(ColTournamentID)
	if idIdx < 0 {
		return nil, stats, fmt.Errorf("%w: matches has no %q column", ErrMissingColumn, ColTournamentID)
	}
	if matches.Has(ColYear) {
		return nil, stats, fmt.Errorf("%w: matches already has a %q column", ErrColumnConflict, ColYear)
	}

	out := table.New(slices.Concat(matches.Columns, []string{ColYear})...)
	for _, row := range matches.Rows {
		id := row[idIdx]
		if id.IsMissing() {
			continue
		}
		year, ok := years[key(id)]
		if !ok {
			continue
		}
		enriched := make([]table.Value, 0, len(row)+1)
		enriched = append(enriched, row...)
		enriched = append(enriched, year)
		out.Rows = append(out.Rows, enriched)
	}
	stats.MatchesKept = out.Len()
	return out, stats, nil
}

// qualifyingYears maps the id of every qualifying tournament to its year.
// Rows with a missing name never qualify. Two qualifying rows sharing an id
// must agree on the year.
func (f *filter) qualifyingYears(tournaments *table.Table) (map[string]table.Value, error) {
	idIdx := tournaments.Index(ColTournamentID)
	nameIdx := tournaments.Index(ColTournamentName)
	yearIdx := tournaments.Index(ColYear)
	for _, name := range []string{ColTournamentID, ColTournamentName, ColYear} {
		if !tournaments.Has(name) {
			return nil, fmt.Errorf("%w: tournaments has no %q column", ErrMissingColumn, name)
		}
	}

	years := make(map[string]table.Value)
	for _, row := range tournaments.Rows {
		name, id := row[nameIdx], row[idIdx]
		if name.IsMissing() || id.IsMissing() {
			continue
		}
		if !strings.Contains(name.Text(), f.pattern) {
			continue
		}
		k := key(id)
		year := row[yearIdx]
		if prev, seen := years[k]; seen {
			if !prev.Equal(year) {
				return nil, fmt.Errorf("%w: tournament %q has years %s and %s",
					ErrDuplicateTournament, k, prev.Text(), year.Text())
			}
			continue
		}
		years[k] = year
	}
	return years, nil
}

// key is the lookup form of a tournament id. Integral floats and integers
// share a key so 5 and 5.0 match.
func key(v table.Value) string {
	if v.Kind() == table.Float {
		f, _ := v.Float()
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return v.Text()
}
