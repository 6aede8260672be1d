// Package split partitions the enriched match table into train and test
// subsets by tournament year.
package split

import (
	"context"
	"fmt"

	"github.com/okian/wcprep/internal/domain/table"
)

// Default year boundaries.
const (
	DefaultTrainFrom = 1930
	DefaultTrainTo   = 2018
	DefaultTestYear  = 2022

	yearColumn = "year"
)

// Option applies a configuration option to the splitter.
type Option func(*splitter)

// WithTrainRange sets the inclusive year range of the train subset.
func WithTrainRange(from, to int) Option {
	return func(s *splitter) {
		if from <= to {
			s.trainFrom, s.trainTo = from, to
		}
	}
}

// WithTestYear sets the year of the test subset.
func WithTestYear(year int) Option {
	return func(s *splitter) {
		s.testYear = year
	}
}

type splitter struct {
	trainFrom, trainTo int
	testYear           int
}

// Split returns the rows of t whose year lies in the train range and the rows
// whose year equals the test year. Rows matching neither, including those with
// a missing or non-numeric year, are dropped. Both subsets keep the column set
// and the row order of t.
func Split(ctx context.Context, t *table.Table, opts ...Option) (train, test *table.Table, err error) {
	s := &splitter{trainFrom: DefaultTrainFrom, trainTo: DefaultTrainTo, testYear: DefaultTestYear}
	for _, opt := range opts {
		opt(s)
	}
	if s.testYear >= s.trainFrom && s.testYear <= s.trainTo {
		return nil, nil, fmt.Errorf("%w: test year %d lies in train range [%d, %d]",
			ErrOverlap, s.testYear, s.trainFrom, s.trainTo)
	}

	idx := t.Index(yearColumn)
	if idx < 0 {
		return nil, nil, fmt.Errorf("%w: expected a %q column; merge tournaments into the matches before splitting",
			ErrMissingYear, yearColumn)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	train = t.Select(func(row []table.Value) bool {
		y, ok := row[idx].Numeric()
		return ok && y >= float64(s.trainFrom) && y <= float64(s.trainTo)
	})
	test = t.Select(func(row []table.Value) bool {
		y, ok := row[idx].Numeric()
		return ok && y == float64(s.testYear)
	})
	return train, test, nil
}
