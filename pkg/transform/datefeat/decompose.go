// Package datefeat derives calendar features from a date column.
package datefeat

import (
	"context"
	"fmt"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
)

const (
	WeekendColumn = "is_weekend"
	SeasonColumn  = "season"
)

// Decompose appends is_weekend (1 on Saturday and Sunday) and season
// (1 winter, 2 spring, 3 summer, 4 autumn) derived from Column.
type Decompose struct{ Column string }

func (t *Decompose) Name() string { return "decompose_date" }

func (t *Decompose) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return DecomposeDate(f, t.Column)
}

// DecomposeDate is the function form of Decompose. A null date yields null features.
func DecomposeDate(f *frame.Frame, column string) (*frame.Frame, error) {
	dates, err := f.TimeCol(column)
	if err != nil {
		return nil, err
	}
	n := dates.Len()
	weekend := frame.NewIntColumn(WeekendColumn, n)
	season := frame.NewIntColumn(SeasonColumn, n)
	for i := 0; i < n; i++ {
		d, ok := dates.Get(i)
		if !ok {
			weekend.SetNull(i)
			season.SetNull(i)
			continue
		}
		weekend.Set(i, IsWeekend(d))
		season.Set(i, Season(d.Month()))
	}
	out, err := f.With(weekend)
	if err != nil {
		return nil, fmt.Errorf("decompose_date: %w", err)
	}
	return out.With(season)
}

func IsWeekend(d time.Time) int64 {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return 1
	}
	return 0
}

// Season maps December-February to 1 and each following quarter up to 4.
func Season(m time.Month) int64 {
	return int64((int(m)%12 + 3) / 3)
}
