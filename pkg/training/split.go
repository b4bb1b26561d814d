// Package training hands processed frames to model training: date-based
// hold-out splits, golearn instances, the log1p inverse and the scoring metric.
package training

import (
	"fmt"
	"sort"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
)

// DefaultHoldoutDays is the number of most recent dates reserved for testing.
const DefaultHoldoutDays = 7

// SplitByDate sorts the distinct calendar dates of column newest first and
// takes the one at index holdout as the boundary: rows before it train, rows
// on or after it test. The test set therefore spans holdout+1 dates. Rows
// with a null date are dropped.
func SplitByDate(f *frame.Frame, column string, holdout int) (train, test *frame.Frame, err error) {
	if holdout < 0 {
		return nil, nil, fmt.Errorf("%w: negative holdout %d", frame.ErrTransform, holdout)
	}
	dates, err := f.TimeCol(column)
	if err != nil {
		return nil, nil, err
	}
	seen := map[time.Time]bool{}
	var distinct []time.Time
	for i := 0; i < dates.Len(); i++ {
		if d, ok := dates.Get(i); ok {
			d = calendarDay(d)
			if !seen[d] {
				seen[d] = true
				distinct = append(distinct, d)
			}
		}
	}
	if len(distinct) <= holdout {
		return nil, nil, fmt.Errorf("%w: %d distinct dates, need more than %d", frame.ErrTransform, len(distinct), holdout)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i].After(distinct[j]) })
	boundary := distinct[holdout]

	var trainRows, testRows []int
	for i := 0; i < dates.Len(); i++ {
		d, ok := dates.Get(i)
		if !ok {
			continue
		}
		if calendarDay(d).Before(boundary) {
			trainRows = append(trainRows, i)
		} else {
			testRows = append(testRows, i)
		}
	}
	return f.Take(trainRows), f.Take(testRows), nil
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
