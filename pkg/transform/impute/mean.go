package impute

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bobsim/datawash/pkg/frame"
)

// Mean fills nulls with the column mean. Int columns get the rounded mean.
type Mean struct{ Columns []string }

func (t *Mean) Name() string { return "impute_mean" }

func (t *Mean) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok || !col.Kind().Numeric() {
			continue
		}
		fc, _ := frame.AsFloat(col)
		vals := fc.Valid()
		if len(vals) == 0 {
			continue
		}
		mean := stat.Mean(vals, nil)
		switch c := col.(type) {
		case *frame.FloatColumn:
			fillNulls(c, func(i int) { c.Set(i, mean) })
		case *frame.IntColumn:
			fillNulls(c, func(i int) { c.Set(i, int64(math.Round(mean))) })
		}
	}
	return f, nil
}
