package impute

import (
	"context"
	"math"
	"sort"

	"github.com/bobsim/datawash/pkg/frame"
)

// Median fills nulls with the column median (mean of the middle pair for even counts).
type Median struct{ Columns []string }

func (t *Median) Name() string { return "impute_median" }

func (t *Median) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
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
		sort.Float64s(vals)
		mid := len(vals) / 2
		med := vals[mid]
		if len(vals)%2 == 0 {
			med = (vals[mid-1] + vals[mid]) / 2
		}
		switch c := col.(type) {
		case *frame.FloatColumn:
			fillNulls(c, func(i int) { c.Set(i, med) })
		case *frame.IntColumn:
			fillNulls(c, func(i int) { c.Set(i, int64(math.Round(med))) })
		}
	}
	return f, nil
}
