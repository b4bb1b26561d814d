package impute

import (
	"context"

	"github.com/bobsim/datawash/pkg/frame"
)

// Linear fills nulls by linear interpolation over row position. Leading and
// trailing nulls take the nearest known value. A column with no known value is
// left as is.
type Linear struct{ Columns []string }

func (t *Linear) Name() string { return "impute_linear" }

func (t *Linear) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			continue
		}
		fc, err := frame.AsFloat(col)
		if err != nil {
			return nil, err
		}
		interpolate(fc)
		if fc != col {
			if f, err = f.With(fc); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func interpolate(c *frame.FloatColumn) {
	prev := -1
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		cur, _ := c.Get(i)
		switch {
		case prev < 0:
			for k := 0; k < i; k++ {
				c.Set(k, cur)
			}
		case i-prev > 1:
			lo, _ := c.Get(prev)
			step := (cur - lo) / float64(i-prev)
			for k := prev + 1; k < i; k++ {
				c.Set(k, lo+step*float64(k-prev))
			}
		}
		prev = i
	}
	if prev < 0 {
		return
	}
	last, _ := c.Get(prev)
	for k := prev + 1; k < c.Len(); k++ {
		c.Set(k, last)
	}
}
