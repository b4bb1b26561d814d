// Package outliers bounds sensor readings that leave their physical range.
package outliers

import (
	"context"
	"fmt"

	"github.com/bobsim/datawash/pkg/frame"
)

// Clip pulls non-null values in Columns back into [Min, Max]. Nil bounds are
// open. Int columns are clipped to the truncated bound.
type Clip struct {
	Columns []string
	Min     *float64
	Max     *float64
}

func (t *Clip) Name() string { return "clip_range" }

func (t *Clip) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: clip_range: missing column %s", frame.ErrTransform, name)
		}
		switch c := col.(type) {
		case *frame.FloatColumn:
			for i := 0; i < c.Len(); i++ {
				if v, ok := c.Get(i); ok {
					c.Set(i, t.bound(v))
				}
			}
		case *frame.IntColumn:
			for i := 0; i < c.Len(); i++ {
				if v, ok := c.Get(i); ok {
					c.Set(i, int64(t.bound(float64(v))))
				}
			}
		default:
			return nil, fmt.Errorf("%w: clip_range: column %s is %s", frame.ErrTransform, name, col.Kind())
		}
	}
	return f, nil
}

func (t *Clip) bound(v float64) float64 {
	if t.Min != nil && v < *t.Min {
		v = *t.Min
	}
	if t.Max != nil && v > *t.Max {
		v = *t.Max
	}
	return v
}
