// Package validate rejects frames whose values break a numeric contract.
package validate

import (
	"context"
	"fmt"

	"github.com/bobsim/datawash/pkg/frame"
)

// Range fails when a non-null value in Columns lies outside [Min, Max].
// Nil bounds are open.
type Range struct {
	Columns []string
	Min     *float64
	Max     *float64
}

// NonNegative guards columns that later feed log1p.
func NonNegative(columns ...string) *Range {
	zero := 0.0
	return &Range{Columns: columns, Min: &zero}
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: validate_range: missing column %s", frame.ErrTransform, name)
		}
		c, err := frame.AsFloat(col)
		if err != nil {
			return nil, fmt.Errorf("validate_range: %w", err)
		}
		var bad int
		for i := 0; i < c.Len(); i++ {
			v, ok := c.Get(i)
			if !ok {
				continue
			}
			if t.Min != nil && v < *t.Min {
				bad++
			}
			if t.Max != nil && v > *t.Max {
				bad++
			}
		}
		if bad > 0 {
			return nil, fmt.Errorf("%w: validate_range: column %s has %d out-of-range values", frame.ErrTransform, name, bad)
		}
	}
	return f, nil
}
