// Package unit rescales values measured in heterogeneous units to a canonical one.
package unit

import (
	"context"
	"fmt"

	"github.com/bobsim/datawash/pkg/frame"
)

// Conversions maps a unit label to the number of canonical units it holds.
type Conversions struct {
	Divisors map[string]float64
	// Strict rejects labels missing from Divisors instead of treating them as canonical.
	Strict bool
}

// Divisor returns the divisor for label; unknown labels count as already canonical.
func (c Conversions) Divisor(label string) (float64, bool) {
	if d, ok := c.Divisors[label]; ok {
		return d, true
	}
	return 1, false
}

// Normalize divides ValueColumn by the divisor of each row's label, then drops LabelColumn.
type Normalize struct {
	LabelColumn string
	ValueColumn string
	Table       Conversions
}

func (t *Normalize) Name() string { return "normalize_unit" }

func (t *Normalize) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return NormalizeUnit(f, t.LabelColumn, t.ValueColumn, t.Table)
}

// NormalizeUnit is the function form of Normalize.
func NormalizeUnit(f *frame.Frame, labelColumn, valueColumn string, table Conversions) (*frame.Frame, error) {
	labels, err := f.StringCol(labelColumn)
	if err != nil {
		return nil, err
	}
	col, ok := f.ColumnByName(valueColumn)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", frame.ErrTransform, valueColumn)
	}
	src, err := frame.AsFloat(col)
	if err != nil {
		return nil, err
	}
	out := frame.NewFloatColumn(valueColumn, src.Len())
	for i := 0; i < src.Len(); i++ {
		v, ok := src.Get(i)
		if !ok {
			out.SetNull(i)
			continue
		}
		div := 1.0
		if label, ok := labels.Get(i); ok {
			var known bool
			div, known = table.Divisor(label)
			if !known && table.Strict {
				return nil, fmt.Errorf("%w: unsupported unit %q at row %d", frame.ErrTransform, label, i)
			}
		}
		out.Set(i, v/div)
	}
	next, err := f.With(out)
	if err != nil {
		return nil, err
	}
	return next.Drop(labelColumn), nil
}
