package impute

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/bobsim/datawash/pkg/frame"
)

// Constant fills nulls in the named columns with Value, cast to each column's
// kind; zero fill writes "0" into a string column. A value that cannot be cast,
// or a datetime column, fails the transform.
type Constant struct {
	Columns []string
	Value   any
}

// Zero fills with the literal 0.
func Zero(columns ...string) *Constant { return &Constant{Columns: columns, Value: 0.0} }

func (t *Constant) Name() string { return "impute_constant" }

func (t *Constant) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			continue
		}
		var err error
		switch c := col.(type) {
		case *frame.FloatColumn:
			var v float64
			if v, err = cast.ToFloat64E(t.Value); err == nil {
				fillNulls(c, func(i int) { c.Set(i, v) })
			}
		case *frame.IntColumn:
			var v int64
			if v, err = cast.ToInt64E(t.Value); err == nil {
				fillNulls(c, func(i int) { c.Set(i, v) })
			}
		case *frame.StringColumn:
			var v string
			if v, err = cast.ToStringE(t.Value); err == nil {
				fillNulls(c, func(i int) { c.Set(i, v) })
			}
		case *frame.BoolColumn:
			var v bool
			if v, err = cast.ToBoolE(t.Value); err == nil {
				fillNulls(c, func(i int) { c.Set(i, v) })
			}
		default:
			err = fmt.Errorf("no constant fill for %s columns", col.Kind())
		}
		if err != nil {
			return nil, fmt.Errorf("%w: impute_constant: column %s: %v", frame.ErrTransform, name, err)
		}
	}
	return f, nil
}

func fillNulls(c frame.Column, set func(i int)) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			set(i)
		}
	}
}
