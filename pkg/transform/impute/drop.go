package impute

import (
	"context"
	"fmt"

	"github.com/bobsim/datawash/pkg/frame"
)

// DropNulls removes every row holding a null in one of Columns, or in any
// column when Columns is empty. Dropping every row of a non-empty frame fails.
type DropNulls struct{ Columns []string }

func (t *DropNulls) Name() string { return "drop_nulls" }

func (t *DropNulls) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	watch := f.Columns()
	if len(t.Columns) > 0 {
		watch = nil
		for _, name := range t.Columns {
			if col, ok := f.ColumnByName(name); ok {
				watch = append(watch, col)
			}
		}
	}
	out := f.Filter(func(row int) bool {
		for _, c := range watch {
			if c.IsNull(row) {
				return false
			}
		}
		return true
	})
	if f.Rows() > 0 && out.Rows() == 0 {
		return nil, fmt.Errorf("%w: every row of %d held a null", frame.ErrTransform, f.Rows())
	}
	return out, nil
}
