// Package standardize normalizes column contents and names.
package standardize

import (
	"context"
	"strings"

	"github.com/bobsim/datawash/pkg/frame"
)

// Trim strips surrounding whitespace from string cells in place. An empty
// Columns list means every string column; non-string columns are skipped.
type Trim struct{ Columns []string }

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols := f.Columns()
	if len(t.Columns) > 0 {
		cols = cols[:0:0]
		for _, name := range t.Columns {
			if c, ok := f.ColumnByName(name); ok {
				cols = append(cols, c)
			}
		}
	}
	for _, col := range cols {
		c, ok := col.(*frame.StringColumn)
		if !ok {
			continue
		}
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				c.Set(i, strings.TrimSpace(v))
			}
		}
	}
	return f, nil
}
