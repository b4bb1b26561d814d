package standardize

import (
	"context"

	"github.com/bobsim/datawash/pkg/frame"
)

// Rename maps column names through Map; unmapped columns keep their name.
type Rename struct{ Map map[string]string }

func (t *Rename) Name() string { return "rename" }

func (t *Rename) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	cols := make([]frame.Column, 0, f.Cols())
	for _, c := range f.Columns() {
		if to, ok := t.Map[c.Name()]; ok && to != c.Name() {
			c = c.Renamed(to)
		}
		cols = append(cols, c)
	}
	return frame.FromColumns(cols...)
}
