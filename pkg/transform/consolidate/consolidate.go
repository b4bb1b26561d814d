// Package consolidate folds descriptive categorical fields into fewer ones.
package consolidate

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/transform/aggregate"
)

// Composite concatenates Components row-wise, without separator, into a new
// string column Into and removes the components. A null component nulls the key.
type Composite struct {
	Components []string
	Into       string
}

func (t *Composite) Name() string { return "composite_key" }

func (t *Composite) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return Consolidate(f, t.Components, t.Into)
}

// Consolidate is the function form of Composite.
func Consolidate(f *frame.Frame, components []string, name string) (*frame.Frame, error) {
	parts := make([]*frame.StringColumn, len(components))
	for i, c := range components {
		col, err := f.StringCol(c)
		if err != nil {
			return nil, err
		}
		parts[i] = col
	}
	key := frame.NewStringColumn(name, f.Rows())
	var sb strings.Builder
rows:
	for r := 0; r < f.Rows(); r++ {
		sb.Reset()
		for _, p := range parts {
			v, ok := p.Get(r)
			if !ok {
				key.SetNull(r)
				continue rows
			}
			sb.WriteString(v)
		}
		key.Set(r, sb.String())
	}
	return f.Drop(components...).With(key)
}

// CollapseGrade drops the grade axis and averages numeric columns over the
// remaining key, so several grades of one item become one observation.
type CollapseGrade struct {
	Grade string
	Keys  []string
}

func (t *CollapseGrade) Name() string { return "collapse_grade" }

func (t *CollapseGrade) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return Collapse(f, t.Grade, t.Keys)
}

// Collapse is the function form of CollapseGrade.
func Collapse(f *frame.Frame, grade string, keys []string) (*frame.Frame, error) {
	if !f.Has(grade) {
		return nil, fmt.Errorf("%w: missing grade column %s", frame.ErrTransform, grade)
	}
	return aggregate.Mean(f.Drop(grade), keys)
}
