// Package filter removes rows that fall outside a run's scope.
package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
)

// Equals keeps rows whose string Column equals Value. Null cells never match.
type Equals struct {
	Column     string
	Value      string
	DropColumn bool
}

func (t *Equals) Name() string { return "filter_equals" }

func (t *Equals) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	c, err := f.StringCol(t.Column)
	if err != nil {
		return nil, fmt.Errorf("filter_equals: %w", err)
	}
	out := f.Filter(func(r int) bool {
		v, ok := c.Get(r)
		return ok && v == t.Value
	})
	if t.DropColumn {
		out = out.Drop(t.Column)
	}
	return out, nil
}

// Window reports whether a timestamp is in scope.
type Window interface {
	Contains(t time.Time) bool
}

// InPeriod keeps rows whose datetime Column lies inside Period.
type InPeriod struct {
	Column string
	Period Window
}

func (t *InPeriod) Name() string { return "filter_period" }

func (t *InPeriod) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	c, err := f.TimeCol(t.Column)
	if err != nil {
		return nil, fmt.Errorf("filter_period: %w", err)
	}
	return f.Filter(func(r int) bool {
		v, ok := c.Get(r)
		return ok && t.Period.Contains(v)
	}), nil
}
