// Package aggregate collapses rows that share a key.
package aggregate

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
)

// GroupMean groups rows by Keys and replaces every numeric column with its mean
// per group. Output holds the key columns followed by the numeric columns, one
// row per distinct key, ordered by key. Rows with a null key are dropped, and
// non-numeric columns outside the key are discarded.
type GroupMean struct{ Keys []string }

func (t *GroupMean) Name() string { return "group_mean" }

func (t *GroupMean) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return Mean(f, t.Keys)
}

type group struct {
	first int
	rows  []int
}

// Mean is the function form of GroupMean.
func Mean(f *frame.Frame, keys []string) (*frame.Frame, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: group by needs at least one key", frame.ErrTransform)
	}
	keyCols := make([]frame.Column, len(keys))
	isKey := make(map[string]bool, len(keys))
	for i, k := range keys {
		c, ok := f.ColumnByName(k)
		if !ok {
			return nil, fmt.Errorf("%w: missing group key %s", frame.ErrTransform, k)
		}
		keyCols[i] = c
		isKey[k] = true
	}

	groups := map[string]*group{}
	var order []*group
	var sb strings.Builder
rows:
	for r := 0; r < f.Rows(); r++ {
		sb.Reset()
		for _, c := range keyCols {
			if c.IsNull(r) {
				continue rows
			}
			fmt.Fprintf(&sb, "%v\x1f", c.Value(r))
		}
		g, ok := groups[sb.String()]
		if !ok {
			g = &group{first: r}
			groups[sb.String()] = g
			order = append(order, g)
		}
		g.rows = append(g.rows, r)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lessRow(keyCols, order[a].first, order[b].first)
	})

	firsts := make([]int, len(order))
	for i, g := range order {
		firsts[i] = g.first
	}
	out := make([]frame.Column, 0, f.Cols())
	for _, c := range keyCols {
		out = append(out, c.Take(firsts))
	}
	for _, c := range f.Columns() {
		if isKey[c.Name()] || !c.Kind().Numeric() {
			continue
		}
		src, _ := frame.AsFloat(c)
		mean := frame.NewFloatColumn(c.Name(), len(order))
		for i, g := range order {
			var sum float64
			var n int
			for _, r := range g.rows {
				if v, ok := src.Get(r); ok {
					sum += v
					n++
				}
			}
			if n == 0 {
				mean.SetNull(i)
				continue
			}
			mean.Set(i, sum/float64(n))
		}
		out = append(out, mean)
	}
	return frame.FromColumns(out...)
}

func lessRow(keys []frame.Column, a, b int) bool {
	for _, c := range keys {
		switch d := compare(c.Value(a), c.Value(b)); {
		case d < 0:
			return true
		case d > 0:
			return false
		}
	}
	return false
}

func compare(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		return x.Compare(b.(time.Time))
	case string:
		return strings.Compare(x, b.(string))
	case float64:
		return cmp.Compare(x, b.(float64))
	case int64:
		return cmp.Compare(x, b.(int64))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}
