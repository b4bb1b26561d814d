package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func prices(t *testing.T, vals ...float64) *frame.Frame {
	t.Helper()
	c := frame.NewFloatColumn("price", len(vals)+1)
	for i, v := range vals {
		c.Set(i, v)
	}
	c.SetNull(len(vals))
	f, err := frame.FromColumns(c)
	require.NoError(t, err)
	return f
}

func TestNonNegativePassesThrough(t *testing.T) {
	f := prices(t, 0, 12.5, 3)
	out, err := NonNegative("price").Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Same(t, f, out)
}

func TestNonNegativeRejectsNegative(t *testing.T) {
	_, err := NonNegative("price").Apply(context.Background(), prices(t, 1, -0.5))
	require.ErrorIs(t, err, frame.ErrTransform)
	assert.Contains(t, err.Error(), "1 out-of-range")
}

func TestRangeUpperBound(t *testing.T) {
	max := 10.0
	_, err := (&Range{Columns: []string{"price"}, Max: &max}).Apply(context.Background(), prices(t, 11, 12))
	require.ErrorIs(t, err, frame.ErrTransform)
	assert.Contains(t, err.Error(), "2 out-of-range")
}

func TestRangeMissingOrTextColumn(t *testing.T) {
	_, err := NonNegative("cost").Apply(context.Background(), prices(t, 1))
	assert.ErrorIs(t, err, frame.ErrTransform)

	s, err := frame.FromColumns(frame.NewStringColumn("price", 1))
	require.NoError(t, err)
	_, err = NonNegative("price").Apply(context.Background(), s)
	assert.ErrorIs(t, err, frame.ErrTransform)
}
