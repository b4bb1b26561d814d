package outliers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func ptr(v float64) *float64 { return &v }

func TestClipFloatAndInt(t *testing.T) {
	h := frame.NewFloatColumn("humidity", 4)
	h.Set(0, -3)
	h.Set(1, 55.5)
	h.SetNull(2)
	h.Set(3, 104)
	n := frame.NewIntColumn("n", 4)
	n.Set(0, 120)
	n.Set(1, 7)
	n.SetNull(2)
	n.Set(3, -2)
	f, err := frame.FromColumns(h, n)
	require.NoError(t, err)

	out, err := (&Clip{Columns: []string{"humidity", "n"}, Min: ptr(0), Max: ptr(100)}).Apply(context.Background(), f)
	require.NoError(t, err)

	got, err := out.FloatCol("humidity")
	require.NoError(t, err)
	assert.Equal(t, []any{0.0, 55.5, nil, 100.0}, []any{got.Value(0), got.Value(1), got.Value(2), got.Value(3)})
	ints, _ := out.ColumnByName("n")
	assert.Equal(t, int64(100), ints.Value(0))
	assert.Equal(t, int64(7), ints.Value(1))
	assert.Nil(t, ints.Value(2))
	assert.Equal(t, int64(0), ints.Value(3))
}

func TestClipOpenBound(t *testing.T) {
	c := frame.NewFloatColumn("x", 2)
	c.Set(0, -5)
	c.Set(1, 1e6)
	f, err := frame.FromColumns(c)
	require.NoError(t, err)

	out, err := (&Clip{Columns: []string{"x"}, Min: ptr(0)}).Apply(context.Background(), f)
	require.NoError(t, err)
	got, _ := out.FloatCol("x")
	assert.Equal(t, 0.0, got.Value(0))
	assert.Equal(t, 1e6, got.Value(1))
}

func TestClipRejectsMissingAndStringColumns(t *testing.T) {
	s := frame.NewStringColumn("s", 1)
	f, err := frame.FromColumns(s)
	require.NoError(t, err)

	_, err = (&Clip{Columns: []string{"nope"}}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, frame.ErrTransform)
	_, err = (&Clip{Columns: []string{"s"}}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, frame.ErrTransform)
}
