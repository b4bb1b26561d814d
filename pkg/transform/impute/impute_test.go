package impute

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func floatFrame(t *testing.T, name string, vals ...any) *frame.Frame {
	t.Helper()
	c := frame.NewFloatColumn(name, len(vals))
	for i, v := range vals {
		if v == nil {
			c.SetNull(i)
			continue
		}
		c.Set(i, v.(float64))
	}
	f, err := frame.FromColumns(c)
	require.NoError(t, err)
	return f
}

func floats(t *testing.T, f *frame.Frame, name string) []any {
	t.Helper()
	c, err := f.FloatCol(name)
	require.NoError(t, err)
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Value(i)
	}
	return out
}

func makeFloatFrame(t *testing.T) *frame.Frame {
	// rows 1,3,4 null
	return floatFrame(t, "x", 1.0, nil, 3.0, nil, nil)
}

func TestConstant(t *testing.T) {
	f := makeFloatFrame(t)
	out, err := (&Constant{Columns: []string{"x"}, Value: 2.5}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.5, 3.0, 2.5, 2.5}, floats(t, out, "x"))
}

func TestMean(t *testing.T) {
	out, err := (&Mean{Columns: []string{"x"}}).Apply(context.Background(), makeFloatFrame(t))
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0, 2.0, 2.0}, floats(t, out, "x"))
}

func TestMedian(t *testing.T) {
	f := floatFrame(t, "x", 1.0, nil, 3.0, 10.0)
	out, err := (&Median{Columns: []string{"x"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0, 3.0, 10.0}, floats(t, out, "x"))
}

func TestLinearInterior(t *testing.T) {
	f := floatFrame(t, "x", 1.0, nil, 3.0, nil, nil, 9.0)
	out, err := (&Linear{Columns: []string{"x"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0, 5.0, 7.0, 9.0}, floats(t, out, "x"))
}

func TestLinearBoundariesUseNearestValue(t *testing.T) {
	f := floatFrame(t, "x", nil, nil, 4.0, nil, 8.0, nil)
	out, err := (&Linear{Columns: []string{"x"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{4.0, 4.0, 4.0, 6.0, 8.0, 8.0}, floats(t, out, "x"))
}

func TestLinearAllNullLeftAlone(t *testing.T) {
	f := floatFrame(t, "x", nil, nil)
	out, err := (&Linear{Columns: []string{"x"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil}, floats(t, out, "x"))
}

func TestLinearConvertsIntColumn(t *testing.T) {
	c := frame.NewIntColumn("n", 3)
	c.Set(0, 2)
	c.SetNull(1)
	c.Set(2, 4)
	f, err := frame.FromColumns(c)
	require.NoError(t, err)

	out, err := (&Linear{Columns: []string{"n"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3.0, 4.0}, floats(t, out, "n"))
}

func TestImputeWithoutMissingValuesIsNoop(t *testing.T) {
	a := floatFrame(t, "a", 1.0, 5.0, 2.0)
	b := frame.NewStringColumn("s", 3)
	b.Set(0, "x")
	b.SetNull(1)
	b.Set(2, "z")
	f, err := a.With(b)
	require.NoError(t, err)
	before := f.Clone()

	out, err := Impute(f, []string{"a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, before.Fingerprint(), out.Fingerprint())
}

func TestImputeGroups(t *testing.T) {
	f := floatFrame(t, "lin", 1.0, nil, 3.0)
	z := frame.NewFloatColumn("zero", 3)
	z.SetNull(0)
	z.Set(1, 7)
	z.SetNull(2)
	f, err := f.With(z)
	require.NoError(t, err)

	out, err := Impute(f, []string{"lin"}, []string{"zero"})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, floats(t, out, "lin"))
	assert.Equal(t, []any{0.0, 7.0, 0.0}, floats(t, out, "zero"))
}

func TestDropNulls(t *testing.T) {
	f := floatFrame(t, "x", 1.0, nil, 3.0)
	s := frame.NewStringColumn("s", 3)
	s.Set(0, "a")
	s.Set(1, "b")
	s.SetNull(2)
	f, err := f.With(s)
	require.NoError(t, err)

	out, err := (&DropNulls{}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Rows())
	assert.Equal(t, []any{1.0}, floats(t, out, "x"))

	out, err = (&DropNulls{Columns: []string{"x"}}).Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Rows())
}

func TestDropNullsEmptyResultFails(t *testing.T) {
	f := floatFrame(t, "x", nil, nil)
	_, err := (&DropNulls{}).Apply(context.Background(), f)
	require.Error(t, err)
	assert.True(t, errors.Is(err, frame.ErrTransform))
}

func TestZeroFillFormatsIntoStringColumns(t *testing.T) {
	s := frame.NewStringColumn("code", 2)
	s.Set(0, "A1")
	s.SetNull(1)
	n := frame.NewIntColumn("n", 2)
	n.SetNull(0)
	n.Set(1, 4)
	f, err := frame.FromColumns(s, n)
	require.NoError(t, err)

	out, err := Zero("code", "n").Apply(context.Background(), f)
	require.NoError(t, err)
	code, _ := out.StringCol("code")
	assert.Equal(t, "0", code.Value(1))
	num, _ := out.ColumnByName("n")
	assert.Equal(t, int64(0), num.Value(0))
}

func TestConstantRejectsUncastableValue(t *testing.T) {
	f := floatFrame(t, "x", nil, 1.0)
	_, err := (&Constant{Columns: []string{"x"}, Value: "n/a"}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, frame.ErrTransform)

	d := frame.NewTimeColumn("d", 1)
	d.SetNull(0)
	g, err := frame.FromColumns(d)
	require.NoError(t, err)
	_, err = Zero("d").Apply(context.Background(), g)
	assert.ErrorIs(t, err, frame.ErrTransform)
}
