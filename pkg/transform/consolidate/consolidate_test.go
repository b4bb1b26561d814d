package consolidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func stringCol(name string, vals ...string) *frame.StringColumn {
	c := frame.NewStringColumn(name, len(vals))
	for i, v := range vals {
		c.Set(i, v)
	}
	return c
}

func TestConsolidate(t *testing.T) {
	f, err := frame.FromColumns(
		stringCol("A", "x", "p"),
		stringCol("B", "y", "q"),
		stringCol("C", "z", "r"),
		stringCol("D", "w", "s"),
		stringCol("region", "seoul", "busan"),
	)
	require.NoError(t, err)

	out, err := Consolidate(f, []string{"A", "B", "C", "D"}, "item")
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "item"}, out.Schema().Names())
	item, err := out.StringCol("item")
	require.NoError(t, err)
	assert.Equal(t, "xyzw", item.Value(0))
	assert.Equal(t, "pqrs", item.Value(1))
	for _, gone := range []string{"A", "B", "C", "D"} {
		assert.False(t, out.Has(gone), gone)
	}
}

func TestConsolidateNullComponent(t *testing.T) {
	b := stringCol("B", "y")
	b.SetNull(0)
	f, err := frame.FromColumns(stringCol("A", "x"), b)
	require.NoError(t, err)

	out, err := Consolidate(f, []string{"A", "B"}, "item")
	require.NoError(t, err)
	item, _ := out.StringCol("item")
	assert.True(t, item.IsNull(0))
}

func TestConsolidateRejectsNonString(t *testing.T) {
	f, err := frame.FromColumns(frame.NewFloatColumn("A", 1))
	require.NoError(t, err)
	_, err = Consolidate(f, []string{"A"}, "item")
	assert.ErrorIs(t, err, frame.ErrTransform)
}

func TestCollapseGradeAveragesPrices(t *testing.T) {
	day := time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC)
	date := frame.NewTimeColumn("date", 3)
	date.Set(0, day)
	date.Set(1, day)
	date.Set(2, day.AddDate(0, 0, 1))
	price := frame.NewFloatColumn("price", 3)
	price.Set(0, 100)
	price.Set(1, 120)
	price.Set(2, 90)
	f, err := frame.FromColumns(
		date,
		stringCol("region", "seoul", "seoul", "seoul"),
		stringCol("unit", "5KG", "5KG", "5KG"),
		stringCol("item", "rice", "rice", "rice"),
		stringCol("grade", "top", "mid", "top"),
		price,
	)
	require.NoError(t, err)

	out, err := Collapse(f, "grade", []string{"date", "region", "unit", "item"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Rows())
	assert.False(t, out.Has("grade"))
	p, err := out.FloatCol("price")
	require.NoError(t, err)
	assert.Equal(t, 110.0, p.Value(0))
	assert.Equal(t, 90.0, p.Value(1))
}

func TestCollapseGradeMissingGrade(t *testing.T) {
	f, err := frame.FromColumns(stringCol("item", "rice"))
	require.NoError(t, err)
	_, err = Collapse(f, "grade", []string{"item"})
	assert.ErrorIs(t, err, frame.ErrTransform)
}
