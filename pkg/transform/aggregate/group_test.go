package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func TestGroupMeanAveragesStationsPerDay(t *testing.T) {
	d1 := time.Date(2019, 8, 2, 0, 0, 0, 0, time.UTC)
	d0 := d1.AddDate(0, 0, -1)
	date := frame.NewTimeColumn("date", 5)
	for i, d := range []time.Time{d1, d0, d1, d0, d0} {
		date.Set(i, d)
	}
	date.SetNull(4)
	station := frame.NewStringColumn("station", 5)
	temp := frame.NewFloatColumn("temp", 5)
	for i, v := range []float64{10, 20, 14, 22, 99} {
		temp.Set(i, v)
	}
	temp.SetNull(2)
	wave := frame.NewIntColumn("wave", 5)
	for i, v := range []int64{1, 2, 3, 4, 5} {
		wave.Set(i, v)
	}
	f, err := frame.FromColumns(station, date, temp, wave)
	require.NoError(t, err)

	out, err := (&GroupMean{Keys: []string{"date"}}).Apply(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, []string{"date", "temp", "wave"}, out.Schema().Names())
	require.Equal(t, 2, out.Rows())
	dates, _ := out.TimeCol("date")
	assert.Equal(t, d0, dates.Value(0))
	assert.Equal(t, d1, dates.Value(1))
	temps, _ := out.FloatCol("temp")
	assert.Equal(t, 21.0, temps.Value(0))
	assert.Equal(t, 10.0, temps.Value(1))
	waves, err := out.FloatCol("wave")
	require.NoError(t, err)
	assert.Equal(t, 3.0, waves.Value(0))
	assert.Equal(t, 2.0, waves.Value(1))
}

func TestGroupMeanAllNullGroupStaysNull(t *testing.T) {
	key := frame.NewStringColumn("k", 2)
	key.Set(0, "a")
	key.Set(1, "a")
	v := frame.NewFloatColumn("v", 2)
	v.SetNull(0)
	v.SetNull(1)
	f, err := frame.FromColumns(key, v)
	require.NoError(t, err)

	out, err := Mean(f, []string{"k"})
	require.NoError(t, err)
	vals, _ := out.FloatCol("v")
	assert.True(t, vals.IsNull(0))
}

func TestGroupMeanNeedsKeys(t *testing.T) {
	f, err := frame.FromColumns(frame.NewFloatColumn("v", 1))
	require.NoError(t, err)
	_, err = Mean(f, nil)
	assert.ErrorIs(t, err, frame.ErrTransform)
	_, err = Mean(f, []string{"missing"})
	assert.ErrorIs(t, err, frame.ErrTransform)
}
