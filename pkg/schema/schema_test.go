package schema

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobsim/datawash/pkg/frame"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()
	assert.Equal(t, []Kind{MarineWeather, TerrestrialWeather, RawMaterialPrice}, r.Kinds())

	types, err := r.Lookup(RawMaterialPrice)
	require.NoError(t, err)
	assert.Equal(t, frame.KindTime, types["조사일자"])
	assert.Equal(t, frame.KindFloat, types["당일조사가격"])
	assert.Equal(t, frame.KindString, types["조사등급명"])

	d, err := r.Dataset(TerrestrialWeather)
	require.NoError(t, err)
	assert.Equal(t, DefaultSkewThreshold, d.Skew.Threshold)
	assert.Equal(t, []string{"강수 계속시간(hr)", "일강수량(mm)"}, d.Impute.Zero)
	require.Len(t, d.Clip, 1)
	assert.Equal(t, 100.0, *d.Clip[0].Max)
}

func TestLookupUnknownKind(t *testing.T) {
	_, err := Default().Lookup("fish_catch")
	assert.ErrorIs(t, err, ErrUnknownDatasetKind)
}

func TestKeysRenderPeriod(t *testing.T) {
	d, err := Default().Dataset(RawMaterialPrice)
	require.NoError(t, err)
	p := Period{Year: 2019, Month: time.August}
	assert.Equal(t, "public_data/open_data_raw_material_price/origin/csv/201908.csv", d.OriginKeyFor(p))
	assert.Equal(t, "public_data/open_data_raw_material_price/process/csv/201908.csv", d.ProcessKeyFor(p))

	m, _ := Default().Dataset(MarineWeather)
	assert.Equal(t, "public_data/open_data_marine_weather/origin/csv/2014-2020.csv", m.OriginKeyFor(p))
}

func TestAliases(t *testing.T) {
	d, _ := Default().Dataset(RawMaterialPrice)
	a := d.Aliases()
	assert.Equal(t, "price", a["당일조사가격"])
	assert.Equal(t, "item_name", a["품목명"])
}

const tomlRegistry = `
[[datasets]]
kind = "fish_catch"
origin_key = "catch/origin/{period}.csv"
process_key = "catch/process/{period}.csv"
date_column = "date"

[[datasets.columns]]
name = "date"
type = "datetime"

[[datasets.columns]]
name = "tons"
type = "float"

[datasets.skew]
threshold = 0.5
`

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlRegistry), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	d, err := r.Dataset("fish_catch")
	require.NoError(t, err)
	assert.Equal(t, 0.5, d.Skew.Threshold)
	assert.Len(t, d.Columns, 2)
}

func TestParseRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"no kind":       "datasets:\n  - origin_key: a\n    process_key: b\n    columns: [{name: x, type: float}]\n",
		"bad type":      "datasets:\n  - kind: k\n    origin_key: a\n    process_key: b\n    columns: [{name: x, type: decimal}]\n",
		"date not time": "datasets:\n  - kind: k\n    origin_key: a\n    process_key: b\n    date_column: x\n    columns: [{name: x, type: float}]\n",
		"zero divisor":  "datasets:\n  - kind: k\n    origin_key: a\n    process_key: b\n    columns: [{name: x, type: float}]\n    units: {label_column: x, value_column: x, divisors: {1KG: 0}}\n",
		"clip inverted": "datasets:\n  - kind: k\n    origin_key: a\n    process_key: b\n    columns: [{name: x, type: float}]\n    clip: [{columns: [x], min: 5, max: 1}]\n",
		"duplicate":     "datasets:\n  - kind: k\n    origin_key: a\n    process_key: b\n    columns: [{name: x, type: float}]\n  - kind: k\n    origin_key: a\n    process_key: b\n    columns: [{name: x, type: float}]\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc), "yaml")
		assert.Error(t, err, name)
	}
	_, err := Parse(nil, "ini")
	assert.Error(t, err)
}

func TestPeriod(t *testing.T) {
	p, err := ParsePeriod("2019-08")
	require.NoError(t, err)
	assert.Equal(t, "201908", p.String())
	assert.True(t, p.Contains(time.Date(2019, 8, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2019, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "201907", p.Previous().String())

	jan, _ := ParsePeriod("202001")
	assert.Equal(t, "201912", jan.Previous().String())

	day, err := ParsePeriod("20190801")
	require.NoError(t, err)
	assert.Equal(t, "20190731", day.Previous().String())
	assert.False(t, day.Contains(time.Date(2019, 8, 2, 0, 0, 0, 0, time.UTC)))

	for _, bad := range []string{"2019", "201913", "abcdef"} {
		_, err := ParsePeriod(bad)
		assert.Error(t, err, bad)
	}
	assert.True(t, Period{}.IsZero())
	assert.Equal(t, "202310", MonthOf(time.Date(2023, 10, 19, 0, 0, 0, 0, time.UTC)).String())
}

func TestSelectCastsAndOrders(t *testing.T) {
	d := Dataset{Kind: "k", Columns: []ColumnSpec{
		{Name: "date", Type: "datetime"},
		{Name: "price", Type: "float"},
		{Name: "n", Type: "int"},
	}}
	raw := func(name string, vals ...string) frame.Column {
		c := frame.NewStringColumn(name, len(vals))
		for i, v := range vals {
			c.Set(i, v)
		}
		return c
	}
	f, err := frame.FromColumns(
		raw("extra", "x", "y"),
		raw("n", "1,200", " "),
		raw("price", "1,234.5", ""),
		raw("date", "20190801", "2019-08-02 09:30:00"),
	)
	require.NoError(t, err)

	out, err := Select(f, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "price", "n"}, out.Schema().Names())
	price, _ := out.FloatCol("price")
	assert.Equal(t, 1234.5, price.Value(0))
	assert.Nil(t, price.Value(1))
	n, _ := out.ColumnByName("n")
	assert.Equal(t, int64(1200), n.Value(0))
	assert.True(t, n.IsNull(1))
	dates, _ := out.TimeCol("date")
	assert.Equal(t, time.Date(2019, 8, 2, 9, 30, 0, 0, time.UTC), dates.Value(1))
}

func TestSelectMismatch(t *testing.T) {
	d := Dataset{Kind: "k", Columns: []ColumnSpec{{Name: "price", Type: "float"}}}

	missing, err := frame.FromColumns(frame.NewStringColumn("cost", 1))
	require.NoError(t, err)
	_, err = Select(missing, d)
	assert.ErrorIs(t, err, ErrSchemaMismatch)

	bad := frame.NewStringColumn("price", 1)
	bad.Set(0, "cheap")
	f, err := frame.FromColumns(bad)
	require.NoError(t, err)
	_, err = Select(f, d)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
