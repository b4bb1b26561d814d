package csvio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/bobsim/datawash/pkg/frame"
)

const priceCSV = "조사일자,조사구분명,당일조사가격\n2019-08-01,소비자가격,\"1,500\"\n2019-08-02, 소비자가격 ,\n"

func eucKR(t *testing.T, s string) []byte {
	t.Helper()
	b, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestReadEUCKR(t *testing.T) {
	f, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(eucKR(t, priceCSV)))
	require.NoError(t, err)
	assert.Equal(t, []string{"조사일자", "조사구분명", "당일조사가격"}, f.Schema().Names())
	assert.Equal(t, 2, f.Rows())

	class, err := f.StringCol("조사구분명")
	require.NoError(t, err)
	assert.Equal(t, "소비자가격", class.Value(1))
	price, _ := f.StringCol("당일조사가격")
	assert.Equal(t, "1,500", price.Value(0))
	assert.True(t, price.IsNull(1))
}

func TestReadUTF8WithBOM(t *testing.T) {
	in := "\ufeff" + priceCSV
	f, err := NewReader(ReaderOptions{Encoding: "utf-8"}).Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "조사일자", f.Schema().Names()[0])
}

func TestReadSniffsDelimiter(t *testing.T) {
	f, err := NewReader(ReaderOptions{Encoding: "utf-8"}).Read(strings.NewReader("a;b\n1;2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, f.Schema().Names())
}

func TestShortRecords(t *testing.T) {
	in := "a,b\n1\n"
	r := NewReader(ReaderOptions{Encoding: "utf-8"})
	f, err := r.Read(strings.NewReader(in))
	require.NoError(t, err)
	b, _ := f.StringCol("b")
	assert.True(t, b.IsNull(0))
	assert.Equal(t, "short_records=1", r.Warnings())

	_, err = NewReader(ReaderOptions{Encoding: "utf-8", Strict: true}).Read(strings.NewReader(in))
	assert.Error(t, err)
}

func TestUnknownCharset(t *testing.T) {
	_, err := NewReader(ReaderOptions{Encoding: "klingon"}).Read(strings.NewReader("a\n"))
	assert.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	dates := frame.NewTimeColumn("조사일자", 2)
	dates.Set(0, time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC))
	dates.SetNull(1)
	price := frame.NewFloatColumn("당일조사가격", 2)
	price.Set(0, 22)
	price.Set(1, 1.5)
	f, err := frame.FromColumns(dates, price)
	require.NoError(t, err)

	for _, name := range []string{"out.csv", "out.csv.gz"} {
		p := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteFile(p, f, WriterOptions{}))
		back, err := ReadFile(p, ReaderOptions{})
		require.NoError(t, err)
		d, _ := back.StringCol("조사일자")
		assert.Equal(t, "2019-08-01", d.Value(0))
		assert.True(t, d.IsNull(1))
		v, _ := back.StringCol("당일조사가격")
		assert.Equal(t, "1.5", v.Value(1))
	}
}

func TestWriteUnencodableFails(t *testing.T) {
	s := frame.NewStringColumn("s", 1)
	s.Set(0, "🙂")
	f, err := frame.FromColumns(s)
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, f, WriterOptions{Encoding: "euc-kr"}))
}
