package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/transform"

	"github.com/bobsim/datawash/pkg/frame"
	iox "github.com/bobsim/datawash/pkg/io/ioutils"
)

type WriterOptions struct {
	Encoding  string // empty means DefaultEncoding
	Delimiter rune   // default ','
}

// WriteFile writes f to path with a header row, gzip compressing .gz paths.
func WriteFile(path string, f *frame.Frame, opt WriterOptions) (err error) {
	out, err := iox.CreateMaybeCompressed(path, iox.Compressed(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(out, f, opt)
}

// Write encodes f into out. Characters the charset cannot represent are an error.
func Write(out io.Writer, f *frame.Frame, opt WriterOptions) error {
	enc, err := Charset(opt.Encoding)
	if err != nil {
		return err
	}
	tw := transform.NewWriter(out, enc.NewEncoder())
	w := csv.NewWriter(tw)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}

	if err := w.Write(f.Schema().Names()); err != nil {
		return err
	}
	row := make([]string, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c, col := range f.Columns() {
			row[c] = Format(col.Value(r))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("csv row %d: %w", r, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return tw.Close()
}

// Format renders a cell; nulls are empty and midnight timestamps print as dates.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	}
	return fmt.Sprint(v)
}
