package jsonlio

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/bobsim/datawash/pkg/frame"
	iox "github.com/bobsim/datawash/pkg/io/ioutils"
)

// WriteFile writes f to path, gzip compressing .gz paths.
func WriteFile(path string, f *frame.Frame) (err error) {
	out, err := iox.CreateMaybeCompressed(path, iox.Compressed(path))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(out, f)
}

// Write emits one object per row with keys in column order. Null cells are omitted.
func Write(out io.Writer, f *frame.Frame) error {
	w := bufio.NewWriter(out)
	for r := 0; r < f.Rows(); r++ {
		_ = w.WriteByte('{')
		first := true
		for _, col := range f.Columns() {
			v := col.Value(r)
			if v == nil {
				continue
			}
			if t, ok := v.(time.Time); ok {
				v = t.Format(time.RFC3339)
			}
			k, err := json.Marshal(col.Name())
			if err != nil {
				return err
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			if !first {
				_ = w.WriteByte(',')
			}
			first = false
			_, _ = w.Write(k)
			_ = w.WriteByte(':')
			_, _ = w.Write(b)
		}
		if _, err := w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}
