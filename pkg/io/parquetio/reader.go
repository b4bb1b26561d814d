// Package parquetio reads and writes flat parquet files.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	parquet "github.com/segmentio/parquet-go"

	"github.com/bobsim/datawash/pkg/frame"
)

// ReadFile loads every row group of a flat parquet file. Physical types map
// to frame kinds: doubles and floats to float, integers to int, booleans to
// bool and byte arrays to string.
func ReadFile(path string) (*frame.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	st, err := fh.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(fh, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open: %w", err)
	}

	fields := pf.Schema().Fields()
	cols := make([]frame.Column, len(fields))
	for i, fd := range fields {
		if !fd.Leaf() {
			return nil, fmt.Errorf("parquet field %s: nested columns are not supported", fd.Name())
		}
		cols[i] = frame.NewStringColumn(fd.Name(), 0)
		switch fd.Type().Kind() {
		case parquet.Double, parquet.Float:
			cols[i] = frame.NewFloatColumn(fd.Name(), 0)
		case parquet.Int32, parquet.Int64:
			cols[i] = frame.NewIntColumn(fd.Name(), 0)
		case parquet.Boolean:
			cols[i] = frame.NewBoolColumn(fd.Name(), 0)
		}
	}

	buf := make([]parquet.Row, 1024)
	for _, rg := range pf.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				appendRow(cols, row)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("parquet read: %w", err)
			}
			if n == 0 {
				break
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return frame.FromColumns(cols...)
}

func appendRow(cols []frame.Column, row parquet.Row) {
	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(cols) {
			continue
		}
		switch c := cols[idx].(type) {
		case *frame.FloatColumn:
			switch {
			case v.IsNull():
				c.AppendNull()
			case v.Kind() == parquet.Float:
				c.Append(float64(v.Float()))
			default:
				c.Append(v.Double())
			}
		case *frame.IntColumn:
			switch {
			case v.IsNull():
				c.AppendNull()
			case v.Kind() == parquet.Int32:
				c.Append(int64(v.Int32()))
			default:
				c.Append(v.Int64())
			}
		case *frame.BoolColumn:
			if v.IsNull() {
				c.AppendNull()
			} else {
				c.Append(v.Boolean())
			}
		case *frame.StringColumn:
			if v.IsNull() {
				c.AppendNull()
			} else {
				c.Append(string(v.ByteArray()))
			}
		}
	}
}
