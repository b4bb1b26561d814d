package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeebo/xxh3"
)

var (
	// ErrTransform marks a stage that produced or met an unusable shape.
	ErrTransform = errors.New("transform failure")
	// ErrShape is returned when columns of one frame disagree on length.
	ErrShape = fmt.Errorf("%w: ragged columns", ErrTransform)
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names lists column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

// NewFrame allocates an empty frame with the columns of s. Rows are added
// with AppendNullRow and filled with SetCell.
func NewFrame(s Schema) (*Frame, error) {
	cols := make([]Column, len(s.Columns))
	for i, cs := range s.Columns {
		c, err := NewColumn(cs.Name, cs.Type, 0)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}
	return FromColumns(cols...)
}

// FromColumns assembles a frame; every column must have the same length.
func FromColumns(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if i == 0 {
			f.nrows = c.Len()
		} else if c.Len() != f.nrows {
			return nil, fmt.Errorf("%w: column %s has %d rows, want %d", ErrShape, c.Name(), c.Len(), f.nrows)
		}
		if _, dup := f.index[c.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate column %s", ErrTransform, c.Name())
		}
		f.index[c.Name()] = i
		f.cols = append(f.cols, c)
		f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true})
	}
	return f, nil
}

func (f *Frame) Schema() Schema    { return f.schema }
func (f *Frame) Rows() int         { return f.nrows }
func (f *Frame) Cols() int         { return len(f.cols) }
func (f *Frame) Columns() []Column { return f.cols }

func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// FloatCol returns the named float column.
func (f *Frame) FloatCol(name string) (*FloatColumn, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrTransform, name)
	}
	c, ok := col.(*FloatColumn)
	if !ok {
		return nil, fmt.Errorf("%w: column %s is %s, want float", ErrTransform, name, col.Kind())
	}
	return c, nil
}

// StringCol returns the named string column.
func (f *Frame) StringCol(name string) (*StringColumn, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrTransform, name)
	}
	c, ok := col.(*StringColumn)
	if !ok {
		return nil, fmt.Errorf("%w: column %s is %s, want string", ErrTransform, name, col.Kind())
	}
	return c, nil
}

// TimeCol returns the named datetime column.
func (f *Frame) TimeCol(name string) (*TimeColumn, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: missing column %s", ErrTransform, name)
	}
	c, ok := col.(*TimeColumn)
	if !ok {
		return nil, fmt.Errorf("%w: column %s is %s, want datetime", ErrTransform, name, col.Kind())
	}
	return c, nil
}

// AppendNullRow appends a row with every cell null and returns its index.
func (f *Frame) AppendNullRow() int {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
	return f.nrows - 1
}

// SetCell stores v at row of the named column; nil stores a null. Numeric
// values convert between int and float kinds.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: missing column %s", ErrTransform, name)
	}
	if row < 0 || row >= f.nrows {
		return fmt.Errorf("%w: row %d out of range [0, %d)", ErrTransform, row, f.nrows)
	}
	if v == nil {
		f.cols[i].SetNull(row)
		return nil
	}
	ok = false
	switch c := f.cols[i].(type) {
	case *BoolColumn:
		var b bool
		if b, ok = v.(bool); ok {
			c.Set(row, b)
		}
	case *IntColumn:
		var n int64
		if n, ok = toInt(v); ok {
			c.Set(row, n)
		}
	case *FloatColumn:
		var x float64
		if x, ok = toFloat(v); ok {
			c.Set(row, x)
		}
	case *StringColumn:
		var s string
		if s, ok = v.(string); ok {
			c.Set(row, s)
		}
	case *TimeColumn:
		var t time.Time
		if t, ok = v.(time.Time); ok {
			c.Set(row, t)
		}
	}
	if !ok {
		return fmt.Errorf("%w: column %s is %s, cannot hold %T", ErrTransform, name, f.cols[i].Kind(), v)
	}
	return nil
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Clone deep-copies the frame.
func (f *Frame) Clone() *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Renamed(c.Name())
	}
	out, _ := FromColumns(cols...)
	out.nrows = f.nrows
	return out
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	skip := make(map[string]struct{}, len(names))
	for _, n := range names {
		skip[n] = struct{}{}
	}
	keep := make([]Column, 0, len(f.cols))
	for _, c := range f.cols {
		if _, ok := skip[c.Name()]; !ok {
			keep = append(keep, c)
		}
	}
	out, _ := FromColumns(keep...)
	out.nrows = f.nrows
	return out
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return nil, fmt.Errorf("%w: missing column %s", ErrTransform, n)
		}
		cols = append(cols, c)
	}
	out, err := FromColumns(cols...)
	if err != nil {
		return nil, err
	}
	out.nrows = f.nrows
	return out, nil
}

// With adds col, or replaces the column of the same name in place.
func (f *Frame) With(col Column) (*Frame, error) {
	if len(f.cols) > 0 && col.Len() != f.nrows {
		return nil, fmt.Errorf("%w: column %s has %d rows, want %d", ErrShape, col.Name(), col.Len(), f.nrows)
	}
	cols := make([]Column, len(f.cols))
	copy(cols, f.cols)
	if i, ok := f.index[col.Name()]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return FromColumns(cols...)
}

// Take returns the given rows, in order, as a new frame.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Take(rows)
	}
	out, _ := FromColumns(cols...)
	out.nrows = len(rows)
	return out
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.nrows)
	for r := 0; r < f.nrows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return f.Take(rows)
}

// Fingerprint hashes names, kinds and cell values; equal frames hash equal.
func (f *Frame) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, c := range f.cols {
		_, _ = h.WriteString(c.Name())
		_, _ = h.Write([]byte{byte(c.Kind()), 0})
		for r := 0; r < c.Len(); r++ {
			if c.IsNull(r) {
				_, _ = h.Write([]byte{0xff})
				continue
			}
			switch v := c.Value(r).(type) {
			case float64:
				binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
				_, _ = h.Write(buf[:])
			case int64:
				binary.LittleEndian.PutUint64(buf[:], uint64(v))
				_, _ = h.Write(buf[:])
			case bool:
				if v {
					_, _ = h.Write([]byte{1})
				} else {
					_, _ = h.Write([]byte{0})
				}
			case string:
				_, _ = h.WriteString(v)
				_, _ = h.Write([]byte{0})
			case time.Time:
				binary.LittleEndian.PutUint64(buf[:], uint64(v.UnixNano()))
				_, _ = h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}
