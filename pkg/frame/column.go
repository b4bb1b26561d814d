package frame

import (
	"fmt"
	"strings"
	"time"
)

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "datetime"
	default:
		return "invalid"
	}
}

// Numeric reports whether values of the kind take part in statistics.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// ParseKind maps registry type names onto a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "int64", "integer":
		return KindInt, nil
	case "float", "float64", "double":
		return KindFloat, nil
	case "string", "str", "object", "category":
		return KindString, nil
	case "datetime", "time", "date", "datetime64[ns]":
		return KindTime, nil
	}
	return KindInvalid, fmt.Errorf("unknown column type %q", s)
}

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	AppendNull()
	// Value returns the cell as an untyped value, nil when null.
	Value(i int) any
	// Take returns a new column holding the given rows in order.
	Take(rows []int) Column
	// Renamed returns a copy of the column under another name.
	Renamed(name string) Column
}

type series[T any] struct {
	name  string
	data  []T
	nulls []bool
}

func newSeries[T any](name string, n int) series[T] {
	return series[T]{name: name, data: make([]T, n), nulls: make([]bool, n)}
}

func (s *series[T]) Name() string      { return s.name }
func (s *series[T]) Len() int          { return len(s.data) }
func (s *series[T]) IsNull(i int) bool { return s.nulls[i] }
func (s *series[T]) SetNull(i int) {
	var zero T
	s.data[i] = zero
	s.nulls[i] = true
}
func (s *series[T]) Get(i int) (T, bool) { return s.data[i], !s.nulls[i] }
func (s *series[T]) Set(i int, v T)      { s.data[i] = v; s.nulls[i] = false }
func (s *series[T]) Append(v T)          { s.data = append(s.data, v); s.nulls = append(s.nulls, false) }
func (s *series[T]) AppendNull() {
	var zero T
	s.data = append(s.data, zero)
	s.nulls = append(s.nulls, true)
}

func (s *series[T]) Value(i int) any {
	if s.nulls[i] {
		return nil
	}
	return s.data[i]
}

func (s *series[T]) take(rows []int) series[T] {
	out := newSeries[T](s.name, len(rows))
	for i, r := range rows {
		out.data[i] = s.data[r]
		out.nulls[i] = s.nulls[r]
	}
	return out
}

func (s *series[T]) renamed(name string) series[T] {
	out := series[T]{name: name, data: make([]T, len(s.data)), nulls: make([]bool, len(s.nulls))}
	copy(out.data, s.data)
	copy(out.nulls, s.nulls)
	return out
}

type BoolColumn struct{ series[bool] }

func NewBoolColumn(name string, n int) *BoolColumn {
	return &BoolColumn{newSeries[bool](name, n)}
}
func (c *BoolColumn) Kind() Kind                 { return KindBool }
func (c *BoolColumn) Take(rows []int) Column     { return &BoolColumn{c.take(rows)} }
func (c *BoolColumn) Renamed(name string) Column { return &BoolColumn{c.renamed(name)} }

type IntColumn struct{ series[int64] }

func NewIntColumn(name string, n int) *IntColumn {
	return &IntColumn{newSeries[int64](name, n)}
}
func (c *IntColumn) Kind() Kind                 { return KindInt }
func (c *IntColumn) Take(rows []int) Column     { return &IntColumn{c.take(rows)} }
func (c *IntColumn) Renamed(name string) Column { return &IntColumn{c.renamed(name)} }

type FloatColumn struct{ series[float64] }

func NewFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{newSeries[float64](name, n)}
}
func (c *FloatColumn) Kind() Kind                 { return KindFloat }
func (c *FloatColumn) Take(rows []int) Column     { return &FloatColumn{c.take(rows)} }
func (c *FloatColumn) Renamed(name string) Column { return &FloatColumn{c.renamed(name)} }

// Valid returns the non-null values in row order.
func (c *FloatColumn) Valid() []float64 {
	out := make([]float64, 0, len(c.data))
	for i, v := range c.data {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

type StringColumn struct{ series[string] }

func NewStringColumn(name string, n int) *StringColumn {
	return &StringColumn{newSeries[string](name, n)}
}
func (c *StringColumn) Kind() Kind                 { return KindString }
func (c *StringColumn) Take(rows []int) Column     { return &StringColumn{c.take(rows)} }
func (c *StringColumn) Renamed(name string) Column { return &StringColumn{c.renamed(name)} }

type TimeColumn struct{ series[time.Time] }

func NewTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{newSeries[time.Time](name, n)}
}
func (c *TimeColumn) Kind() Kind                 { return KindTime }
func (c *TimeColumn) Take(rows []int) Column     { return &TimeColumn{c.take(rows)} }
func (c *TimeColumn) Renamed(name string) Column { return &TimeColumn{c.renamed(name)} }

// NewColumn allocates an empty column of kind k.
func NewColumn(name string, k Kind, n int) (Column, error) {
	switch k {
	case KindBool:
		return NewBoolColumn(name, n), nil
	case KindInt:
		return NewIntColumn(name, n), nil
	case KindFloat:
		return NewFloatColumn(name, n), nil
	case KindString:
		return NewStringColumn(name, n), nil
	case KindTime:
		return NewTimeColumn(name, n), nil
	}
	return nil, fmt.Errorf("column %s: invalid kind %d", name, k)
}

// AsFloat returns c as a float column, converting int columns into a new one.
func AsFloat(c Column) (*FloatColumn, error) {
	switch col := c.(type) {
	case *FloatColumn:
		return col, nil
	case *IntColumn:
		out := NewFloatColumn(col.Name(), col.Len())
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Get(i); ok {
				out.Set(i, float64(v))
			} else {
				out.SetNull(i)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: column %s is %s, not numeric", ErrTransform, c.Name(), c.Kind())
}

// NullCount reports the nulls in any column.
func NullCount(c Column) int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}
