package schema

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/bobsim/datawash/pkg/frame"
)

var dateLayouts = []string{
	"2006-01-02",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
}

// Select keeps the dataset's registered columns, in registry order, and casts every
// value to the column's target type. Blank cells become nulls.
func Select(raw *frame.Frame, d Dataset) (*frame.Frame, error) {
	types, err := d.Types()
	if err != nil {
		return nil, err
	}
	cols := make([]frame.Column, 0, len(d.Columns))
	for _, spec := range d.Columns {
		src, ok := raw.ColumnByName(spec.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", ErrSchemaMismatch, d.Kind, spec.Name)
		}
		col, err := castColumn(src, types[spec.Name])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, d.Kind, err)
		}
		cols = append(cols, col)
	}
	return frame.FromColumns(cols...)
}

func castColumn(src frame.Column, kind frame.Kind) (frame.Column, error) {
	if src.Kind() == kind {
		return src.Renamed(src.Name()), nil
	}
	out, err := frame.NewColumn(src.Name(), kind, src.Len())
	if err != nil {
		return nil, err
	}
	for i := 0; i < src.Len(); i++ {
		v := src.Value(i)
		if blank(v) {
			out.SetNull(i)
			continue
		}
		if err := setCast(out, i, v); err != nil {
			return nil, fmt.Errorf("column %q row %d: %v", src.Name(), i, err)
		}
	}
	return out, nil
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func setCast(col frame.Column, i int, v any) error {
	switch c := col.(type) {
	case *frame.FloatColumn:
		if s, ok := v.(string); ok {
			v = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		}
		x, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		if math.IsNaN(x) {
			c.SetNull(i)
			return nil
		}
		c.Set(i, x)
	case *frame.IntColumn:
		if s, ok := v.(string); ok {
			v = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
		}
		x, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		c.Set(i, x)
	case *frame.StringColumn:
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		c.Set(i, s)
	case *frame.BoolColumn:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		c.Set(i, b)
	case *frame.TimeColumn:
		t, err := toTime(v)
		if err != nil {
			return err
		}
		c.Set(i, t)
	default:
		return fmt.Errorf("unsupported target kind %s", col.Kind())
	}
	return nil
}

func toTime(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return cast.ToTimeInDefaultLocationE(s, time.UTC)
}
