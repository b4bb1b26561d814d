package training

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"

	"github.com/bobsim/datawash/pkg/frame"
)

// ToInstances converts a null-free frame into golearn DenseInstances with
// target as the class attribute. Numeric columns become float attributes and
// string columns categorical ones; datetime columns and those named in skip
// are left out.
func ToInstances(f *frame.Frame, target string, skip ...string) (*base.DenseInstances, error) {
	tc, ok := f.ColumnByName(target)
	if !ok || !tc.Kind().Numeric() {
		return nil, fmt.Errorf("%w: target %s must be a numeric column", frame.ErrTransform, target)
	}
	skipped := map[string]bool{}
	for _, s := range skip {
		skipped[s] = true
	}

	var cols []frame.Column
	var attrs []base.Attribute
	var class base.Attribute
	for _, c := range f.Columns() {
		if skipped[c.Name()] && c.Name() != target {
			continue
		}
		var a base.Attribute
		switch {
		case c.Kind().Numeric():
			a = base.NewFloatAttribute(c.Name())
		case c.Kind() == frame.KindString:
			ca := new(base.CategoricalAttribute)
			ca.SetName(c.Name())
			a = ca
		default:
			continue
		}
		if n := frame.NullCount(c); n > 0 {
			return nil, fmt.Errorf("%w: column %s has %d nulls", frame.ErrTransform, c.Name(), n)
		}
		if c.Name() == target {
			class = a
		}
		cols = append(cols, c)
		attrs = append(attrs, a)
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.AddClassAttribute(class); err != nil {
		return nil, err
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}
	for i, c := range cols {
		var num *frame.FloatColumn
		if c.Kind().Numeric() {
			num, _ = frame.AsFloat(c)
		}
		for r := 0; r < f.Rows(); r++ {
			if num != nil {
				v, _ := num.Get(r)
				inst.Set(specs[i], r, base.PackFloatToBytes(v))
				continue
			}
			inst.Set(specs[i], r, attrs[i].GetSysValFromString(c.Value(r).(string)))
		}
	}
	return inst, nil
}

// FromInstances converts golearn instances, such as model predictions, back into a frame.
func FromInstances(inst base.FixedDataGrid) (*frame.Frame, error) {
	attrs := inst.AllAttributes()
	_, nrows := inst.Size()
	cols := make([]frame.Column, len(attrs))
	for i, a := range attrs {
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		if _, isFloat := a.(*base.FloatAttribute); isFloat {
			c := frame.NewFloatColumn(a.GetName(), nrows)
			for r := 0; r < nrows; r++ {
				c.Set(r, base.UnpackBytesToFloat(inst.Get(spec, r)))
			}
			cols[i] = c
			continue
		}
		c := frame.NewStringColumn(a.GetName(), nrows)
		for r := 0; r < nrows; r++ {
			c.Set(r, a.GetStringFromSysVal(inst.Get(spec, r)))
		}
		cols[i] = c
	}
	return frame.FromColumns(cols...)
}
