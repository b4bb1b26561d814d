// Package skew log-transforms numeric columns whose distribution is lopsided.
//
// Corrected columns hold log(1+v). Consumers recover original units with
// exp(x)-1; this package never applies the inverse itself.
package skew

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/bobsim/datawash/pkg/frame"
)

// DefaultThreshold is the skewness magnitude above which a column is corrected.
const DefaultThreshold = 1.0

// Correct applies log1p to every eligible column with |skewness| > Threshold.
// Eligible columns are the numeric ones, narrowed to Columns when set. A
// skewed column holding a value <= -1 is reported through Skip and kept as is.
type Correct struct {
	Threshold float64
	Columns   []string
	// Observe, when set, sees every measured column and whether it was corrected.
	Observe func(column string, skewness float64, corrected bool)
	// Skip, when set, sees columns left untouched because they hold a value
	// <= -1, where log1p is undefined.
	Skip func(column string, min float64)
}

func (t *Correct) Name() string { return "correct_skew" }

func (t *Correct) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	threshold := t.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	targets, err := eligible(f, t.Columns)
	if err != nil {
		return nil, err
	}
	for _, col := range targets {
		src, err := frame.AsFloat(col)
		if err != nil {
			return nil, err
		}
		vals := src.Valid()
		s := Skewness(vals)
		corrected := math.Abs(s) > threshold
		if corrected {
			if lo := floats.Min(vals); lo <= -1 {
				if t.Skip != nil {
					t.Skip(col.Name(), lo)
				}
				corrected = false
			} else if f, err = f.With(log1p(src)); err != nil {
				return nil, err
			}
		}
		if t.Observe != nil {
			t.Observe(col.Name(), s, corrected)
		}
	}
	return f, nil
}

// CorrectSkew is the function form of Correct.
func CorrectSkew(f *frame.Frame, threshold float64, columns []string) (*frame.Frame, error) {
	return (&Correct{Threshold: threshold, Columns: columns}).Apply(context.Background(), f)
}

// Skewness is the adjusted Fisher-Pearson sample skewness. It is NaN for fewer
// than three values or zero variance.
func Skewness(vals []float64) float64 {
	if len(vals) < 3 {
		return math.NaN()
	}
	return stat.Skew(vals, nil)
}

func eligible(f *frame.Frame, names []string) ([]frame.Column, error) {
	if len(names) == 0 {
		var out []frame.Column
		for _, c := range f.Columns() {
			if c.Kind().Numeric() {
				out = append(out, c)
			}
		}
		return out, nil
	}
	out := make([]frame.Column, 0, len(names))
	for _, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return nil, fmt.Errorf("%w: missing column %s", frame.ErrTransform, n)
		}
		if !c.Kind().Numeric() {
			return nil, fmt.Errorf("%w: column %s is %s, not numeric", frame.ErrTransform, n, c.Kind())
		}
		out = append(out, c)
	}
	return out, nil
}

// log1p expects every non-null value to be above -1.
func log1p(src *frame.FloatColumn) *frame.FloatColumn {
	out := frame.NewFloatColumn(src.Name(), src.Len())
	for i := 0; i < src.Len(); i++ {
		v, ok := src.Get(i)
		if !ok {
			out.SetNull(i)
			continue
		}
		out.Set(i, math.Log1p(v))
	}
	return out
}
