package training

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bobsim/datawash/pkg/frame"
)

// UnderPredictionPenalty scales errors where the prediction falls short.
const UnderPredictionPenalty = 1.1

// PenalizedRMSE is the root mean squared error after multiplying every
// positive residual (actual above predicted) by UnderPredictionPenalty.
func PenalizedRMSE(actual, predicted []float64) (float64, error) {
	if len(actual) != len(predicted) {
		return 0, fmt.Errorf("rmse: %d actual values, %d predictions", len(actual), len(predicted))
	}
	if len(actual) == 0 {
		return 0, fmt.Errorf("rmse: no values")
	}
	sq := make([]float64, len(actual))
	for i := range actual {
		e := actual[i] - predicted[i]
		if e > 0 {
			e *= UnderPredictionPenalty
		}
		sq[i] = e * e
	}
	return math.Sqrt(stat.Mean(sq, nil)), nil
}

// Expm1 restores columns written through log1p back to their original units.
type Expm1 struct{ Columns []string }

func (t *Expm1) Name() string { return "expm1" }

func (t *Expm1) Apply(ctx context.Context, f *frame.Frame) (*frame.Frame, error) {
	return InvertLog1p(f, t.Columns...)
}

// InvertLog1p applies exp(x)-1 to the named numeric columns.
func InvertLog1p(f *frame.Frame, columns ...string) (*frame.Frame, error) {
	out := f
	for _, name := range columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: missing column %s", frame.ErrTransform, name)
		}
		src, err := frame.AsFloat(col)
		if err != nil {
			return nil, err
		}
		inv := frame.NewFloatColumn(name, src.Len())
		for i := 0; i < src.Len(); i++ {
			if v, ok := src.Get(i); ok {
				inv.Set(i, math.Expm1(v))
			} else {
				inv.SetNull(i)
			}
		}
		if out, err = out.With(inv); err != nil {
			return nil, err
		}
	}
	return out, nil
}
