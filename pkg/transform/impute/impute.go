// Package impute fills or removes missing values.
package impute

import (
	"context"

	"github.com/bobsim/datawash/pkg/frame"
)

// Impute interpolates the linear group and zero-fills the zero group. Other
// columns pass through untouched.
func Impute(f *frame.Frame, linear, zero []string) (*frame.Frame, error) {
	return frame.NewPipeline().
		Add(&Linear{Columns: linear}).
		Add(Zero(zero...)).
		Run(context.Background(), f)
}
