// Package store persists frames under object keys of the form
// <domain>/<dataset>/<origin|process>/<format>/<period>.<ext>.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobsim/datawash/pkg/frame"
)

var (
	// ErrStorage is the parent of every storage failure.
	ErrStorage = errors.New("storage failure")
	// ErrNotFound reports a missing object.
	ErrNotFound = fmt.Errorf("%w: object not found", ErrStorage)
	// ErrDecode reports an object that exists but cannot be parsed.
	ErrDecode = fmt.Errorf("%w: undecodable object", ErrStorage)
)

// Store fetches and saves tabular objects by key.
type Store interface {
	Fetch(ctx context.Context, key string) (*frame.Frame, error)
	Save(ctx context.Context, key string, f *frame.Frame) error
}
