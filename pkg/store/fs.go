package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bobsim/datawash/pkg/frame"
)

// FS stores objects as files below Root.
type FS struct {
	Root    string
	Formats Formats
}

// NewFS returns a store rooted at root using DefaultFormats(csv).
func NewFS(root string, csv CSV) *FS {
	return &FS{Root: root, Formats: DefaultFormats(csv)}
}

func (s *FS) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: invalid key %q", ErrStorage, key)
	}
	return filepath.Join(s.Root, filepath.FromSlash(clean[1:])), nil
}

func (s *FS) Fetch(ctx context.Context, key string) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	format, err := s.Formats.For(key)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrStorage, key, err)
	}
	f, err := format.Read(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	return f, nil
}

// Save writes to a temporary sibling and renames it over the target, so
// readers never observe a partial object.
func (s *FS) Save(ctx context.Context, key string, f *frame.Frame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	format, err := s.Formats.For(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, key, err)
	}
	// keep the extension so the codec sees the same compression choice
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*-"+filepath.Base(p))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStorage, key, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	if err := format.Write(tmpPath, f); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrStorage, key, err)
	}
	if err := os.Rename(tmpPath, p); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %s: %v", ErrStorage, key, err)
	}
	return nil
}
