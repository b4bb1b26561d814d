package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/io/csvio"
	iox "github.com/bobsim/datawash/pkg/io/ioutils"
	"github.com/bobsim/datawash/pkg/io/jsonlio"
	"github.com/bobsim/datawash/pkg/io/parquetio"
)

// Format is a file codec selected by extension.
type Format interface {
	Read(path string) (*frame.Frame, error)
	Write(path string, f *frame.Frame) error
}

type CSV struct {
	Encoding  string
	Delimiter rune
}

func (c CSV) Read(path string) (*frame.Frame, error) {
	return csvio.ReadFile(path, csvio.ReaderOptions{Encoding: c.Encoding, Delimiter: c.Delimiter})
}

func (c CSV) Write(path string, f *frame.Frame) error {
	return csvio.WriteFile(path, f, csvio.WriterOptions{Encoding: c.Encoding, Delimiter: c.Delimiter})
}

type JSONL struct{}

func (JSONL) Read(path string) (*frame.Frame, error) {
	return jsonlio.ReadFile(path)
}

func (JSONL) Write(path string, f *frame.Frame) error {
	return jsonlio.WriteFile(path, f)
}

type Parquet struct{}

func (Parquet) Read(path string) (*frame.Frame, error) {
	return parquetio.ReadFile(path)
}

func (Parquet) Write(path string, f *frame.Frame) error {
	return parquetio.WriteFile(path, f)
}

// Formats maps lower-case extensions (with dot) to codecs.
type Formats map[string]Format

// DefaultFormats covers .csv, .jsonl and .parquet with the given CSV codec.
func DefaultFormats(csv CSV) Formats {
	return Formats{".csv": csv, ".jsonl": JSONL{}, ".parquet": Parquet{}}
}

// For resolves the codec for key. A trailing .gz is looked through, but only
// the line-oriented formats accept it.
func (fs Formats) For(key string) (Format, error) {
	inner := strings.ToLower(filepath.Ext(iox.StripCompression(key)))
	f, ok := fs[inner]
	if !ok {
		return nil, fmt.Errorf("%w: no format for %q", ErrStorage, key)
	}
	if _, isParquet := f.(Parquet); isParquet && iox.Compressed(key) {
		return nil, fmt.Errorf("%w: gzip parquet is not supported: %q", ErrStorage, key)
	}
	return f, nil
}
