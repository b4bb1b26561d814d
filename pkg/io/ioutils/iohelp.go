// Package ioutils opens and creates files with transparent gzip handling.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Compressed reports whether path names a gzip file.
func Compressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".gz")
}

// StripCompression removes a trailing .gz so the inner extension can be inspected.
func StripCompression(path string) string {
	if Compressed(path) {
		return path[:len(path)-len(filepath.Ext(path))]
	}
	return path
}

// OpenMaybeCompressed opens path for reading. Gzip input is detected by
// extension or by its magic bytes and decompressed on the fly.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, _ := br.Peek(2)
	if Compressed(path) || (len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return f.Close() }}, nil
	}
	return readCloser{Reader: br, closeFn: f.Close}, nil
}

// CreateMaybeCompressed creates path for writing. When compress is true the
// output is gzip encoded. Close flushes and reports the first error.
func CreateMaybeCompressed(path string, compress bool) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if compress {
		zw := gzip.NewWriter(f)
		return writeCloser{Writer: zw, closeFn: func() error {
			return errors.Join(zw.Close(), f.Close())
		}}, nil
	}
	return writeCloser{Writer: bufio.NewWriter(f), closeFn: f.Close}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error {
	var ferr error
	if bw, ok := w.Writer.(*bufio.Writer); ok {
		ferr = bw.Flush()
	}
	return errors.Join(ferr, w.closeFn())
}
