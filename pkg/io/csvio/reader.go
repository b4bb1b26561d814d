// Package csvio reads and writes frames as delimited text in a configurable charset.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/bobsim/datawash/pkg/frame"
	iox "github.com/bobsim/datawash/pkg/io/ioutils"
)

type ReaderOptions struct {
	// Encoding is a WHATWG label; empty means DefaultEncoding. A byte order
	// mark in the input overrides it.
	Encoding  string
	Delimiter rune // 0 = sniff, default ','
	Strict    bool // if true, error on short/long records
}

// Reader loads a whole CSV document into a frame of string columns. Cells are
// kept verbatim apart from surrounding whitespace; empty cells become nulls.
// Typing is left to the schema layer.
type Reader struct {
	opt ReaderOptions
	// repair/warning counters
	shortRecords int
	longRecords  int
}

func NewReader(opt ReaderOptions) *Reader { return &Reader{opt: opt} }

// ReadFile reads path, decompressing .gz input.
func ReadFile(path string, opt ReaderOptions) (*frame.Frame, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return NewReader(opt).Read(rc)
}

func (r *Reader) Read(in io.Reader) (*frame.Frame, error) {
	enc, err := Charset(r.opt.Encoding)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(transform.NewReader(in, unicode.BOMOverride(enc.NewDecoder())))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	if r.opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		cr.Comma, cr.LazyQuotes = d, lazy
	} else {
		cr.Comma = r.opt.Delimiter
	}

	header, err := cr.Read()
	if err == io.EOF {
		return frame.FromColumns()
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	var sch frame.Schema
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "col_" + strconv.Itoa(i)
		}
		names[i] = name
		sch.Columns = append(sch.Columns, frame.ColumnSchema{Name: name, Type: frame.KindString, Nullable: true})
	}
	out, err := frame.NewFrame(sch)
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if len(rec) > len(names) {
			r.longRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv long record at line %d: need %d fields, got %d", line, len(names), len(rec))
			}
		}
		if len(rec) < len(names) {
			r.shortRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv short record at line %d: need %d fields, got %d", line, len(names), len(rec))
			}
		}
		row := out.AppendNullRow()
		for i, name := range names {
			if i >= len(rec) {
				break
			}
			if val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?"); val != "" {
				if err := out.SetCell(row, name, val); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// only the header line is trusted for delimiter counting
	if i := bytes.IndexByte(sample, '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		if cnt := bytes.Count(sample, []byte{c}); cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	lazy := bytes.Count(sample, []byte{'"'})%2 != 0
	return rune(best), lazy
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
