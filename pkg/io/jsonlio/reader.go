// Package jsonlio reads and writes frames as one JSON object per line.
package jsonlio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/bobsim/datawash/pkg/frame"
	iox "github.com/bobsim/datawash/pkg/io/ioutils"
)

// ReadFile reads path, decompressing .gz input.
func ReadFile(path string) (*frame.Frame, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return Read(rc)
}

// Read loads every object into string columns named by the union of keys,
// sorted. Numbers keep their literal text; missing keys and nulls are nulls.
func Read(in io.Reader) (*frame.Frame, error) {
	dec := json.NewDecoder(bufio.NewReader(in))
	dec.UseNumber()
	var rows []map[string]any
	keysSet := map[string]struct{}{}
	for {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("jsonl record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(keysSet))
	for k := range keysSet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sch frame.Schema
	for _, k := range keys {
		sch.Columns = append(sch.Columns, frame.ColumnSchema{Name: k, Type: frame.KindString, Nullable: true})
	}
	out, err := frame.NewFrame(sch)
	if err != nil {
		return nil, err
	}
	for _, m := range rows {
		r := out.AppendNullRow()
		for k, v := range m {
			if s, ok := text(v); ok {
				if err := out.SetCell(r, k, s); err != nil {
					return nil, err
				}
			}
		}
	}
	return out, nil
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, t != ""
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		// nested values keep their JSON encoding
		b, _ := json.Marshal(t)
		return string(b), true
	}
}
