package parquetio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/bobsim/datawash/pkg/frame"
)

// schemaJSON builds the JSON schema understood by the parquet-go JSONWriter.
// Every column is OPTIONAL; datetimes are stored as RFC 3339 strings.
func schemaJSON(s frame.Schema) (string, error) {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for i, cs := range s.Columns {
		tag := "name=" + cs.Name + ", inname=Col" + strconv.Itoa(i) + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case frame.KindFloat:
			tag += "DOUBLE"
		case frame.KindInt:
			tag += "INT64"
		case frame.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "UTF8, encoding=PLAIN_DICTIONARY"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, err := json.Marshal(sc)
	return string(b), err
}

// WriteFile writes f to a parquet file at path.
func WriteFile(path string, f *frame.Frame) (err error) {
	schema, err := schemaJSON(f.Schema())
	if err != nil {
		return err
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fw.Close(); err == nil {
			err = cerr
		}
	}()
	writer, err := pw.NewJSONWriter(schema, fw, 4)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, f.Cols())
		for _, col := range f.Columns() {
			switch v := col.Value(r).(type) {
			case nil:
			case time.Time:
				rec[col.Name()] = v.Format(time.RFC3339)
			default:
				rec[col.Name()] = v
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := writer.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet writer flush: %w", err)
	}
	return nil
}
