package csvio

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is the charset of the public data portal extracts.
const DefaultEncoding = "euc-kr"

// Charset resolves a WHATWG encoding label such as "euc-kr", "cp949" or "utf-8".
func Charset(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("csv charset %q: %w", label, err)
	}
	return enc, nil
}
