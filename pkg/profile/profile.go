// Package profile summarizes frame contents: null counts, numeric ranges,
// skewness and the most frequent categorical values.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/bobsim/datawash/pkg/frame"
	"github.com/bobsim/datawash/pkg/transform/skew"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`

	vals []float64
}

func (n *NumStats) Mean() float64 {
	if n.Count == 0 {
		return math.NaN()
	}
	return n.Sum / float64(n.Count)
}

// Skewness of the values seen so far; NaN when undefined.
func (n *NumStats) Skewness() float64 { return skew.Skewness(n.vals) }

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

// TimeStats keeps no frequency table; only the covered range.
type TimeStats struct {
	Count int       `json:"count"`
	Nulls int       `json:"nulls"`
	First time.Time `json:"first"`
	Last  time.Time `json:"last"`
}

type StringStats struct {
	Count int            `json:"count"`
	Nulls int            `json:"nulls"`
	Freqs map[string]int `json:"-"`
}

type ColumnProfile struct {
	Name string
	Kind frame.Kind
	Num  *NumStats
	Bool *BoolStats
	Time *TimeStats
	Str  *StringStats
}

// Nulls reports the null count whatever the column kind.
func (cp *ColumnProfile) Nulls() int {
	switch {
	case cp.Num != nil:
		return cp.Num.Nulls
	case cp.Bool != nil:
		return cp.Bool.Nulls
	case cp.Time != nil:
		return cp.Time.Nulls
	case cp.Str != nil:
		return cp.Str.Nulls
	}
	return 0
}

// Collector accumulates column profiles over one or more frames of the same schema.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
}

func NewCollector(schema frame.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case frame.KindFloat, frame.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case frame.KindBool:
			cp.Bool = &BoolStats{}
		case frame.KindTime:
			cp.Time = &TimeStats{}
		default:
			cp.Str = &StringStats{Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

// Of profiles a single frame.
func Of(f *frame.Frame, topK int) *Collector {
	c := NewCollector(f.Schema(), topK)
	c.ConsumeFrame(f)
	return c
}

// ConsumeFrame folds f into the profile. Columns unknown to the collector are ignored.
func (c *Collector) ConsumeFrame(f *frame.Frame) {
	for _, col := range f.Columns() {
		idx, ok := c.index[col.Name()]
		if !ok {
			continue
		}
		cp := &c.cols[idx]
		switch {
		case cp.Num != nil:
			src, err := frame.AsFloat(col)
			if err != nil {
				continue
			}
			for i := 0; i < src.Len(); i++ {
				v, ok := src.Get(i)
				if !ok {
					cp.Num.Nulls++
					continue
				}
				cp.Num.Count++
				cp.Num.Min = math.Min(cp.Num.Min, v)
				cp.Num.Max = math.Max(cp.Num.Max, v)
				cp.Num.Sum += v
				cp.Num.vals = append(cp.Num.vals, v)
			}
		case cp.Bool != nil:
			bc, ok := col.(*frame.BoolColumn)
			if !ok {
				continue
			}
			for i := 0; i < bc.Len(); i++ {
				v, ok := bc.Get(i)
				switch {
				case !ok:
					cp.Bool.Nulls++
					continue
				case v:
					cp.Bool.True++
				default:
					cp.Bool.False++
				}
				cp.Bool.Count++
			}
		case cp.Time != nil:
			tc, ok := col.(*frame.TimeColumn)
			if !ok {
				continue
			}
			for i := 0; i < tc.Len(); i++ {
				v, ok := tc.Get(i)
				if !ok {
					cp.Time.Nulls++
					continue
				}
				if cp.Time.Count == 0 || v.Before(cp.Time.First) {
					cp.Time.First = v
				}
				if cp.Time.Count == 0 || v.After(cp.Time.Last) {
					cp.Time.Last = v
				}
				cp.Time.Count++
			}
		default:
			for i := 0; i < col.Len(); i++ {
				v := col.Value(i)
				if v == nil {
					cp.Str.Nulls++
					continue
				}
				cp.Str.Count++
				if c.topK > 0 {
					cp.Str.Freqs[fmt.Sprint(v)]++
				}
			}
		}
	}
}

func (c *Collector) Columns() []ColumnProfile { return c.cols }

// NullCounts maps every column to its null count.
func (c *Collector) NullCounts() map[string]int {
	out := make(map[string]int, len(c.cols))
	for i := range c.cols {
		out[c.cols[i].Name] = c.cols[i].Nulls()
	}
	return out
}

type freq struct {
	k string
	v int
}

func (c *Collector) top(s *StringStats) []freq {
	arr := make([]freq, 0, len(s.Freqs))
	for k, v := range s.Freqs {
		arr = append(arr, freq{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v != arr[j].v {
			return arr[i].v > arr[j].v
		}
		return arr[i].k < arr[j].k
	})
	if c.topK > 0 && c.topK < len(arr) {
		arr = arr[:c.topK]
	}
	return arr
}

// ReportText renders an aligned plain-text summary. Column names are padded
// by display width so Hangul headers line up.
func (c *Collector) ReportText() string {
	width := 0
	for _, cp := range c.cols {
		width = max(width, runewidth.StringWidth(cp.Name))
	}
	var b strings.Builder
	b.WriteString("Profile Summary\n")
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s %-8s ", runewidth.FillRight(cp.Name, width), cp.Kind)
		switch {
		case cp.Num != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g skew=%.4g\n",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, cp.Num.Mean(), cp.Num.Skewness())
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		case cp.Time != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d", cp.Time.Count, cp.Time.Nulls)
			if cp.Time.Count > 0 {
				fmt.Fprintf(&b, " first=%s last=%s", cp.Time.First.Format(time.DateTime), cp.Time.Last.Format(time.DateTime))
			}
			b.WriteByte('\n')
		default:
			fmt.Fprintf(&b, "count=%d nulls=%d\n", cp.Str.Count, cp.Str.Nulls)
			for _, kv := range c.top(cp.Str) {
				fmt.Fprintf(&b, "    %q: %d\n", kv.k, kv.v)
			}
		}
	}
	return b.String()
}

type JSONProfile struct {
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name  string         `json:"name"`
	Kind  string         `json:"kind"`
	Nulls int            `json:"nulls"`
	Num   *NumStats      `json:"num,omitempty"`
	Skew  *float64       `json:"skew,omitempty"`
	Bool  *BoolStats     `json:"bool,omitempty"`
	Time  *TimeStats     `json:"time,omitempty"`
	Top   map[string]int `json:"top,omitempty"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Columns: make([]JSONColumn, 0, len(c.cols))}
	for i := range c.cols {
		cp := &c.cols[i]
		jc := JSONColumn{Name: cp.Name, Kind: cp.Kind.String(), Nulls: cp.Nulls(), Bool: cp.Bool, Time: cp.Time}
		// an all-null column has infinite bounds, which JSON cannot carry
		if cp.Num != nil && cp.Num.Count > 0 {
			jc.Num = cp.Num
			if s := cp.Num.Skewness(); !math.IsNaN(s) {
				jc.Skew = &s
			}
		}
		if cp.Str != nil && c.topK > 0 {
			jc.Top = map[string]int{}
			for _, kv := range c.top(cp.Str) {
				jc.Top[kv.k] = kv.v
			}
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
