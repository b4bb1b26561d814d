package schema

import (
	"fmt"
	"strings"

	"github.com/bobsim/datawash/pkg/frame"
)

// Kind names a category of source data.
type Kind string

const (
	MarineWeather      Kind = "marine_weather"
	TerrestrialWeather Kind = "terrestrial_weather"
	RawMaterialPrice   Kind = "raw_material_price"
)

// DefaultSkewThreshold applies when a dataset leaves skew.threshold unset.
const DefaultSkewThreshold = 1.0

const periodPlaceholder = "{period}"

// Dataset is the per-kind configuration record consumed by the orchestrator.
type Dataset struct {
	Kind       Kind   `yaml:"kind" toml:"kind"`
	OriginKey  string `yaml:"origin_key" toml:"origin_key"`
	ProcessKey string `yaml:"process_key" toml:"process_key"`
	DateColumn string `yaml:"date_column" toml:"date_column"`
	// PeriodFilter keeps only rows whose date falls in the run's period.
	// Used when one origin object spans many periods.
	PeriodFilter bool         `yaml:"period_filter" toml:"period_filter"`
	Columns      []ColumnSpec `yaml:"columns" toml:"columns"`

	RowFilter *RowFilter `yaml:"row_filter,omitempty" toml:"row_filter,omitempty"`
	Composite *Composite `yaml:"composite,omitempty" toml:"composite,omitempty"`
	Grade     *Grade     `yaml:"grade,omitempty" toml:"grade,omitempty"`
	// GroupBy averages numeric columns per key, e.g. across stations per date.
	GroupBy []string `yaml:"group_by,omitempty" toml:"group_by,omitempty"`
	Units   *Units   `yaml:"units,omitempty" toml:"units,omitempty"`

	Impute      Impute   `yaml:"impute" toml:"impute"`
	Clip        []Bounds `yaml:"clip,omitempty" toml:"clip,omitempty"`
	NonNegative []string `yaml:"non_negative,omitempty" toml:"non_negative,omitempty"`
	Skew        Skew     `yaml:"skew" toml:"skew"`

	DecomposeDate   bool `yaml:"decompose_date" toml:"decompose_date"`
	TranslateOutput bool `yaml:"translate_output" toml:"translate_output"`
}

type ColumnSpec struct {
	Name string `yaml:"name" toml:"name"`
	Type string `yaml:"type" toml:"type"`
	// Alias is the english column name used when output is translated.
	Alias string `yaml:"alias,omitempty" toml:"alias,omitempty"`
}

type RowFilter struct {
	Column     string `yaml:"column" toml:"column"`
	Equals     string `yaml:"equals" toml:"equals"`
	DropColumn bool   `yaml:"drop_column" toml:"drop_column"`
}

type Composite struct {
	Components []string `yaml:"components" toml:"components"`
	Name       string   `yaml:"name" toml:"name"`
	Alias      string   `yaml:"alias,omitempty" toml:"alias,omitempty"`
}

type Grade struct {
	Column string   `yaml:"column" toml:"column"`
	Keys   []string `yaml:"keys" toml:"keys"`
}

type Units struct {
	LabelColumn string             `yaml:"label_column" toml:"label_column"`
	ValueColumn string             `yaml:"value_column" toml:"value_column"`
	Divisors    map[string]float64 `yaml:"divisors" toml:"divisors"`
	Strict      bool               `yaml:"strict" toml:"strict"`
}

// Impute selects the null policy. DropRows wins over the fill groups.
type Impute struct {
	Linear []string `yaml:"linear,omitempty" toml:"linear,omitempty"`
	Zero   []string `yaml:"zero,omitempty" toml:"zero,omitempty"`
	Mean   []string `yaml:"mean,omitempty" toml:"mean,omitempty"`
	Median []string `yaml:"median,omitempty" toml:"median,omitempty"`

	DropRows bool `yaml:"drop_rows" toml:"drop_rows"`
	// Monitored limits DropRows to these columns; empty means every column.
	Monitored []string `yaml:"monitored,omitempty" toml:"monitored,omitempty"`
}

// Bounds clips readings outside [Min, Max] after imputation. Nil bounds are open.
type Bounds struct {
	Columns []string `yaml:"columns" toml:"columns"`
	Min     *float64 `yaml:"min,omitempty" toml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty" toml:"max,omitempty"`
}

type Skew struct {
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	// Columns designates the corrected columns; empty means every numeric column.
	Columns []string `yaml:"columns,omitempty" toml:"columns,omitempty"`
	// RegroupBy re-aggregates by mean before measuring skew.
	RegroupBy []string `yaml:"regroup_by,omitempty" toml:"regroup_by,omitempty"`
}

// OriginKeyFor renders the raw object key for p.
func (d Dataset) OriginKeyFor(p Period) string {
	return strings.ReplaceAll(d.OriginKey, periodPlaceholder, p.String())
}

// ProcessKeyFor renders the output object key for p.
func (d Dataset) ProcessKeyFor(p Period) string {
	return strings.ReplaceAll(d.ProcessKey, periodPlaceholder, p.String())
}

// Types maps each registered column to its target kind.
func (d Dataset) Types() (map[string]frame.Kind, error) {
	out := make(map[string]frame.Kind, len(d.Columns))
	for _, c := range d.Columns {
		k, err := frame.ParseKind(c.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: column %q: %w", d.Kind, c.Name, err)
		}
		out[c.Name] = k
	}
	return out, nil
}

// Aliases maps source column names to english names.
func (d Dataset) Aliases() map[string]string {
	out := make(map[string]string, len(d.Columns)+1)
	for _, c := range d.Columns {
		if c.Alias != "" {
			out[c.Name] = c.Alias
		}
	}
	if d.Composite != nil && d.Composite.Alias != "" {
		out[d.Composite.Name] = d.Composite.Alias
	}
	return out
}

func (d *Dataset) validate() error {
	if d.Kind == "" {
		return fmt.Errorf("dataset without kind")
	}
	if d.OriginKey == "" || d.ProcessKey == "" {
		return fmt.Errorf("%s: origin_key and process_key are required", d.Kind)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%s: no columns", d.Kind)
	}
	types, err := d.Types()
	if err != nil {
		return err
	}
	if len(types) != len(d.Columns) {
		return fmt.Errorf("%s: duplicate column names", d.Kind)
	}
	if d.DateColumn != "" && types[d.DateColumn] != frame.KindTime {
		return fmt.Errorf("%s: date column %q must be datetime", d.Kind, d.DateColumn)
	}
	if d.PeriodFilter && d.DateColumn == "" {
		return fmt.Errorf("%s: period_filter needs date_column", d.Kind)
	}
	if d.DecomposeDate && d.DateColumn == "" {
		return fmt.Errorf("%s: decompose_date needs date_column", d.Kind)
	}
	if d.Units != nil {
		for label, div := range d.Units.Divisors {
			if div == 0 {
				return fmt.Errorf("%s: unit %q has zero divisor", d.Kind, label)
			}
		}
	}
	for _, b := range d.Clip {
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			return fmt.Errorf("%s: clip bounds %v > %v", d.Kind, *b.Min, *b.Max)
		}
	}
	if d.Skew.Threshold <= 0 {
		d.Skew.Threshold = DefaultSkewThreshold
	}
	return nil
}
