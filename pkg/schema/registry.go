package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/bobsim/datawash/pkg/frame"
)

var (
	ErrUnknownDatasetKind = errors.New("unknown dataset kind")
	ErrSchemaMismatch     = errors.New("schema mismatch")
)

//go:embed datasets.yaml
var defaultDatasets []byte

// Registry maps dataset kinds to their configuration. It is read-only after construction.
type Registry struct {
	datasets map[Kind]Dataset
	order    []Kind
}

type registryFile struct {
	Datasets []Dataset `yaml:"datasets" toml:"datasets"`
}

// New validates the records and builds a registry.
func New(datasets ...Dataset) (*Registry, error) {
	r := &Registry{datasets: make(map[Kind]Dataset, len(datasets))}
	for _, d := range datasets {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, dup := r.datasets[d.Kind]; dup {
			return nil, fmt.Errorf("dataset %s registered twice", d.Kind)
		}
		r.datasets[d.Kind] = d
		r.order = append(r.order, d.Kind)
	}
	return r, nil
}

// Default returns the built-in registry for the three public datasets.
func Default() *Registry {
	r, err := Parse(defaultDatasets, "yaml")
	if err != nil {
		panic(fmt.Sprintf("embedded registry: %v", err))
	}
	return r
}

// Load reads a registry file; the format follows the extension (.yaml, .yml, .toml).
func Load(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := Parse(b, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a registry document in the given format.
func Parse(b []byte, format string) (*Registry, error) {
	var doc registryFile
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported registry format %q", format)
	}
	return New(doc.Datasets...)
}

// Lookup returns the column name to target type mapping for kind.
func (r *Registry) Lookup(kind Kind) (map[string]frame.Kind, error) {
	d, err := r.Dataset(kind)
	if err != nil {
		return nil, err
	}
	return d.Types()
}

// Dataset returns the full configuration record for kind.
func (r *Registry) Dataset(kind Kind) (Dataset, error) {
	d, ok := r.datasets[kind]
	if !ok {
		return Dataset{}, fmt.Errorf("%w: %q", ErrUnknownDatasetKind, kind)
	}
	return d, nil
}

// Kinds lists registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}
