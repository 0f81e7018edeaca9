package metrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrUnknownMetric is returned when an intent names a metric absent from the
// catalog. It is a hard failure, never silently substituted.
var ErrUnknownMetric = errors.New("unknown metric")

// MissingParamsError reports required parameters absent from an intent
type MissingParamsError struct {
	Metric string
	Params []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("metric %s: missing parameters: %s", e.Metric, strings.Join(e.Params, ", "))
}

// Spec is one catalog entry: a SQL template with named placeholders and the
// parameter names the template requires.
type Spec struct {
	SQL    string   `json:"sql"`
	Params []string `json:"params"`
}

// Registry maps metric names to query specs. Immutable once loaded; shared
// read-only by both parsing strategies.
type Registry struct {
	specs map[string]Spec
}

// Load reads the metric catalog JSON file at path
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metric catalog: %w", err)
	}

	var specs map[string]Spec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse metric catalog %s: %w", path, err)
	}

	return &Registry{specs: specs}, nil
}

// Get returns the spec for a metric name
func (r *Registry) Get(name string) (Spec, bool) {
	spec, ok := r.specs[name]
	return spec, ok
}

// Names returns all metric names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render validates params against the metric's required set and returns the
// SQL template with the bound parameter map restricted to exactly the
// required keys. Extra keys are dropped. Values are bound downstream, never
// interpolated into the template.
func (r *Registry) Render(name string, params map[string]any) (string, map[string]any, error) {
	spec, ok := r.specs[name]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownMetric, name)
	}

	var missing []string
	bound := make(map[string]any, len(spec.Params))
	for _, p := range spec.Params {
		v, ok := params[p]
		if !ok {
			missing = append(missing, p)
			continue
		}
		bound[p] = v
	}
	if len(missing) > 0 {
		return "", nil, &MissingParamsError{Metric: name, Params: missing}
	}

	return spec.SQL, bound, nil
}
