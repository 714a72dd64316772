package mig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ModelSpec is the YAML model specification.
// Loaded from disk via LoadModelSpec(path).
//
// Exactly one of Rates and UniformRate must be given. Rates selects the
// storage layout by its length; UniformRate fills an asymmetric-packed
// vector (one slot per ordered pair) with a single starting value.
type ModelSpec struct {
	Name        string    `yaml:"name,omitempty"`
	PopSizes    []float64 `yaml:"pop_sizes"`
	Rates       []float64 `yaml:"rates,omitempty"`
	UniformRate *float64  `yaml:"uniform_rate,omitempty"`
	RateFlags   []bool    `yaml:"rate_flags,omitempty"`
}

// LoadModelSpec reads and validates a model specification file.
func LoadModelSpec(path string) (*ModelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model spec: %w", err)
	}
	var spec ModelSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse model spec %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model spec %s: %w", path, err)
	}
	return &spec, nil
}

// Validate reports structural errors in the spec. Numerical validation
// (layout match, value ranges) happens in NewModel; this catches what the
// loader alone can see.
func (s *ModelSpec) Validate() error {
	if len(s.PopSizes) == 0 {
		return fmt.Errorf("pop_sizes is required and must be non-empty")
	}
	if s.Rates != nil && s.UniformRate != nil {
		return fmt.Errorf("rates and uniform_rate are mutually exclusive")
	}
	if s.Rates == nil && s.UniformRate == nil {
		return fmt.Errorf("one of rates or uniform_rate is required")
	}
	if s.UniformRate != nil && *s.UniformRate < 0 {
		return fmt.Errorf("uniform_rate is %g; want >= 0", *s.UniformRate)
	}
	if s.RateFlags != nil {
		if want := len(s.rateVector()); len(s.RateFlags) != want {
			return fmt.Errorf("rate_flags has %d elements; want %d to match the rate vector",
				len(s.RateFlags), want)
		}
	}
	return nil
}

// rateVector returns the packed starting rate vector: the explicit rates,
// or an asymmetric-packed vector filled with the uniform starting rate.
func (s *ModelSpec) rateVector() []float64 {
	if s.Rates != nil {
		return append([]float64(nil), s.Rates...)
	}
	n := len(s.PopSizes)
	rates := make([]float64, n*(n-1))
	for k := range rates {
		rates[k] = *s.UniformRate
	}
	return rates
}

// Build constructs the Model described by the spec. The model gets copies
// of the spec's vectors, so the spec can be reused.
func (s *ModelSpec) Build() (*Model, error) {
	var flags []bool
	if s.RateFlags != nil {
		flags = append([]bool(nil), s.RateFlags...)
	}
	popSizes := append([]float64(nil), s.PopSizes...)
	m, err := NewModel(s.rateVector(), popSizes, flags)
	if err != nil {
		return nil, fmt.Errorf("build migration model: %w", err)
	}
	if s.Name != "" {
		m.SetName(s.Name)
	}
	return m, nil
}
