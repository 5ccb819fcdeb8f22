// Package registry describes the effects a timeline can place on a region
// and the parameters each effect exposes for automation.
package registry

import (
	"math"
	"sort"
)

// ParamType is the value type of an effect parameter.
type ParamType string

const (
	ParamFloat  ParamType = "float"
	ParamInt    ParamType = "int"
	ParamBool   ParamType = "bool"
	ParamXY     ParamType = "xy"
	ParamString ParamType = "string"
)

// ParamSpec describes one effect parameter.
type ParamSpec struct {
	Name    string    `json:"name"`
	Type    ParamType `json:"type"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Default any       `json:"default"`
}

// Automatable reports whether the parameter can be driven by a lane.
func (p ParamSpec) Automatable() bool {
	switch p.Type {
	case ParamFloat, ParamInt, ParamBool:
		return true
	}
	return false
}

// Normalize maps a parameter value onto [0,1]. ok is false for values that
// cannot be automated.
func (p ParamSpec) Normalize(v any) (n float64, ok bool) {
	switch p.Type {
	case ParamBool:
		b, isBool := v.(bool)
		if !isBool {
			return 0, false
		}
		if b {
			return 1, true
		}
		return 0, true
	case ParamFloat, ParamInt:
		f, isNum := toFloat(v)
		if !isNum {
			return 0, false
		}
		if p.Max <= p.Min {
			return 0, true
		}
		return clamp01((f - p.Min) / (p.Max - p.Min)), true
	}
	return 0, false
}

// Denormalize maps n in [0,1] back onto the parameter's range.
func (p ParamSpec) Denormalize(n float64) any {
	n = clamp01(n)
	switch p.Type {
	case ParamBool:
		return n >= 0.5
	case ParamInt:
		return int(math.Round(p.Min + n*(p.Max-p.Min)))
	case ParamFloat:
		return p.Min + n*(p.Max-p.Min)
	}
	return p.Default
}

// NormalizedDefault is the default value on the [0,1] scale, or 0.5 when
// the default cannot be normalized.
func (p ParamSpec) NormalizedDefault() float64 {
	if n, ok := p.Normalize(p.Default); ok {
		return n
	}
	return 0.5
}

// EffectSpec describes an effect and its parameters in display order.
type EffectSpec struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Params []ParamSpec `json:"params"`
}

// Param looks up a parameter by name.
func (e EffectSpec) Param(name string) (ParamSpec, bool) {
	for _, p := range e.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Defaults returns a fresh map of every parameter's default value.
func (e EffectSpec) Defaults() map[string]any {
	out := make(map[string]any, len(e.Params))
	for _, p := range e.Params {
		switch d := p.Default.(type) {
		case [2]float64:
			out[p.Name] = []float64{d[0], d[1]}
		default:
			out[p.Name] = d
		}
	}
	return out
}

// Registry is the read-only view of an effect catalog.
type Registry interface {
	Lookup(name string) (EffectSpec, bool)
	Names() []string
}

// Catalog is an in-memory Registry.
type Catalog struct {
	specs map[string]EffectSpec
	order []string
}

// NewCatalog builds a catalog from specs. Later specs replace earlier ones
// with the same name.
func NewCatalog(specs ...EffectSpec) *Catalog {
	c := &Catalog{specs: make(map[string]EffectSpec)}
	for _, s := range specs {
		c.Add(s)
	}
	return c
}

// Add inserts or replaces spec.
func (c *Catalog) Add(spec EffectSpec) {
	if _, exists := c.specs[spec.Name]; !exists {
		c.order = append(c.order, spec.Name)
	}
	if spec.Label == "" {
		spec.Label = spec.Name
	}
	c.specs[spec.Name] = spec
}

// Merge adds every effect of other to c.
func (c *Catalog) Merge(other *Catalog) {
	for _, name := range other.order {
		c.Add(other.specs[name])
	}
}

// Lookup implements Registry.
func (c *Catalog) Lookup(name string) (EffectSpec, bool) {
	s, ok := c.specs[name]
	return s, ok
}

// Names implements Registry, in insertion order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// SortedNames returns effect names alphabetically.
func (c *Catalog) SortedNames() []string {
	names := c.Names()
	sort.Strings(names)
	return names
}

// Len returns the number of effects.
func (c *Catalog) Len() int {
	return len(c.order)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
