package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// Registry holds the flat, ordered list of elements for one simulation pass.
// It is rebuilt from scratch on every topology change: there is no single-element removal.
type Registry struct {
	elements []domain.Element
	byID     map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Clear empties the registry.
func (r *Registry) Clear() {
	r.elements = nil
	r.byID = make(map[string]int)
}

// Add validates and stores a normalized copy of spec.
// On rejection it returns the reason; rejection is a diagnostic, not an error.
func (r *Registry) Add(spec domain.ElementSpec) (domain.Element, string) {
	if !spec.Kind.Valid() {
		return domain.Element{}, fmt.Sprintf("unknown kind %q", spec.Kind)
	}
	if spec.A == nil || spec.B == nil {
		return domain.Element{}, "missing terminal"
	}
	if !finite(*spec.A) || !finite(*spec.B) {
		return domain.Element{}, "non-finite terminal"
	}

	a, b := spec.A.Round(), spec.B.Round()
	if a == b {
		return domain.Element{}, "zero-length element"
	}

	id := spec.ID
	if id == "" {
		id = r.nextID(spec.Kind)
	}
	if _, dup := r.byID[id]; dup {
		return domain.Element{}, fmt.Sprintf("duplicate id %q", id)
	}

	enabled := true
	if spec.Enabled != nil {
		enabled = *spec.Enabled
	}

	el := domain.Element{
		Index:      len(r.elements),
		ID:         id,
		Kind:       spec.Kind,
		A:          a,
		B:          b,
		Enabled:    enabled,
		Voltage:    spec.Voltage,
		MaxCurrent: spec.MaxCurrent,
		Ref:        spec.Ref,
	}
	r.elements = append(r.elements, el)
	r.byID[id] = el.Index
	return el, ""
}

// nextID picks "<kind>-<n>" with the smallest n >= Len that no element uses yet.
func (r *Registry) nextID(kind domain.Kind) string {
	for n := len(r.elements); ; n++ {
		id := fmt.Sprintf("%s-%d", kind, n)
		if _, taken := r.byID[id]; !taken {
			return id
		}
	}
}

func finite(p domain.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Elements returns the registered elements in insertion order.
// The slice is owned by the registry and must not be modified.
func (r *Registry) Elements() []domain.Element {
	return r.elements
}

// Len returns the number of registered elements.
func (r *Registry) Len() int {
	return len(r.elements)
}

// Lookup finds an element by id.
func (r *Registry) Lookup(id string) (domain.Element, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return domain.Element{}, false
	}
	return r.elements[idx], true
}

// Sources returns every source element in insertion order.
func (r *Registry) Sources() []domain.Element {
	var out []domain.Element
	for _, el := range r.elements {
		if el.Kind == domain.KindSource {
			out = append(out, el)
		}
	}
	return out
}
