package dsl

import "github.com/aretw0/circuitlab/pkg/domain"

// ElementBuilder provides a fluent API for configuring an element.
type ElementBuilder struct {
	spec domain.ElementSpec
}

// Between sets both terminals.
func (e *ElementBuilder) Between(a, z domain.Point) *ElementBuilder {
	e.spec.A = &a
	e.spec.B = &z
	return e
}

// Placed sets both terminals from component-relative offsets and a placement.
func (e *ElementBuilder) Placed(pl domain.Placement, a, z domain.Point) *ElementBuilder {
	return e.Between(pl.World(a), pl.World(z))
}

// Off opens a switch.
func (e *ElementBuilder) Off() *ElementBuilder {
	return e.Enabled(false)
}

// Enabled sets the switch state explicitly.
func (e *ElementBuilder) Enabled(on bool) *ElementBuilder {
	e.spec.Enabled = &on
	return e
}

// Voltage sets the configured voltage of a source.
func (e *ElementBuilder) Voltage(v float64) *ElementBuilder {
	e.spec.Voltage = v
	return e
}

// MaxCurrent sets the burnout threshold.
func (e *ElementBuilder) MaxCurrent(a float64) *ElementBuilder {
	e.spec.MaxCurrent = a
	return e
}

// Ref attaches the host back-reference.
func (e *ElementBuilder) Ref(ref any) *ElementBuilder {
	e.spec.Ref = ref
	return e
}

// Build returns the underlying spec.
func (e *ElementBuilder) Build() domain.ElementSpec {
	return e.spec
}
