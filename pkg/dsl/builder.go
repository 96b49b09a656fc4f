package dsl

import (
	"github.com/aretw0/circuitlab/pkg/domain"
)

// Builder manages the layout construction.
type Builder struct {
	name     string
	elements []*ElementBuilder
	byID     map[string]*ElementBuilder
}

// New creates a new layout builder.
func New(name string) *Builder {
	return &Builder{
		name: name,
		byID: make(map[string]*ElementBuilder),
	}
}

// Add creates a new element in the layout.
// If an element with the same id already exists, it returns the existing builder.
func (b *Builder) Add(kind domain.Kind, id string) *ElementBuilder {
	if id != "" {
		if eb, ok := b.byID[id]; ok {
			return eb
		}
	}
	eb := &ElementBuilder{spec: domain.ElementSpec{ID: id, Kind: kind}}
	b.elements = append(b.elements, eb)
	if id != "" {
		b.byID[id] = eb
	}
	return eb
}

// Source adds a battery between a (first pole) and z (second pole).
func (b *Builder) Source(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindSource, id).Between(a, z)
}

// Wire adds a wire.
func (b *Builder) Wire(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindWire, id).Between(a, z)
}

// Switch adds a switch, closed (conducting) by default.
func (b *Builder) Switch(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindSwitch, id).Between(a, z)
}

// Resistor adds a resistor.
func (b *Builder) Resistor(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindResistor, id).Between(a, z)
}

// Lamp adds a bulb.
func (b *Builder) Lamp(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindLamp, id).Between(a, z)
}

// Ammeter adds an ammeter.
func (b *Builder) Ammeter(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindAmmeter, id).Between(a, z)
}

// Voltmeter adds a voltmeter.
func (b *Builder) Voltmeter(id string, a, z domain.Point) *ElementBuilder {
	return b.Add(domain.KindVoltmeter, id).Between(a, z)
}

// Specs returns the element specs in insertion order.
func (b *Builder) Specs() []domain.ElementSpec {
	specs := make([]domain.ElementSpec, 0, len(b.elements))
	for _, eb := range b.elements {
		specs = append(specs, eb.Build())
	}
	return specs
}

// Layout compiles the builder into a layout document.
func (b *Builder) Layout() *domain.Layout {
	return &domain.Layout{
		ID:       b.name,
		Name:     b.name,
		Elements: b.Specs(),
	}
}
