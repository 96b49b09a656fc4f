package domain

// ElementSpec is a placed element as supplied by the host. It is also the persisted form
// of an element inside a Layout.
type ElementSpec struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`
	Kind Kind   `json:"kind" yaml:"kind" mapstructure:"kind" validate:"required,circuitkind"`

	// A and B are the terminal positions. A nil terminal is treated as missing.
	A *Point `json:"a" yaml:"a" mapstructure:"a" validate:"required"`
	B *Point `json:"b" yaml:"b" mapstructure:"b" validate:"required"`

	// Enabled is only meaningful for switches. Nil means enabled.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"`

	// Voltage is the configured voltage of a source. Zero falls back to the engine's nominal voltage.
	Voltage float64 `json:"voltage,omitempty" yaml:"voltage,omitempty" mapstructure:"voltage" validate:"gte=0"`

	// MaxCurrent is the burnout threshold of lamps, LEDs and fuses. Zero disables burnout.
	MaxCurrent float64 `json:"max_current,omitempty" yaml:"max_current,omitempty" mapstructure:"max_current" validate:"gte=0"`

	// Ref is an opaque back-reference to the host object. It is handed back with readings
	// and never interpreted or persisted.
	Ref any `json:"-" yaml:"-" mapstructure:"-"`
}

// Side names one of the two terminals of an element.
type Side int

const (
	SideA Side = iota
	SideB
)

// Other returns the opposite terminal.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "a"
	}
	return "b"
}

// Element is the registry's normalized copy of an ElementSpec: terminals are rounded to
// whole units and the switch state is resolved.
type Element struct {
	Index      int     `json:"-"`
	ID         string  `json:"id"`
	Kind       Kind    `json:"kind"`
	A          Point   `json:"a"`
	B          Point   `json:"b"`
	Enabled    bool    `json:"enabled"`
	Voltage    float64 `json:"voltage,omitempty"`
	MaxCurrent float64 `json:"max_current,omitempty"`
	Ref        any     `json:"-"`
}

// Terminal returns the position of the given side.
func (e Element) Terminal(s Side) Point {
	if s == SideA {
		return e.A
	}
	return e.B
}

// Conducts applies the kind's conduction predicate to this element's state.
func (e Element) Conducts() bool {
	return e.Kind.Conducts(e.Enabled)
}

// Endpoint is one terminal of one element.
type Endpoint struct {
	Element int  `json:"element"` // Registry index.
	Side    Side `json:"side"`
}

// Junction is a cluster of terminals treated as a single electrical node.
type Junction struct {
	Key       string     `json:"key"` // Representative "x,y" key.
	Point     Point      `json:"point"`
	Endpoints []Endpoint `json:"endpoints"`
}
