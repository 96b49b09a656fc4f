package domain

import "time"

// Layout is a saved sandbox circuit.
type Layout struct {
	ID        string        `json:"id" yaml:"id" mapstructure:"id"`
	Name      string        `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Elements  []ElementSpec `json:"elements" yaml:"elements" mapstructure:"elements" validate:"dive"`
	UpdatedAt time.Time     `json:"updated_at,omitempty" yaml:"updated_at,omitempty" mapstructure:"-"`
}

// Clone returns a deep copy of the layout. Refs are shared, not copied.
func (l *Layout) Clone() *Layout {
	if l == nil {
		return nil
	}
	c := *l
	c.Elements = make([]ElementSpec, len(l.Elements))
	for i, e := range l.Elements {
		c.Elements[i] = e.clone()
	}
	return &c
}

func (e ElementSpec) clone() ElementSpec {
	c := e
	if e.A != nil {
		a := *e.A
		c.A = &a
	}
	if e.B != nil {
		b := *e.B
		c.B = &b
	}
	if e.Enabled != nil {
		v := *e.Enabled
		c.Enabled = &v
	}
	return c
}
