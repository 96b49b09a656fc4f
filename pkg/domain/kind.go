package domain

import "fmt"

// Kind identifies an element type. The set is closed: every valid kind has an entry in
// the trait table below.
type Kind string

const (
	KindSource    Kind = "source" // Battery; defines the two poles the path finder connects.
	KindWire      Kind = "wire"
	KindSwitch    Kind = "switch" // Conducts only while enabled.
	KindResistor  Kind = "resistor"
	KindLamp      Kind = "lamp"
	KindAmmeter   Kind = "ammeter"
	KindVoltmeter Kind = "voltmeter" // Reads across its leads, never conducts.
	KindLED       Kind = "led"
	KindFuse      Kind = "fuse"
)

type kindTraits struct {
	conducts  bool // Always conducts (switches are handled separately).
	resistive bool // Contributes one ohm to the lumped path resistance.
	burnable  bool // Honors MaxCurrent.
}

var traits = map[Kind]kindTraits{
	KindSource:    {},
	KindWire:      {conducts: true},
	KindSwitch:    {conducts: true},
	KindResistor:  {conducts: true, resistive: true},
	KindLamp:      {conducts: true, resistive: true, burnable: true},
	KindAmmeter:   {conducts: true, resistive: true},
	KindVoltmeter: {},
	KindLED:       {conducts: true, burnable: true},
	KindFuse:      {conducts: true, burnable: true},
}

// Kinds lists every valid kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindSource, KindWire, KindSwitch, KindResistor, KindLamp,
		KindAmmeter, KindVoltmeter, KindLED, KindFuse,
	}
}

// ParseKind validates a raw kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown element kind %q", s)
	}
	return k, nil
}

// Valid reports whether k belongs to the closed set.
func (k Kind) Valid() bool {
	_, ok := traits[k]
	return ok
}

// Conducts is the conduction predicate used by the path finder.
// Sources and voltmeters never conduct; switches conduct only while enabled.
func (k Kind) Conducts(enabled bool) bool {
	if k == KindSwitch {
		return enabled
	}
	return traits[k].conducts
}

// Resistive reports whether k counts toward the lumped path resistance.
func (k Kind) Resistive() bool {
	return traits[k].resistive
}

// Burnable reports whether k can burn out when its MaxCurrent is exceeded.
func (k Kind) Burnable() bool {
	return traits[k].burnable
}

func (k Kind) String() string {
	return string(k)
}
