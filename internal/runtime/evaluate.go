package runtime

import (
	"github.com/aretw0/circuitlab/pkg/domain"
)

// Measurement holds the lumped values derived from a set of paths.
type Measurement struct {
	Voltage    float64
	Current    float64
	Resistance float64
}

// Measure applies the simplified circuit law: every resistive element is one ohm, the
// resistance is taken from the path with the most resistive elements (floored at 1) and
// the current follows Ohm's law. No paths means no voltage and no current.
func Measure(elements []domain.Element, paths [][]int, voltage float64) Measurement {
	if len(paths) == 0 {
		return Measurement{}
	}
	maxResistive := 0
	for _, p := range paths {
		n := 0
		for _, idx := range p {
			if elements[idx].Kind.Resistive() {
				n++
			}
		}
		if n > maxResistive {
			maxResistive = n
		}
	}
	r := float64(maxResistive)
	if r < 1 {
		r = 1
	}
	return Measurement{Voltage: voltage, Current: voltage / r, Resistance: r}
}

// Evaluate derives a reading for every registered element.
func Evaluate(elements []domain.Element, jm *JunctionMap, paths [][]int, m Measurement) map[string]domain.Reading {
	onPath := make(map[int]bool)
	for _, p := range paths {
		for _, idx := range p {
			onPath[idx] = true
		}
	}
	live := len(paths) > 0

	readings := make(map[string]domain.Reading, len(elements))
	for _, el := range elements {
		rd := domain.Reading{ID: el.ID, Kind: el.Kind, Ref: el.Ref}
		if onPath[el.Index] {
			rd.OnPath = true
			rd.Current = m.Current
		}
		if rd.OnPath && el.Kind.Burnable() && el.MaxCurrent > 0 && m.Current > el.MaxCurrent {
			rd.BurntOut = true
		}

		switch el.Kind {
		case domain.KindLamp, domain.KindLED:
			rd.On = live && !rd.BurntOut
		case domain.KindVoltmeter:
			if live && VoltmeterConnected(elements, jm, el) {
				rd.Voltage = m.Voltage
			}
		case domain.KindSource:
			if live {
				rd.Voltage = m.Voltage
				rd.Current = m.Current
			}
		}
		readings[el.ID] = rd
	}
	return readings
}

// VoltmeterConnected reports whether both leads of a voltmeter touch at least one other
// element. Connectivity is independent of conduction.
func VoltmeterConnected(elements []domain.Element, jm *JunctionMap, vm domain.Element) bool {
	for _, side := range []domain.Side{domain.SideA, domain.SideB} {
		j := jm.Junctions[jm.Of(vm, side)]
		touched := false
		for _, ep := range j.Endpoints {
			if ep.Element != vm.Index {
				touched = true
				break
			}
		}
		if !touched {
			return false
		}
	}
	return true
}
