/*
Package circuitlab is the circuit-graph analysis engine behind an educational
circuit-building sandbox.

Learners place two-terminal elements (battery, wires, switches, lamps, meters) on a 2D
canvas. The host hands every placed element to a Graph, calls Simulate, and draws the
result: whether a closed current path exists, which elements lie on it, and the
readings of lamps, ammeters and voltmeters.

# Concept

The Graph is rebuilt from scratch on every topology change. Terminals closer than the
snap threshold are merged into junctions, a bounded breadth-first search enumerates every
simple conducting path from one pole of the source to the other, and a simplified
Ohm's law (every resistive element counts one ohm) turns the paths into readings.

The engine never mutates host objects. Each element may carry an opaque Ref; readings
carry it back and Apply hands them to a ports.ReadingSink.

# Usage

	g := circuitlab.New()
	for _, spec := range placed {
		g.AddElement(spec)
	}

	res := g.Simulate(ctx)
	switch res.Status {
	case domain.StatusComplete:
		circuitlab.Apply(res, sink)
	case domain.StatusSwitchOpen:
		// Hint: close the switch.
	}

Layouts (saved sandboxes) can be simulated in one call:

	res, err := circuitlab.Run(ctx, layout, circuitlab.WithStepLimit(5000))

# Status codes

  - 1 (StatusComplete): at least one closed path.
  - 0 (StatusOpen): a source exists but no path closes.
  - -1 (StatusNoSource): nothing to power the circuit.
  - -2 (StatusSwitchOpen): no path and at least one switch is open.
*/
package circuitlab
