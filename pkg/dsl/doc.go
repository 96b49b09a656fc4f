/*
Package dsl provides a Go DSL for programmatically constructing circuit layouts.

It lets tests, examples and challenge authors describe circuits with a fluent builder
instead of YAML or JSON files. Element order is preserved, which matters because the
single-pass junction merge depends on it.

Example usage:

	package main

	import (
		"github.com/aretw0/circuitlab/pkg/domain"
		"github.com/aretw0/circuitlab/pkg/dsl"
	)

	func main() {
		b := dsl.New("first-loop")

		b.Source("bat", domain.Pt(0, 0), domain.Pt(100, 0)).Voltage(9)
		b.Wire("w1", domain.Pt(100, 0), domain.Pt(100, 100))
		b.Lamp("bulb", domain.Pt(100, 100), domain.Pt(0, 100))
		b.Switch("sw", domain.Pt(0, 100), domain.Pt(0, 0)).Off()

		layout := b.Layout()
		// ... pass layout to circuitlab.Run(...) or a sandbox store
	}
*/
package dsl
