package ports

import "github.com/aretw0/circuitlab/pkg/domain"

// ReadingSink receives the readings of a simulation, one call per element.
// Hosts implement it to update their own objects (lamp sprites, meter labels) from the
// opaque Ref they attached to each element.
type ReadingSink interface {
	ApplyReading(ref any, reading domain.Reading)
}

// ReadingSinkFunc adapts a function to ReadingSink.
type ReadingSinkFunc func(ref any, reading domain.Reading)

// ApplyReading calls f.
func (f ReadingSinkFunc) ApplyReading(ref any, reading domain.Reading) {
	f(ref, reading)
}
