package dsl

import (
	"testing"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_PreservesOrderAndOptions(t *testing.T) {
	b := New("loop")
	b.Source("bat", domain.Pt(0, 0), domain.Pt(100, 0)).Voltage(9)
	b.Switch("sw", domain.Pt(100, 0), domain.Pt(100, 100)).Off()
	b.Lamp("bulb", domain.Pt(100, 100), domain.Pt(0, 100)).MaxCurrent(2)

	layout := b.Layout()
	require.Len(t, layout.Elements, 3)
	assert.Equal(t, "loop", layout.ID)

	ids := []string{layout.Elements[0].ID, layout.Elements[1].ID, layout.Elements[2].ID}
	assert.Equal(t, []string{"bat", "sw", "bulb"}, ids)

	assert.Equal(t, 9.0, layout.Elements[0].Voltage)
	require.NotNil(t, layout.Elements[1].Enabled)
	assert.False(t, *layout.Elements[1].Enabled)
	assert.Equal(t, 2.0, layout.Elements[2].MaxCurrent)
	assert.Equal(t, domain.Pt(100, 100), *layout.Elements[2].A)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New("dup")
	first := b.Wire("w", domain.Pt(0, 0), domain.Pt(10, 0))
	again := b.Add(domain.KindWire, "w")

	assert.Same(t, first, again)
	assert.Len(t, b.Specs(), 1)
}

func TestElementBuilder_Placed(t *testing.T) {
	b := New("rotated")
	pl := domain.Placement{Origin: domain.Pt(50, 50), Rotation: 90}
	b.Wire("w", domain.Point{}, domain.Point{}).Placed(pl, domain.Pt(-20, 0), domain.Pt(20, 0))

	spec := b.Specs()[0]
	assert.InDelta(t, 50, spec.A.X, 1e-9)
	assert.InDelta(t, 30, spec.A.Y, 1e-9)
	assert.InDelta(t, 50, spec.B.X, 1e-9)
	assert.InDelta(t, 70, spec.B.Y, 1e-9)
}
