package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/presentation/graph"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loop(switchOn bool) *circuitlab.Graph {
	b := dsl.New("loop")
	b.Source("bat", domain.Pt(0, 0), domain.Pt(100, 0))
	b.Switch("sw", domain.Pt(100, 0), domain.Pt(100, 100)).Enabled(switchOn)
	b.Lamp("bulb", domain.Pt(100, 100), domain.Pt(0, 100))
	b.Wire("w", domain.Pt(0, 100), domain.Pt(0, 0))

	g := circuitlab.New()
	g.Load(context.Background(), b.Layout())
	return g
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		switchOn bool
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name:     "Junctions and element links",
			switchOn: true,
			contains: []string{
				"graph LR",
				`j_0_0(("0,0"))`,
				`j_100_100(("100,100"))`,
				`j_0_0 ===|"bat (source)"| j_100_0`,
				`j_100_0 ---|"sw (switch)"| j_100_100`,
				`j_100_100 ---|"bulb (lamp)"| j_0_100`,
				`j_0_100 ---|"w (wire)"| j_0_0`,
			},
			excludes: []string{"classDef", "linkStyle"},
		},
		{
			name:     "Open switch is dotted",
			switchOn: false,
			contains: []string{
				`j_100_0 -.-|"sw (switch, open)"| j_100_100`,
			},
		},
		{
			name:     "Overlay highlights live elements",
			switchOn: true,
			overlay: &graph.GraphOverlay{
				LiveElements: []string{"sw", "bulb", "w"},
				Status:       domain.StatusComplete,
			},
			contains: []string{
				"%% status: complete",
				"classDef live",
				"linkStyle 1,2,3 stroke:#f59e0b",
				"class j_0_0 live;",
				"class j_100_0 live;",
			},
		},
		{
			name:     "Burnt out elements are flagged",
			switchOn: true,
			overlay: &graph.GraphOverlay{
				BurntOut: []string{"bulb"},
				Status:   domain.StatusComplete,
			},
			contains: []string{`"bulb (lamp) 🔥"`},
			excludes: []string{"linkStyle"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := loop(tt.switchOn)
			got := graph.GenerateMermaid(g.Junctions(), g.Elements(), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_NegativeCoordinates(t *testing.T) {
	b := dsl.New("neg")
	b.Source("bat", domain.Pt(-20, 5), domain.Pt(20, 5))
	g := circuitlab.New()
	g.Load(context.Background(), b.Layout())

	got := graph.GenerateMermaid(g.Junctions(), g.Elements(), nil)

	assert.Contains(t, got, `j__20_5(("-20,5"))`)
	assert.Contains(t, got, `j__20_5 ===|"bat (source)"| j_20_5`)
}

func TestOverlayFromResult(t *testing.T) {
	g := loop(true)
	res := g.Simulate(context.Background())

	o := graph.OverlayFromResult(res)
	require.NotNil(t, o)
	assert.Equal(t, domain.StatusComplete, o.Status)
	assert.Contains(t, o.LiveElements, "bulb")
	assert.NotContains(t, o.LiveElements, "bat")
	assert.True(t, strings.Contains(graph.GenerateMermaid(g.Junctions(), g.Elements(), o), "linkStyle"))

	assert.Nil(t, graph.OverlayFromResult(nil))
}
