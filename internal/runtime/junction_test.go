package runtime

import (
	"testing"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRegistry(t *testing.T, specs ...domain.ElementSpec) []domain.Element {
	t.Helper()
	r := NewRegistry()
	for _, s := range specs {
		_, reason := r.Add(s)
		require.Empty(t, reason, "element %s", s.ID)
	}
	return r.Elements()
}

func wire(id string, a, b domain.Point) domain.ElementSpec {
	return domain.ElementSpec{ID: id, Kind: domain.KindWire, A: &a, B: &b}
}

func TestBuildJunctions_ExactKeys(t *testing.T) {
	elements := mustRegistry(t,
		wire("a", domain.Pt(0, 0), domain.Pt(100.4, 0)),
		wire("b", domain.Pt(99.6, 0.2), domain.Pt(300, 0)),
	)
	jm := BuildJunctions(elements, 0, MergeSinglePass)

	require.Len(t, jm.Junctions, 3)
	assert.Equal(t, jm.Of(elements[0], domain.SideB), jm.Of(elements[1], domain.SideA), "rounding puts both on 100,0")
	assert.Equal(t, "0,0", jm.Junctions[0].Key)
	assert.Equal(t, "100,0", jm.Junctions[1].Key)
}

func TestBuildJunctions_MergeOrder(t *testing.T) {
	// Keys at x=0, x=50 and x=100: neighbours are 50 apart, the ends are 100 apart.
	left := wire("left", domain.Pt(0, 0), domain.Pt(0, 300))
	mid := wire("mid", domain.Pt(50, 0), domain.Pt(400, -300))
	right := wire("right", domain.Pt(100, 0), domain.Pt(800, 300))

	t.Run("Single pass from the left end splits the chain", func(t *testing.T) {
		elements := mustRegistry(t, left, mid, right)
		jm := BuildJunctions(elements, domain.DefaultSnapThreshold, MergeSinglePass)

		assert.Equal(t, jm.Of(elements[0], domain.SideA), jm.Of(elements[1], domain.SideA))
		assert.NotEqual(t, jm.Of(elements[0], domain.SideA), jm.Of(elements[2], domain.SideA))
		assert.Equal(t, "0,0", jm.Junctions[jm.Of(elements[1], domain.SideA)].Key)
	})

	t.Run("Single pass from the middle joins everything", func(t *testing.T) {
		elements := mustRegistry(t, mid, left, right)
		jm := BuildJunctions(elements, domain.DefaultSnapThreshold, MergeSinglePass)

		j := jm.Of(elements[0], domain.SideA)
		assert.Equal(t, j, jm.Of(elements[1], domain.SideA))
		assert.Equal(t, j, jm.Of(elements[2], domain.SideA))
		assert.Equal(t, "50,0", jm.Junctions[j].Key)
	})

	t.Run("Transitive joins regardless of order", func(t *testing.T) {
		elements := mustRegistry(t, left, mid, right)
		jm := BuildJunctions(elements, domain.DefaultSnapThreshold, MergeTransitive)

		j := jm.Of(elements[0], domain.SideA)
		assert.Equal(t, j, jm.Of(elements[1], domain.SideA))
		assert.Equal(t, j, jm.Of(elements[2], domain.SideA))
		assert.Len(t, jm.Junctions[j].Endpoints, 3)
		assert.Equal(t, "0,0", jm.Junctions[j].Key)
	})
}

func TestBuildJunctions_NegativeCoordinates(t *testing.T) {
	// -0.5 rounds to 0, so a's B and b's A share the "0,-40" key; c sits 45 away.
	a := wire("a", domain.Pt(-300, -200), domain.Pt(-0.5, -40))
	b := wire("b", domain.Pt(0.4, -40.2), domain.Pt(300, -200))
	c := wire("c", domain.Pt(-27, -76), domain.Pt(-300, 200))

	for _, mode := range []MergeMode{MergeSinglePass, MergeTransitive} {
		elements := mustRegistry(t, a, b, c)
		jm := BuildJunctions(elements, domain.DefaultSnapThreshold, mode)

		j := jm.Of(elements[0], domain.SideB)
		assert.Equal(t, j, jm.Of(elements[1], domain.SideA), "mode %v", mode)
		assert.Equal(t, j, jm.Of(elements[2], domain.SideA), "mode %v", mode)
		assert.Equal(t, "0,-40", jm.Junctions[j].Key, "mode %v", mode)
		assert.Equal(t, domain.Pt(0, -40), jm.Junctions[j].Point, "mode %v", mode)
	}
}

func TestBuildJunctions_EveryTerminalMapped(t *testing.T) {
	elements := mustRegistry(t,
		wire("a", domain.Pt(0, 0), domain.Pt(100, 0)),
		wire("b", domain.Pt(100, 10), domain.Pt(200, 0)),
		wire("c", domain.Pt(500, 500), domain.Pt(200, 30)),
	)
	jm := BuildJunctions(elements, domain.DefaultSnapThreshold, MergeSinglePass)

	seen := 0
	for _, j := range jm.Junctions {
		seen += len(j.Endpoints)
	}
	assert.Equal(t, 2*len(elements), seen, "every terminal lands in exactly one junction")
	assert.Equal(t, jm.Of(elements[1], domain.SideB), jm.Of(elements[2], domain.SideB))
}

func TestParseMergeMode(t *testing.T) {
	assert.Equal(t, MergeTransitive, ParseMergeMode("transitive"))
	assert.Equal(t, MergeTransitive, ParseMergeMode(" Union-Find "))
	assert.Equal(t, MergeSinglePass, ParseMergeMode("single-pass"))
	assert.Equal(t, MergeSinglePass, ParseMergeMode(""))
	assert.Equal(t, "transitive", MergeTransitive.String())
}

func TestFindPaths_Bridge(t *testing.T) {
	bat := domain.Pt(0, 0)
	batB := domain.Pt(300, 0)
	elements := mustRegistry(t,
		domain.ElementSpec{ID: "bat", Kind: domain.KindSource, A: &bat, B: &batB},
		wire("pm", domain.Pt(0, 0), domain.Pt(150, 200)),
		wire("mq", domain.Pt(150, 200), domain.Pt(300, 0)),
		wire("pn", domain.Pt(0, 0), domain.Pt(150, -200)),
		wire("nq", domain.Pt(150, -200), domain.Pt(300, 0)),
		wire("bridge", domain.Pt(150, 200), domain.Pt(150, -200)),
	)
	jm := BuildJunctions(elements, domain.DefaultSnapThreshold, MergeSinglePass)

	search := FindPaths(elements, jm, elements[0], domain.DefaultStepLimit)

	require.False(t, search.Truncated)
	var ids [][]string
	for _, p := range search.Paths {
		var row []string
		for _, idx := range p {
			row = append(row, elements[idx].ID)
		}
		ids = append(ids, row)
	}
	assert.ElementsMatch(t, [][]string{
		{"pm", "mq"},
		{"pn", "nq"},
		{"pm", "bridge", "nq"},
		{"pn", "bridge", "mq"},
	}, ids)
	// Shorter paths are found first.
	assert.Len(t, ids[0], 2)
	assert.Len(t, ids[1], 2)
}

func TestBitset(t *testing.T) {
	b := newBitset(130)
	c := b.with(129)

	assert.False(t, b.has(129), "with returns a copy")
	assert.True(t, c.has(129))
	assert.False(t, c.has(1))
}
