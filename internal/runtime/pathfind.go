package runtime

import (
	"github.com/aretw0/circuitlab/pkg/domain"
)

// PathSearch is the outcome of FindPaths.
type PathSearch struct {
	// Paths holds every simple conducting path, each as registry indexes in traversal order.
	Paths     [][]int
	Steps     int
	Truncated bool
}

type searchState struct {
	junction int
	used     bitset
	path     []int
}

// FindPaths enumerates, breadth-first over junctions, every simple path of conducting
// elements from the source's A terminal to its B terminal.
// A branch stops as soon as it reaches the goal; sibling branches keep expanding.
// The search aborts once stepLimit states have been expanded.
func FindPaths(elements []domain.Element, jm *JunctionMap, source domain.Element, stepLimit int) PathSearch {
	var out PathSearch

	start := jm.Of(source, domain.SideA)
	goal := jm.Of(source, domain.SideB)

	queue := []searchState{{junction: start, used: newBitset(len(elements))}}
	for len(queue) > 0 {
		if out.Steps >= stepLimit {
			out.Truncated = true
			break
		}
		cur := queue[0]
		queue = queue[1:]
		out.Steps++

		if cur.junction == goal && len(cur.path) > 0 {
			out.Paths = append(out.Paths, cur.path)
			continue
		}

		for _, ep := range jm.Junctions[cur.junction].Endpoints {
			el := elements[ep.Element]
			if cur.used.has(el.Index) || !el.Conducts() {
				continue
			}
			next := searchState{
				junction: jm.Of(el, ep.Side.Other()),
				used:     cur.used.with(el.Index),
				path:     appendCopy(cur.path, el.Index),
			}
			queue = append(queue, next)
		}
	}
	return out
}

func appendCopy(path []int, idx int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = idx
	return out
}

// bitset is an immutable-by-convention set of registry indexes.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) has(i int) bool {
	return b[i/64]&(1<<(uint(i)%64)) != 0
}

func (b bitset) with(i int) bitset {
	c := make(bitset, len(b))
	copy(c, b)
	c[i/64] |= 1 << (uint(i) % 64)
	return c
}
