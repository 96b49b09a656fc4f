package runtime

import (
	"strings"

	"github.com/aretw0/circuitlab/pkg/domain"
)

// MergeMode selects how terminal keys are clustered into junctions.
type MergeMode int

const (
	// MergeSinglePass compares every unmerged key against the current representative only.
	// Three clusters that are pairwise close but not all within reach of one representative
	// can end up in different junctions depending on key order.
	MergeSinglePass MergeMode = iota
	// MergeTransitive merges every chain of keys within the threshold (union-find).
	MergeTransitive
)

func (m MergeMode) String() string {
	if m == MergeTransitive {
		return "transitive"
	}
	return "single-pass"
}

// ParseMergeMode maps a config string to a MergeMode. Unknown values fall back to single-pass.
func ParseMergeMode(s string) MergeMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transitive", "union-find", "unionfind":
		return MergeTransitive
	default:
		return MergeSinglePass
	}
}

// JunctionMap is the derived connection map of one simulation pass.
type JunctionMap struct {
	Junctions []domain.Junction
	byKey     map[string]int // terminal key -> junction index
}

// Of returns the junction index holding the given terminal.
func (m *JunctionMap) Of(el domain.Element, side domain.Side) int {
	return m.byKey[el.Terminal(side).Key()]
}

// keyGroup is every endpoint sitting at one exact rounded position.
type keyGroup struct {
	key       string
	point     domain.Point
	endpoints []domain.Endpoint
}

// BuildJunctions clusters element terminals into junctions.
// Keys are visited in order of first appearance (element order, side A before side B).
func BuildJunctions(elements []domain.Element, threshold float64, mode MergeMode) *JunctionMap {
	groups := groupByKey(elements)

	var sets [][]int
	if mode == MergeTransitive {
		sets = mergeTransitive(groups, threshold)
	} else {
		sets = mergeSinglePass(groups, threshold)
	}

	m := &JunctionMap{
		Junctions: make([]domain.Junction, 0, len(sets)),
		byKey:     make(map[string]int, len(groups)),
	}
	for _, set := range sets {
		rep := groups[set[0]]
		j := domain.Junction{Key: rep.key, Point: rep.point}
		for _, gi := range set {
			j.Endpoints = append(j.Endpoints, groups[gi].endpoints...)
			m.byKey[groups[gi].key] = len(m.Junctions)
		}
		m.Junctions = append(m.Junctions, j)
	}
	return m
}

func groupByKey(elements []domain.Element) []keyGroup {
	var groups []keyGroup
	index := make(map[string]int)
	for _, el := range elements {
		for _, side := range []domain.Side{domain.SideA, domain.SideB} {
			p := el.Terminal(side)
			key := p.Key()
			gi, ok := index[key]
			if !ok {
				gi = len(groups)
				index[key] = gi
				groups = append(groups, keyGroup{key: key, point: p.Round()})
			}
			groups[gi].endpoints = append(groups[gi].endpoints, domain.Endpoint{Element: el.Index, Side: side})
		}
	}
	return groups
}

func mergeSinglePass(groups []keyGroup, threshold float64) [][]int {
	merged := make([]bool, len(groups))
	var sets [][]int
	for i := range groups {
		if merged[i] {
			continue
		}
		merged[i] = true
		set := []int{i}
		for j := i + 1; j < len(groups); j++ {
			if merged[j] {
				continue
			}
			if groups[i].point.Distance(groups[j].point) <= threshold {
				merged[j] = true
				set = append(set, j)
			}
		}
		sets = append(sets, set)
	}
	return sets
}

func mergeTransitive(groups []keyGroup, threshold float64) [][]int {
	uf := newUnionFind(len(groups))
	for i := range groups {
		for j := i + 1; j < len(groups); j++ {
			if groups[i].point.Distance(groups[j].point) <= threshold {
				uf.union(i, j)
			}
		}
	}

	// Sets are emitted in order of their earliest key, members in key order.
	setOf := make(map[int]int)
	var sets [][]int
	for i := range groups {
		root := uf.find(i)
		si, ok := setOf[root]
		if !ok {
			si = len(sets)
			setOf[root] = si
			sets = append(sets, nil)
		}
		sets[si] = append(sets[si], i)
	}
	return sets
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}
