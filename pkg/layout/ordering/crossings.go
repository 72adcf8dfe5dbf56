package ordering

import (
	"maps"
	"slices"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// CountCrossings returns the number of crossing parent-child edges for the
// given rank orderings. It sums [CountLayerCrossings] over each pair of
// consecutive ranks present in rows; edges that skip a rank are not counted.
func CountCrossings(g *pedigree.Graph, rows map[int][]pedigree.ID) int {
	ranks := slices.Sorted(maps.Keys(rows))
	crossings := 0
	for i := 0; i < len(ranks)-1; i++ {
		crossings += CountLayerCrossings(g, rows[ranks[i]], rows[ranks[i+1]])
	}
	return crossings
}

// CountLayerCrossings counts crossings between the edges that run from the
// partnerships of upper to the children in lower, using a Fenwick tree for
// O(E log V).
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is an inversion count over the target positions once edges are
// sorted by source position.
func CountLayerCrossings(g *pedigree.Graph, upper, lower []pedigree.ID) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := posMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(lower))
	for i, id := range upper {
		n, ok := g.Node(id)
		if !ok || n.Kind != pedigree.KindPartnership {
			continue
		}
		for _, child := range g.Children(id) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

func posMap(ids []pedigree.ID) map[pedigree.ID]int {
	m := make(map[pedigree.ID]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
