// Package rank assigns generation levels to the nodes of a pedigree.
//
// Ranks come from a longest-path layering over the component DAG: partners
// and twins are contracted into one component because they must share a
// generation, and every parent-child edge becomes an edge from the parents'
// component to the child's. A component's rank is the largest of its
// members' demands:
//
//   - a member with parents must sit one below its parent partnership
//   - a founder keeps whatever rank it already had (0 when new)
//
// Partnership nodes take the rank of their endpoints.
package rank

import (
	"maps"
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// AssignAll recomputes the rank of every node.
func AssignAll(g *pedigree.Graph) error {
	return assign(g, nil, true)
}

// Assign recomputes ranks for the components holding dirty nodes and for
// every component below them. Other nodes keep their rank, which keeps
// unrelated branches of the drawing still.
//
// Assign uses Kahn's algorithm restricted to the affected components, so it
// runs in O(V + E) of the affected subgraph plus one component pass over the
// whole graph.
//
// An INCONSISTENT_RANK error means the component DAG has a cycle. Validated
// mutations never produce one.
func Assign(g *pedigree.Graph, dirty []pedigree.ID) error {
	return assign(g, dirty, false)
}

func assign(g *pedigree.Graph, dirty []pedigree.ID, all bool) error {
	comp := g.Components()
	members := make(map[pedigree.ID][]pedigree.ID)
	for _, id := range slices.Sorted(maps.Keys(comp)) {
		members[comp[id]] = append(members[comp[id]], id)
	}

	// Component edges, parent component -> child component.
	out := make(map[pedigree.ID][]pedigree.ID)
	for _, r := range slices.Sorted(maps.Keys(members)) {
		for _, id := range members[r] {
			p := g.ParentPartnership(id)
			if p == pedigree.NoID {
				continue
			}
			e, _ := g.Endpoints(p)
			from := comp[e[0]]
			if !slices.Contains(out[from], r) {
				out[from] = append(out[from], r)
			}
		}
	}

	affected := make(map[pedigree.ID]bool)
	var stack []pedigree.ID
	seed := func(r pedigree.ID) {
		if !affected[r] {
			affected[r] = true
			stack = append(stack, r)
		}
	}
	if all {
		for r := range members {
			seed(r)
		}
	}
	for _, id := range dirty {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		if n.IsIndividual() {
			seed(comp[id])
		} else if e, ok := g.Endpoints(id); ok {
			seed(comp[e[0]])
		}
	}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range out[r] {
			seed(c)
		}
	}
	if len(affected) == 0 {
		return nil
	}

	inDegree := make(map[pedigree.ID]int, len(affected))
	for r := range affected {
		for _, c := range out[r] {
			inDegree[c]++
		}
	}
	var queue []pedigree.ID
	for _, r := range slices.Sorted(maps.Keys(affected)) {
		if inDegree[r] == 0 {
			queue = append(queue, r)
		}
	}

	ranks := make(map[pedigree.ID]int)
	rankOf := func(id pedigree.ID) int {
		if r, ok := ranks[id]; ok {
			return r
		}
		n, _ := g.Node(id)
		return n.Rank
	}

	done := 0
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		done++

		level := 0
		for i, id := range members[r] {
			var want int
			if p := g.ParentPartnership(id); p != pedigree.NoID {
				e, _ := g.Endpoints(p)
				want = rankOf(e[0]) + 1
			} else {
				want = rankOf(id)
			}
			if i == 0 || want > level {
				level = want
			}
		}
		for _, id := range members[r] {
			ranks[id] = level
			for _, p := range g.Partnerships(id) {
				ranks[p] = level
			}
		}

		for _, c := range out[r] {
			inDegree[c]--
			if inDegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	if done != len(affected) {
		return perr.New(perr.ErrCodeInconsistentRank, "generation constraints form a cycle")
	}

	g.SetRanks(ranks)
	return nil
}
