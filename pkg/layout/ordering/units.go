package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// unit is a run of nodes that moves as one block within a rank: a partner
// chain with its partnership nodes, widened by any twin group it touches.
type unit struct {
	nodes []pedigree.ID
	minID pedigree.ID
	// free units may move; the others keep their place relative to each other.
	free bool

	bary    float64
	hasBary bool
}

// buildUnits splits a rank (already sorted by previous order) into units.
// Fixed units keep their internal arrangement; free ones are linearized.
func buildUnits(g *pedigree.Graph, row []*pedigree.Node, dirty map[pedigree.ID]bool) []*unit {
	parent := make(map[pedigree.ID]pedigree.ID, len(row))
	var find func(pedigree.ID) pedigree.ID
	find = func(x pedigree.ID) pedigree.ID {
		if p, ok := parent[x]; ok && p != x {
			r := find(p)
			parent[x] = r
			return r
		}
		parent[x] = x
		return x
	}
	union := func(a, b pedigree.ID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[max(ra, rb)] = min(ra, rb)
		}
	}

	inRow := make(map[pedigree.ID]bool, len(row))
	for _, n := range row {
		inRow[n.ID] = true
		find(n.ID)
	}
	twins := make(map[string]pedigree.ID)
	for _, n := range row {
		if e, ok := g.Endpoints(n.ID); ok {
			for _, x := range e {
				if inRow[x] {
					union(n.ID, x)
				}
			}
		}
		if n.Person != nil && n.Person.TwinGroup != "" {
			if first, ok := twins[n.Person.TwinGroup]; ok {
				union(first, n.ID)
			} else {
				twins[n.Person.TwinGroup] = n.ID
			}
		}
	}

	byRoot := make(map[pedigree.ID]*unit)
	var units []*unit
	for _, n := range row {
		r := find(n.ID)
		u, ok := byRoot[r]
		if !ok {
			u = &unit{minID: n.ID}
			byRoot[r] = u
			units = append(units, u)
		}
		u.nodes = append(u.nodes, n.ID)
		u.minID = min(u.minID, n.ID)
		if dirty[n.ID] || n.Order == pedigree.Unplaced {
			u.free = true
		}
	}

	prev := func(u *unit) int {
		best := -1
		for _, id := range u.nodes {
			n, _ := g.Node(id)
			if n.Order != pedigree.Unplaced && (best < 0 || n.Order < best) {
				best = n.Order
			}
		}
		return best
	}
	keys := make(map[*unit]int, len(units))
	for _, u := range units {
		keys[u] = prev(u)
		if u.free {
			u.nodes = linearize(g, u.nodes, func(id pedigree.ID) float64 {
				n, _ := g.Node(id)
				if n.Order == pedigree.Unplaced {
					return float64(len(row)) + float64(id)
				}
				return float64(n.Order)
			})
		}
	}
	// Units that were never placed go last, in ID order.
	slices.SortStableFunc(units, func(a, b *unit) int {
		ka, kb := keys[a], keys[b]
		switch {
		case ka < 0 && kb < 0:
			return cmp.Compare(a.minID, b.minID)
		case ka < 0:
			return 1
		case kb < 0:
			return -1
		}
		return cmp.Compare(ka, kb)
	})
	return units
}

// linearize arranges the members of a unit: each partner chain is laid out
// left to right with every partnership node right after the left one of its
// two partners, and chains joined by a twin group are ordered by twin order
// with the twins turned toward each other.
func linearize(g *pedigree.Graph, members []pedigree.ID, key func(pedigree.ID) float64) []pedigree.ID {
	less := func(a, b pedigree.ID) int {
		if c := cmp.Compare(key(a), key(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	}

	var people, unions []pedigree.ID
	for _, id := range members {
		n, _ := g.Node(id)
		if n.Kind == pedigree.KindPartnership {
			unions = append(unions, id)
		} else {
			people = append(people, id)
		}
	}
	in := make(map[pedigree.ID]bool, len(people))
	for _, id := range people {
		in[id] = true
	}
	adj := make(map[pedigree.ID][]pedigree.ID)
	var inUnit []pedigree.ID
	for _, p := range unions {
		e, _ := g.Endpoints(p)
		if !in[e[0]] || !in[e[1]] {
			continue
		}
		inUnit = append(inUnit, p)
		adj[e[0]] = append(adj[e[0]], e[1])
		adj[e[1]] = append(adj[e[1]], e[0])
	}

	// Partner chains.
	seen := make(map[pedigree.ID]bool)
	var chains [][]pedigree.ID
	for _, id := range slices.SortedFunc(slices.Values(people), less) {
		if seen[id] {
			continue
		}
		comp := collect(id, adj)
		for _, c := range comp {
			seen[c] = true
		}
		chains = append(chains, walk(comp, adj, less))
	}

	twinOrder := func(chain []pedigree.ID) (int, int, bool) {
		for i, id := range chain {
			if n, _ := g.Node(id); n.Person != nil && n.Person.TwinGroup != "" {
				return n.Person.TwinOrder, i, true
			}
		}
		return 0, 0, false
	}
	if len(chains) > 1 {
		slices.SortStableFunc(chains, func(a, b []pedigree.ID) int {
			oa, _, _ := twinOrder(a)
			ob, _, _ := twinOrder(b)
			if oa != ob {
				return cmp.Compare(oa, ob)
			}
			return less(a[0], b[0])
		})
		for i, chain := range chains {
			_, at, ok := twinOrder(chain)
			if !ok || len(chain) < 2 {
				continue
			}
			first, last := i == 0, i == len(chains)-1
			if (first && at < len(chain)/2) || (last && !first && at >= (len(chain)+1)/2) {
				slices.Reverse(chain)
			}
		}
	}

	var out []pedigree.ID
	for _, chain := range chains {
		out = append(out, placeUnions(g, chain, inUnit)...)
	}
	// Partnerships whose partners sit in different ranks have no slot in a
	// chain; keep them at the end of the unit.
	for _, p := range unions {
		if !slices.Contains(inUnit, p) {
			out = append(out, p)
		}
	}
	return out
}

func collect(start pedigree.ID, adj map[pedigree.ID][]pedigree.ID) []pedigree.ID {
	seen := map[pedigree.ID]bool{start: true}
	queue := []pedigree.ID{start}
	for i := 0; i < len(queue); i++ {
		for _, n := range adj[queue[i]] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return queue
}

// walk orders a partner component. A simple path is walked from the end with
// the smaller key; anything else is a depth-first walk from the smallest key.
func walk(comp []pedigree.ID, adj map[pedigree.ID][]pedigree.ID, less func(a, b pedigree.ID) int) []pedigree.ID {
	if len(comp) == 1 {
		return comp
	}
	edges, path := 0, true
	for _, id := range comp {
		edges += len(adj[id])
		if len(adj[id]) > 2 {
			path = false
		}
	}
	edges /= 2
	path = path && edges == len(comp)-1

	sorted := slices.SortedFunc(slices.Values(comp), less)
	start := sorted[0]
	if path {
		for _, id := range sorted {
			if len(adj[id]) == 1 {
				start = id
				break
			}
		}
	}

	var out []pedigree.ID
	seen := make(map[pedigree.ID]bool)
	var visit func(pedigree.ID)
	visit = func(id pedigree.ID) {
		seen[id] = true
		out = append(out, id)
		for _, n := range slices.SortedFunc(slices.Values(adj[id]), less) {
			if !seen[n] {
				visit(n)
			}
		}
	}
	visit(start)
	return out
}

// placeUnions interleaves partnership nodes into a chain of individuals.
func placeUnions(g *pedigree.Graph, chain []pedigree.ID, unions []pedigree.ID) []pedigree.ID {
	at := posMap(chain)
	after := make(map[pedigree.ID][]pedigree.ID)
	for _, p := range unions {
		e, _ := g.Endpoints(p)
		a, okA := at[e[0]]
		b, okB := at[e[1]]
		if !okA || !okB {
			continue
		}
		left := e[0]
		if b < a {
			left = e[1]
		}
		after[left] = append(after[left], p)
	}
	out := make([]pedigree.ID, 0, len(chain)+len(unions))
	for _, id := range chain {
		out = append(out, id)
		ps := after[id]
		slices.SortFunc(ps, func(x, y pedigree.ID) int {
			ex, _ := g.Endpoints(x)
			ey, _ := g.Endpoints(y)
			return cmp.Compare(max(at[ex[0]], at[ex[1]]), max(at[ey[0]], at[ey[1]]))
		})
		out = append(out, ps...)
	}
	return out
}
