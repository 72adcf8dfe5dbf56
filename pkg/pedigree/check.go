package pedigree

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// Components groups individuals that must share a rank: partners and members
// of the same twin group. The map sends each individual to its component's
// representative, the smallest ID in the component.
func (g *Graph) Components() map[ID]ID {
	return g.components(nil)
}

// components is Components with extra pairs treated as partners.
func (g *Graph) components(extra [][2]ID) map[ID]ID {
	parent := make(map[ID]ID)
	var find func(ID) ID
	find = func(x ID) ID {
		p, ok := parent[x]
		if !ok || p == x {
			parent[x] = x
			return x
		}
		r := find(p)
		parent[x] = r
		return r
	}
	union := func(a, b ID) {
		ra, rb := find(a), find(b)
		switch {
		case ra < rb:
			parent[rb] = ra
		case rb < ra:
			parent[ra] = rb
		}
	}

	twins := make(map[string]ID)
	for _, id := range g.ids() {
		n := g.nodes[id]
		if !n.IsIndividual() {
			continue
		}
		find(id)
		if n.Person != nil && n.Person.TwinGroup != "" {
			if first, ok := twins[n.Person.TwinGroup]; ok {
				union(first, id)
			} else {
				twins[n.Person.TwinGroup] = id
			}
		}
	}
	for _, e := range g.endpoints {
		union(e[0], e[1])
	}
	for _, e := range extra {
		union(e[0], e[1])
	}

	out := make(map[ID]ID, len(parent))
	for id := range parent {
		out[id] = find(id)
	}
	return out
}

// checkRanks verifies that the component DAG stays acyclic, i.e. that a rank
// assignment with partners and twins level and every child below its parents
// exists. union and edge describe a partnership or parent-child edge about to
// be added; either may be nil.
func (g *Graph) checkRanks(union *[2]ID, edge *[2]ID) error {
	var extra [][2]ID
	if union != nil {
		extra = append(extra, *union)
	}
	comp := g.components(extra)

	out := make(map[ID][]ID)
	addEdge := func(partnership, child ID) error {
		e := g.endpoints[partnership]
		from, to := comp[e[0]], comp[child]
		if from == to {
			return perr.New(perr.ErrCodeInconsistentRank,
				"node %d would have to share a generation with its own parents", child).WithNodes(int(child), int(partnership))
		}
		out[from] = append(out[from], to)
		return nil
	}
	for _, child := range slices.Sorted(maps.Keys(g.parentOf)) {
		if err := addEdge(g.parentOf[child], child); err != nil {
			return err
		}
	}
	if edge != nil {
		if err := addEdge(edge[0], edge[1]); err != nil {
			return err
		}
	}

	// Kahn over component representatives.
	indeg := make(map[ID]int)
	for _, r := range comp {
		indeg[r] += 0
	}
	for _, tos := range out {
		for _, t := range tos {
			indeg[t]++
		}
	}
	var queue []ID
	for r, d := range indeg {
		if d == 0 {
			queue = append(queue, r)
		}
	}
	seen := 0
	for len(queue) > 0 {
		r := queue[0]
		queue = queue[1:]
		seen++
		for _, t := range out[r] {
			indeg[t]--
			if indeg[t] == 0 {
				queue = append(queue, t)
			}
		}
	}
	if seen == len(indeg) {
		return nil
	}
	var stuck []int
	for r, d := range indeg {
		if d > 0 {
			stuck = append(stuck, int(r))
		}
	}
	slices.Sort(stuck)
	return perr.New(perr.ErrCodeInconsistentRank,
		"partners and twins would be forced onto different generations").WithNodes(stuck...)
}

// check validates every invariant of a fully built graph. It is used by Load,
// so the first violation is returned in ID order.
func (g *Graph) check() error {
	proband := NoID
	for _, id := range g.ids() {
		n := g.nodes[id]
		if err := n.validatePayload(); err != nil {
			return nodeErr(err, id)
		}
		if n.Person != nil && n.Person.Proband {
			if proband != NoID {
				return perr.New(perr.ErrCodeInvalidProperty, "both %d and %d are marked proband", proband, id).WithNodes(int(proband), int(id))
			}
			proband = id
		}
		switch {
		case n.Kind == KindPartnership:
			e, ok := g.endpoints[id]
			if !ok {
				return perr.New(perr.ErrCodeInvalidRelationship, "partnership %d needs exactly two partners", id).WithNodes(int(id))
			}
			if err := g.checkPair(e[0], e[1], id); err != nil {
				return err
			}
			if len(g.children[id]) > 0 {
				if err := g.checkCanHaveChildren(id); err != nil {
					return err
				}
			}
		case n.Person != nil:
			if n.Person.LifeStatus.IsFetal() && (len(g.unions[id]) > 0) {
				return perr.New(perr.ErrCodeInvalidRelationship, "node %d is %s and cannot have partners", id, n.Person.LifeStatus).WithNodes(int(id))
			}
			if n.Person.Childless.IsSet() && g.HasChildren(id) {
				return perr.New(perr.ErrCodeInvalidRelationship, "node %d is %s but has children", id, n.Person.Childless.Status()).WithNodes(int(id))
			}
		}
	}

	twinParent := make(map[string]ID)
	for _, id := range g.ids() {
		n := g.nodes[id]
		if n.Person == nil || n.Person.TwinGroup == "" {
			continue
		}
		p := g.ParentPartnership(id)
		if first, ok := twinParent[n.Person.TwinGroup]; ok && first != p {
			return perr.New(perr.ErrCodeInvalidRelationship, "twin group %q spans different parents", n.Person.TwinGroup).WithNodes(int(id))
		}
		twinParent[n.Person.TwinGroup] = p
	}

	for _, id := range g.ids() {
		if _, own := g.ancestors(id)[id]; own {
			return perr.New(perr.ErrCodeCycle, "node %d is its own ancestor", id).WithNodes(int(id))
		}
	}
	for _, p := range slices.Sorted(maps.Keys(g.endpoints)) {
		e := g.endpoints[p]
		if g.IsAncestor(e[0], e[1]) || g.IsAncestor(e[1], e[0]) {
			return perr.New(perr.ErrCodeInvalidRelationship, "partners %d and %d are ancestor and descendant", e[0], e[1]).WithNodes(int(e[0]), int(e[1]))
		}
	}
	return g.checkRanks(nil, nil)
}

// checkPair validates the endpoints of a partnership. self is the partnership
// being checked, or NoID for one about to be created.
func (g *Graph) checkPair(a, b, self ID) error {
	na, ok := g.nodes[a]
	if !ok {
		return perr.New(perr.ErrCodeNotFound, "node %d does not exist", a).WithNodes(int(a))
	}
	nb, ok := g.nodes[b]
	if !ok {
		return perr.New(perr.ErrCodeNotFound, "node %d does not exist", b).WithNodes(int(b))
	}
	if a == b {
		return perr.New(perr.ErrCodeInvalidRelationship, "node %d cannot partner with itself", a).WithNodes(int(a))
	}
	if !na.IsIndividual() || !nb.IsIndividual() {
		return perr.New(perr.ErrCodeInvalidRelationship, "only persons, groups and placeholders can be partners").WithNodes(int(a), int(b))
	}
	for _, p := range g.unions[a] {
		if p != self && other(g.endpoints[p], a) == b {
			return perr.New(perr.ErrCodeInvalidRelationship, "%d and %d are already partners", a, b).WithNodes(int(a), int(b), int(p))
		}
	}
	if na.Person != nil && nb.Person != nil {
		ga, gb := na.Person.Gender, nb.Person.Gender
		if ga.Known() && ga == gb {
			return perr.New(perr.ErrCodeInvalidRelationship, "partners %d and %d have the same gender %s", a, b, ga).WithNodes(int(a), int(b))
		}
	}
	for _, n := range []*Node{na, nb} {
		if n.Person != nil && n.Person.LifeStatus.IsFetal() {
			return perr.New(perr.ErrCodeInvalidRelationship, "node %d is %s and cannot have partners", n.ID, n.Person.LifeStatus).WithNodes(int(n.ID))
		}
	}
	return nil
}

// checkCanHaveChildren rejects children under a childless partnership or a
// partnership with a childless endpoint.
func (g *Graph) checkCanHaveChildren(p ID) error {
	if c := g.nodes[p].childless(); c.IsSet() {
		return perr.New(perr.ErrCodeInvalidRelationship, "partnership %d is marked %s", p, c.Status()).WithNodes(int(p))
	}
	for _, e := range g.endpoints[p] {
		if c := g.nodes[e].childless(); c.IsSet() {
			return perr.New(perr.ErrCodeInvalidRelationship, "parent %d is marked %s", e, c.Status()).WithNodes(int(e), int(p))
		}
	}
	return nil
}

func nodeErr(err error, id ID) error {
	var e *perr.Error
	if errors.As(err, &e) && len(e.Nodes) == 0 {
		return e.WithNodes(int(id))
	}
	return fmt.Errorf("node %d: %w", id, err)
}
