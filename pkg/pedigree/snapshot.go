package pedigree

import (
	"maps"
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// ListNodes returns deep copies of every node, sorted by ID.
func (g *Graph) ListNodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, id := range g.ids() {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// ListEdges returns every structural edge. For each partnership in ID order
// it lists the two partner edges followed by the parent-child edges in
// insertion order, which is the order Load rebuilds the indices from.
func (g *Graph) ListEdges() []Edge {
	var out []Edge
	for _, p := range slices.Sorted(maps.Keys(g.endpoints)) {
		e := g.endpoints[p]
		out = append(out,
			Edge{Kind: EdgePartner, From: e[0], To: p},
			Edge{Kind: EdgePartner, From: e[1], To: p})
		for _, c := range g.children[p] {
			out = append(out, Edge{Kind: EdgeParentChild, From: p, To: c})
		}
	}
	return out
}

// Load builds a graph from a snapshot. Every invariant is checked before the
// graph is returned; the first violation is reported as a VALIDATION error
// wrapping the specific cause. Layout fields are taken as seeds.
func Load(nodes []Node, edges []Edge) (*Graph, error) {
	g, err := build(nodes, edges)
	if err != nil {
		return nil, rejected(err)
	}
	if err := g.check(); err != nil {
		return nil, rejected(err)
	}
	return g, nil
}

func rejected(cause error) error {
	return perr.Wrap(perr.ErrCodeValidation, cause, "snapshot rejected").WithNodes(perr.NodesOf(cause)...)
}

func build(nodes []Node, edges []Edge) (*Graph, error) {
	g := New()
	for i := range nodes {
		n := nodes[i].Clone()
		if n.ID < 0 {
			return nil, perr.New(perr.ErrCodeInvalidFormat, "node IDs must not be negative, got %d", n.ID)
		}
		if _, dup := g.nodes[n.ID]; dup {
			return nil, perr.New(perr.ErrCodeInvalidFormat, "duplicate node ID %d", n.ID).WithNodes(int(n.ID))
		}
		if n.Person != nil {
			n.Person.normalize(n.Kind)
		}
		if n.Partnership != nil {
			n.Partnership.normalize()
		}
		g.nodes[n.ID] = &n
		if n.ID >= g.nextID {
			g.nextID = n.ID + 1
		}
	}

	partners := make(map[ID][]ID)
	for _, e := range edges {
		from, ok := g.nodes[e.From]
		if !ok {
			return nil, perr.New(perr.ErrCodeNotFound, "%s edge references unknown node %d", e.Kind, e.From).WithNodes(int(e.From))
		}
		to, ok := g.nodes[e.To]
		if !ok {
			return nil, perr.New(perr.ErrCodeNotFound, "%s edge references unknown node %d", e.Kind, e.To).WithNodes(int(e.To))
		}
		switch e.Kind {
		case EdgePartner:
			if !from.IsIndividual() || to.Kind != KindPartnership {
				return nil, perr.New(perr.ErrCodeInvalidRelationship, "partner edge %d->%d must join an individual to a partnership", e.From, e.To).WithNodes(int(e.From), int(e.To))
			}
			if slices.Contains(partners[e.To], e.From) {
				return nil, perr.New(perr.ErrCodeInvalidRelationship, "node %d cannot partner with itself", e.From).WithNodes(int(e.From), int(e.To))
			}
			if len(partners[e.To]) == 2 {
				return nil, perr.New(perr.ErrCodeInvalidRelationship, "partnership %d has more than two partners", e.To).WithNodes(int(e.To))
			}
			partners[e.To] = append(partners[e.To], e.From)
			g.unions[e.From] = append(g.unions[e.From], e.To)
		case EdgeParentChild:
			if from.Kind != KindPartnership || !to.IsIndividual() {
				return nil, perr.New(perr.ErrCodeInvalidRelationship, "child edge %d->%d must join a partnership to an individual", e.From, e.To).WithNodes(int(e.From), int(e.To))
			}
			if p, ok := g.parentOf[e.To]; ok {
				return nil, perr.New(perr.ErrCodeTooManyParents, "node %d already descends from partnership %d", e.To, p).WithNodes(int(e.To))
			}
			g.parentOf[e.To] = e.From
			g.children[e.From] = append(g.children[e.From], e.To)
		default:
			return nil, perr.New(perr.ErrCodeInvalidFormat, "unknown edge kind %d", int(e.Kind))
		}
	}
	for p, ends := range partners {
		if len(ends) != 2 {
			return nil, perr.New(perr.ErrCodeInvalidRelationship, "partnership %d needs exactly two partners", p).WithNodes(int(p))
		}
		g.endpoints[p] = [2]ID{ends[0], ends[1]}
	}
	return g, nil
}

// Revert undoes a delta previously returned by a mutation on g: created nodes
// and added edges go away, removed nodes and edges come back and changed
// nodes get their earlier properties. The result is validated like a
// snapshot load and commits atomically. The returned delta undoes the
// revert.
//
// Restored nodes keep their IDs; the ID counter never moves backwards.
// Restored children are appended after their current siblings.
func (g *Graph) Revert(d Delta) (Delta, error) {
	created := make(map[ID]bool, len(d.Created))
	for _, id := range d.Created {
		if _, ok := g.nodes[id]; !ok {
			return Delta{}, perr.New(perr.ErrCodeNotFound, "node %d created by %q no longer exists", id, d.Op).WithNodes(int(id))
		}
		created[id] = true
	}

	var nodes []Node
	for _, n := range g.ListNodes() {
		if !created[n.ID] {
			nodes = append(nodes, n)
		}
	}
	for _, b := range d.Before {
		i := slices.IndexFunc(nodes, func(n Node) bool { return n.ID == b.ID })
		if i < 0 {
			return Delta{}, perr.New(perr.ErrCodeNotFound, "node %d changed by %q no longer exists", b.ID, d.Op).WithNodes(int(b.ID))
		}
		restored := b.Clone()
		restored.Rank, restored.Order, restored.Pos = nodes[i].Rank, nodes[i].Order, nodes[i].Pos
		nodes[i] = restored
	}
	nodes = append(nodes, d.Removed...)

	var edges []Edge
	for _, e := range g.ListEdges() {
		if created[e.From] || created[e.To] || slices.Contains(d.AddedEdges, e) {
			continue
		}
		edges = append(edges, e)
	}
	edges = append(edges, d.RemovedEdges...)

	ng, err := Load(nodes, edges)
	if err != nil {
		return Delta{}, err
	}
	if g.nextID > ng.nextID {
		ng.nextID = g.nextID
	}
	inv := diff("revert "+d.Op, g, ng)

	ng.dirty = g.dirty
	*g = *ng
	for _, n := range d.Removed {
		if _, ok := g.nodes[n.ID]; ok {
			g.nodes[n.ID].Order = Unplaced
		}
	}
	g.markDirty(inv.Touched()...)
	return inv, nil
}
