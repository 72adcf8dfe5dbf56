package pedigree

import (
	"maps"
	"slices"
)

// Graph is the pedigree: the node registry plus the relationship index.
//
// Parent-child edges run from a partnership node to a child. Partnership
// edges join a partnership node to its two endpoints. Reverse indices keep
// every adjacency query a map lookup.
//
// A Graph is not safe for concurrent use. It is owned by one editor session
// and every mutation is serialized through that session.
type Graph struct {
	nodes  map[ID]*Node
	nextID ID

	endpoints map[ID][2]ID // partnership -> its two partners, in insertion order
	children  map[ID][]ID  // partnership -> children, in insertion order
	parentOf  map[ID]ID    // individual -> parent partnership
	unions    map[ID][]ID  // individual -> partnerships, in insertion order

	dirty map[ID]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[ID]*Node),
		endpoints: make(map[ID][2]ID),
		children:  make(map[ID][]ID),
		parentOf:  make(map[ID]ID),
		unions:    make(map[ID][]ID),
		dirty:     make(map[ID]struct{}),
	}
}

// Node returns the node with the given ID. The returned node is live: callers
// outside the layout pipeline must treat it as read-only.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node sorted by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.ids() {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// NextID returns the ID the next created node will receive.
func (g *Graph) NextID() ID { return g.nextID }

func (g *Graph) ids() []ID {
	return slices.Sorted(maps.Keys(g.nodes))
}

// ParentPartnership returns the partnership id descends from, or NoID.
func (g *Graph) ParentPartnership(id ID) ID {
	if p, ok := g.parentOf[id]; ok {
		return p
	}
	return NoID
}

// Parents returns the two endpoints of id's parent partnership, or nil for a
// founder.
func (g *Graph) Parents(id ID) []ID {
	p, ok := g.parentOf[id]
	if !ok {
		return nil
	}
	e := g.endpoints[p]
	return []ID{e[0], e[1]}
}

// Endpoints returns the two partners joined by partnership p.
func (g *Graph) Endpoints(p ID) ([2]ID, bool) {
	e, ok := g.endpoints[p]
	return e, ok
}

// Children returns the children of a partnership, or for an individual the
// children of all of its partnerships in partnership order.
func (g *Graph) Children(id ID) []ID {
	if kids, ok := g.children[id]; ok {
		return slices.Clone(kids)
	}
	var out []ID
	for _, p := range g.unions[id] {
		out = append(out, g.children[p]...)
	}
	return out
}

// HasChildren reports whether id (an individual or a partnership) has any
// child.
func (g *Graph) HasChildren(id ID) bool {
	if len(g.children[id]) > 0 {
		return true
	}
	for _, p := range g.unions[id] {
		if len(g.children[p]) > 0 {
			return true
		}
	}
	return false
}

// Partnerships returns the partnerships an individual belongs to.
func (g *Graph) Partnerships(id ID) []ID {
	return slices.Clone(g.unions[id])
}

// Partners returns the other endpoint of each of id's partnerships. For a
// partnership it returns its two endpoints.
func (g *Graph) Partners(id ID) []ID {
	if e, ok := g.endpoints[id]; ok {
		return []ID{e[0], e[1]}
	}
	var out []ID
	for _, p := range g.unions[id] {
		out = append(out, other(g.endpoints[p], id))
	}
	return out
}

// PartnershipBetween returns the partnership joining a and b, or NoID.
func (g *Graph) PartnershipBetween(a, b ID) ID {
	for _, p := range g.unions[a] {
		if other(g.endpoints[p], a) == b {
			return p
		}
	}
	return NoID
}

// Twins returns the other members of id's twin group ordered by twin order,
// then ID.
func (g *Graph) Twins(id ID) []ID {
	n, ok := g.nodes[id]
	if !ok || n.Person == nil || n.Person.TwinGroup == "" {
		return nil
	}
	var out []ID
	for _, m := range g.TwinGroup(n.Person.TwinGroup) {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}

// TwinGroup returns every member of the named group ordered by twin order,
// then ID.
func (g *Graph) TwinGroup(name string) []ID {
	if name == "" {
		return nil
	}
	var out []ID
	for _, id := range g.ids() {
		n := g.nodes[id]
		if n.Person != nil && n.Person.TwinGroup == name {
			out = append(out, id)
		}
	}
	slices.SortStableFunc(out, func(a, b ID) int {
		return g.nodes[a].Person.TwinOrder - g.nodes[b].Person.TwinOrder
	})
	return out
}

// Proband returns the proband, or NoID.
func (g *Graph) Proband() ID {
	for _, id := range g.ids() {
		if p := g.nodes[id].Person; p != nil && p.Proband {
			return id
		}
	}
	return NoID
}

// Ancestors returns every individual above id in the parent-child relation,
// sorted by ID.
func (g *Graph) Ancestors(id ID) []ID {
	return slices.Sorted(maps.Keys(g.ancestors(id)))
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (g *Graph) IsAncestor(anc, id ID) bool {
	_, ok := g.ancestors(id)[anc]
	return ok
}

func (g *Graph) ancestors(id ID) map[ID]struct{} {
	seen := make(map[ID]struct{})
	stack := []ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		p, ok := g.parentOf[cur]
		if !ok {
			continue
		}
		for _, e := range g.endpoints[p] {
			if _, dup := seen[e]; !dup {
				seen[e] = struct{}{}
				stack = append(stack, e)
			}
		}
	}
	return seen
}

// Descendants returns every node below id: the partnerships of id and of each
// descendant, and their children, sorted by ID. id itself is not included.
func (g *Graph) Descendants(id ID) []ID {
	return slices.Sorted(maps.Keys(g.descendants(id)))
}

func (g *Graph) descendants(id ID) map[ID]struct{} {
	seen := make(map[ID]struct{})
	stack := []ID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next := g.children[cur]
		if _, isUnion := g.endpoints[cur]; !isUnion {
			next = g.unions[cur]
		}
		for _, n := range next {
			if _, dup := seen[n]; !dup && n != id {
				seen[n] = struct{}{}
				stack = append(stack, n)
			}
		}
	}
	return seen
}

// PossibleGenders lists the genders id may take given its partners. A partner
// of known gender restricts id to the opposite gender or unknown.
func (g *Graph) PossibleGenders(id ID) []Gender {
	allowed := map[Gender]bool{GenderMale: true, GenderFemale: true, GenderUnknown: true}
	for _, partner := range g.Partners(id) {
		pn := g.nodes[partner]
		if pn.Person == nil || !pn.Person.Gender.Known() {
			continue
		}
		allowed[pn.Person.Gender] = false
	}
	var out []Gender
	for _, gender := range []Gender{GenderMale, GenderFemale, GenderUnknown} {
		if allowed[gender] {
			out = append(out, gender)
		}
	}
	return out
}

// EffectiveConsanguinity resolves a partnership's consanguinity flag. Auto
// means consanguineous when the partners share an ancestor or one descends
// from the other.
func (g *Graph) EffectiveConsanguinity(p ID) bool {
	n, ok := g.nodes[p]
	if !ok || n.Partnership == nil {
		return false
	}
	switch n.Partnership.Consanguinity {
	case ConsanguinityYes:
		return true
	case ConsanguinityNo:
		return false
	}
	e := g.endpoints[p]
	left := g.ancestors(e[0])
	if _, ok := left[e[1]]; ok {
		return true
	}
	for a := range g.ancestors(e[1]) {
		if _, ok := left[a]; ok || a == e[0] {
			return true
		}
	}
	return false
}

// RankIDs returns the distinct ranks in use, ascending.
func (g *Graph) RankIDs() []int {
	seen := make(map[int]struct{})
	for _, n := range g.nodes {
		seen[n.Rank] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// NodesInRank returns the nodes of rank r ordered by Order. Unplaced nodes
// come last; ties break by ID.
func (g *Graph) NodesInRank(r int) []*Node {
	var out []*Node
	for _, id := range g.ids() {
		if n := g.nodes[id]; n.Rank == r {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *Node) int {
		return orderKey(a) - orderKey(b)
	})
	return out
}

func orderKey(n *Node) int {
	if n.Order == Unplaced {
		return int(^uint(0) >> 2)
	}
	return n.Order
}

// Dirty returns the nodes whose layout must be recomputed, sorted by ID.
// Nodes removed since they were marked are dropped.
func (g *Graph) Dirty() []ID {
	var out []ID
	for id := range g.dirty {
		if _, ok := g.nodes[id]; ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// ClearDirty empties the dirty set.
func (g *Graph) ClearDirty() { clear(g.dirty) }

// MarkAllDirty marks every node for relayout.
func (g *Graph) MarkAllDirty() {
	for id := range g.nodes {
		g.dirty[id] = struct{}{}
	}
}

// markDirty marks ids, their partnerships and everything below them.
func (g *Graph) markDirty(ids ...ID) {
	for _, id := range ids {
		if _, ok := g.nodes[id]; !ok {
			continue
		}
		g.dirty[id] = struct{}{}
		for d := range g.descendants(id) {
			g.dirty[d] = struct{}{}
		}
	}
}

// SetRanks writes generation ranks computed by the layout pipeline.
func (g *Graph) SetRanks(ranks map[ID]int) {
	for id, r := range ranks {
		if n, ok := g.nodes[id]; ok {
			n.Rank = r
		}
	}
}

// SetOrders writes within-rank positions computed by the layout pipeline.
func (g *Graph) SetOrders(orders map[ID]int) {
	for id, o := range orders {
		if n, ok := g.nodes[id]; ok {
			n.Order = o
		}
	}
}

// SetPositions writes canvas coordinates computed by the layout pipeline.
func (g *Graph) SetPositions(pos map[ID]Point) {
	for id, p := range pos {
		if n, ok := g.nodes[id]; ok {
			n.Pos = p
		}
	}
}

func other(e [2]ID, id ID) ID {
	if e[0] == id {
		return e[1]
	}
	return e[0]
}
