package pedigree

import (
	"reflect"
	"slices"
)

// EdgeKind distinguishes the two edge families.
type EdgeKind int

const (
	// EdgePartner joins an individual (From) to a partnership (To).
	EdgePartner EdgeKind = iota
	// EdgeParentChild joins a partnership (From) to a child (To).
	EdgeParentChild
)

func (k EdgeKind) String() string {
	if k == EdgeParentChild {
		return "child"
	}
	return "partner"
}

// Edge is one structural edge. A partnership contributes two partner edges.
type Edge struct {
	Kind EdgeKind
	From ID
	To   ID
}

// Delta describes what a mutation changed, in enough detail for a command
// layer to undo it with [Graph.Revert].
//
// Before and After hold node states for nodes that existed on both sides;
// Removed holds the last state of deleted nodes. Layout fields are carried
// along but a revert does not restore them.
type Delta struct {
	Op      string
	Created []ID
	Removed []Node
	Before  []Node
	After   []Node

	AddedEdges   []Edge
	RemovedEdges []Edge
}

// Empty reports whether the delta changed nothing.
func (d Delta) Empty() bool {
	return len(d.Created) == 0 && len(d.Removed) == 0 && len(d.Before) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

// Touched returns every node ID the delta mentions, sorted.
func (d Delta) Touched() []ID {
	seen := make(map[ID]struct{})
	add := func(id ID) { seen[id] = struct{}{} }
	for _, id := range d.Created {
		add(id)
	}
	for _, list := range [][]Node{d.Removed, d.Before} {
		for _, n := range list {
			add(n.ID)
		}
	}
	for _, list := range [][]Edge{d.AddedEdges, d.RemovedEdges} {
		for _, e := range list {
			add(e.From)
			add(e.To)
		}
	}
	out := make([]ID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// recorder accumulates a Delta while a mutation commits.
type recorder struct {
	g       *Graph
	d       Delta
	touched map[ID]bool
}

func (g *Graph) record(op string) *recorder {
	return &recorder{g: g, d: Delta{Op: op}, touched: make(map[ID]bool)}
}

// before snapshots id ahead of an in-place change.
func (r *recorder) before(id ID) {
	if r.touched[id] {
		return
	}
	if n, ok := r.g.nodes[id]; ok {
		r.touched[id] = true
		r.d.Before = append(r.d.Before, n.Clone())
	}
}

func (r *recorder) created(id ID) {
	r.touched[id] = true
	r.d.Created = append(r.d.Created, id)
}

func (r *recorder) removed(n *Node) {
	r.d.Removed = append(r.d.Removed, n.Clone())
}

func (r *recorder) addEdge(e Edge)    { r.d.AddedEdges = append(r.d.AddedEdges, e) }
func (r *recorder) removeEdge(e Edge) { r.d.RemovedEdges = append(r.d.RemovedEdges, e) }

// done fills After and drops Before entries that did not actually change.
func (r *recorder) done() Delta {
	var before, after []Node
	for _, b := range r.d.Before {
		n, ok := r.g.nodes[b.ID]
		if !ok {
			continue
		}
		a := n.Clone()
		if samePayload(b, a) {
			continue
		}
		before = append(before, b)
		after = append(after, a)
	}
	r.d.Before, r.d.After = before, after
	return r.d
}

func samePayload(a, b Node) bool {
	return a.Kind == b.Kind && reflect.DeepEqual(a.Person, b.Person) &&
		reflect.DeepEqual(a.Partnership, b.Partnership)
}

// diff computes the delta that turns old into cur.
func diff(op string, old, cur *Graph) Delta {
	d := Delta{Op: op}
	for _, id := range cur.ids() {
		o, ok := old.nodes[id]
		if !ok {
			d.Created = append(d.Created, id)
			continue
		}
		n := cur.nodes[id]
		if !samePayload(*o, *n) {
			d.Before = append(d.Before, o.Clone())
			d.After = append(d.After, n.Clone())
		}
	}
	for _, id := range old.ids() {
		if _, ok := cur.nodes[id]; !ok {
			d.Removed = append(d.Removed, old.nodes[id].Clone())
		}
	}
	oldEdges, curEdges := old.ListEdges(), cur.ListEdges()
	for _, e := range curEdges {
		if !slices.Contains(oldEdges, e) {
			d.AddedEdges = append(d.AddedEdges, e)
		}
	}
	for _, e := range oldEdges {
		if !slices.Contains(curEdges, e) {
			d.RemovedEdges = append(d.RemovedEdges, e)
		}
	}
	return d
}
