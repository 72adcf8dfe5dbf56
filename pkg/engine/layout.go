package engine

import "github.com/matzehuels/pedigree/pkg/pedigree"

// Layout is the coordinate set published to the renderer after every
// relayout. Nodes are sorted by ID; partnership nodes appear in both lists.
type Layout struct {
	Session      string
	Version      uint64
	Crossings    int
	Nodes        []PlacedNode
	Partnerships []PartnershipView
}

// PlacedNode is the position of one node.
type PlacedNode struct {
	ID    pedigree.ID
	Kind  pedigree.Kind
	Rank  int
	Order int
	X, Y  float64
	Width float64
}

// PartnershipView describes a partnership connector.
type PartnershipView struct {
	ID        pedigree.ID
	Endpoints [2]pedigree.ID
	// Consanguinity is the stored flag; Consanguineous resolves auto.
	Consanguinity  pedigree.Consanguinity
	Consanguineous bool
	Broken         bool
}

// Renderer receives every published layout. It must not mutate the graph;
// edits go back through [Engine.Apply].
type Renderer interface {
	Publish(Layout)
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(Layout)

// Publish calls f(l).
func (f RendererFunc) Publish(l Layout) { f(l) }
