package graph

import (
	"github.com/matzehuels/pedigree/pkg/engine"
)

// =============================================================================
// Layout - Renderer Boundary Format
// =============================================================================

// Layout is the serialized form of a published engine layout.
//
// Width and Height bound every drawn node. Partnership connectors are listed
// separately with their resolved consanguinity so a renderer can draw double
// lines without looking at ancestry.
type Layout struct {
	Session      string            `json:"session"`
	Version      uint64            `json:"version"`
	Width        float64           `json:"width"`
	Height       float64           `json:"height"`
	Crossings    int               `json:"crossings"`
	Nodes        []PlacedNode      `json:"nodes"`
	Partnerships []PartnershipLine `json:"partnerships,omitempty"`
}

// PlacedNode is one positioned node.
type PlacedNode struct {
	ID    int     `json:"id"`
	Kind  string  `json:"kind"`
	Rank  int     `json:"rank"`
	Order int     `json:"order"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Width float64 `json:"width,omitempty"`
}

// PartnershipLine is one partnership connector.
type PartnershipLine struct {
	ID             int    `json:"id"`
	Endpoints      [2]int `json:"endpoints"`
	Consanguinity  string `json:"consanguinity"`
	Consanguineous bool   `json:"consanguineous,omitempty"`
	Broken         bool   `json:"broken,omitempty"`
}

// FromLayout converts an engine layout to its serialization format.
func FromLayout(l engine.Layout) Layout {
	out := Layout{
		Session:   l.Session,
		Version:   l.Version,
		Crossings: l.Crossings,
		Nodes:     make([]PlacedNode, len(l.Nodes)),
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = PlacedNode{
			ID:    int(n.ID),
			Kind:  n.Kind.String(),
			Rank:  n.Rank,
			Order: n.Order,
			X:     n.X,
			Y:     n.Y,
			Width: n.Width,
		}
		out.Width = max(out.Width, n.X+n.Width/2)
		out.Height = max(out.Height, n.Y)
	}
	for _, p := range l.Partnerships {
		out.Partnerships = append(out.Partnerships, PartnershipLine{
			ID:             int(p.ID),
			Endpoints:      [2]int{int(p.Endpoints[0]), int(p.Endpoints[1])},
			Consanguinity:  string(p.Consanguinity),
			Consanguineous: p.Consanguineous,
			Broken:         p.Broken,
		})
	}
	return out
}

// Rows groups node IDs by rank in order, for renderers that draw row by row.
func (l Layout) Rows() map[int][]int {
	rows := make(map[int][]int)
	for _, n := range l.Nodes {
		row := rows[n.Rank]
		for len(row) <= n.Order {
			row = append(row, -1)
		}
		row[n.Order] = n.ID
		rows[n.Rank] = row
	}
	return rows
}
