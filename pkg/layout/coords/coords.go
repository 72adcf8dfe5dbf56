// Package coords turns ranks and orders into canvas coordinates.
//
// Each rank is a row at y = rank * GenerationSpacing. Within a row the drawn
// nodes are packed left to right in order, separated by MinimumHorizontalGap
// between their edges:
//
//	x[0] = w[0]/2
//	x[i] = x[i-1] + w[i-1]/2 + gap + w[i]/2
//
// Partnership nodes take no width; they sit at the midpoint of their two
// partners. Assign depends only on rank, order, and width, so the same graph
// state always yields the same coordinates.
package coords

import (
	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Width returns the drawn width of n. Partnerships have width zero.
func Width(n *pedigree.Node, cfg config.Layout) float64 {
	switch n.Kind {
	case pedigree.KindPartnership:
		return 0
	case pedigree.KindPersonGroup:
		mult := cfg.GroupRelativeWidth
		if n.Person != nil && n.Person.WidthMultiplier > 0 {
			mult = n.Person.WidthMultiplier
		}
		return cfg.PersonRelativeWidth * mult
	default:
		return cfg.PersonRelativeWidth
	}
}

// Assign computes and stores the position of every node.
func Assign(g *pedigree.Graph, cfg config.Layout) {
	pos := make(map[pedigree.ID]pedigree.Point, g.NodeCount())
	var unions []pedigree.ID
	for _, r := range g.RankIDs() {
		y := float64(r) * cfg.GenerationSpacing
		var prevX, prevW float64
		first := true
		for _, n := range g.NodesInRank(r) {
			if n.Kind == pedigree.KindPartnership {
				unions = append(unions, n.ID)
				continue
			}
			w := Width(n, cfg)
			x := w / 2
			if !first {
				x = prevX + prevW/2 + cfg.MinimumHorizontalGap + w/2
			}
			pos[n.ID] = pedigree.Point{X: x, Y: y}
			prevX, prevW, first = x, w, false
		}
	}
	for _, p := range unions {
		e, _ := g.Endpoints(p)
		a, b := pos[e[0]], pos[e[1]]
		n, _ := g.Node(p)
		pos[p] = pedigree.Point{X: (a.X + b.X) / 2, Y: float64(n.Rank) * cfg.GenerationSpacing}
	}
	g.SetPositions(pos)
}
