package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// DefaultMaxIterations bounds the down/up sweep pairs when
// Barycentric.MaxIterations is zero.
const DefaultMaxIterations = 12

// Barycentric orders ranks with alternating barycenter sweeps.
//
// Only units touched by the dirty set, or never placed before, move. Every
// other unit keeps its place relative to the other fixed units, so an edit
// perturbs the order only around the edited nodes.
type Barycentric struct {
	// MaxIterations bounds the number of down/up sweep pairs.
	MaxIterations int
	// TieBreak decides between equal barycenters.
	TieBreak TieBreak
}

type solver struct {
	g     *pedigree.Graph
	ranks []int
	rows  map[int][]*unit
	pos   map[pedigree.ID]int
	tie   TieBreak
}

// Order implements [Orderer].
func (b Barycentric) Order(g *pedigree.Graph, dirty []pedigree.ID) Result {
	s := &solver{
		g:     g,
		ranks: g.RankIDs(),
		rows:  make(map[int][]*unit),
		pos:   make(map[pedigree.ID]int),
		tie:   b.TieBreak,
	}
	marked := make(map[pedigree.ID]bool, len(dirty))
	for _, id := range dirty {
		marked[id] = true
	}
	free := false
	for _, r := range s.ranks {
		s.rows[r] = buildUnits(g, g.NodesInRank(r), marked)
		s.flatten(r)
		for _, u := range s.rows[r] {
			free = free || u.free
		}
	}

	best, bestCrossings := s.snapshot(), s.crossings()
	res := Result{Crossings: bestCrossings}
	if free {
		iterations := b.MaxIterations
		if iterations <= 0 {
			iterations = DefaultMaxIterations
		}
		first := true
		for i := 0; i < iterations; i++ {
			changed := false
			for _, r := range s.ranks {
				changed = s.reorder(r, true) || changed
			}
			for j := len(s.ranks) - 1; j >= 0; j-- {
				changed = s.reorder(s.ranks[j], false) || changed
			}
			res.Iterations++

			c := s.crossings()
			// The first sweep places new units, so it always beats the seed.
			if first || c < bestCrossings {
				best, bestCrossings = s.snapshot(), c
				first = false
			}
			if !changed || c == 0 {
				break
			}
		}
		res.Crossings = bestCrossings
	}

	orders := make(map[pedigree.ID]int, len(s.pos))
	for _, row := range best {
		for i, id := range row {
			orders[id] = i
		}
	}
	g.SetOrders(orders)
	return res
}

func (s *solver) flatten(r int) []pedigree.ID {
	var row []pedigree.ID
	for _, u := range s.rows[r] {
		row = append(row, u.nodes...)
	}
	for i, id := range row {
		s.pos[id] = i
	}
	return row
}

func (s *solver) snapshot() map[int][]pedigree.ID {
	out := make(map[int][]pedigree.ID, len(s.rows))
	for _, r := range s.ranks {
		var row []pedigree.ID
		for _, u := range s.rows[r] {
			row = append(row, u.nodes...)
		}
		out[r] = row
	}
	return out
}

func (s *solver) crossings() int {
	return CountCrossings(s.g, s.snapshot())
}

// neighbors returns the positions id connects to in the rank above (down
// sweep: its parent partnership) or below (up sweep: a partnership's
// children).
func (s *solver) neighbors(id pedigree.ID, down bool) []int {
	n, _ := s.g.Node(id)
	var out []int
	if down {
		if n.IsIndividual() {
			if p := s.g.ParentPartnership(id); p != pedigree.NoID {
				out = append(out, s.pos[p])
			}
		}
		return out
	}
	if n.Kind == pedigree.KindPartnership {
		for _, c := range s.g.Children(id) {
			out = append(out, s.pos[c])
		}
	}
	return out
}

// reorder re-sorts the free units of rank r by barycenter and reports
// whether the rank changed.
func (s *solver) reorder(r int, down bool) bool {
	units := s.rows[r]
	before := make(map[*unit]int, len(units))
	memberBary := make(map[pedigree.ID]float64)
	anyFree := false
	for i, u := range units {
		before[u] = i
		sum, count := 0, 0
		for _, id := range u.nodes {
			ns := s.neighbors(id, down)
			for _, p := range ns {
				sum += p
			}
			count += len(ns)
			if len(ns) > 0 {
				memberBary[id] = mean(ns)
			}
		}
		u.hasBary = count > 0
		if u.hasBary {
			u.bary = float64(sum) / float64(count)
		}
		anyFree = anyFree || u.free
	}
	if !anyFree {
		return false
	}

	var anchors, movers []*unit
	for _, u := range units {
		if u.free && u.hasBary {
			movers = append(movers, u)
		} else {
			anchors = append(anchors, u)
		}
	}
	tie := func(a, b *unit) int {
		if s.tie == TieBreakID {
			return cmp.Compare(a.minID, b.minID)
		}
		return cmp.Compare(before[a], before[b])
	}
	slices.SortStableFunc(movers, func(a, b *unit) int {
		if c := cmp.Compare(a.bary, b.bary); c != 0 {
			return c
		}
		return tie(a, b)
	})

	// A unit without a barycenter stays glued to its left neighbor, or to
	// the first unit after it that has one. Anchor keys are then made
	// monotone so anchors never swap.
	glued := make(map[*unit]float64, len(units))
	last, seen := 0.0, false
	for _, u := range units {
		if u.hasBary {
			last, seen = u.bary, true
		}
		if seen {
			glued[u] = last
		}
	}
	for i := len(units) - 1; i >= 0; i-- {
		if u := units[i]; u.hasBary {
			last = u.bary
		} else if _, ok := glued[u]; !ok {
			glued[u] = last
		}
	}
	keys := make([]float64, len(anchors))
	for i, a := range anchors {
		keys[i] = glued[a]
		if i > 0 && keys[i-1] > keys[i] {
			keys[i] = keys[i-1]
		}
	}

	next := make([]*unit, 0, len(units))
	m := 0
	for i, a := range anchors {
		for m < len(movers) {
			mv := movers[m]
			if mv.bary < keys[i] || (mv.bary == keys[i] && tie(mv, a) < 0) {
				next = append(next, mv)
				m++
				continue
			}
			break
		}
		next = append(next, a)
	}
	next = append(next, movers[m:]...)
	next = s.gatherSiblings(next)

	for _, u := range next {
		if u.free && len(u.nodes) > 1 {
			cur := posMap(u.nodes)
			u.nodes = linearize(s.g, u.nodes, func(id pedigree.ID) float64 {
				if b, ok := memberBary[id]; ok {
					return b
				}
				return u.bary + float64(cur[id])/1e6
			})
		}
	}

	old := s.snapshot()[r]
	s.rows[r] = next
	return !slices.Equal(old, s.flatten(r))
}

// gatherSiblings pulls units descending from the same partnership next to the
// first of them, keeping their relative order.
func (s *solver) gatherSiblings(units []*unit) []*unit {
	family := func(u *unit) pedigree.ID {
		for _, id := range u.nodes {
			if p := s.g.ParentPartnership(id); p != pedigree.NoID {
				return p
			}
		}
		return pedigree.NoID
	}
	groups := make(map[pedigree.ID][]*unit)
	for _, u := range units {
		if f := family(u); f != pedigree.NoID {
			groups[f] = append(groups[f], u)
		}
	}
	out := make([]*unit, 0, len(units))
	placed := make(map[*unit]bool, len(units))
	for _, u := range units {
		if placed[u] {
			continue
		}
		f := family(u)
		if f == pedigree.NoID {
			out = append(out, u)
			placed[u] = true
			continue
		}
		for _, sib := range groups[f] {
			out = append(out, sib)
			placed[sib] = true
		}
	}
	return out
}

func mean(xs []int) float64 {
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
