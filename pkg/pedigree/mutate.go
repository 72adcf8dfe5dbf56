package pedigree

import (
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// Every mutation validates first and commits second: a returned error means
// the graph is unchanged. Successful mutations mark the nodes whose layout
// may move as dirty.

// AddNode creates a node of the given kind. p supplies the properties of a
// person or group and must be nil for a placeholder; partnerships are made
// with [Graph.AddPartnership].
//
// The first person added to a graph without persons becomes the proband.
func (g *Graph) AddNode(kind Kind, p *Person) (ID, Delta, error) {
	n, err := g.newNode(kind, p, NoID)
	if err != nil {
		return NoID, Delta{}, err
	}
	r := g.record("add " + kind.String())
	g.insert(n)
	r.created(n.ID)
	g.markDirty(n.ID)
	return n.ID, r.done(), nil
}

// AddPerson creates a person. A nil p yields an alive person of unknown gender.
func (g *Graph) AddPerson(p *Person) (ID, Delta, error) {
	return g.AddNode(KindPerson, p)
}

// AddGroup creates a person group standing for size individuals.
func (g *Graph) AddGroup(size int, p *Person) (ID, Delta, error) {
	q := p.Clone()
	if q == nil {
		q = &Person{}
	}
	q.GroupSize = size
	return g.AddNode(KindPersonGroup, q)
}

// AddPlaceholder creates a placeholder, typically an unknown parent.
func (g *Graph) AddPlaceholder() (ID, Delta, error) {
	return g.AddNode(KindPlaceholder, nil)
}

// newNode validates a node about to be created under parent (NoID for a
// founder).
func (g *Graph) newNode(kind Kind, p *Person, parent ID) (*Node, error) {
	n := &Node{ID: g.nextID, Kind: kind, Order: Unplaced}
	switch kind {
	case KindPerson, KindPersonGroup:
		n.Person = p.Clone()
		if n.Person == nil {
			n.Person = &Person{}
		}
		n.Person.normalize(kind)
		if kind == KindPerson && !g.hasKind(KindPerson) {
			n.Person.Proband = true
		}
		if err := n.Person.validate(kind); err != nil {
			return nil, err
		}
		if n.Person.Proband {
			if cur := g.Proband(); cur != NoID {
				return nil, perr.New(perr.ErrCodeInvalidProperty, "node %d is already the proband", cur).WithNodes(int(cur))
			}
		}
		if tg := n.Person.TwinGroup; tg != "" {
			for _, m := range g.TwinGroup(tg) {
				if g.ParentPartnership(m) != parent {
					return nil, perr.New(perr.ErrCodeInvalidRelationship, "twin group %q belongs to other parents", tg).WithNodes(int(m))
				}
			}
		}
	case KindPlaceholder:
		if p != nil {
			return nil, perr.New(perr.ErrCodeInvalidProperty, "placeholders carry no properties")
		}
	case KindPartnership:
		return nil, perr.New(perr.ErrCodeInvalidRelationship, "partnerships are created from their two partners")
	default:
		return nil, perr.New(perr.ErrCodeInvalidProperty, "unknown node kind %d", int(kind))
	}
	return n, nil
}

func (g *Graph) insert(n *Node) {
	g.nodes[n.ID] = n
	if n.ID >= g.nextID {
		g.nextID = n.ID + 1
	}
}

func (g *Graph) hasKind(k Kind) bool {
	for _, n := range g.nodes {
		if n.Kind == k {
			return true
		}
	}
	return false
}

func (g *Graph) get(id ID) (*Node, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, perr.New(perr.ErrCodeNotFound, "node %d does not exist", id).WithNodes(int(id))
	}
	return n, nil
}

// AddPartnership joins a and b with a new partnership node and returns its ID.
//
// It fails with INVALID_RELATIONSHIP for a self-partnership, a duplicate pair,
// non-individual endpoints, partners of the same known gender, fetal
// partners, or when one partner descends from the other. It fails with
// INCONSISTENT_RANK when existing ancestry forces the two onto different
// generations.
func (g *Graph) AddPartnership(a, b ID) (ID, Delta, error) {
	if err := g.checkPair(a, b, NoID); err != nil {
		return NoID, Delta{}, err
	}
	if g.IsAncestor(a, b) || g.IsAncestor(b, a) {
		return NoID, Delta{}, perr.New(perr.ErrCodeInvalidRelationship,
			"partnering %d with %d would close an ancestry cycle", a, b).WithNodes(int(a), int(b))
	}
	if err := g.checkRanks(&[2]ID{a, b}, nil); err != nil {
		return NoID, Delta{}, err
	}

	r := g.record("add partnership")
	p := &Node{
		ID:          g.nextID,
		Kind:        KindPartnership,
		Rank:        max(g.nodes[a].Rank, g.nodes[b].Rank),
		Order:       Unplaced,
		Partnership: &Partnership{},
	}
	p.Partnership.normalize()
	g.insert(p)
	g.endpoints[p.ID] = [2]ID{a, b}
	g.unions[a] = append(g.unions[a], p.ID)
	g.unions[b] = append(g.unions[b], p.ID)
	r.created(p.ID)
	r.addEdge(Edge{Kind: EdgePartner, From: a, To: p.ID})
	r.addEdge(Edge{Kind: EdgePartner, From: b, To: p.ID})
	g.markDirty(a, b)
	return p.ID, r.done(), nil
}

// AddParentChild makes child descend from partnership.
//
// It fails with TOO_MANY_PARENTS when child already has a parent partnership
// and with CYCLE when child is an endpoint of partnership or an ancestor of
// one.
func (g *Graph) AddParentChild(partnership, child ID) (Delta, error) {
	if err := g.checkParentChild(partnership, child); err != nil {
		return Delta{}, err
	}
	r := g.record("add child")
	g.parentOf[child] = partnership
	g.children[partnership] = append(g.children[partnership], child)
	r.addEdge(Edge{Kind: EdgeParentChild, From: partnership, To: child})
	g.markDirty(child)
	return r.done(), nil
}

func (g *Graph) checkParentChild(p, c ID) error {
	pn, err := g.get(p)
	if err != nil {
		return err
	}
	cn, err := g.get(c)
	if err != nil {
		return err
	}
	if pn.Kind != KindPartnership {
		return perr.New(perr.ErrCodeInvalidRelationship, "node %d is a %s, children hang off partnerships", p, pn.Kind).WithNodes(int(p))
	}
	if !cn.IsIndividual() {
		return perr.New(perr.ErrCodeInvalidRelationship, "node %d is a %s and cannot be a child", c, cn.Kind).WithNodes(int(c))
	}
	if cur, ok := g.parentOf[c]; ok {
		return perr.New(perr.ErrCodeTooManyParents, "node %d already descends from partnership %d", c, cur).WithNodes(int(c), int(cur))
	}
	for _, e := range g.endpoints[p] {
		if e == c || g.IsAncestor(c, e) {
			return perr.New(perr.ErrCodeCycle, "node %d would become its own ancestor", c).WithNodes(int(c), int(p))
		}
	}
	if err := g.checkCanHaveChildren(p); err != nil {
		return err
	}
	if len(g.Twins(c)) > 0 {
		return perr.New(perr.ErrCodeInvalidRelationship,
			"node %d has twins and cannot get parents of its own", c).WithNodes(int(c))
	}
	return g.checkRanks(nil, &[2]ID{p, c})
}

// AddChild creates a person under partnership in one step.
func (g *Graph) AddChild(partnership ID, p *Person) (ID, Delta, error) {
	pn, err := g.get(partnership)
	if err != nil {
		return NoID, Delta{}, err
	}
	if pn.Kind != KindPartnership {
		return NoID, Delta{}, perr.New(perr.ErrCodeInvalidRelationship, "node %d is a %s, children hang off partnerships", partnership, pn.Kind).WithNodes(int(partnership))
	}
	if err := g.checkCanHaveChildren(partnership); err != nil {
		return NoID, Delta{}, err
	}
	n, err := g.newNode(KindPerson, p, partnership)
	if err != nil {
		return NoID, Delta{}, err
	}

	r := g.record("add child")
	n.Rank = pn.Rank + 1
	g.insert(n)
	g.parentOf[n.ID] = partnership
	g.children[partnership] = append(g.children[partnership], n.ID)
	r.created(n.ID)
	r.addEdge(Edge{Kind: EdgeParentChild, From: partnership, To: n.ID})
	g.markDirty(n.ID)
	return n.ID, r.done(), nil
}

// RemoveParentChild detaches child from its parent partnership. The child
// keeps its rank.
func (g *Graph) RemoveParentChild(child ID) (Delta, error) {
	if _, err := g.get(child); err != nil {
		return Delta{}, err
	}
	p, ok := g.parentOf[child]
	if !ok {
		return Delta{}, perr.New(perr.ErrCodeNotFound, "node %d has no parents", child).WithNodes(int(child))
	}
	if len(g.Twins(child)) > 0 {
		return Delta{}, perr.New(perr.ErrCodeInvalidRelationship,
			"node %d has twins; remove it from its twin group first", child).WithNodes(int(child))
	}
	r := g.record("remove child")
	g.detachChild(r, p, child)
	g.markDirty(child)
	return r.done(), nil
}

func (g *Graph) detachChild(r *recorder, p, c ID) {
	g.children[p] = slices.DeleteFunc(slices.Clone(g.children[p]), func(x ID) bool { return x == c })
	if len(g.children[p]) == 0 {
		delete(g.children, p)
	}
	delete(g.parentOf, c)
	r.removeEdge(Edge{Kind: EdgeParentChild, From: p, To: c})
}

// RemoveNode deletes a node and every edge touching it.
//
// Removing a partnership detaches its children, who keep their ranks.
// Removing an individual drops its childless partnerships; in a partnership
// that has children the individual's slot is taken over by a new placeholder,
// so the partnership and its children stay in place. Placeholders left
// without any edge are removed as well.
//
// A placeholder that holds a parent slot cannot be removed on its own; remove
// the partnership instead.
func (g *Graph) RemoveNode(id ID) (Delta, error) {
	n, err := g.get(id)
	if err != nil {
		return Delta{}, err
	}
	if n.Kind == KindPartnership {
		r := g.record("remove partnership")
		e, kids := g.endpoints[id], g.Children(id)
		g.dropPartnership(r, id)
		g.collect(r, e[0])
		g.collect(r, e[1])
		g.markDirty(append(kids, e[0], e[1])...)
		return r.done(), nil
	}
	if n.Kind == KindPlaceholder {
		for _, p := range g.unions[id] {
			if len(g.children[p]) > 0 {
				return Delta{}, perr.New(perr.ErrCodeInvalidRelationship,
					"placeholder %d is a parent in partnership %d", id, p).WithNodes(int(id), int(p))
			}
		}
	}

	r := g.record("remove " + n.Kind.String())
	var affected []ID
	if p, ok := g.parentOf[id]; ok {
		g.detachChild(r, p, id)
	}
	for _, p := range slices.Clone(g.unions[id]) {
		partner := other(g.endpoints[p], id)
		affected = append(affected, partner)
		if len(g.children[p]) == 0 {
			g.dropPartnership(r, p)
			continue
		}
		ph := &Node{ID: g.nextID, Kind: KindPlaceholder, Rank: n.Rank, Order: n.Order}
		g.insert(ph)
		r.created(ph.ID)
		e := g.endpoints[p]
		if e[0] == id {
			e[0] = ph.ID
		} else {
			e[1] = ph.ID
		}
		g.endpoints[p] = e
		g.unions[ph.ID] = []ID{p}
		r.removeEdge(Edge{Kind: EdgePartner, From: id, To: p})
		r.addEdge(Edge{Kind: EdgePartner, From: ph.ID, To: p})
		affected = append(affected, ph.ID, p)
	}
	r.removed(n)
	delete(g.unions, id)
	delete(g.nodes, id)
	for _, a := range affected {
		g.collect(r, a)
	}
	g.markDirty(affected...)
	return r.done(), nil
}

// dropPartnership removes partnership p, its partner edges and its child
// edges. Endpoints are left in place.
func (g *Graph) dropPartnership(r *recorder, p ID) {
	for _, c := range slices.Clone(g.children[p]) {
		g.detachChild(r, p, c)
	}
	for _, e := range g.endpoints[p] {
		g.unions[e] = slices.DeleteFunc(slices.Clone(g.unions[e]), func(x ID) bool { return x == p })
		if len(g.unions[e]) == 0 {
			delete(g.unions, e)
		}
		r.removeEdge(Edge{Kind: EdgePartner, From: e, To: p})
	}
	delete(g.endpoints, p)
	r.removed(g.nodes[p])
	delete(g.nodes, p)
}

// collect removes id if it is a placeholder without any edge.
func (g *Graph) collect(r *recorder, id ID) {
	n, ok := g.nodes[id]
	if !ok || n.Kind != KindPlaceholder {
		return
	}
	if len(g.unions[id]) > 0 {
		return
	}
	if _, hasParent := g.parentOf[id]; hasParent {
		return
	}
	r.removed(n)
	delete(g.nodes, id)
}
