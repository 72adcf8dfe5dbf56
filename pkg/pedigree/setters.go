package pedigree

import (
	"fmt"
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// update applies fn to a copy of node id, validates the copy and commits it.
// relayout marks the node dirty; property changes that only affect drawing
// leave the layout alone.
func (g *Graph) update(op string, id ID, relayout bool, fn func(n *Node) error) (Delta, error) {
	n, err := g.get(id)
	if err != nil {
		return Delta{}, err
	}
	next := n.Clone()
	if err := fn(&next); err != nil {
		return Delta{}, err
	}
	if err := next.validatePayload(); err != nil {
		return Delta{}, err
	}
	r := g.record(op)
	r.before(id)
	*n = next
	if relayout {
		g.markDirty(id)
	}
	return r.done(), nil
}

func needPerson(n *Node) error {
	if n.Person == nil {
		return perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s and has no person properties", n.ID, n.Kind).WithNodes(int(n.ID))
	}
	return nil
}

func needPartnership(n *Node) error {
	if n.Partnership == nil {
		return perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s, not a partnership", n.ID, n.Kind).WithNodes(int(n.ID))
	}
	return nil
}

// SetGender changes the gender of a person or group. A known gender must be
// among [Graph.PossibleGenders].
func (g *Graph) SetGender(id ID, gender Gender) (Delta, error) {
	return g.update("set gender", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		if err := perr.ValidateGender(string(gender)); err != nil {
			return err
		}
		if !slices.Contains(g.PossibleGenders(id), gender) {
			return perr.New(perr.ErrCodeInvalidRelationship, "a partner of node %d already has gender %s", id, gender).WithNodes(int(id))
		}
		n.Person.Gender = gender
		return nil
	})
}

// SetLifeStatus changes the life status. Fetal statuses are refused for
// anyone with a partnership. Fields that no longer apply are cleared: the
// death date and cause unless deceased, the gestation age when alive, the
// karyotype unless fetal, and the consultand flag when deceased. A fetal
// status also resets the birth date, the childless and adoption statuses and
// the consultand flag.
func (g *Graph) SetLifeStatus(id ID, status LifeStatus) (Delta, error) {
	return g.update("set life status", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		if err := perr.ValidateLifeStatus(string(status)); err != nil {
			return err
		}
		p := n.Person
		if status.IsFetal() {
			if len(g.unions[id]) > 0 {
				return perr.New(perr.ErrCodeInvalidRelationship, "node %d has partners and cannot be %s", id, status).WithNodes(int(id))
			}
			p.Childless.Clear()
			p.Adoption = AdoptionNone
			p.Consultand = false
			p.BirthDate = ""
		} else {
			p.Karyotype = ""
		}
		switch status {
		case LifeDeceased:
			p.Consultand = false
		case LifeAlive:
			p.GestationAge = 0
		}
		if status != LifeDeceased {
			p.DeathDate, p.CauseOfDeath = "", ""
		}
		p.LifeStatus = status
		return nil
	})
}

// SetDetails replaces the clinical annotations of a person or group. Fields
// that do not fit the current life status are refused.
func (g *Graph) SetDetails(id ID, d Details) (Delta, error) {
	return g.update("set details", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		n.Person.Details = d
		return nil
	})
}

// SetChildless sets the childless status of a person, group or partnership.
// Anything that already has children cannot become childless.
func (g *Graph) SetChildless(id ID, status ChildlessStatus, reason string) (Delta, error) {
	return g.update("set childless", id, false, func(n *Node) error {
		c := n.childless()
		if c == nil {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s and has no childless status", id, n.Kind).WithNodes(int(id))
		}
		if status != ChildlessNone && g.HasChildren(id) {
			return perr.New(perr.ErrCodeInvalidRelationship, "node %d has children and cannot be %s", id, status).WithNodes(int(id))
		}
		return c.Set(status, reason)
	})
}

// SetConsanguinity sets a partnership's consanguinity flag.
func (g *Graph) SetConsanguinity(p ID, c Consanguinity) (Delta, error) {
	return g.update("set consanguinity", p, false, func(n *Node) error {
		if err := needPartnership(n); err != nil {
			return err
		}
		n.Partnership.Consanguinity = c
		return nil
	})
}

// SetBroken marks a partnership as separated.
func (g *Graph) SetBroken(p ID, broken bool) (Delta, error) {
	return g.update("set broken", p, false, func(n *Node) error {
		if err := needPartnership(n); err != nil {
			return err
		}
		n.Partnership.Broken = broken
		return nil
	})
}

// SetGroupSize changes the number of individuals a group stands for.
func (g *Graph) SetGroupSize(id ID, size int) (Delta, error) {
	return g.update("set group size", id, false, func(n *Node) error {
		if n.Kind != KindPersonGroup {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s, not a group", id, n.Kind).WithNodes(int(id))
		}
		n.Person.GroupSize = size
		return nil
	})
}

// SetTwinGroup puts a person into the named twin group at the given position,
// or takes it out of its group when name is empty. All members must share
// the same parent partnership.
func (g *Graph) SetTwinGroup(id ID, name string, order int) (Delta, error) {
	return g.update("set twin group", id, true, func(n *Node) error {
		if n.Kind != KindPerson {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s and cannot be a twin", id, n.Kind).WithNodes(int(id))
		}
		if name != "" {
			if err := g.checkTwins(id, g.TwinGroup(name)); err != nil {
				return err
			}
		}
		n.Person.TwinGroup = name
		n.Person.TwinOrder = order
		return nil
	})
}

// checkTwins verifies that id may join a group with the given members.
func (g *Graph) checkTwins(id ID, members []ID) error {
	parent := g.ParentPartnership(id)
	for _, m := range members {
		if m == id {
			continue
		}
		if g.ParentPartnership(m) != parent {
			return perr.New(perr.ErrCodeInvalidRelationship, "twins %d and %d have different parents", id, m).WithNodes(int(id), int(m))
		}
		if err := g.checkRanks(&[2]ID{id, m}, nil); err != nil {
			return err
		}
	}
	return nil
}

// MergeTwins moves b, together with any twins b already has, into a's twin
// group. a gets a fresh group when it has none. Moved members are placed after
// a's current twins, keeping their relative order.
func (g *Graph) MergeTwins(a, b ID) (Delta, error) {
	na, err := g.get(a)
	if err != nil {
		return Delta{}, err
	}
	nb, err := g.get(b)
	if err != nil {
		return Delta{}, err
	}
	if a == b {
		return Delta{}, perr.New(perr.ErrCodeInvalidRelationship, "node %d cannot be its own twin", a).WithNodes(int(a))
	}
	for _, n := range []*Node{na, nb} {
		if n.Kind != KindPerson {
			return Delta{}, perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s and cannot be a twin", n.ID, n.Kind).WithNodes(int(n.ID))
		}
	}
	if na.Person.TwinGroup != "" && na.Person.TwinGroup == nb.Person.TwinGroup {
		return Delta{}, nil
	}

	moving := []ID{b}
	if nb.Person.TwinGroup != "" {
		moving = g.TwinGroup(nb.Person.TwinGroup)
	}
	if err := g.checkTwins(a, moving); err != nil {
		return Delta{}, err
	}

	r := g.record("merge twins")
	name := na.Person.TwinGroup
	next := 0
	if name == "" {
		name = g.freshTwinGroup(a)
		r.before(a)
		na.Person.TwinGroup, na.Person.TwinOrder = name, 0
		next = 1
	} else {
		for _, m := range g.TwinGroup(name) {
			next = max(next, g.nodes[m].Person.TwinOrder+1)
		}
	}
	for _, m := range moving {
		r.before(m)
		p := g.nodes[m].Person
		p.TwinGroup, p.TwinOrder = name, next
		next++
	}
	g.markDirty(append(moving, a)...)
	return r.done(), nil
}

func (g *Graph) freshTwinGroup(seed ID) string {
	name := fmt.Sprintf("twins-%d", seed)
	for i := 2; len(g.TwinGroup(name)) > 0; i++ {
		name = fmt.Sprintf("twins-%d-%d", seed, i)
	}
	return name
}

// SetProband makes id the proband, clearing the flag on the previous one.
func (g *Graph) SetProband(id ID) (Delta, error) {
	n, err := g.get(id)
	if err != nil {
		return Delta{}, err
	}
	if n.Kind != KindPerson {
		return Delta{}, perr.New(perr.ErrCodeInvalidProperty, "node %d is a %s and cannot be the proband", id, n.Kind).WithNodes(int(id))
	}
	r := g.record("set proband")
	if cur := g.Proband(); cur != NoID && cur != id {
		r.before(cur)
		g.nodes[cur].Person.Proband = false
	}
	r.before(id)
	n.Person.Proband = true
	return r.done(), nil
}

// SetNames sets the display names and the external identifier.
func (g *Graph) SetNames(id ID, first, last, external string) (Delta, error) {
	return g.update("set names", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		n.Person.FirstName, n.Person.LastName, n.Person.ExternalID = first, last, external
		return nil
	})
}

// SetTerms replaces the disorder, gene and phenotype tokens. The tokens are
// stored as given, deduplicated. The carrier status follows the disorders:
// it is cleared when none remain and becomes affected when disorders appear
// on someone unaffected.
func (g *Graph) SetTerms(id ID, disorders, genes, phenotypes []string) (Delta, error) {
	return g.update("set terms", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		p := n.Person
		p.Disorders = dedupe(disorders)
		p.Genes = dedupe(genes)
		p.Phenotypes = dedupe(phenotypes)
		switch {
		case len(p.Disorders) == 0:
			p.Carrier = CarrierUnaffected
		case p.Carrier == CarrierUnaffected:
			p.Carrier = CarrierAffected
		}
		return nil
	})
}

func dedupe(terms []string) []string {
	var out []string
	for _, t := range terms {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// SetCarrier sets the global carrier status. Marking someone affected
// without disorders records [AffectedDisorder]; clearing the status removes
// that stand-in again. Someone with named disorders stays affected.
func (g *Graph) SetCarrier(id ID, c CarrierStatus) (Delta, error) {
	return g.update("set carrier", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		p := n.Person
		switch {
		case c == CarrierUnaffected && slices.Equal(p.Disorders, []string{AffectedDisorder}):
			p.Disorders = nil
		case c == CarrierUnaffected && len(p.Disorders) > 0:
			c = CarrierAffected
		case c == CarrierAffected && len(p.Disorders) == 0:
			p.Disorders = []string{AffectedDisorder}
		}
		p.Carrier = c
		return nil
	})
}

// SetAdoption sets the adoption status. Fetal nodes cannot be adopted.
func (g *Graph) SetAdoption(id ID, a AdoptionStatus) (Delta, error) {
	return g.update("set adoption", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		if a != AdoptionNone && n.Person.LifeStatus.IsFetal() {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d is %s and cannot be adopted", id, n.Person.LifeStatus).WithNodes(int(id))
		}
		n.Person.Adoption = a
		return nil
	})
}

// SetFlags sets the consultand and evaluated markers. A deceased person
// cannot be the consultand.
func (g *Graph) SetFlags(id ID, consultand, evaluated bool) (Delta, error) {
	return g.update("set flags", id, false, func(n *Node) error {
		if err := needPerson(n); err != nil {
			return err
		}
		n.Person.Consultand, n.Person.Evaluated = consultand, evaluated
		return nil
	})
}
