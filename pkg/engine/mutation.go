package engine

import "github.com/matzehuels/pedigree/pkg/pedigree"

// Mutation is one validated edit of the graph. Apply must leave g unchanged
// when it returns an error. The returned ID is the node the edit created, or
// pedigree.NoID.
type Mutation interface {
	Name() string
	Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error)
}

func none(d pedigree.Delta, err error) (pedigree.ID, pedigree.Delta, error) {
	return pedigree.NoID, d, err
}

// AddPerson creates a person; a nil Person gets the defaults.
type AddPerson struct{ Person *pedigree.Person }

func (AddPerson) Name() string { return "add person" }

func (m AddPerson) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return g.AddPerson(m.Person)
}

// AddGroup creates a person group of Size individuals.
type AddGroup struct {
	Size   int
	Person *pedigree.Person
}

func (AddGroup) Name() string { return "add group" }

func (m AddGroup) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return g.AddGroup(m.Size, m.Person)
}

// AddPlaceholder creates a placeholder node.
type AddPlaceholder struct{}

func (AddPlaceholder) Name() string { return "add placeholder" }

func (AddPlaceholder) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return g.AddPlaceholder()
}

// AddPartnership joins A and B.
type AddPartnership struct{ A, B pedigree.ID }

func (AddPartnership) Name() string { return "add partnership" }

func (m AddPartnership) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return g.AddPartnership(m.A, m.B)
}

// AddParentChild makes Child a child of Partnership.
type AddParentChild struct{ Partnership, Child pedigree.ID }

func (AddParentChild) Name() string { return "add parent-child" }

func (m AddParentChild) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.AddParentChild(m.Partnership, m.Child))
}

// AddChild creates a person under Partnership.
type AddChild struct {
	Partnership pedigree.ID
	Person      *pedigree.Person
}

func (AddChild) Name() string { return "add child" }

func (m AddChild) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return g.AddChild(m.Partnership, m.Person)
}

// RemoveParentChild detaches Child from its parents.
type RemoveParentChild struct{ Child pedigree.ID }

func (RemoveParentChild) Name() string { return "remove parent-child" }

func (m RemoveParentChild) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.RemoveParentChild(m.Child))
}

// RemoveNode deletes a node and the edges touching it.
type RemoveNode struct{ ID pedigree.ID }

func (RemoveNode) Name() string { return "remove node" }

func (m RemoveNode) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.RemoveNode(m.ID))
}

type SetGender struct {
	ID     pedigree.ID
	Gender pedigree.Gender
}

func (SetGender) Name() string { return "set gender" }

func (m SetGender) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetGender(m.ID, m.Gender))
}

type SetLifeStatus struct {
	ID     pedigree.ID
	Status pedigree.LifeStatus
}

func (SetLifeStatus) Name() string { return "set life status" }

func (m SetLifeStatus) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetLifeStatus(m.ID, m.Status))
}

// SetChildless applies to persons, groups and partnerships.
type SetChildless struct {
	ID     pedigree.ID
	Status pedigree.ChildlessStatus
	Reason string
}

func (SetChildless) Name() string { return "set childless" }

func (m SetChildless) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetChildless(m.ID, m.Status, m.Reason))
}

type SetConsanguinity struct {
	Partnership pedigree.ID
	Value       pedigree.Consanguinity
}

func (SetConsanguinity) Name() string { return "set consanguinity" }

func (m SetConsanguinity) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetConsanguinity(m.Partnership, m.Value))
}

type SetBroken struct {
	Partnership pedigree.ID
	Broken      bool
}

func (SetBroken) Name() string { return "set broken" }

func (m SetBroken) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetBroken(m.Partnership, m.Broken))
}

type SetGroupSize struct {
	ID   pedigree.ID
	Size int
}

func (SetGroupSize) Name() string { return "set group size" }

func (m SetGroupSize) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetGroupSize(m.ID, m.Size))
}

// SetTwinGroup puts ID into Group at position Order; an empty Group clears it.
type SetTwinGroup struct {
	ID    pedigree.ID
	Group string
	Order int
}

func (SetTwinGroup) Name() string { return "set twin group" }

func (m SetTwinGroup) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetTwinGroup(m.ID, m.Group, m.Order))
}

// MergeTwins moves B and its twins into A's twin group.
type MergeTwins struct{ A, B pedigree.ID }

func (MergeTwins) Name() string { return "merge twins" }

func (m MergeTwins) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.MergeTwins(m.A, m.B))
}

type SetProband struct{ ID pedigree.ID }

func (SetProband) Name() string { return "set proband" }

func (m SetProband) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetProband(m.ID))
}

type SetNames struct {
	ID                  pedigree.ID
	First, Last, Extern string
}

func (SetNames) Name() string { return "set names" }

func (m SetNames) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetNames(m.ID, m.First, m.Last, m.Extern))
}

type SetTerms struct {
	ID                           pedigree.ID
	Disorders, Genes, Phenotypes []string
}

func (SetTerms) Name() string { return "set terms" }

func (m SetTerms) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetTerms(m.ID, m.Disorders, m.Genes, m.Phenotypes))
}

type SetCarrier struct {
	ID     pedigree.ID
	Status pedigree.CarrierStatus
}

func (SetCarrier) Name() string { return "set carrier" }

func (m SetCarrier) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetCarrier(m.ID, m.Status))
}

type SetDetails struct {
	ID      pedigree.ID
	Details pedigree.Details
}

func (SetDetails) Name() string { return "set details" }

func (m SetDetails) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetDetails(m.ID, m.Details))
}

type SetAdoption struct {
	ID     pedigree.ID
	Status pedigree.AdoptionStatus
}

func (SetAdoption) Name() string { return "set adoption" }

func (m SetAdoption) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetAdoption(m.ID, m.Status))
}

type SetFlags struct {
	ID                    pedigree.ID
	Consultand, Evaluated bool
}

func (SetFlags) Name() string { return "set flags" }

func (m SetFlags) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.SetFlags(m.ID, m.Consultand, m.Evaluated))
}

// Revert undoes Delta. The delta returned from applying it redoes the edit.
type Revert struct{ Delta pedigree.Delta }

func (Revert) Name() string { return "revert" }

func (m Revert) Apply(g *pedigree.Graph) (pedigree.ID, pedigree.Delta, error) {
	return none(g.Revert(m.Delta))
}
