package engine

import "github.com/matzehuels/pedigree/pkg/pedigree"

// Shorthands for the most common edits. Each is Apply with the matching
// mutation.

func (e *Engine) AddPerson(p *pedigree.Person) (pedigree.ID, error) {
	res, err := e.Apply(AddPerson{Person: p})
	return res.ID, err
}

func (e *Engine) AddPartnership(a, b pedigree.ID) (pedigree.ID, error) {
	res, err := e.Apply(AddPartnership{A: a, B: b})
	return res.ID, err
}

func (e *Engine) AddParentChild(partnership, child pedigree.ID) error {
	_, err := e.Apply(AddParentChild{Partnership: partnership, Child: child})
	return err
}

func (e *Engine) AddChild(partnership pedigree.ID, p *pedigree.Person) (pedigree.ID, error) {
	res, err := e.Apply(AddChild{Partnership: partnership, Person: p})
	return res.ID, err
}

// RemoveNode returns the delta so the caller can undo the removal with
// [Engine.Revert].
func (e *Engine) RemoveNode(id pedigree.ID) (pedigree.Delta, error) {
	res, err := e.Apply(RemoveNode{ID: id})
	return res.Delta, err
}

// Revert undoes d and returns the delta that redoes it.
func (e *Engine) Revert(d pedigree.Delta) (pedigree.Delta, error) {
	res, err := e.Apply(Revert{Delta: d})
	return res.Delta, err
}
