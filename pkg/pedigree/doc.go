// Package pedigree holds the family-tree graph: the node registry and the
// relationship index behind an editor session.
//
// # Overview
//
// A pedigree has four kinds of node. A [KindPerson] is one individual, a
// [KindPersonGroup] stands for several anonymous individuals drawn as one
// symbol, a [KindPlaceholder] keeps a slot in the drawing (an unknown parent,
// say) and a [KindPartnership] is the union between two individuals. Children
// never hang off a person directly: a parent-child edge always starts at a
// partnership, so every individual has at most one pair of parents.
//
//	g := pedigree.New()
//	child, _, _ := g.AddPerson(nil) // the first person becomes the proband
//	mother, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
//	father, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale})
//	union, _, _ := g.AddPartnership(mother, father)
//	_, _ = g.AddParentChild(union, child)
//
// # Validation
//
// Every mutation validates first and commits second. A rejected mutation
// returns an [errors.Error] carrying one of the codes of package errors and
// leaves the graph untouched. The checks keep the following true at all times:
//
//   - nobody is their own ancestor
//   - every individual has at most one parent partnership
//   - a partnership joins two distinct individuals, at most once per pair
//   - partners, and twins, can be placed on one generation with every child
//     below its parents
//   - twins share their parent partnership
//   - IDs are unique and never reused
//
// # Layout fields
//
// Rank, Order and Pos on a [Node] belong to the layout pipeline in
// pkg/layout. Mutations only seed them (a new child starts one rank below
// its parents, a new node is [Unplaced]) and record the affected nodes in the
// dirty set, see [Graph.Dirty].
//
// # Snapshots and undo
//
// [Graph.ListNodes] and [Graph.ListEdges] produce a full snapshot which
// [Load] turns back into an equivalent graph. Each mutation returns a
// [Delta]; [Graph.Revert] applies its inverse, so a command layer can build
// undo and redo without the graph keeping history.
package pedigree
