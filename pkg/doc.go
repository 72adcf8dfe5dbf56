// Package pkg provides the core libraries for pedigree layout.
//
// # Overview
//
// A pedigree is a family tree drawn with clinical genetics conventions:
// individuals, the partnerships between them, and the children of each
// partnership. The packages here keep such a graph valid under edits and
// recompute its drawing layout after every change.
//
//  1. [pedigree] - The graph: nodes, relationships, rules, snapshots, deltas
//  2. [layout/rank], [layout/ordering], [layout/coords] - The layout pipeline
//  3. [engine] - The editing session that runs the pipeline after each mutation
//  4. [graph] - JSON documents for snapshots and published layouts
//  5. [config], [errors], [observability] - Settings, error codes, hooks
//
// # Architecture
//
// The data flow for one edit:
//
//	Mutation
//	    ↓
//	[pedigree] validate + commit, mark dirty nodes
//	    ↓
//	[layout/rank] generations for dirty components and their descendants
//	    ↓
//	[layout/ordering] left-to-right order, moving only dirty units
//	    ↓
//	[layout/coords] x/y positions
//	    ↓
//	[engine] publish Layout to the renderer
//
// # Quick Start
//
//	e, _ := engine.New(config.Default())
//	kid, _ := e.AddPerson(nil)
//	mom, _ := e.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
//	dad, _ := e.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale})
//	union, _ := e.AddPartnership(mom, dad)
//	_ = e.AddParentChild(union, kid)
//
//	l := e.Layout() // ranks, orders and coordinates for every node
//
// [pedigree]: github.com/matzehuels/pedigree/pkg/pedigree
// [layout/rank]: github.com/matzehuels/pedigree/pkg/layout/rank
// [layout/ordering]: github.com/matzehuels/pedigree/pkg/layout/ordering
// [layout/coords]: github.com/matzehuels/pedigree/pkg/layout/coords
// [engine]: github.com/matzehuels/pedigree/pkg/engine
// [graph]: github.com/matzehuels/pedigree/pkg/graph
// [config]: github.com/matzehuels/pedigree/pkg/config
// [errors]: github.com/matzehuels/pedigree/pkg/errors
// [observability]: github.com/matzehuels/pedigree/pkg/observability
package pkg
