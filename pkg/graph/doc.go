// Package graph provides serialization types for pedigrees and layouts.
//
// This package defines the JSON documents that cross the edges of the core:
// snapshots for the persistence collaborator and layouts for the renderer.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Snapshot], [Layout]: Serialization types (this package)
//   - pkg/pedigree.Graph: Internal graph representation
//   - pkg/engine.Layout: Published coordinates
//
// Use [FromGraph]/[ToGraph] and [FromLayout] to convert between them.
//
// # Snapshot Serialization
//
// Snapshots use a node-link format with typed edges:
//
//	{
//	  "nodes": [
//	    {"id": 0, "kind": "person", "rank": 1, "order": 0, "person": {"gender": "U", "life_status": "alive", "proband": true}},
//	    {"id": 3, "kind": "partnership", "rank": 0, "order": 1, "partnership": {"consanguinity": "auto"}}
//	  ],
//	  "edges": [
//	    {"kind": "partner", "from": 1, "to": 3},
//	    {"kind": "child", "from": 3, "to": 0}
//	  ]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadSnapshotFile("family.json")   // File → Graph
//	graph.WriteSnapshotFile(g, "family.json")       // Graph → File
//	data, _ := graph.MarshalSnapshot(g)             // Graph → []byte
//	s, _ := graph.UnmarshalSnapshot(data)           // []byte → Snapshot
//
// Loading goes through [pedigree.Load], so a document that breaks a
// relationship rule is rejected as a whole with a VALIDATION error.
//
// # Layout Serialization
//
//	l := graph.FromLayout(eng.Layout())
//	graph.WriteLayoutFile(l, "family.layout.json")
//
// File reads and writes are reported to [observability.Document].
package graph
