// Package ordering decides the left-to-right arrangement of nodes within each
// rank of a pedigree.
//
// # The Ordering Problem
//
// A pedigree drawing reads best when the lines from partnerships down to
// their children do not cross. Finding the order with the fewest crossings is
// NP-hard, so this package uses the Sugiyama barycenter heuristic and counts
// crossings exactly with a Fenwick tree to keep the best arrangement seen.
//
// # Units
//
// Some nodes must stay together no matter what the heuristic prefers. A rank
// is first split into units:
//
//   - partners and their partnership node form one chain, with each
//     partnership node directly after the left one of its two partners
//   - members of a twin group join into one unit, twins turned toward each
//     other
//
// Units move as blocks. Siblings descending from the same partnership are
// gathered next to each other after every sweep.
//
// # Incremental Ordering
//
// [Barycentric] takes the set of dirty nodes from the last edit. Units that
// hold a dirty node, or a node that was never placed, are free; every other
// unit is an anchor that keeps its place relative to the other anchors. Free
// units are merged between the anchors by barycenter. An edit far from a
// branch therefore leaves that branch exactly where it was.
//
// # Usage
//
// The [Orderer] interface allows algorithms to be used interchangeably:
//
//	var orderer ordering.Orderer = ordering.Barycentric{MaxIterations: 12}
//	res := orderer.Order(g, g.Dirty())
//	fmt.Println(res.Crossings)
package ordering
