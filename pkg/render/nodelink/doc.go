// Package nodelink renders a laid-out pedigree as a node-link diagram.
//
// # Overview
//
// This package is a debugging aid: it draws the engine's computed layout
// with Graphviz so ordering and spacing can be inspected without a real
// pedigree renderer. Nodes keep the positions the engine assigned; Graphviz
// only draws them.
//
// # Usage
//
// Convert a graph whose layout has been computed to DOT, then render SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Drawing Conventions
//
// The DOT output follows the usual pedigree symbols where Graphviz has them:
//
//   - Males are boxes, females circles, unknown gender diamonds
//   - Affected individuals (any disorder) are filled grey
//   - Deceased and fetal individuals get diagonals
//   - The proband has a thick outline; groups a double one
//   - Partnerships are points; consanguineous ones have double lines and
//     broken ones dashed lines
//   - Placeholders are dashed grey circles
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering with the neato engine, which honors pinned positions.
package nodelink
