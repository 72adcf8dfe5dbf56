package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds rank, order and names to node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a laid-out pedigree to Graphviz DOT format. Every node is
// pinned to its computed position, so the drawing shows the engine's layout
// rather than one Graphviz would choose. The result can be rendered with
// [RenderSVG].
func ToDOT(g *pedigree.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=10, width=0.4, height=0.4, fixedsize=true];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	nodes := g.Nodes()
	for _, n := range nodes {
		attrs := fmtAttrs(g, n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		e, ok := g.Endpoints(n.ID)
		if !ok {
			continue
		}
		line := partnerStyle(g, n)
		fmt.Fprintf(&buf, "  %d -> %d%s;\n", e[0], n.ID, line)
		fmt.Fprintf(&buf, "  %d -> %d%s;\n", e[1], n.ID, line)
		for _, c := range g.Children(n.ID) {
			fmt.Fprintf(&buf, "  %d -> %d;\n", n.ID, c)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *pedigree.Node, detailed bool) string {
	id := strconv.Itoa(int(n.ID))
	if n.Kind == pedigree.KindPartnership {
		return ""
	}
	if n.Kind == pedigree.KindPersonGroup && n.Person != nil {
		id = fmt.Sprintf("%s (%d)", id, n.Person.GroupSize)
	}
	if !detailed {
		return id
	}

	parts := []string{fmt.Sprintf("rank: %d", n.Rank), fmt.Sprintf("order: %d", n.Order)}
	if p := n.Person; p != nil {
		if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
			parts = append(parts, name)
		}
		if p.LifeStatus != pedigree.LifeAlive {
			parts = append(parts, string(p.LifeStatus))
		}
	}
	return id + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(g *pedigree.Graph, n *pedigree.Node, label string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		// Graphviz's y axis points up.
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.Pos.X, 0-n.Pos.Y),
	}
	switch n.Kind {
	case pedigree.KindPartnership:
		return append(attrs, "shape=point", "width=0.08")
	case pedigree.KindPlaceholder:
		return append(attrs, "shape=circle", "style=dashed", "color=grey")
	}

	p := n.Person
	attrs = append(attrs, "shape="+shape(p.Gender))
	if len(p.Disorders) > 0 {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if p.LifeStatus != pedigree.LifeAlive {
		attrs = append(attrs, "style=\"filled,diagonals\"")
	}
	if p.Proband {
		attrs = append(attrs, "penwidth=3")
	}
	if n.Kind == pedigree.KindPersonGroup {
		attrs = append(attrs, "peripheries=2")
	}
	if p.Adoption == pedigree.AdoptedIn {
		attrs = append(attrs, "color=blue")
	}
	return attrs
}

func shape(gender pedigree.Gender) string {
	switch gender {
	case pedigree.GenderMale:
		return "box"
	case pedigree.GenderFemale:
		return "circle"
	}
	return "diamond"
}

// partnerStyle draws consanguineous unions as double lines and broken ones
// dashed.
func partnerStyle(g *pedigree.Graph, n *pedigree.Node) string {
	var attrs []string
	if g.EffectiveConsanguinity(n.ID) {
		attrs = append(attrs, "color=\"black:invis:black\"")
	}
	if n.Partnership != nil && n.Partnership.Broken {
		attrs = append(attrs, "style=dashed")
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine, which
// honors the pinned node positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
