package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pedigree/pkg/config"
	"github.com/matzehuels/pedigree/pkg/engine"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// family lays out proband 0 with mother 1, father 2 and union 3.
func family(t *testing.T) *pedigree.Graph {
	t.Helper()
	g := pedigree.New()
	kid, _, _ := g.AddPerson(&pedigree.Person{FirstName: "Ada", Disorders: []string{"asthma"}})
	mother, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
	father, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale, LifeStatus: pedigree.LifeDeceased})
	union, _, err := g.AddPartnership(mother, father)
	if err != nil {
		t.Fatalf("AddPartnership: %v", err)
	}
	if _, err := g.AddParentChild(union, kid); err != nil {
		t.Fatalf("AddParentChild: %v", err)
	}
	if _, err := engine.New(config.Default(), engine.WithGraph(g)); err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return g
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(family(t), Options{})

	for _, want := range []string{
		"digraph G",
		"inputscale=72",
		`1 -> 3;`,
		`2 -> 3;`,
		`3 -> 0;`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_PinsPositions(t *testing.T) {
	dot := ToDOT(family(t), Options{})

	for _, want := range []string{
		`pos="20.00,0.00!"`,
		`pos="80.00,0.00!"`,
		`pos="50.00,0.00!"`,
		`pos="20.00,-100.00!"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(family(t), Options{Detailed: true})

	if !strings.Contains(dot, `rank: 1\norder: 0\nAda`) {
		t.Error("ToDOT() detailed output missing rank, order and name")
	}
	if !strings.Contains(dot, `deceased`) {
		t.Error("ToDOT() detailed output missing life status")
	}
}

func TestToDOT_Consanguineous(t *testing.T) {
	g := pedigree.New()
	a, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
	b, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale})
	u, _, _ := g.AddPartnership(a, b)
	if _, err := g.SetConsanguinity(u, pedigree.ConsanguinityYes); err != nil {
		t.Fatalf("SetConsanguinity: %v", err)
	}
	if _, err := g.SetBroken(u, true); err != nil {
		t.Fatalf("SetBroken: %v", err)
	}

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, `0 -> 2 [color="black:invis:black", style=dashed];`) {
		t.Errorf("ToDOT() partner edge not styled:\n%s", dot)
	}
}

func TestFmtLabel(t *testing.T) {
	tests := []struct {
		name string
		node pedigree.Node
		want string
	}{
		{"person", pedigree.Node{ID: 4, Kind: pedigree.KindPerson, Person: &pedigree.Person{}}, "4"},
		{"group", pedigree.Node{ID: 5, Kind: pedigree.KindPersonGroup, Person: &pedigree.Person{GroupSize: 3}}, "5 (3)"},
		{"partnership", pedigree.Node{ID: 6, Kind: pedigree.KindPartnership}, ""},
		{"placeholder", pedigree.Node{ID: 7, Kind: pedigree.KindPlaceholder}, "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtLabel(&tt.node, false); got != tt.want {
				t.Errorf("fmtLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShape(t *testing.T) {
	tests := map[pedigree.Gender]string{
		pedigree.GenderMale:    "box",
		pedigree.GenderFemale:  "circle",
		pedigree.GenderUnknown: "diamond",
	}
	for gender, want := range tests {
		if got := shape(gender); got != want {
			t.Errorf("shape(%s) = %q, want %q", gender, got, want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(family(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
