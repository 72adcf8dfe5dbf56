package pedigree

import (
	"slices"
	"testing"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// trio builds a proband with two parents and returns (child, mother, father, union).
func trio(t *testing.T) (*Graph, ID, ID, ID, ID) {
	t.Helper()
	g := New()
	child := mustAdd(t, g, nil)
	mother := mustAdd(t, g, &Person{Gender: GenderFemale})
	father := mustAdd(t, g, &Person{Gender: GenderMale})
	union, _, err := g.AddPartnership(mother, father)
	if err != nil {
		t.Fatalf("AddPartnership: %v", err)
	}
	if _, err := g.AddParentChild(union, child); err != nil {
		t.Fatalf("AddParentChild: %v", err)
	}
	return g, child, mother, father, union
}

func mustAdd(t *testing.T, g *Graph, p *Person) ID {
	t.Helper()
	id, _, err := g.AddPerson(p)
	if err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	return id
}

func wantCode(t *testing.T, err error, code perr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := perr.GetCode(err); got != code {
		t.Fatalf("error code = %s, want %s (%v)", got, code, err)
	}
}

func TestAddNode_IDsAreMonotonic(t *testing.T) {
	g := New()
	a := mustAdd(t, g, nil)
	b := mustAdd(t, g, nil)
	if _, err := g.RemoveNode(b); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	c := mustAdd(t, g, nil)
	if a != 0 || b != 1 || c != 2 {
		t.Errorf("ids = %d, %d, %d, want 0, 1, 2", a, b, c)
	}
}

func TestAddNode_FirstPersonIsProband(t *testing.T) {
	g := New()
	ph, _, _ := g.AddPlaceholder()
	first := mustAdd(t, g, nil)
	second := mustAdd(t, g, nil)

	if got := g.Proband(); got != first {
		t.Errorf("Proband() = %d, want %d", got, first)
	}
	if n, _ := g.Node(second); n.Person.Proband {
		t.Error("second person should not be proband")
	}
	if n, _ := g.Node(ph); n.Person != nil {
		t.Error("placeholder should carry no person payload")
	}
}

func TestAddNode_Defaults(t *testing.T) {
	g := New()
	id := mustAdd(t, g, nil)
	n, _ := g.Node(id)
	if n.Person.Gender != GenderUnknown || n.Person.LifeStatus != LifeAlive || n.Person.Adoption != AdoptionNone {
		t.Errorf("defaults = %+v", n.Person)
	}
	if n.Order != Unplaced {
		t.Errorf("Order = %d, want Unplaced", n.Order)
	}
	if n.Person.Childless.Status() != ChildlessNone {
		t.Errorf("childless = %s, want none", n.Person.Childless.Status())
	}
}

func TestAddNode_Rejects(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		p    *Person
		code perr.Code
	}{
		{"partnership kind", KindPartnership, nil, perr.ErrCodeInvalidRelationship},
		{"bad gender", KindPerson, &Person{Gender: "X"}, perr.ErrCodeInvalidProperty},
		{"bad life status", KindPerson, &Person{LifeStatus: "zombie"}, perr.ErrCodeInvalidProperty},
		{"group too small", KindPersonGroup, &Person{GroupSize: 1}, perr.ErrCodeInvalidProperty},
		{"placeholder with payload", KindPlaceholder, &Person{}, perr.ErrCodeInvalidProperty},
		{"empty term", KindPerson, &Person{Disorders: []string{" "}}, perr.ErrCodeInvalidProperty},
		{"group twin", KindPersonGroup, &Person{TwinGroup: "t"}, perr.ErrCodeInvalidProperty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			_, _, err := g.AddNode(tt.kind, tt.p)
			wantCode(t, err, tt.code)
			if g.NodeCount() != 0 {
				t.Errorf("NodeCount() = %d after rejected add", g.NodeCount())
			}
		})
	}
}

func TestAddPartnership(t *testing.T) {
	g, child, mother, father, union := trio(t)

	if got := g.Partners(mother); !slices.Equal(got, []ID{father}) {
		t.Errorf("Partners(mother) = %v, want [%d]", got, father)
	}
	if got := g.Parents(child); !slices.Equal(got, []ID{mother, father}) {
		t.Errorf("Parents(child) = %v", got)
	}
	if got := g.Children(union); !slices.Equal(got, []ID{child}) {
		t.Errorf("Children(union) = %v", got)
	}
	if got := g.Children(mother); !slices.Equal(got, []ID{child}) {
		t.Errorf("Children(mother) = %v", got)
	}
	if got := g.ParentPartnership(child); got != union {
		t.Errorf("ParentPartnership = %d, want %d", got, union)
	}
	if got := g.PartnershipBetween(father, mother); got != union {
		t.Errorf("PartnershipBetween = %d, want %d", got, union)
	}
	if n, _ := g.Node(union); n.Partnership.Consanguinity != ConsanguinityAuto {
		t.Errorf("consanguinity = %s, want auto", n.Partnership.Consanguinity)
	}
}

func TestAddPartnership_Rejects(t *testing.T) {
	g, child, mother, father, union := trio(t)
	male := mustAdd(t, g, &Person{Gender: GenderMale})
	fetus := mustAdd(t, g, &Person{LifeStatus: LifeUnborn})

	tests := []struct {
		name string
		a, b ID
		code perr.Code
	}{
		{"self", mother, mother, perr.ErrCodeInvalidRelationship},
		{"unknown", mother, 99, perr.ErrCodeNotFound},
		{"duplicate", father, mother, perr.ErrCodeInvalidRelationship},
		{"partnership endpoint", union, male, perr.ErrCodeInvalidRelationship},
		{"same gender", father, male, perr.ErrCodeInvalidRelationship},
		{"ancestor", mother, child, perr.ErrCodeInvalidRelationship},
		{"fetus", male, fetus, perr.ErrCodeInvalidRelationship},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.NodeCount()
			_, _, err := g.AddPartnership(tt.a, tt.b)
			wantCode(t, err, tt.code)
			if g.NodeCount() != before {
				t.Errorf("NodeCount() changed on rejection")
			}
		})
	}
}

func TestAddPartnership_InconsistentRank(t *testing.T) {
	// The proband's partner cannot also partner the proband's father: the
	// three would share a generation with the proband below it.
	g, child, _, father, _ := trio(t)
	spouse := mustAdd(t, g, nil)
	if _, _, err := g.AddPartnership(child, spouse); err != nil {
		t.Fatal(err)
	}
	_, _, err := g.AddPartnership(spouse, father)
	wantCode(t, err, perr.ErrCodeInconsistentRank)
	if g.PartnershipBetween(spouse, father) != NoID {
		t.Error("rejected partnership was committed")
	}
}

func TestAddParentChild_Rejects(t *testing.T) {
	g, child, mother, father, union := trio(t)
	other, _, err := g.AddPartnership(child, mustAdd(t, g, &Person{Gender: GenderMale}))
	if err != nil {
		t.Fatal(err)
	}
	stranger := mustAdd(t, g, nil)
	stepUnion, _, err := g.AddPartnership(stranger, mustAdd(t, g, nil))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		partnership ID
		child       ID
		code        perr.Code
	}{
		{"second parents", stepUnion, child, perr.ErrCodeTooManyParents},
		{"same parents again", union, child, perr.ErrCodeTooManyParents},
		{"own ancestor", other, mother, perr.ErrCodeCycle},
		{"endpoint", union, father, perr.ErrCodeCycle},
		{"not a partnership", mother, stranger, perr.ErrCodeInvalidRelationship},
		{"child is partnership", union, stepUnion, perr.ErrCodeInvalidRelationship},
		{"unknown", union, 1000, perr.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.ListEdges()
			_, err := g.AddParentChild(tt.partnership, tt.child)
			wantCode(t, err, tt.code)
			if !slices.Equal(before, g.ListEdges()) {
				t.Error("edges changed on rejection")
			}
		})
	}
}

func TestAddChild_Childless(t *testing.T) {
	g, _, mother, _, union := trio(t)
	_, err := g.SetChildless(union, ChildlessChildless, "")
	wantCode(t, err, perr.ErrCodeInvalidRelationship)

	spouse := mustAdd(t, g, &Person{Gender: GenderMale})
	u2, _, err := g.AddPartnership(mother, spouse)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetChildless(spouse, ChildlessInfertile, "vasectomy"); err != nil {
		t.Fatalf("SetChildless: %v", err)
	}
	_, _, err = g.AddChild(u2, nil)
	wantCode(t, err, perr.ErrCodeInvalidRelationship)

	if _, err := g.SetChildless(spouse, ChildlessNone, "ignored"); err != nil {
		t.Fatal(err)
	}
	n, _ := g.Node(spouse)
	if n.Person.Childless.Reason() != "" {
		t.Errorf("reason = %q, want cleared", n.Person.Childless.Reason())
	}
	if _, _, err := g.AddChild(u2, nil); err != nil {
		t.Errorf("AddChild after clearing: %v", err)
	}
}

func TestRemoveNode_SubstitutesPlaceholder(t *testing.T) {
	g, child, mother, father, union := trio(t)
	sib, _, err := g.AddChild(union, nil)
	if err != nil {
		t.Fatal(err)
	}

	d, err := g.RemoveNode(father)
	if err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if _, ok := g.Node(father); ok {
		t.Fatal("father still present")
	}
	if len(d.Created) != 1 {
		t.Fatalf("Created = %v, want one placeholder", d.Created)
	}
	ph := d.Created[0]
	if n, _ := g.Node(ph); n.Kind != KindPlaceholder {
		t.Errorf("created kind = %s, want placeholder", n.Kind)
	}
	e, _ := g.Endpoints(union)
	if e != [2]ID{mother, ph} {
		t.Errorf("Endpoints = %v, want [%d %d]", e, mother, ph)
	}
	if got := g.Children(union); !slices.Equal(got, []ID{child, sib}) {
		t.Errorf("Children = %v", got)
	}

	// The placeholder holds a parent slot.
	_, err = g.RemoveNode(ph)
	wantCode(t, err, perr.ErrCodeInvalidRelationship)
}

func TestRemoveNode_DropsChildlessPartnership(t *testing.T) {
	g := New()
	a := mustAdd(t, g, nil)
	ph, _, _ := g.AddPlaceholder()
	u, _, err := g.AddPartnership(a, ph)
	if err != nil {
		t.Fatal(err)
	}
	d, err := g.RemoveNode(a)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []ID{a, ph, u} {
		if _, ok := g.Node(id); ok {
			t.Errorf("node %d survived", id)
		}
	}
	if len(d.Removed) != 3 {
		t.Errorf("Removed = %d nodes, want 3", len(d.Removed))
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestRemoveNode_Partnership(t *testing.T) {
	g, child, mother, father, union := trio(t)
	if _, err := g.RemoveNode(union); err != nil {
		t.Fatal(err)
	}
	if g.ParentPartnership(child) != NoID {
		t.Error("child still attached")
	}
	if len(g.Partners(mother)) != 0 || len(g.Partners(father)) != 0 {
		t.Error("partners still linked")
	}
	if _, err := g.RemoveNode(union); !perr.Is(err, perr.ErrCodeNotFound) {
		t.Errorf("second remove err = %v, want NOT_FOUND", err)
	}
}

func TestTwins(t *testing.T) {
	g, child, _, _, union := trio(t)
	twin, _, err := g.AddChild(union, &Person{TwinGroup: "T1", TwinOrder: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetTwinGroup(child, "T1", 0); err != nil {
		t.Fatalf("SetTwinGroup: %v", err)
	}
	if got := g.Twins(child); !slices.Equal(got, []ID{twin}) {
		t.Errorf("Twins(child) = %v, want [%d]", got, twin)
	}
	if got := g.TwinGroup("T1"); !slices.Equal(got, []ID{child, twin}) {
		t.Errorf("TwinGroup = %v", got)
	}

	stranger := mustAdd(t, g, nil)
	_, err = g.SetTwinGroup(stranger, "T1", 2)
	wantCode(t, err, perr.ErrCodeInvalidRelationship)

	_, err = g.RemoveParentChild(twin)
	wantCode(t, err, perr.ErrCodeInvalidRelationship)
}

func TestMergeTwins(t *testing.T) {
	g, child, _, _, union := trio(t)
	b, _, _ := g.AddChild(union, nil)
	c, _, _ := g.AddChild(union, nil)

	if _, err := g.MergeTwins(child, b); err != nil {
		t.Fatal(err)
	}
	if _, err := g.MergeTwins(child, c); err != nil {
		t.Fatal(err)
	}
	group := g.nodes[child].Person.TwinGroup
	if group == "" {
		t.Fatal("no group assigned")
	}
	if got := g.TwinGroup(group); !slices.Equal(got, []ID{child, b, c}) {
		t.Errorf("TwinGroup = %v, want [%d %d %d]", got, child, b, c)
	}
	if o := g.nodes[c].Person.TwinOrder; o != 2 {
		t.Errorf("TwinOrder(c) = %d, want 2", o)
	}

	founder := mustAdd(t, g, nil)
	_, err := g.MergeTwins(child, founder)
	wantCode(t, err, perr.ErrCodeInvalidRelationship)
}

func TestSetters(t *testing.T) {
	g, child, mother, father, union := trio(t)

	t.Run("gender constrained by partner", func(t *testing.T) {
		if got := g.PossibleGenders(mother); !slices.Equal(got, []Gender{GenderFemale, GenderUnknown}) {
			t.Errorf("PossibleGenders = %v", got)
		}
		_, err := g.SetGender(mother, GenderMale)
		wantCode(t, err, perr.ErrCodeInvalidRelationship)
		if _, err := g.SetGender(mother, GenderUnknown); err != nil {
			t.Error(err)
		}
	})

	t.Run("fetal status needs no partners", func(t *testing.T) {
		_, err := g.SetLifeStatus(father, LifeStillborn)
		wantCode(t, err, perr.ErrCodeInvalidRelationship)
	})

	t.Run("fetal status clears childless", func(t *testing.T) {
		id := mustAdd(t, g, nil)
		if _, err := g.SetChildless(id, ChildlessChildless, "by choice"); err != nil {
			t.Fatal(err)
		}
		if _, err := g.SetLifeStatus(id, LifeMiscarriage); err != nil {
			t.Fatal(err)
		}
		if g.nodes[id].Person.Childless.IsSet() {
			t.Error("childless kept on a fetus")
		}
	})

	t.Run("childless with children", func(t *testing.T) {
		_, err := g.SetChildless(mother, ChildlessInfertile, "")
		wantCode(t, err, perr.ErrCodeInvalidRelationship)
	})

	t.Run("partnership flags", func(t *testing.T) {
		d, err := g.SetConsanguinity(union, ConsanguinityYes)
		if err != nil {
			t.Fatal(err)
		}
		if len(d.Before) != 1 || d.Before[0].Partnership.Consanguinity != ConsanguinityAuto {
			t.Errorf("delta before = %+v", d.Before)
		}
		if _, err := g.SetBroken(union, true); err != nil {
			t.Fatal(err)
		}
		_, err = g.SetConsanguinity(union, "maybe")
		wantCode(t, err, perr.ErrCodeInvalidProperty)
		_, err = g.SetBroken(child, true)
		wantCode(t, err, perr.ErrCodeInvalidProperty)
	})

	t.Run("proband moves", func(t *testing.T) {
		if _, err := g.SetProband(mother); err != nil {
			t.Fatal(err)
		}
		if g.Proband() != mother || g.nodes[child].Person.Proband {
			t.Errorf("Proband() = %d", g.Proband())
		}
	})

	t.Run("terms", func(t *testing.T) {
		if _, err := g.SetTerms(child, []string{"OMIM:1", "OMIM:1"}, []string{"BRCA1"}, nil); err != nil {
			t.Fatal(err)
		}
		if got := g.nodes[child].Person.Disorders; !slices.Equal(got, []string{"OMIM:1"}) {
			t.Errorf("Disorders = %v", got)
		}
	})

	t.Run("setters do not dirty layout", func(t *testing.T) {
		g.ClearDirty()
		if _, err := g.SetNames(child, "Ada", "L", "P-1"); err != nil {
			t.Fatal(err)
		}
		if len(g.Dirty()) != 0 {
			t.Errorf("Dirty() = %v, want empty", g.Dirty())
		}
	})
}

func TestGroupSize(t *testing.T) {
	g := New()
	id, _, err := g.AddGroup(3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetGroupSize(id, 5); err != nil {
		t.Fatal(err)
	}
	if g.nodes[id].Person.GroupSize != 5 {
		t.Errorf("GroupSize = %d, want 5", g.nodes[id].Person.GroupSize)
	}
	_, err = g.SetGroupSize(id, 1)
	wantCode(t, err, perr.ErrCodeInvalidProperty)
	if g.nodes[id].Person.GroupSize != 5 {
		t.Error("rejected size committed")
	}
}

func TestDirty_MarksDescendants(t *testing.T) {
	g, child, mother, _, union := trio(t)
	spouse := mustAdd(t, g, nil)
	u2, _, _ := g.AddPartnership(child, spouse)
	gc, _, _ := g.AddChild(u2, nil)
	g.ClearDirty()

	if _, err := g.SetTwinGroup(mother, "", 0); err != nil {
		t.Fatal(err)
	}
	want := []ID{mother, union, child, u2, gc}
	slices.Sort(want)
	if got := g.Dirty(); !slices.Equal(got, want) {
		t.Errorf("Dirty() = %v, want %v", got, want)
	}
}

func TestAncestry(t *testing.T) {
	g, child, mother, father, union := trio(t)
	spouse := mustAdd(t, g, nil)
	u2, _, _ := g.AddPartnership(child, spouse)
	gc, _, _ := g.AddChild(u2, nil)

	if got := g.Ancestors(gc); !slices.Equal(got, []ID{child, mother, father, spouse}) {
		t.Errorf("Ancestors = %v", got)
	}
	if !g.IsAncestor(mother, gc) || g.IsAncestor(gc, mother) {
		t.Error("IsAncestor wrong")
	}
	if got := g.Descendants(mother); !slices.Equal(got, []ID{child, union, u2, gc}) {
		t.Errorf("Descendants = %v", got)
	}
}

func TestEffectiveConsanguinity(t *testing.T) {
	g, child, _, _, union := trio(t)
	sib, _, _ := g.AddChild(union, &Person{Gender: GenderMale})
	if _, err := g.SetGender(child, GenderFemale); err != nil {
		t.Fatal(err)
	}
	stranger := mustAdd(t, g, &Person{Gender: GenderMale})

	cousins, _, err := g.AddPartnership(child, sib)
	if err != nil {
		t.Fatal(err)
	}
	plain, _, err := g.AddPartnership(child, stranger)
	if err != nil {
		t.Fatal(err)
	}
	if !g.EffectiveConsanguinity(cousins) {
		t.Error("siblings sharing parents should be consanguineous")
	}
	if g.EffectiveConsanguinity(plain) {
		t.Error("unrelated partners should not be consanguineous")
	}
	if _, err := g.SetConsanguinity(plain, ConsanguinityYes); err != nil {
		t.Fatal(err)
	}
	if !g.EffectiveConsanguinity(plain) {
		t.Error("explicit yes ignored")
	}
}

func TestRanksInvariantsAfterLayoutWrites(t *testing.T) {
	g, child, mother, father, union := trio(t)
	g.SetRanks(map[ID]int{mother: 0, father: 0, union: 0, child: 1})
	g.SetOrders(map[ID]int{mother: 0, union: 1, father: 2, child: 0})

	if got := g.RankIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("RankIDs() = %v", got)
	}
	var row []ID
	for _, n := range g.NodesInRank(0) {
		row = append(row, n.ID)
	}
	if !slices.Equal(row, []ID{mother, union, father}) {
		t.Errorf("NodesInRank(0) = %v", row)
	}
}

func TestComponents(t *testing.T) {
	g, child, mother, father, union := trio(t)
	twin, _, _ := g.AddChild(union, nil)
	if _, err := g.MergeTwins(child, twin); err != nil {
		t.Fatal(err)
	}
	comp := g.Components()
	if comp[mother] != comp[father] {
		t.Error("partners in different components")
	}
	if comp[child] != comp[twin] {
		t.Error("twins in different components")
	}
	if comp[child] == comp[mother] {
		t.Error("child merged with parents")
	}
	if _, ok := comp[union]; ok {
		t.Error("partnership nodes are not components")
	}
}

func TestSetLifeStatus_ClearsStaleFields(t *testing.T) {
	tests := []struct {
		name           string
		from           Person
		to             LifeStatus
		want           Details
		wantConsultand bool
	}{
		{
			name: "revived",
			from: Person{LifeStatus: LifeDeceased, Details: Details{BirthDate: "1950", DeathDate: "2001", CauseOfDeath: "stroke", GestationAge: 30}},
			to:   LifeAlive,
			want: Details{BirthDate: "1950"},
		},
		{
			name: "deceased consultand",
			from: Person{Consultand: true, Details: Details{BirthDate: "1980"}},
			to:   LifeDeceased,
			want: Details{BirthDate: "1980"},
		},
		{
			name: "became a pregnancy",
			from: Person{Consultand: true, Details: Details{BirthDate: "1980", Comments: "kept"}},
			to:   LifeStillborn,
			want: Details{Comments: "kept"},
		},
		{
			name: "pregnancy to deceased",
			from: Person{LifeStatus: LifeUnborn, Details: Details{Karyotype: "46,XY", GestationAge: 20}},
			to:   LifeDeceased,
			want: Details{GestationAge: 20},
		},
		{
			name: "between pregnancy outcomes",
			from: Person{LifeStatus: LifeMiscarriage, Details: Details{Karyotype: "47,XX,+21", GestationAge: 12}},
			to:   LifeAborted,
			want: Details{Karyotype: "47,XX,+21", GestationAge: 12},
		},
		{
			name:           "consultand stays alive",
			from:           Person{Consultand: true, Details: Details{LostContact: true}},
			to:             LifeAlive,
			want:           Details{LostContact: true},
			wantConsultand: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			id := mustAdd(t, g, &tt.from)
			if _, err := g.SetLifeStatus(id, tt.to); err != nil {
				t.Fatalf("SetLifeStatus: %v", err)
			}
			p := g.nodes[id].Person
			if p.Details != tt.want {
				t.Errorf("Details = %+v, want %+v", p.Details, tt.want)
			}
			if p.Consultand != tt.wantConsultand {
				t.Errorf("Consultand = %v, want %v", p.Consultand, tt.wantConsultand)
			}
		})
	}
}

func TestSetDetails(t *testing.T) {
	g := New()
	alive := mustAdd(t, g, nil)
	fetus := mustAdd(t, g, &Person{LifeStatus: LifeUnborn})

	d, err := g.SetDetails(alive, Details{BirthDate: "1990-01-01", SexAtBirth: "F", UnknownHistory: true})
	if err != nil {
		t.Fatalf("SetDetails: %v", err)
	}
	if len(d.Before) != 1 || d.Before[0].Person.BirthDate != "" {
		t.Errorf("delta before = %+v", d.Before)
	}
	if _, err := g.SetDetails(fetus, Details{Karyotype: "46,XX", GestationAge: 22, MultipleGestation: "2 fetuses"}); err != nil {
		t.Errorf("SetDetails(fetus): %v", err)
	}

	tests := []struct {
		name string
		id   ID
		d    Details
	}{
		{"death date while alive", alive, Details{DeathDate: "2020"}},
		{"karyotype after birth", alive, Details{Karyotype: "46,XY"}},
		{"gestation age while alive", alive, Details{GestationAge: 38}},
		{"negative gestation age", fetus, Details{GestationAge: -1}},
		{"birth date of a pregnancy", fetus, Details{BirthDate: "2024"}},
		{"control characters", alive, Details{Comments: "a\x07b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.SetDetails(tt.id, tt.d)
			wantCode(t, err, perr.ErrCodeInvalidProperty)
		})
	}
	if got := g.nodes[alive].Person.BirthDate; got != "1990-01-01" {
		t.Errorf("BirthDate = %q after rejected edits", got)
	}
}

func TestSetFlags_DeceasedConsultand(t *testing.T) {
	g := New()
	id := mustAdd(t, g, &Person{LifeStatus: LifeDeceased})
	_, err := g.SetFlags(id, true, false)
	wantCode(t, err, perr.ErrCodeInvalidProperty)
}

func TestCarrierFollowsDisorders(t *testing.T) {
	g := New()
	id := mustAdd(t, g, nil)
	person := func() *Person { return g.nodes[id].Person }

	if _, err := g.SetCarrier(id, CarrierAffected); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(person().Disorders, []string{AffectedDisorder}) {
		t.Errorf("Disorders = %v, want stand-in", person().Disorders)
	}
	if _, err := g.SetCarrier(id, CarrierUnaffected); err != nil {
		t.Fatal(err)
	}
	if len(person().Disorders) != 0 || person().Carrier != CarrierUnaffected {
		t.Errorf("after clearing: Disorders = %v, Carrier = %q", person().Disorders, person().Carrier)
	}

	if _, err := g.SetTerms(id, []string{"OMIM:219700"}, nil, nil); err != nil {
		t.Fatal(err)
	}
	if person().Carrier != CarrierAffected {
		t.Errorf("Carrier = %q after adding a disorder, want affected", person().Carrier)
	}
	if _, err := g.SetCarrier(id, CarrierUnaffected); err != nil {
		t.Fatal(err)
	}
	if person().Carrier != CarrierAffected {
		t.Errorf("Carrier = %q with a named disorder, want affected", person().Carrier)
	}
	if _, err := g.SetCarrier(id, CarrierCarrier); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SetTerms(id, nil, []string{"CFTR"}, nil); err != nil {
		t.Fatal(err)
	}
	if person().Carrier != CarrierUnaffected {
		t.Errorf("Carrier = %q without disorders, want unaffected", person().Carrier)
	}
	if _, err := g.SetCarrier(id, "sometimes"); err == nil {
		t.Error("SetCarrier accepted an unknown status")
	}
}
