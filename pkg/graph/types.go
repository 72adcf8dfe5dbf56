package graph

import (
	"fmt"

	"github.com/matzehuels/pedigree/pkg/pedigree"
)

// Edge kinds on the wire.
const (
	EdgePartner = "partner"
	EdgeChild   = "child"
)

// =============================================================================
// Snapshot - Pedigree Serialization
// =============================================================================

// Snapshot is the canonical serialization format for a pedigree.
//
// Nodes carry their last computed layout so a reloaded pedigree starts from
// the same drawing. Edges follow the graph's own listing: per partnership,
// its two partner edges and then its children.
type Snapshot struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one serialized node. Exactly one of Person and Partnership is set,
// except for placeholders which carry neither.
type Node struct {
	ID          int          `json:"id"`
	Kind        string       `json:"kind"`
	Rank        int          `json:"rank"`
	Order       int          `json:"order"`
	X           float64      `json:"x,omitempty"`
	Y           float64      `json:"y,omitempty"`
	Person      *Person      `json:"person,omitempty"`
	Partnership *Partnership `json:"partnership,omitempty"`
}

// Person holds the properties of a person or person group.
type Person struct {
	Gender          string   `json:"gender"`
	LifeStatus      string   `json:"life_status"`
	Proband         bool     `json:"proband,omitempty"`
	TwinGroup       string   `json:"twin_group,omitempty"`
	TwinOrder       int      `json:"twin_order,omitempty"`
	Childless       string   `json:"childless,omitempty"`
	ChildlessReason string   `json:"childless_reason,omitempty"`
	Carrier         string   `json:"carrier,omitempty"`
	Adoption        string   `json:"adoption,omitempty"`
	Consultand      bool     `json:"consultand,omitempty"`
	Evaluated       bool     `json:"evaluated,omitempty"`
	FirstName       string   `json:"first_name,omitempty"`
	LastName        string   `json:"last_name,omitempty"`
	ExternalID      string   `json:"external_id,omitempty"`
	Disorders       []string `json:"disorders,omitempty"`
	Genes           []string `json:"genes,omitempty"`
	Phenotypes      []string `json:"phenotypes,omitempty"`
	GroupSize       int      `json:"group_size,omitempty"`
	WidthMultiplier float64  `json:"width_multiplier,omitempty"`

	Comments          string `json:"comments,omitempty"`
	BirthDate         string `json:"birth_date,omitempty"`
	DeathDate         string `json:"death_date,omitempty"`
	CauseOfDeath      string `json:"cause_of_death,omitempty"`
	Karyotype         string `json:"karyotype,omitempty"`
	GestationAge      int    `json:"gestation_age,omitempty"`
	SexAtBirth        string `json:"sex_at_birth,omitempty"`
	MultipleGestation string `json:"multiple_gestation,omitempty"`
	LostContact       bool   `json:"lost_contact,omitempty"`
	UnknownHistory    bool   `json:"unknown_history,omitempty"`
}

// Partnership holds the properties of a partnership.
type Partnership struct {
	Consanguinity   string `json:"consanguinity"`
	Broken          bool   `json:"broken,omitempty"`
	Childless       string `json:"childless,omitempty"`
	ChildlessReason string `json:"childless_reason,omitempty"`
}

// Edge is a serialized edge. Kind is "partner" (individual -> partnership)
// or "child" (partnership -> child).
type Edge struct {
	Kind string `json:"kind"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// =============================================================================
// Graph ↔ Snapshot Conversion
// =============================================================================

// FromGraph converts a graph to its serialization format.
func FromGraph(g *pedigree.Graph) Snapshot {
	return FromRecords(g.ListNodes(), g.ListEdges())
}

// FromRecords converts node and edge records to a Snapshot.
func FromRecords(nodes []pedigree.Node, edges []pedigree.Edge) Snapshot {
	out := Snapshot{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromRecord(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{Kind: e.Kind.String(), From: int(e.From), To: int(e.To)}
	}
	return out
}

// ToRecords converts a Snapshot back to records for [pedigree.Load]. It only
// checks the format; relationship rules are left to Load.
func ToRecords(s Snapshot) ([]pedigree.Node, []pedigree.Edge, error) {
	nodes := make([]pedigree.Node, 0, len(s.Nodes))
	for _, nj := range s.Nodes {
		n, err := nodeToRecord(nj)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", nj.ID, err)
		}
		nodes = append(nodes, n)
	}
	edges := make([]pedigree.Edge, 0, len(s.Edges))
	for _, ej := range s.Edges {
		var kind pedigree.EdgeKind
		switch ej.Kind {
		case EdgePartner:
			kind = pedigree.EdgePartner
		case EdgeChild:
			kind = pedigree.EdgeParentChild
		default:
			return nil, nil, fmt.Errorf("edge %d→%d: unknown kind %q", ej.From, ej.To, ej.Kind)
		}
		edges = append(edges, pedigree.Edge{Kind: kind, From: pedigree.ID(ej.From), To: pedigree.ID(ej.To)})
	}
	return nodes, edges, nil
}

// ToGraph converts and loads a Snapshot.
func ToGraph(s Snapshot) (*pedigree.Graph, error) {
	nodes, edges, err := ToRecords(s)
	if err != nil {
		return nil, err
	}
	return pedigree.Load(nodes, edges)
}

// =============================================================================
// Internal Helpers
// =============================================================================

func nodeFromRecord(n pedigree.Node) Node {
	out := Node{
		ID:    int(n.ID),
		Kind:  n.Kind.String(),
		Rank:  n.Rank,
		Order: n.Order,
		X:     n.Pos.X,
		Y:     n.Pos.Y,
	}
	if p := n.Person; p != nil {
		out.Person = &Person{
			Gender:          string(p.Gender),
			LifeStatus:      string(p.LifeStatus),
			Proband:         p.Proband,
			TwinGroup:       p.TwinGroup,
			TwinOrder:       p.TwinOrder,
			Carrier:         string(p.Carrier),
			Adoption:        string(p.Adoption),
			Consultand:      p.Consultand,
			Evaluated:       p.Evaluated,
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			ExternalID:      p.ExternalID,
			Disorders:       p.Disorders,
			Genes:           p.Genes,
			Phenotypes:      p.Phenotypes,
			GroupSize:       p.GroupSize,
			WidthMultiplier: p.WidthMultiplier,

			Comments:          p.Comments,
			BirthDate:         p.BirthDate,
			DeathDate:         p.DeathDate,
			CauseOfDeath:      p.CauseOfDeath,
			Karyotype:         p.Karyotype,
			GestationAge:      p.GestationAge,
			SexAtBirth:        p.SexAtBirth,
			MultipleGestation: p.MultipleGestation,
			LostContact:       p.LostContact,
			UnknownHistory:    p.UnknownHistory,
		}
		if p.Childless.IsSet() {
			out.Person.Childless = string(p.Childless.Status())
			out.Person.ChildlessReason = p.Childless.Reason()
		}
	}
	if p := n.Partnership; p != nil {
		out.Partnership = &Partnership{
			Consanguinity: string(p.Consanguinity),
			Broken:        p.Broken,
		}
		if p.Childless.IsSet() {
			out.Partnership.Childless = string(p.Childless.Status())
			out.Partnership.ChildlessReason = p.Childless.Reason()
		}
	}
	return out
}

func nodeToRecord(nj Node) (pedigree.Node, error) {
	kind, err := pedigree.ParseKind(nj.Kind)
	if err != nil {
		return pedigree.Node{}, err
	}
	n := pedigree.Node{
		ID:    pedigree.ID(nj.ID),
		Kind:  kind,
		Rank:  nj.Rank,
		Order: nj.Order,
		Pos:   pedigree.Point{X: nj.X, Y: nj.Y},
	}
	if p := nj.Person; p != nil {
		n.Person = &pedigree.Person{
			Gender:          pedigree.Gender(p.Gender),
			LifeStatus:      pedigree.LifeStatus(p.LifeStatus),
			Proband:         p.Proband,
			TwinGroup:       p.TwinGroup,
			TwinOrder:       p.TwinOrder,
			Carrier:         pedigree.CarrierStatus(p.Carrier),
			Adoption:        pedigree.AdoptionStatus(p.Adoption),
			Consultand:      p.Consultand,
			Evaluated:       p.Evaluated,
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			ExternalID:      p.ExternalID,
			Disorders:       p.Disorders,
			Genes:           p.Genes,
			Phenotypes:      p.Phenotypes,
			GroupSize:       p.GroupSize,
			WidthMultiplier: p.WidthMultiplier,
			Details: pedigree.Details{
				Comments:          p.Comments,
				BirthDate:         p.BirthDate,
				DeathDate:         p.DeathDate,
				CauseOfDeath:      p.CauseOfDeath,
				Karyotype:         p.Karyotype,
				GestationAge:      p.GestationAge,
				SexAtBirth:        p.SexAtBirth,
				MultipleGestation: p.MultipleGestation,
				LostContact:       p.LostContact,
				UnknownHistory:    p.UnknownHistory,
			},
		}
		if n.Person.Childless, err = childless(p.Childless, p.ChildlessReason); err != nil {
			return pedigree.Node{}, err
		}
	}
	if p := nj.Partnership; p != nil {
		n.Partnership = &pedigree.Partnership{
			Consanguinity: pedigree.Consanguinity(p.Consanguinity),
			Broken:        p.Broken,
		}
		if n.Partnership.Childless, err = childless(p.Childless, p.ChildlessReason); err != nil {
			return pedigree.Node{}, err
		}
	}
	return n, nil
}

func childless(status, reason string) (*pedigree.Childless, error) {
	if status == "" {
		status = string(pedigree.ChildlessNone)
	}
	return pedigree.NewChildless(pedigree.ChildlessStatus(status), reason)
}
