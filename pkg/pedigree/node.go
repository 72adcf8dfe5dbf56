package pedigree

import (
	"fmt"
	"slices"

	perr "github.com/matzehuels/pedigree/pkg/errors"
)

// ID identifies a node. IDs are allocated monotonically and never reused
// within a graph, even after the node is removed.
type ID int

// NoID is returned by lookups that find nothing, e.g. the parent partnership
// of a founder.
const NoID ID = -1

// Unplaced is the Order of a node that has not been through ordering yet.
const Unplaced = -1

// Kind is the discriminant of the node variant.
type Kind int

const (
	// KindPerson is a single individual.
	KindPerson Kind = iota
	// KindPersonGroup collapses several anonymous individuals into one drawn unit.
	KindPersonGroup
	// KindPartnership is the union node between two individuals. Children hang off it.
	KindPartnership
	// KindPlaceholder holds a layout slot with no clinical meaning, such as an
	// unknown parent.
	KindPlaceholder
)

var kindNames = [...]string{"person", "group", "partnership", "placeholder"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of [Kind.String].
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, perr.New(perr.ErrCodeInvalidFormat, "unknown node kind %q", s)
}

// IsIndividual reports whether nodes of this kind can be partners and children.
func (k Kind) IsIndividual() bool {
	return k == KindPerson || k == KindPersonGroup || k == KindPlaceholder
}

// Gender is the sex/gender category drawn as the node shape.
type Gender string

const (
	GenderMale    Gender = "M"
	GenderFemale  Gender = "F"
	GenderUnknown Gender = "U"
)

// Known reports whether g is male or female.
func (g Gender) Known() bool { return g == GenderMale || g == GenderFemale }

// LifeStatus is the life-status category of a person.
type LifeStatus string

const (
	LifeAlive       LifeStatus = "alive"
	LifeDeceased    LifeStatus = "deceased"
	LifeStillborn   LifeStatus = "stillborn"
	LifeUnborn      LifeStatus = "unborn"
	LifeAborted     LifeStatus = "aborted"
	LifeMiscarriage LifeStatus = "miscarriage"
)

// IsFetal reports whether the status describes a pregnancy outcome rather
// than someone who lived.
func (s LifeStatus) IsFetal() bool {
	return s != LifeAlive && s != LifeDeceased
}

// CarrierStatus is the global disorder carrier status.
type CarrierStatus string

const (
	CarrierUnaffected     CarrierStatus = ""
	CarrierCarrier        CarrierStatus = "carrier"
	CarrierAffected       CarrierStatus = "affected"
	CarrierPresymptomatic CarrierStatus = "presymptomatic"
)

// AffectedDisorder is the stand-in disorder recorded when someone is marked
// affected without a named disorder.
const AffectedDisorder = "affected"

// AdoptionStatus records whether a person was adopted into or out of the family.
type AdoptionStatus string

const (
	AdoptionNone AdoptionStatus = "none"
	AdoptedIn    AdoptionStatus = "adoptedIn"
	AdoptedOut   AdoptionStatus = "adoptedOut"
)

// Consanguinity is the partnership flag. Auto resolves from shared ancestry.
type Consanguinity string

const (
	ConsanguinityAuto Consanguinity = "auto"
	ConsanguinityYes  Consanguinity = "yes"
	ConsanguinityNo   Consanguinity = "no"
)

// Person is the payload of KindPerson and KindPersonGroup nodes.
// Disorder, gene and phenotype terms are opaque tokens.
type Person struct {
	Gender     Gender
	LifeStatus LifeStatus
	Proband    bool

	// TwinGroup names the pregnancy a twin belongs to; empty for singletons.
	// TwinOrder is the left-to-right position within the group.
	TwinGroup string
	TwinOrder int

	Childless *Childless
	Carrier   CarrierStatus
	Adoption  AdoptionStatus

	Consultand bool
	Evaluated  bool

	FirstName  string
	LastName   string
	ExternalID string

	Disorders  []string
	Genes      []string
	Phenotypes []string

	// GroupSize is the number of individuals a PersonGroup stands for.
	GroupSize int
	// WidthMultiplier overrides the configured group width when positive.
	WidthMultiplier float64

	Details
}

// Details are the clinical annotations shown in the node menu. Dates and
// the other strings are stored as entered.
type Details struct {
	Comments     string
	BirthDate    string
	DeathDate    string
	CauseOfDeath string
	// Karyotype applies to pregnancies only.
	Karyotype string
	// GestationAge is in weeks; zero means unknown.
	GestationAge      int
	SexAtBirth        string
	MultipleGestation string
	LostContact       bool
	UnknownHistory    bool
}

func (d Details) check(status LifeStatus) error {
	for _, s := range []string{d.BirthDate, d.DeathDate, d.CauseOfDeath, d.Karyotype, d.SexAtBirth, d.MultipleGestation} {
		if err := perr.ValidateName(s); err != nil {
			return err
		}
	}
	if err := perr.ValidateComment(d.Comments); err != nil {
		return err
	}
	switch {
	case d.GestationAge < 0:
		return perr.New(perr.ErrCodeInvalidProperty, "gestation age must not be negative")
	case d.GestationAge > 0 && status == LifeAlive:
		return perr.New(perr.ErrCodeInvalidProperty, "gestation age does not apply to a living person")
	case (d.DeathDate != "" || d.CauseOfDeath != "") && status != LifeDeceased:
		return perr.New(perr.ErrCodeInvalidProperty, "death date and cause need a deceased person, not %s", status)
	case d.Karyotype != "" && !status.IsFetal():
		return perr.New(perr.ErrCodeInvalidProperty, "karyotype applies to pregnancies only")
	case d.BirthDate != "" && status.IsFetal():
		return perr.New(perr.ErrCodeInvalidProperty, "a %s pregnancy has no birth date", status)
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.Childless = p.Childless.Clone()
	c.Disorders = slices.Clone(p.Disorders)
	c.Genes = slices.Clone(p.Genes)
	c.Phenotypes = slices.Clone(p.Phenotypes)
	return &c
}

// normalize fills defaults for zero values.
func (p *Person) normalize(kind Kind) {
	if p.Gender == "" {
		p.Gender = GenderUnknown
	}
	if p.LifeStatus == "" {
		p.LifeStatus = LifeAlive
	}
	if p.Adoption == "" {
		p.Adoption = AdoptionNone
	}
	if p.Childless == nil {
		p.Childless = &Childless{}
	}
	if kind == KindPersonGroup && p.GroupSize == 0 {
		p.GroupSize = 2
	}
}

// validate checks property values. It does not look at relationships.
func (p *Person) validate(kind Kind) error {
	if err := perr.ValidateGender(string(p.Gender)); err != nil {
		return err
	}
	if err := perr.ValidateLifeStatus(string(p.LifeStatus)); err != nil {
		return err
	}
	if err := perr.ValidateCarrierStatus(string(p.Carrier)); err != nil {
		return err
	}
	if err := perr.ValidateAdoptionStatus(string(p.Adoption)); err != nil {
		return err
	}
	if err := p.Childless.validate(); err != nil {
		return err
	}
	if p.Childless.IsSet() && p.LifeStatus.IsFetal() {
		return perr.New(perr.ErrCodeInvalidProperty, "a %s pregnancy cannot be %s", p.LifeStatus, p.Childless.Status())
	}
	if p.Consultand && p.LifeStatus == LifeDeceased {
		return perr.New(perr.ErrCodeInvalidProperty, "a deceased person cannot be the consultand")
	}
	if err := p.Details.check(p.LifeStatus); err != nil {
		return err
	}
	for _, name := range []string{p.FirstName, p.LastName, p.ExternalID} {
		if err := perr.ValidateName(name); err != nil {
			return err
		}
	}
	for _, terms := range [][]string{p.Disorders, p.Genes, p.Phenotypes} {
		for _, t := range terms {
			if err := perr.ValidateTerm(t); err != nil {
				return err
			}
		}
	}
	switch kind {
	case KindPersonGroup:
		if p.GroupSize < 2 {
			return perr.New(perr.ErrCodeInvalidProperty, "group size must be at least 2, got %d", p.GroupSize)
		}
		if p.WidthMultiplier < 0 {
			return perr.New(perr.ErrCodeInvalidProperty, "width multiplier must not be negative")
		}
		if p.TwinGroup != "" {
			return perr.New(perr.ErrCodeInvalidProperty, "a person group cannot be a twin")
		}
		if p.Proband {
			return perr.New(perr.ErrCodeInvalidProperty, "a person group cannot be the proband")
		}
	case KindPerson:
		if p.GroupSize != 0 || p.WidthMultiplier != 0 {
			return perr.New(perr.ErrCodeInvalidProperty, "group size applies to person groups only")
		}
	}
	if p.TwinOrder < 0 {
		return perr.New(perr.ErrCodeInvalidProperty, "twin order must not be negative")
	}
	return nil
}

// Partnership is the payload of KindPartnership nodes. The two endpoints are
// held by the relationship index, not here.
type Partnership struct {
	Consanguinity Consanguinity
	Broken        bool
	Childless     *Childless
}

// Clone returns a deep copy of p.
func (p *Partnership) Clone() *Partnership {
	if p == nil {
		return nil
	}
	c := *p
	c.Childless = p.Childless.Clone()
	return &c
}

func (p *Partnership) normalize() {
	if p.Consanguinity == "" {
		p.Consanguinity = ConsanguinityAuto
	}
	if p.Childless == nil {
		p.Childless = &Childless{}
	}
}

func (p *Partnership) validate() error {
	if err := perr.ValidateConsanguinity(string(p.Consanguinity)); err != nil {
		return err
	}
	return p.Childless.validate()
}

// Point is a canvas coordinate.
type Point struct {
	X, Y float64
}

// Node is a vertex of the pedigree graph: a closed variant over [Kind].
// Person is set for KindPerson and KindPersonGroup, Partnership for
// KindPartnership; placeholders carry no payload.
//
// Rank, Order and Pos are owned by the layout pipeline.
type Node struct {
	ID    ID
	Kind  Kind
	Rank  int
	Order int
	Pos   Point

	Person      *Person
	Partnership *Partnership
}

// Clone returns a deep copy of n.
func (n *Node) Clone() Node {
	c := *n
	c.Person = n.Person.Clone()
	c.Partnership = n.Partnership.Clone()
	return c
}

// IsIndividual reports whether the node can be a partner or a child.
func (n *Node) IsIndividual() bool { return n.Kind.IsIndividual() }

// childless returns the childless state held by the node, or nil for
// placeholders.
func (n *Node) childless() *Childless {
	switch {
	case n.Person != nil:
		return n.Person.Childless
	case n.Partnership != nil:
		return n.Partnership.Childless
	}
	return nil
}

func (n *Node) validatePayload() error {
	switch n.Kind {
	case KindPerson, KindPersonGroup:
		if n.Person == nil || n.Partnership != nil {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d: %s needs person properties only", n.ID, n.Kind).WithNodes(int(n.ID))
		}
		if err := n.Person.validate(n.Kind); err != nil {
			return err
		}
	case KindPartnership:
		if n.Partnership == nil || n.Person != nil {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d: partnership needs partnership properties only", n.ID).WithNodes(int(n.ID))
		}
		if err := n.Partnership.validate(); err != nil {
			return err
		}
	case KindPlaceholder:
		if n.Person != nil || n.Partnership != nil {
			return perr.New(perr.ErrCodeInvalidProperty, "node %d: placeholder carries no properties", n.ID).WithNodes(int(n.ID))
		}
	default:
		return perr.New(perr.ErrCodeInvalidProperty, "node %d: unknown kind %d", n.ID, int(n.Kind)).WithNodes(int(n.ID))
	}
	return nil
}
