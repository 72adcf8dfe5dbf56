package pedigree_test

import (
	"fmt"

	perr "github.com/matzehuels/pedigree/pkg/errors"
	"github.com/matzehuels/pedigree/pkg/pedigree"
)

func ExampleGraph_basic() {
	g := pedigree.New()
	proband, _, _ := g.AddPerson(nil)
	mother, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderFemale})
	father, _, _ := g.AddPerson(&pedigree.Person{Gender: pedigree.GenderMale})
	union, _, _ := g.AddPartnership(mother, father)
	_, _ = g.AddParentChild(union, proband)

	fmt.Println("Proband:", g.Proband())
	fmt.Println("Parents:", g.Parents(proband))
	fmt.Println("Children of union:", g.Children(union))
	// Output:
	// Proband: 0
	// Parents: [1 2]
	// Children of union: [0]
}

func ExampleGraph_AddParentChild_rejected() {
	g := pedigree.New()
	child, _, _ := g.AddPerson(nil)
	a, _, _ := g.AddPerson(nil)
	b, _, _ := g.AddPerson(nil)
	c, _, _ := g.AddPerson(nil)
	first, _, _ := g.AddPartnership(a, b)
	second, _, _ := g.AddPartnership(a, c)
	_, _ = g.AddParentChild(first, child)

	_, err := g.AddParentChild(second, child)
	fmt.Println(perr.GetCode(err))
	fmt.Println("Parents unchanged:", g.ParentPartnership(child) == first)
	// Output:
	// TOO_MANY_PARENTS
	// Parents unchanged: true
}

func ExampleGraph_RemoveNode() {
	g := pedigree.New()
	child, _, _ := g.AddPerson(nil)
	mother, _, _ := g.AddPerson(nil)
	father, _, _ := g.AddPerson(nil)
	union, _, _ := g.AddPartnership(mother, father)
	_, _ = g.AddParentChild(union, child)

	d, _ := g.RemoveNode(father)
	ph := d.Created[0]
	n, _ := g.Node(ph)
	fmt.Println("Substitute:", n.Kind)
	fmt.Println("Parents:", g.Parents(child))
	// Output:
	// Substitute: placeholder
	// Parents: [1 4]
}
