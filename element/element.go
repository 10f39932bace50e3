package element

import "gonum.org/v1/gonum/mat"

// Kind tags the element variants a structure can hold.
type Kind uint8

const (
	KindBeam Kind = iota
	KindSpring
	KindRigidLink
	KindWeighted
)

func (k Kind) String() string {
	switch k {
	case KindBeam:
		return "beam"
	case KindSpring:
		return "spring"
	case KindRigidLink:
		return "rigid-link"
	case KindWeighted:
		return "weighted-constraint"
	}
	return "unknown"
}

// Element is implemented by every member of a structure.
type Element interface {
	Kind() Kind
	Name() string
	Nodes() []*Node
}

// Stiffener is an element contributing stiffness between two nodes.
type Stiffener interface {
	Element

	// DOFs returns the 12 global DOF indices [node1 DOFs, node2 DOFs]
	DOFs() []int

	// GlobalStiffness returns the 12×12 stiffness in global axes, ordered as DOFs
	GlobalStiffness() mat.Symmetric
}

// Constraint is a multi-point constraint between node DOFs.
type Constraint interface {
	Element

	// Relations returns one relation per eliminated DOF
	Relations() []Relation
}

// Term is one coefficient of a linear DOF relation.
type Term struct {
	DOF  int
	Coef float64
}

// Relation expresses u[Eliminated] = Σ Coef·u[DOF] over Terms.
type Relation struct {
	Eliminated int
	Terms      []Term
}

// pairDOFs concatenates the DOFs of two nodes.
func pairDOFs(n1, n2 *Node) []int {
	dofs := make([]int, 0, 2*NDOF)
	for k := 0; k < NDOF; k++ {
		dofs = append(dofs, n1.DOF(k))
	}
	for k := 0; k < NDOF; k++ {
		dofs = append(dofs, n2.DOF(k))
	}
	return dofs
}
