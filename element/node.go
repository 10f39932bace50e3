package element

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NDOF is the number of degrees of freedom per node: Ux, Uy, Uz, Rx, Ry, Rz.
const NDOF = 6

// Node is a point in space owning six global DOFs numbered 6*ID+k.
// Coordinates are fixed at creation; elements cache matrices derived from them.
type Node struct {
	id int
	x  r3.Vec
}

// NewNode creates a node. Only the owning structure should call this, using the
// insertion index as id.
func NewNode(id int, x, y, z float64) *Node {
	return &Node{id: id, x: r3.Vec{X: x, Y: y, Z: z}}
}

// ID returns the insertion index of the node.
func (n *Node) ID() int { return n.id }

// Coords returns the node position.
func (n *Node) Coords() r3.Vec { return n.x }

// DOFs returns the global DOF indices [Ux, Uy, Uz, Rx, Ry, Rz].
func (n *Node) DOFs() (dofs [NDOF]int) {
	for k := range dofs {
		dofs[k] = NDOF*n.id + k
	}
	return
}

// DOF returns the global index of local DOF k.
func (n *Node) DOF(k int) int { return NDOF*n.id + k }

func (n *Node) String() string {
	return fmt.Sprintf("node %d (%g, %g, %g)", n.id, n.x.X, n.x.Y, n.x.Z)
}

// ValidDOF reports whether k is a local DOF index 0..5.
func ValidDOF(k int) bool { return k >= 0 && k < NDOF }

var dofLabels = [NDOF]string{"Ux", "Uy", "Uz", "Rx", "Ry", "Rz"}

// DOFLabel names local DOF k.
func DOFLabel(k int) string {
	if !ValidDOF(k) {
		return fmt.Sprintf("dof%d", k)
	}
	return dofLabels[k]
}

// DescribeDOF names a global DOF index as "node n Ux".
func DescribeDOF(dof int) string {
	return fmt.Sprintf("node %d %s", dof/NDOF, DOFLabel(dof%NDOF))
}
