// Package structure assembles and solves linear static 3D frame models built from
// beams, springs and multi-point constraints with the direct stiffness method.
//
// A Structure is built incrementally and solved on demand:
//
//	s := structure.NewDefault()
//	n0 := s.AddNode(0, 0, 0)
//	n1 := s.AddNode(2000, 0, 0)
//	s.AddBeam(n0, n1, props)
//	s.AddSupport(n0.ID(), []int{0, 1, 2, 3, 4, 5})
//	s.AddLoad(n1.ID(), [6]float64{0, 0, -1000, 0, 0, 0})
//	u, err := s.Solve()
//
// Every Solve rebuilds the full system from the current model. A Structure is not
// safe for concurrent use.
package structure

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/nasoulic/3D-frame-FEA/element"
)

// State of a Structure with respect to its last solve.
type State uint8

const (
	Open   State = iota // model changed since the last solve, or never solved
	Solved              // last Solve succeeded and the model is unchanged
)

func (st State) String() string {
	if st == Solved {
		return "solved"
	}
	return "open"
}

// Structure owns the nodes, elements, loads and supports of a model.
type Structure struct {
	cfg Config
	log *slog.Logger

	nodes    []*element.Node
	elements []element.Element

	loads    map[int][element.NDOF]float64 // node id → [Fx Fy Fz Mx My Mz]
	supports map[int][]int                 // node id → fixed local DOFs

	state    State
	solution *Solution
}

// New creates an empty structure.
func New(cfg Config) *Structure {
	cfg = cfg.withDefaults()
	return &Structure{
		cfg:      cfg,
		log:      cfg.Logger,
		loads:    make(map[int][element.NDOF]float64),
		supports: make(map[int][]int),
	}
}

// NewDefault creates an empty structure with DefaultConfig.
func NewDefault() *Structure {
	return New(DefaultConfig())
}

// Config returns the configuration with defaults applied.
func (s *Structure) Config() Config { return s.cfg }
func (s *Structure) State() State   { return s.state }

// Solution returns the result of the last successful solve, or nil when the
// model changed since.
func (s *Structure) Solution() *Solution { return s.solution }

func (s *Structure) invalidate() {
	s.state = Open
	s.solution = nil
}

// AddNode appends a node; its id is the insertion index.
func (s *Structure) AddNode(x, y, z float64) *element.Node {
	n := element.NewNode(len(s.nodes), x, y, z)
	s.nodes = append(s.nodes, n)
	s.invalidate()
	return n
}

// Node returns the node with the given id.
func (s *Structure) Node(id int) (*element.Node, error) {
	if id < 0 || id >= len(s.nodes) {
		return nil, fmt.Errorf("%w: id %d (structure has %d nodes)", element.ErrUnknownNode, id, len(s.nodes))
	}
	return s.nodes[id], nil
}

// Nodes returns the nodes in id order.
func (s *Structure) Nodes() []*element.Node {
	nodes := make([]*element.Node, len(s.nodes))
	copy(nodes, s.nodes)
	return nodes
}

// NumNodes and NumDOF size the full system, six DOFs per node.
func (s *Structure) NumNodes() int { return len(s.nodes) }
func (s *Structure) NumDOF() int   { return element.NDOF * len(s.nodes) }

// owns checks that n was created by this structure.
func (s *Structure) owns(n *element.Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", element.ErrUnknownNode)
	}
	if n.ID() < 0 || n.ID() >= len(s.nodes) || s.nodes[n.ID()] != n {
		return fmt.Errorf("%w: %v does not belong to this structure", element.ErrUnknownNode, n)
	}
	return nil
}

func (s *Structure) ownsAll(nodes ...*element.Node) error {
	for _, n := range nodes {
		if err := s.owns(n); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) addElement(e element.Element) {
	s.elements = append(s.elements, e)
	s.invalidate()
}

// AddBeam adds a beam between two nodes of this structure.
func (s *Structure) AddBeam(n1, n2 *element.Node, props *element.BeamProperties) (*element.Beam, error) {
	if err := s.ownsAll(n1, n2); err != nil {
		return nil, err
	}
	b, err := element.NewBeam(n1, n2, props, s.cfg.Orientation)
	if err != nil {
		return nil, err
	}
	s.addElement(b)
	return b, nil
}

// AddSpring adds a spring with 6 (or 12, first six used) channel stiffnesses.
func (s *Structure) AddSpring(n1, n2 *element.Node, k []float64) (*element.Spring, error) {
	if err := s.ownsAll(n1, n2); err != nil {
		return nil, err
	}
	sp, err := element.NewSpring(n1, n2, k)
	if err != nil {
		return nil, err
	}
	s.addElement(sp)
	return sp, nil
}

// AddRigidLink makes every DOF of dependent follow master.
func (s *Structure) AddRigidLink(master, dependent *element.Node) (*element.RigidLink, error) {
	if err := s.ownsAll(master, dependent); err != nil {
		return nil, err
	}
	r, err := element.NewRigidLink(master, dependent)
	if err != nil {
		return nil, err
	}
	s.addElement(r)
	return r, nil
}

// AddRigidLinks links several dependents to one master. Nothing is added on error.
func (s *Structure) AddRigidLinks(master *element.Node, dependents ...*element.Node) ([]*element.RigidLink, error) {
	links := make([]*element.RigidLink, 0, len(dependents))
	for _, d := range dependents {
		if err := s.ownsAll(master, d); err != nil {
			return nil, err
		}
		r, err := element.NewRigidLink(master, d)
		if err != nil {
			return nil, err
		}
		links = append(links, r)
	}
	for _, r := range links {
		s.addElement(r)
	}
	return links, nil
}

// AddWeightedConstraint ties master to the weighted average of dependents.
// Nil weights mean equal weights.
func (s *Structure) AddWeightedConstraint(master *element.Node, dependents []*element.Node,
	weights []float64) (*element.WeightedConstraint, error) {
	if err := s.ownsAll(append([]*element.Node{master}, dependents...)...); err != nil {
		return nil, err
	}
	c, err := element.NewWeightedConstraint(master, dependents, weights)
	if err != nil {
		return nil, err
	}
	s.addElement(c)
	return c, nil
}

// AddSupport fixes the given local DOFs (0..5) of a node, replacing any
// previous support of that node. An empty list removes the support.
func (s *Structure) AddSupport(nodeID int, dofs []int) error {
	if _, err := s.Node(nodeID); err != nil {
		return err
	}
	set := make(map[int]bool, len(dofs))
	for _, k := range dofs {
		if !element.ValidDOF(k) {
			return fmt.Errorf("%w: support DOF %d on node %d outside 0..5", element.ErrInvalidInput, k, nodeID)
		}
		set[k] = true
	}
	s.invalidate()
	if len(set) == 0 {
		delete(s.supports, nodeID)
		return nil
	}
	fixed := make([]int, 0, len(set))
	for k := range set {
		fixed = append(fixed, k)
	}
	sort.Ints(fixed)
	s.supports[nodeID] = fixed
	return nil
}

// AddLoad sets the nodal load [Fx Fy Fz Mx My Mz], replacing any previous load
// on that node.
func (s *Structure) AddLoad(nodeID int, load [element.NDOF]float64) error {
	if _, err := s.Node(nodeID); err != nil {
		return err
	}
	for k, v := range load {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: load %s on node %d is %g", element.ErrInvalidInput, element.DOFLabel(k), nodeID, v)
		}
	}
	s.loads[nodeID] = load
	s.invalidate()
	return nil
}

// ClearLoads removes all nodal loads.
func (s *Structure) ClearLoads() {
	s.loads = make(map[int][element.NDOF]float64)
	s.invalidate()
}

// ClearSupports removes all supports.
func (s *Structure) ClearSupports() {
	s.supports = make(map[int][]int)
	s.invalidate()
}

// Loads returns a copy of the applied loads.
func (s *Structure) Loads() map[int][element.NDOF]float64 {
	loads := make(map[int][element.NDOF]float64, len(s.loads))
	for id, l := range s.loads {
		loads[id] = l
	}
	return loads
}

// Supports returns a copy of the supports.
func (s *Structure) Supports() map[int][]int {
	sup := make(map[int][]int, len(s.supports))
	for id, dofs := range s.supports {
		sup[id] = append([]int(nil), dofs...)
	}
	return sup
}

// Elements returns all elements in insertion order.
func (s *Structure) Elements() []element.Element {
	els := make([]element.Element, len(s.elements))
	copy(els, s.elements)
	return els
}

// Beams returns the beams in insertion order.
func (s *Structure) Beams() []*element.Beam {
	var beams []*element.Beam
	for _, e := range s.elements {
		if b, ok := e.(*element.Beam); ok {
			beams = append(beams, b)
		}
	}
	return beams
}

// Springs returns the springs in insertion order.
func (s *Structure) Springs() []*element.Spring {
	var springs []*element.Spring
	for _, e := range s.elements {
		if sp, ok := e.(*element.Spring); ok {
			springs = append(springs, sp)
		}
	}
	return springs
}

// Constraints returns rigid links and weighted constraints in insertion order.
func (s *Structure) Constraints() []element.Constraint {
	var cons []element.Constraint
	for _, e := range s.elements {
		if c, ok := e.(element.Constraint); ok {
			cons = append(cons, c)
		}
	}
	return cons
}
