package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Spring couples two nodes channel by channel with no coordinate transform:
// stiffness k[i] links DOF i of node1 with DOF i of node2. A zero entry
// leaves that channel uncoupled.
type Spring struct {
	n1, n2 *Node
	k      [NDOF]float64
	kg     *mat.SymDense
}

// NewSpring accepts 6 or 12 stiffness values; only the first six are used.
func NewSpring(n1, n2 *Node, k []float64) (*Spring, error) {
	if n1 == nil || n2 == nil {
		return nil, fmt.Errorf("%w: spring needs two nodes", ErrUnknownNode)
	}
	if len(k) != NDOF && len(k) != 2*NDOF {
		return nil, fmt.Errorf("%w: spring %d-%d stiffness vector must have 6 or 12 entries, got %d",
			ErrInvalidInput, n1.ID(), n2.ID(), len(k))
	}
	if n1 == n2 {
		return nil, fmt.Errorf("%w: spring connects node %d to itself", ErrInvalidInput, n1.ID())
	}
	s := &Spring{n1: n1, n2: n2}
	for i := 0; i < NDOF; i++ {
		if k[i] < 0 || math.IsNaN(k[i]) || math.IsInf(k[i], 0) {
			return nil, fmt.Errorf("%w: spring %d-%d stiffness[%d] = %g", ErrInvalidInput, n1.ID(), n2.ID(), i, k[i])
		}
		s.k[i] = k[i]
	}
	s.kg = mat.NewSymDense(2*NDOF, nil)
	for i, ki := range s.k {
		if ki == 0 {
			continue
		}
		s.kg.SetSym(i, i, ki)
		s.kg.SetSym(i+NDOF, i+NDOF, ki)
		s.kg.SetSym(i, i+NDOF, -ki)
	}
	return s, nil
}

func (s *Spring) Kind() Kind     { return KindSpring }
func (s *Spring) Name() string   { return fmt.Sprintf("spring %d-%d", s.n1.ID(), s.n2.ID()) }
func (s *Spring) Nodes() []*Node { return []*Node{s.n1, s.n2} }
func (s *Spring) DOFs() []int    { return pairDOFs(s.n1, s.n2) }

// Stiffness returns the per-channel stiffness values.
func (s *Spring) Stiffness() [NDOF]float64 { return s.k }

func (s *Spring) GlobalStiffness() mat.Symmetric { return s.kg }

// Forces returns the spring force per channel, k·(u2 - u1), positive in tension.
func (s *Spring) Forces(u []float64) ([NDOF]float64, error) {
	var f [NDOF]float64
	if hi := s.n2.DOF(NDOF - 1); hi >= len(u) || s.n1.DOF(NDOF-1) >= len(u) {
		return f, fmt.Errorf("%w: displacement vector has %d entries, %s needs more", ErrInvalidInput, len(u), s.Name())
	}
	for i, ki := range s.k {
		f[i] = ki * (u[s.n2.DOF(i)] - u[s.n1.DOF(i)])
	}
	return f, nil
}
