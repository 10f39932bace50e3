package element

import (
	"fmt"
	"math"
)

// RigidLink makes every DOF of Dependent equal to the same DOF of Master.
type RigidLink struct {
	master, dependent *Node
}

// NewRigidLink ties dependent to master. The two nodes must differ.
func NewRigidLink(master, dependent *Node) (*RigidLink, error) {
	if master == nil || dependent == nil {
		return nil, fmt.Errorf("%w: rigid link needs a master and a dependent", ErrUnknownNode)
	}
	if master == dependent {
		return nil, fmt.Errorf("%w: rigid link ties node %d to itself", ErrConflictingConstraint, master.ID())
	}
	return &RigidLink{master: master, dependent: dependent}, nil
}

func (r *RigidLink) Kind() Kind       { return KindRigidLink }
func (r *RigidLink) Name() string     { return fmt.Sprintf("rigid %d->%d", r.master.ID(), r.dependent.ID()) }
func (r *RigidLink) Nodes() []*Node   { return []*Node{r.master, r.dependent} }
func (r *RigidLink) Master() *Node    { return r.master }
func (r *RigidLink) Dependent() *Node { return r.dependent }

// Pairs returns the (master DOF, dependent DOF) pairs, one per channel.
func (r *RigidLink) Pairs() [][2]int {
	pairs := make([][2]int, NDOF)
	for k := range pairs {
		pairs[k] = [2]int{r.master.DOF(k), r.dependent.DOF(k)}
	}
	return pairs
}

// Relations eliminates the dependent DOFs: u_dep = u_master.
func (r *RigidLink) Relations() []Relation {
	rels := make([]Relation, 0, NDOF)
	for _, p := range r.Pairs() {
		rels = append(rels, Relation{Eliminated: p[1], Terms: []Term{{DOF: p[0], Coef: 1}}})
	}
	return rels
}

// WeightedConstraint ties the master node to the weighted average of its
// dependents, channel by channel: u_master = Σ w_i·u_dep_i.
type WeightedConstraint struct {
	master     *Node
	dependents []*Node
	weights    []float64
}

// WeightedChannel is the relation of one DOF channel.
type WeightedChannel struct {
	Master     int
	Dependents []Term
}

// NewWeightedConstraint builds the constraint. Nil weights mean 1/N each; given
// weights must match the dependents and are normalised to sum to one.
func NewWeightedConstraint(master *Node, dependents []*Node, weights []float64) (*WeightedConstraint, error) {
	if master == nil {
		return nil, fmt.Errorf("%w: weighted constraint needs a master", ErrUnknownNode)
	}
	if len(dependents) == 0 {
		return nil, fmt.Errorf("%w: weighted constraint on node %d has no dependents", ErrInvalidInput, master.ID())
	}
	seen := make(map[*Node]bool, len(dependents))
	for _, d := range dependents {
		if d == nil {
			return nil, fmt.Errorf("%w: nil dependent on weighted constraint of node %d", ErrUnknownNode, master.ID())
		}
		if d == master {
			return nil, fmt.Errorf("%w: node %d depends on itself", ErrConflictingConstraint, master.ID())
		}
		if seen[d] {
			return nil, fmt.Errorf("%w: node %d listed twice as dependent", ErrInvalidInput, d.ID())
		}
		seen[d] = true
	}

	n := len(dependents)
	w := make([]float64, n)
	if weights == nil {
		for i := range w {
			w[i] = 1 / float64(n)
		}
	} else {
		if len(weights) != n {
			return nil, fmt.Errorf("%w: %d weights for %d dependents", ErrInvalidInput, len(weights), n)
		}
		sum := 0.0
		for _, v := range weights {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: weight %g", ErrInvalidInput, v)
			}
			sum += v
		}
		if math.Abs(sum) < 1e-14 {
			return nil, fmt.Errorf("%w: weights of node %d sum to zero", ErrInvalidInput, master.ID())
		}
		for i, v := range weights {
			w[i] = v / sum
		}
	}
	deps := make([]*Node, n)
	copy(deps, dependents)
	return &WeightedConstraint{master: master, dependents: deps, weights: w}, nil
}

func (c *WeightedConstraint) Kind() Kind    { return KindWeighted }
func (c *WeightedConstraint) Name() string  { return fmt.Sprintf("weighted %d", c.master.ID()) }
func (c *WeightedConstraint) Master() *Node { return c.master }

func (c *WeightedConstraint) Nodes() []*Node {
	return append([]*Node{c.master}, c.dependents...)
}

// Weights returns the normalised weights, in dependent order.
func (c *WeightedConstraint) Weights() []float64 {
	w := make([]float64, len(c.weights))
	copy(w, c.weights)
	return w
}

// Channels returns, per DOF channel, the master DOF and the weighted dependent DOFs.
func (c *WeightedConstraint) Channels() []WeightedChannel {
	chans := make([]WeightedChannel, NDOF)
	for k := range chans {
		terms := make([]Term, len(c.dependents))
		for i, d := range c.dependents {
			terms[i] = Term{DOF: d.DOF(k), Coef: c.weights[i]}
		}
		chans[k] = WeightedChannel{Master: c.master.DOF(k), Dependents: terms}
	}
	return chans
}

// Relations eliminates the master DOFs in favour of the dependents.
func (c *WeightedConstraint) Relations() []Relation {
	rels := make([]Relation, 0, NDOF)
	for _, ch := range c.Channels() {
		rels = append(rels, Relation{Eliminated: ch.Master, Terms: ch.Dependents})
	}
	return rels
}
