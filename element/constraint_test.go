package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpring(t *testing.T) {
	n1, n2 := NewNode(0, 0, 0, 0), NewNode(1, 0, 0, 0)

	t.Run("Matrix", func(t *testing.T) {
		s, err := NewSpring(n1, n2, []float64{1, 2, 0, 4, 5, 6})
		require.NoError(t, err)
		k := s.GlobalStiffness()
		for i, ki := range []float64{1, 2, 0, 4, 5, 6} {
			assert.Equal(t, ki, k.At(i, i))
			assert.Equal(t, ki, k.At(i+6, i+6))
			assert.Equal(t, -ki, k.At(i, i+6))
			assert.Equal(t, -ki, k.At(i+6, i))
		}
		assert.Zero(t, k.At(0, 1))
		assert.Zero(t, k.At(0, 7))
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, s.DOFs())
	})

	t.Run("TwelveEntries", func(t *testing.T) {
		k := []float64{1, 1, 1, 1, 1, 1, 9, 9, 9, 9, 9, 9}
		s, err := NewSpring(n1, n2, k)
		require.NoError(t, err)
		assert.Equal(t, [NDOF]float64{1, 1, 1, 1, 1, 1}, s.Stiffness())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewSpring(n1, n2, []float64{1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewSpring(n1, n2, []float64{1, 2, 3, 4, 5, -6})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewSpring(n1, n1, []float64{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewSpring(nil, n1, []float64{1, 2, 3, 4, 5, 6})
		assert.ErrorIs(t, err, ErrUnknownNode)
	})

	t.Run("Forces", func(t *testing.T) {
		s, err := NewSpring(n1, n2, []float64{10, 10, 10, 10, 10, 10})
		require.NoError(t, err)
		u := make([]float64, 12)
		u[6], u[0] = 0.5, 0.2
		f, err := s.Forces(u)
		require.NoError(t, err)
		assert.InDelta(t, 3, f[0], 1e-12)
		_, err = s.Forces(u[:8])
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRigidLink(t *testing.T) {
	m, d := NewNode(2, 0, 0, 0), NewNode(5, 1, 0, 0)
	r, err := NewRigidLink(m, d)
	require.NoError(t, err)
	assert.Equal(t, KindRigidLink, r.Kind())

	pairs := r.Pairs()
	require.Len(t, pairs, NDOF)
	assert.Equal(t, [2]int{12, 30}, pairs[0])
	assert.Equal(t, [2]int{17, 35}, pairs[5])

	rels := r.Relations()
	require.Len(t, rels, NDOF)
	for k, rel := range rels {
		assert.Equal(t, d.DOF(k), rel.Eliminated)
		assert.Equal(t, []Term{{DOF: m.DOF(k), Coef: 1}}, rel.Terms)
	}

	_, err = NewRigidLink(m, m)
	assert.ErrorIs(t, err, ErrConflictingConstraint)
	_, err = NewRigidLink(nil, m)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestWeightedConstraint(t *testing.T) {
	m := NewNode(0, 0, 0, 0)
	d1, d2, d3 := NewNode(1, 1, 0, 0), NewNode(2, 0, 1, 0), NewNode(3, 0, 0, 1)

	t.Run("DefaultWeights", func(t *testing.T) {
		c, err := NewWeightedConstraint(m, []*Node{d1, d2, d3}, nil)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, c.Weights(), 1e-15)
	})

	t.Run("Normalised", func(t *testing.T) {
		c, err := NewWeightedConstraint(m, []*Node{d1, d2}, []float64{1, 3})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0.25, 0.75}, c.Weights(), 1e-15)

		chans := c.Channels()
		require.Len(t, chans, NDOF)
		assert.Equal(t, m.DOF(2), chans[2].Master)
		assert.Equal(t, []Term{{DOF: d1.DOF(2), Coef: 0.25}, {DOF: d2.DOF(2), Coef: 0.75}}, chans[2].Dependents)

		rels := c.Relations()
		require.Len(t, rels, NDOF)
		assert.Equal(t, m.DOF(4), rels[4].Eliminated)
		assert.Len(t, rels[4].Terms, 2)
		assert.Equal(t, []*Node{m, d1, d2}, c.Nodes())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewWeightedConstraint(m, nil, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewWeightedConstraint(m, []*Node{d1, d2}, []float64{1})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewWeightedConstraint(m, []*Node{d1, d2}, []float64{1, -1})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewWeightedConstraint(m, []*Node{d1, d1}, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = NewWeightedConstraint(m, []*Node{d1, m}, nil)
		assert.ErrorIs(t, err, ErrConflictingConstraint)
		_, err = NewWeightedConstraint(m, []*Node{d1, nil}, nil)
		assert.ErrorIs(t, err, ErrUnknownNode)
	})
}

func TestDOFLabels(t *testing.T) {
	assert.Equal(t, "node 3 Rz", DescribeDOF(23))
	assert.Equal(t, "node 0 Ux", DescribeDOF(0))
	assert.Equal(t, "dof7", DOFLabel(7))
	assert.Equal(t, "rigid-link", KindRigidLink.String())
}
