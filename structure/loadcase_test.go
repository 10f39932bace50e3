package structure

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasoulic/3D-frame-FEA/element"
)

func TestLoadCases(t *testing.T) {
	p := square(t)
	s, n0, n1 := cantilever(t, p)
	clamp := map[int][]int{n0.ID(): fixedAll}

	down := LoadCase{
		Name:     "down",
		Loads:    map[int][6]float64{n1.ID(): {0, 0, -load, 0, 0, 0}},
		Supports: clamp,
	}
	side := LoadCase{
		Name:     "side",
		Loads:    map[int][6]float64{n1.ID(): {0, load / 2, 0, 0, 0, 0}},
		Supports: clamp,
	}
	loose := LoadCase{
		Name:  "loose",
		Loads: map[int][6]float64{n1.ID(): {0, 0, -load, 0, 0, 0}},
	}
	badDOF := LoadCase{
		Name:     "bad-dof",
		Supports: map[int][]int{n0.ID(): {9}},
	}

	results := s.RunLoadCases(down, loose, side, badDOF, down)
	require.Len(t, results, 5)

	t.Run("Independent", func(t *testing.T) {
		first, last := results[0], results[4]
		require.NoError(t, first.Err)
		require.NoError(t, last.Err)
		assert.InDeltaSlice(t, first.Solution.U, last.Solution.U, 1e-12)

		sideU, err := results[2].Solution.NodeDisplacement(n1.ID())
		require.NoError(t, err)
		assert.InDelta(t, 0, sideU[2], 1e-12)
		assert.InDelta(t, load/2*math.Pow(length, 3)/(3*youngs*p.Iz()), sideU[1], 1e-6)
	})

	t.Run("FailuresIsolated", func(t *testing.T) {
		assert.Nil(t, results[1].Solution)
		assert.ErrorIs(t, results[1].Err, element.ErrSingularSystem)
		var ce *CaseError
		require.True(t, errors.As(results[1].Err, &ce))
		assert.Equal(t, "loose", ce.Case)
		assert.Contains(t, ce.Error(), `load case "loose"`)

		assert.ErrorIs(t, results[3].Err, element.ErrInvalidInput)
		assert.Equal(t, "bad-dof", results[3].Case)
	})

	t.Run("ModelKept", func(t *testing.T) {
		assert.Len(t, s.Beams(), 1)
		assert.Equal(t, Solved, s.State())
		assert.Equal(t, down.Loads, s.Loads())
	})

	t.Run("SolveLoadCase", func(t *testing.T) {
		sol, err := s.SolveLoadCase(side)
		require.NoError(t, err)
		assert.Same(t, s.Solution(), sol)
		assert.InDeltaSlice(t, results[2].Solution.U, sol.U, 1e-12)
	})
}
