package utils

import (
	"fmt"
)

// DOFMap numbers the independent equations of a structure and holds the pick
// and place indices between the full DOF vector and the reduced system
type DOFMap struct {
	NumDOF int // Total DOFs in the full vector
	NumEq  int // Independent equations

	// Full DOF → equation number, -1 for excluded (supported or eliminated) DOFs
	Eq []int

	// Equation number → full DOF
	PickIndices []int

	// Excluded DOFs in ascending order
	Excluded []int
}

// NewDOFMap numbers every DOF in [0, numDOF) that is not excluded, in ascending order
func NewDOFMap(numDOF int, excluded map[int]bool) (*DOFMap, error) {
	if numDOF < 0 {
		return nil, fmt.Errorf("invalid dimensions: numDOF=%d", numDOF)
	}
	for dof := range excluded {
		if dof < 0 || dof >= numDOF {
			return nil, fmt.Errorf("excluded DOF %d outside [0, %d)", dof, numDOF)
		}
	}

	dm := &DOFMap{
		NumDOF:      numDOF,
		Eq:          make([]int, numDOF),
		PickIndices: make([]int, 0, numDOF-len(excluded)),
		Excluded:    make([]int, 0, len(excluded)),
	}
	for dof := 0; dof < numDOF; dof++ {
		if excluded[dof] {
			dm.Eq[dof] = -1
			dm.Excluded = append(dm.Excluded, dof)
			continue
		}
		dm.Eq[dof] = len(dm.PickIndices)
		dm.PickIndices = append(dm.PickIndices, dof)
	}
	dm.NumEq = len(dm.PickIndices)
	return dm, nil
}

// IsFree reports whether dof has an equation number
func (dm *DOFMap) IsFree(dof int) bool {
	return dof >= 0 && dof < dm.NumDOF && dm.Eq[dof] >= 0
}

// Pick gathers the independent entries of a full vector
func (dm *DOFMap) Pick(full []float64) ([]float64, error) {
	if len(full) != dm.NumDOF {
		return nil, fmt.Errorf("full vector length %d does not match %d DOFs", len(full), dm.NumDOF)
	}
	reduced := make([]float64, dm.NumEq)
	for eq, dof := range dm.PickIndices {
		reduced[eq] = full[dof]
	}
	return reduced, nil
}

// Place scatters reduced values into a full vector, leaving excluded entries untouched
func (dm *DOFMap) Place(reduced, full []float64) error {
	if len(reduced) != dm.NumEq {
		return fmt.Errorf("reduced vector length %d does not match %d equations", len(reduced), dm.NumEq)
	}
	if len(full) != dm.NumDOF {
		return fmt.Errorf("full vector length %d does not match %d DOFs", len(full), dm.NumDOF)
	}
	for eq, dof := range dm.PickIndices {
		full[dof] = reduced[eq]
	}
	return nil
}

// Verify checks index validity and that the numbering is a bijection
func (dm *DOFMap) Verify() error {
	// Verify 1: Local validity - all pick indices are within bounds and ascending
	for eq, dof := range dm.PickIndices {
		if dof < 0 || dof >= dm.NumDOF {
			return fmt.Errorf("invalid pick index %d for equation %d (max %d)", dof, eq, dm.NumDOF-1)
		}
		if eq > 0 && dof <= dm.PickIndices[eq-1] {
			return fmt.Errorf("pick indices not ascending at equation %d", eq)
		}
	}

	// Verify 2: Correspondence - Eq and PickIndices invert each other
	for eq, dof := range dm.PickIndices {
		if dm.Eq[dof] != eq {
			return fmt.Errorf("equation mismatch: Eq[%d]=%d, expected %d", dof, dm.Eq[dof], eq)
		}
	}
	for _, dof := range dm.Excluded {
		if dm.Eq[dof] != -1 {
			return fmt.Errorf("excluded DOF %d has equation %d", dof, dm.Eq[dof])
		}
	}

	// Verify 3: Conservation - every DOF is either free or excluded
	if dm.NumEq+len(dm.Excluded) != dm.NumDOF {
		return fmt.Errorf("conservation error: %d equations + %d excluded != %d DOFs",
			dm.NumEq, len(dm.Excluded), dm.NumDOF)
	}

	return nil
}
