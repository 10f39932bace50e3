package structure

import (
	"fmt"

	"github.com/nasoulic/3D-frame-FEA/element"
)

// BeamResult holds the recovered end forces and node1 stresses of one beam.
type BeamResult struct {
	Index    int // position among Beams()
	Beam     *element.Beam
	Forces   []float64 // local end forces [N1 Vy1 Vz1 T1 My1 Mz1  N2 ... Mz2]
	Stresses element.Stresses

	// HasStresses is false when the beam's properties carry neither section
	// dimensions nor fibre distances; Stresses is then zero.
	HasStresses bool
}

// BeamResults recovers forces and stresses of every beam from a displacement
// vector. Stresses use the fibre distances of each beam's properties; beams
// without them still report their forces.
func (s *Structure) BeamResults(u []float64) ([]BeamResult, error) {
	if len(u) != s.NumDOF() {
		return nil, fmt.Errorf("%w: displacement vector has %d entries, structure has %d DOFs",
			element.ErrInvalidInput, len(u), s.NumDOF())
	}
	beams := s.Beams()
	results := make([]BeamResult, 0, len(beams))
	for i, b := range beams {
		f, err := b.InternalForces(u)
		if err != nil {
			return nil, err
		}
		res := BeamResult{Index: i, Beam: b, Forces: f}
		if c, err := b.Properties().DefaultFibres(); err == nil {
			if res.Stresses, err = b.Stresses(f, c); err != nil {
				return nil, err
			}
			res.HasStresses = true
		} else {
			s.log.Debug("no fibre distances, stresses skipped", "beam", b.Name())
		}
		results = append(results, res)
	}
	return results, nil
}

// SpringForces returns the channel forces k·(u2 - u1) of every spring.
func (s *Structure) SpringForces(u []float64) ([][element.NDOF]float64, error) {
	springs := s.Springs()
	forces := make([][element.NDOF]float64, 0, len(springs))
	for _, sp := range springs {
		f, err := sp.Forces(u)
		if err != nil {
			return nil, err
		}
		forces = append(forces, f)
	}
	return forces, nil
}
