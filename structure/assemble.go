package structure

import (
	"gonum.org/v1/gonum/mat"

	"github.com/nasoulic/3D-frame-FEA/element"
)

// assemble scatters the global stiffness of every beam and spring into the full
// 6N×6N matrix and collects the nodal loads into F. The structure must have at
// least one node.
func (s *Structure) assemble() (k *mat.SymDense, f *mat.VecDense) {
	ndof := s.NumDOF()
	k = mat.NewSymDense(ndof, nil)
	f = mat.NewVecDense(ndof, nil)

	for _, e := range s.elements {
		st, ok := e.(element.Stiffener)
		if !ok {
			continue
		}
		dofs := st.DOFs()
		ke := st.GlobalStiffness()
		for i, I := range dofs {
			for j := i; j < len(dofs); j++ {
				v := ke.At(i, j)
				if v == 0 {
					continue
				}
				J := dofs[j]
				k.SetSym(I, J, k.At(I, J)+v)
			}
		}
	}

	for id, load := range s.loads {
		for c, v := range load {
			f.SetVec(element.NDOF*id+c, v)
		}
	}
	return
}

// supportedDOFs returns the set of fixed global DOFs.
func (s *Structure) supportedDOFs() map[int]bool {
	fixed := make(map[int]bool)
	for id, dofs := range s.supports {
		for _, c := range dofs {
			fixed[element.NDOF*id+c] = true
		}
	}
	return fixed
}
