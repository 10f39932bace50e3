package structure

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nasoulic/3D-frame-FEA/element"
	"github.com/nasoulic/3D-frame-FEA/utils"
)

// Solution is the result of a successful solve.
type Solution struct {
	U         []float64 // global displacements, 6 per node
	Reactions []float64 // support reactions R = K·U - F, zero at unsupported DOFs
	NumEq     int       // size of the reduced system
}

// Displacements returns a copy of U.
func (sol *Solution) Displacements() []float64 {
	u := make([]float64, len(sol.U))
	copy(u, sol.U)
	return u
}

// NodeDisplacement returns [Ux Uy Uz Rx Ry Rz] of a node.
func (sol *Solution) NodeDisplacement(id int) ([element.NDOF]float64, error) {
	return nodeSlice(sol.U, id)
}

// NodeReaction returns the reaction forces and moments at a node.
func (sol *Solution) NodeReaction(id int) ([element.NDOF]float64, error) {
	return nodeSlice(sol.Reactions, id)
}

func nodeSlice(v []float64, id int) ([element.NDOF]float64, error) {
	var out [element.NDOF]float64
	if id < 0 || element.NDOF*(id+1) > len(v) {
		return out, fmt.Errorf("%w: id %d", element.ErrUnknownNode, id)
	}
	copy(out[:], v[element.NDOF*id:])
	return out, nil
}

// Solve assembles and solves K·U = F with supports and constraints applied.
// It returns a copy of the global displacement vector. On error the structure
// stays open and no solution is kept.
func (s *Structure) Solve() ([]float64, error) {
	sol, err := s.solve()
	if err != nil {
		s.invalidate()
		return nil, err
	}
	s.solution = sol
	s.state = Solved
	return sol.Displacements(), nil
}

// entry is one nonzero of a row of the constraint transformation T.
type entry struct {
	eq   int
	coef float64
}

func (s *Structure) solve() (*Solution, error) {
	ndof := s.NumDOF()
	if ndof == 0 {
		return &Solution{}, nil
	}

	supported := s.supportedDOFs()
	expansion, err := resolveConstraints(s.Constraints(), supported)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int]bool, len(supported)+len(expansion))
	for dof := range supported {
		excluded[dof] = true
	}
	for dof := range expansion {
		excluded[dof] = true
	}
	dm, err := utils.NewDOFMap(ndof, excluded)
	if err != nil {
		return nil, err
	}
	if err := dm.Verify(); err != nil {
		return nil, fmt.Errorf("equation numbering: %w", err)
	}

	k, f := s.assemble()
	s.log.Debug("assembled",
		"nodes", len(s.nodes), "elements", len(s.elements), "dofs", ndof)
	s.log.Debug("reduced system",
		"equations", dm.NumEq, "excluded", len(dm.Excluded), "eliminated", len(expansion))

	rows := transformRows(dm, expansion)
	ur := make([]float64, dm.NumEq)
	if dm.NumEq > 0 {
		kr := reduceStiffness(k, rows, dm.NumEq)
		fr, err := reduceLoads(f, dm, rows)
		if err != nil {
			return nil, err
		}
		if ur, err = s.factorSolve(kr, fr, dm); err != nil {
			return nil, err
		}
	}

	// free DOFs take their equation value, eliminated DOFs their expansion
	u := make([]float64, ndof)
	if err := dm.Place(ur, u); err != nil {
		return nil, err
	}
	for _, dof := range dm.Excluded {
		for _, e := range rows[dof] {
			u[dof] += e.coef * ur[e.eq]
		}
	}

	return &Solution{U: u, Reactions: reactions(k, f, u, supported, expansion), NumEq: dm.NumEq}, nil
}

// reactions returns R = K·U - F at supported DOFs. The residual at an
// eliminated DOF is its constraint force; it is passed on to the supported
// DOFs of its expansion so that reactions balance the applied loads.
func reactions(k *mat.SymDense, f *mat.VecDense, u []float64, supported map[int]bool,
	expansion map[int][]element.Term) []float64 {
	var ku mat.VecDense
	ku.MulVec(k, mat.NewVecDense(len(u), u))
	res := make([]float64, len(u))
	floats.SubTo(res, ku.RawVector().Data, f.RawVector().Data)

	r := make([]float64, len(u))
	for dof := range supported {
		r[dof] = res[dof]
	}
	for _, dof := range sortedIDs(expansion) {
		for _, t := range expansion[dof] {
			if supported[t.DOF] {
				r[t.DOF] += t.Coef * res[dof]
			}
		}
	}
	return r
}

// transformRows builds the rows of T with u = T·u_r: free DOFs map to their own
// equation, eliminated DOFs to the free part of their expansion, supported DOFs
// to nothing.
func transformRows(dm *utils.DOFMap, expansion map[int][]element.Term) [][]entry {
	rows := make([][]entry, dm.NumDOF)
	for dof := range rows {
		if dm.IsFree(dof) {
			rows[dof] = []entry{{eq: dm.Eq[dof], coef: 1}}
			continue
		}
		for _, t := range expansion[dof] {
			if dm.IsFree(t.DOF) {
				rows[dof] = append(rows[dof], entry{eq: dm.Eq[t.DOF], coef: t.Coef})
			}
		}
	}
	return rows
}

// reduceStiffness forms K_r = Tᵀ·K·T. Only the upper triangle is accumulated.
func reduceStiffness(k *mat.SymDense, rows [][]entry, neq int) *mat.SymDense {
	kr := mat.NewSymDense(neq, nil)
	raw := kr.RawSymmetric()
	for i, ri := range rows {
		if len(ri) == 0 {
			continue
		}
		for j, rj := range rows {
			kij := k.At(i, j)
			if kij == 0 || len(rj) == 0 {
				continue
			}
			for _, a := range ri {
				for _, b := range rj {
					if a.eq <= b.eq {
						raw.Data[a.eq*raw.Stride+b.eq] += a.coef * kij * b.coef
					}
				}
			}
		}
	}
	return kr
}

// reduceLoads forms F_r = Tᵀ·F: the free entries of F picked in equation
// order, plus the loads on eliminated DOFs passed through their expansions.
func reduceLoads(f *mat.VecDense, dm *utils.DOFMap, rows [][]entry) (*mat.VecDense, error) {
	picked, err := dm.Pick(f.RawVector().Data)
	if err != nil {
		return nil, err
	}
	fr := mat.NewVecDense(dm.NumEq, picked)
	for _, dof := range dm.Excluded {
		fi := f.AtVec(dof)
		if fi == 0 {
			continue
		}
		for _, a := range rows[dof] {
			fr.SetVec(a.eq, fr.AtVec(a.eq)+a.coef*fi)
		}
	}
	return fr, nil
}

// factorSolve solves K_r·u_r = F_r by Cholesky factorisation. Any sign of a
// mechanism is reported as ErrSingularSystem naming the weakest DOF.
func (s *Structure) factorSolve(kr *mat.SymDense, fr *mat.VecDense, dm *utils.DOFMap) ([]float64, error) {
	for eq := 0; eq < dm.NumEq; eq++ {
		if !(kr.At(eq, eq) > 0) {
			return nil, fmt.Errorf("%w: no stiffness at %s",
				element.ErrSingularSystem, element.DescribeDOF(dm.PickIndices[eq]))
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(kr); !ok {
		return nil, fmt.Errorf("%w: reduced stiffness with %d equations is not positive definite",
			element.ErrSingularSystem, dm.NumEq)
	}

	var l mat.TriDense
	chol.LTo(&l)
	worst, at := 0.0, 0
	for eq := 0; eq < dm.NumEq; eq++ {
		p := l.At(eq, eq)
		if ratio := kr.At(eq, eq) / (p * p); ratio > worst {
			worst, at = ratio, eq
		}
	}
	s.log.Debug("factorised", "max_pivot_ratio", worst, "at", element.DescribeDOF(dm.PickIndices[at]))
	if worst > s.cfg.MaxPivotRatio {
		return nil, fmt.Errorf("%w: %s is unrestrained (pivot ratio %.3g)",
			element.ErrSingularSystem, element.DescribeDOF(dm.PickIndices[at]), worst)
	}

	var ur mat.VecDense
	if err := chol.SolveVecTo(&ur, fr); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: condition number %.3g", element.ErrSingularSystem, float64(cond))
		}
		return nil, err
	}
	return ur.RawVector().Data, nil
}
