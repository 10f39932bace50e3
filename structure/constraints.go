package structure

import (
	"fmt"
	"sort"

	"github.com/nasoulic/3D-frame-FEA/element"
)

// resolveConstraints turns the relations of all constraint elements into
// expansions over DOFs that are not eliminated. A term naming another
// eliminated DOF is substituted by that DOF's expansion. Terms on supported
// DOFs are kept: they add nothing to displacements but carry constraint forces
// into the support reactions.
//
// The result maps each eliminated DOF to its terms sorted by DOF.
func resolveConstraints(cons []element.Constraint, supported map[int]bool) (map[int][]element.Term, error) {
	var (
		rels  = make(map[int]element.Relation)
		owner = make(map[int]string)
	)
	for _, c := range cons {
		for _, r := range c.Relations() {
			if prev, dup := owner[r.Eliminated]; dup {
				return nil, fmt.Errorf("%w: %s is driven by both %s and %s",
					element.ErrConflictingConstraint, element.DescribeDOF(r.Eliminated), prev, c.Name())
			}
			if supported[r.Eliminated] {
				return nil, fmt.Errorf("%w: %s is supported and driven by %s",
					element.ErrConflictingConstraint, element.DescribeDOF(r.Eliminated), c.Name())
			}
			rels[r.Eliminated] = r
			owner[r.Eliminated] = c.Name()
		}
	}

	const (
		unvisited uint8 = iota
		visiting
		resolved
	)
	var (
		state     = make(map[int]uint8, len(rels))
		expansion = make(map[int][]element.Term, len(rels))
		expand    func(dof int) error
	)
	expand = func(dof int) error {
		switch state[dof] {
		case visiting:
			return fmt.Errorf("%w: constraint cycle through %s (%s)",
				element.ErrConflictingConstraint, element.DescribeDOF(dof), owner[dof])
		case resolved:
			return nil
		}
		state[dof] = visiting
		acc := make(map[int]float64)
		for _, t := range rels[dof].Terms {
			if _, eliminated := rels[t.DOF]; !eliminated {
				acc[t.DOF] += t.Coef
				continue
			}
			if err := expand(t.DOF); err != nil {
				return err
			}
			for _, sub := range expansion[t.DOF] {
				acc[sub.DOF] += t.Coef * sub.Coef
			}
		}
		expansion[dof] = sortedTerms(acc)
		state[dof] = resolved
		return nil
	}

	for _, dof := range sortedIDs(rels) {
		if err := expand(dof); err != nil {
			return nil, err
		}
	}
	return expansion, nil
}

func sortedTerms(acc map[int]float64) []element.Term {
	terms := make([]element.Term, 0, len(acc))
	for dof, c := range acc {
		if c != 0 {
			terms = append(terms, element.Term{DOF: dof, Coef: c})
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].DOF < terms[j].DOF })
	return terms
}
