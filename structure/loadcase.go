package structure

import (
	"fmt"
	"sort"

	"github.com/nasoulic/3D-frame-FEA/element"
)

// LoadCase is one set of loads and supports applied to an unchanged model.
type LoadCase struct {
	Name     string
	Loads    map[int][element.NDOF]float64
	Supports map[int][]int
}

// CaseError reports the failure of a named load case.
type CaseError struct {
	Case string
	Err  error
}

func (e *CaseError) Error() string {
	return fmt.Sprintf("load case %q: %v", e.Case, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// CaseResult is the outcome of one case in RunLoadCases. Exactly one of
// Solution and Err is set.
type CaseResult struct {
	Case     string
	Solution *Solution
	Err      error
}

// SolveLoadCase replaces all loads and supports with those of lc and solves.
func (s *Structure) SolveLoadCase(lc LoadCase) (*Solution, error) {
	s.ClearLoads()
	s.ClearSupports()
	for _, id := range sortedIDs(lc.Supports) {
		if err := s.AddSupport(id, lc.Supports[id]); err != nil {
			return nil, &CaseError{Case: lc.Name, Err: err}
		}
	}
	for _, id := range sortedIDs(lc.Loads) {
		if err := s.AddLoad(id, lc.Loads[id]); err != nil {
			return nil, &CaseError{Case: lc.Name, Err: err}
		}
	}
	if _, err := s.Solve(); err != nil {
		return nil, &CaseError{Case: lc.Name, Err: err}
	}
	return s.solution, nil
}

// RunLoadCases solves each case in turn. A failing case records its error and
// does not affect the others.
func (s *Structure) RunLoadCases(cases ...LoadCase) []CaseResult {
	results := make([]CaseResult, 0, len(cases))
	for _, lc := range cases {
		sol, err := s.SolveLoadCase(lc)
		if err != nil {
			s.log.Warn("load case failed", "case", lc.Name, "err", err)
		} else {
			s.log.Info("load case solved", "case", lc.Name, "equations", sol.NumEq)
		}
		results = append(results, CaseResult{Case: lc.Name, Solution: sol, Err: err})
	}
	return results
}

func sortedIDs[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
