// Package solver produces closed-form solutions. It never guesses: a
// problem it cannot solve exactly is an error.
package solver

import (
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
)

type Solver struct {
	sink observe.Sink
}

func New(sink observe.Sink) *Solver {
	if sink == nil {
		sink = observe.Nop
	}
	return &Solver{sink: sink}
}

// Solve returns the analytical solution for p. Errors wrap
// problem.ErrInvalidParameter, ErrNoRealSolution or ErrUnsupportedProblemType.
func (s *Solver) Solve(p problem.ParsedProblem) (problem.Solution, error) {
	sc, err := scenario.From(p)
	if err != nil {
		observe.Emit(s.sink, observe.SolverFailed, p.Family.String(), map[string]any{"error": err.Error()})
		return problem.Solution{}, err
	}

	sol, err := sc.Solve()
	if err != nil {
		observe.Emit(s.sink, observe.SolverFailed, p.Family.String(), map[string]any{"error": err.Error()})
		return problem.Solution{}, err
	}

	observe.Emit(s.sink, observe.SolverSolved, p.Family.String(), map[string]any{
		"quantity": sol.Quantity,
		"answer":   sol.Answer.String(),
		"unit":     sol.Unit,
	})
	return sol, nil
}
