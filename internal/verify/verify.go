// Package verify scores how well a closed-form solution agrees with the
// rigid-body reproduction of the same problem.
package verify

import (
	"fmt"

	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
)

type Simulator interface {
	Simulate(p problem.ParsedProblem) (problem.SimResult, error)
}

type Verifier struct {
	sim  Simulator
	sink observe.Sink
}

func New(sim Simulator, sink observe.Sink) *Verifier {
	if sink == nil {
		sink = observe.Nop
	}
	return &Verifier{sim: sim, sink: sink}
}

// Verify never fails: any error becomes an invalid result with zero
// confidence and the message in Error.
func (v *Verifier) Verify(p problem.ParsedProblem, sol problem.Solution) problem.VerificationResult {
	res, _ := v.Run(p, sol)
	return res
}

// Run is Verify that also returns the simulation it compared against, or
// nil when the run failed.
func (v *Verifier) Run(p problem.ParsedProblem, sol problem.Solution) (res problem.VerificationResult, sim *problem.SimResult) {
	family := p.Family.String()
	defer func() {
		if r := recover(); r != nil {
			res, sim = v.fail(family, fmt.Errorf("verification aborted: %v", r)), nil
		}
	}()

	simRes, err := v.sim.Simulate(p)
	if err != nil {
		return v.fail(family, err), nil
	}

	sc, err := scenario.From(p)
	if err != nil {
		return v.fail(family, err), nil
	}
	cmp, err := sc.Compare(sol, simRes)
	if err != nil {
		return v.fail(family, err), nil
	}
	score, err := VectorAgreement(cmp.Analytical, cmp.Simulated)
	if err != nil {
		return v.fail(family, err), nil
	}

	res = problem.VerificationResult{
		IsValid:          IsValid(score),
		Confidence:       score,
		AnalyticalResult: cmp.Analytical,
		SimulationResult: cmp.Display,
		AgreementScore:   score,
		Quantity:         cmp.Quantity,
		SimulatedValue:   cmp.Simulated,
	}
	observe.Emit(v.sink, observe.VerificationCompleted, family, map[string]any{
		"quantity":  cmp.Quantity,
		"agreement": score,
		"valid":     res.IsValid,
	})
	return res, &simRes
}

func (v *Verifier) fail(family string, err error) problem.VerificationResult {
	observe.Emit(v.sink, observe.VerificationFailed, family, map[string]any{"error": err.Error()})
	return problem.Failed(err)
}
