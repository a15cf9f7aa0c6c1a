// Package scenario bundles, for each problem family, the closed-form solve,
// the rigid-body reproduction and the comparison of the two.
package scenario

import (
	"fmt"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/problem"
)

const (
	BallRadius = 0.1
	BallMass   = 1.0

	DefaultMaxSteps    = 10000
	DefaultSampleEvery = 4
)

type Scenario interface {
	Family() problem.Family
	// Quantity is the resolved quantity the answer refers to.
	Quantity() string
	Solve() (problem.Solution, error)
	Simulate(w *engine.World, lim Limits) (problem.SimResult, error)
	Compare(sol problem.Solution, sim problem.SimResult) (Comparison, error)
}

// Limits bounds a simulation run.
type Limits struct {
	// MaxSteps bounds runs that end on ground contact. Fixed-length runs
	// (pendulum, timed free fall) are not bounded by it.
	MaxSteps int
	// SampleEvery records one trajectory sample per this many steps; zero
	// disables recording.
	SampleEvery int
}

func DefaultLimits() Limits {
	return Limits{MaxSteps: DefaultMaxSteps, SampleEvery: DefaultSampleEvery}
}

// Comparison pairs the analytical and simulated values of one quantity.
type Comparison struct {
	Quantity   string
	Unit       string
	Analytical problem.Answer
	Simulated  problem.Answer
	Display    string
}

// From validates p and builds the scenario for its family.
func From(p problem.ParsedProblem) (Scenario, error) {
	switch p.Family {
	case problem.Projectile:
		return newProjectile(p)
	case problem.FreeFall:
		return newFreeFall(p)
	case problem.Pendulum:
		return newPendulum(p)
	case problem.Collision:
		return newCollision(p)
	default:
		return nil, fmt.Errorf("%w: %q", problem.ErrUnsupportedProblemType, p.Family)
	}
}

func require(p problem.ParsedProblem, name string) (float64, error) {
	v, ok := p.Param(name)
	if !ok {
		return 0, &problem.ParamError{Family: p.Family, Name: name, Reason: "missing"}
	}
	return v, nil
}

// pick resolves the asked quantity against the family's allowed set; anything
// else falls back to the first (default) entry.
func pick(asked string, allowed ...string) string {
	for _, q := range allowed {
		if q == asked {
			return q
		}
	}
	return allowed[0]
}

func scalarAnswer(sol problem.Solution) (float64, error) {
	v, ok := sol.Answer.Scalar()
	if !ok {
		return 0, fmt.Errorf("expected a scalar answer, got %d values", len(sol.Answer))
	}
	return v, nil
}

func mismatch(want problem.Family, got problem.Measurement) error {
	if got == nil {
		return fmt.Errorf("simulation produced no %s measurement", want)
	}
	return fmt.Errorf("simulation measured %s, expected %s", got.Family(), want)
}

func timeout(f problem.Family, w *engine.World) error {
	return &problem.SimulationError{Family: f, Step: w.Steps(), SimTime: w.Time(), Wrapped: problem.ErrSimulationTimeout}
}

func stepFailed(f problem.Family, w *engine.World, err error) error {
	return &problem.SimulationError{Family: f, Step: w.Steps(), SimTime: w.Time(), Wrapped: err}
}

// recorder samples a body's trajectory at a fixed stride.
type recorder struct {
	every   int
	samples []problem.Sample
}

func (r *recorder) observe(w *engine.World, b *engine.Body, force bool) {
	if r.every <= 0 {
		return
	}
	if !force && w.Steps()%r.every != 0 {
		return
	}
	if n := len(r.samples); n > 0 && r.samples[n-1].T == w.Time() {
		return
	}
	r.samples = append(r.samples, problem.Sample{
		T:     w.Time(),
		X:     b.Position.Horizontal(),
		Z:     b.Position.Z,
		Speed: b.Speed(),
	})
}
