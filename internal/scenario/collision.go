package scenario

import (
	"fmt"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/kinematics"
	"github.com/san-kum/kinematica/internal/problem"
)

type Collision struct {
	A, B problem.PhysicsObject
	// Restitution is 1 for an elastic collision, the default.
	Restitution float64
}

// newCollision takes the two bodies from Objects, or from the mass_a /
// velocity_a style parameters when no objects are given.
func newCollision(p problem.ParsedProblem) (*Collision, error) {
	objs := p.Objects
	if len(objs) == 0 {
		mA, okA := p.Param(problem.ParamMassA)
		mB, okB := p.Param(problem.ParamMassB)
		if okA && okB {
			objs = []problem.PhysicsObject{
				{Name: "A", Mass: mA, Velocity: p.ParamOr(problem.ParamVelocityA, 0)},
				{Name: "B", Mass: mB, Velocity: p.ParamOr(problem.ParamVelocityB, 0)},
			}
		}
	}
	if len(objs) != 2 {
		return nil, &problem.ParamError{Family: problem.Collision, Reason: fmt.Sprintf("need exactly two objects, got %d", len(objs))}
	}
	for i, o := range objs {
		if o.Mass <= 0 {
			name := problem.ParamMassA
			if i == 1 {
				name = problem.ParamMassB
			}
			return nil, &problem.ParamError{Family: problem.Collision, Name: name, Value: o.Mass, Reason: "must be positive"}
		}
	}
	e := p.ParamOr(problem.ParamRestitution, 1)
	if e < 0 || e > 1 {
		return nil, &problem.ParamError{Family: problem.Collision, Name: problem.ParamRestitution, Value: e, Reason: "must be within [0, 1]"}
	}
	return &Collision{A: objs[0], B: objs[1], Restitution: e}, nil
}

func (s *Collision) Family() problem.Family { return problem.Collision }

func (s *Collision) Quantity() string { return problem.QuantityFinalVelocities }

func (s *Collision) Solve() (problem.Solution, error) {
	r, err := kinematics.CollisionWithRestitution(s.A.Mass, s.B.Mass, s.A.Velocity, s.B.Velocity, s.Restitution)
	if err != nil {
		return problem.Solution{}, err
	}
	law := "3. Elastic collision: momentum and kinetic energy are conserved"
	if s.Restitution != 1 {
		law = fmt.Sprintf("3. Collision with restitution e = %g: momentum is conserved, separation speed is e times approach speed", s.Restitution)
	}
	pBefore := kinematics.Momentum(s.A.Mass, s.A.Velocity) + kinematics.Momentum(s.B.Mass, s.B.Velocity)
	pAfter := kinematics.Momentum(s.A.Mass, r.VelocityA) + kinematics.Momentum(s.B.Mass, r.VelocityB)
	keBefore := kinematics.KineticEnergy(s.A.Mass, s.A.Velocity) + kinematics.KineticEnergy(s.B.Mass, s.B.Velocity)
	keAfter := kinematics.KineticEnergy(s.A.Mass, r.VelocityA) + kinematics.KineticEnergy(s.B.Mass, r.VelocityB)
	return problem.Solution{
		Answer:     problem.Pair(r.VelocityA, r.VelocityB),
		Unit:       "m/s",
		Method:     problem.MethodAnalytical,
		Confidence: 1.0,
		Quantity:   problem.QuantityFinalVelocities,
		Details:    r,
		Steps: []string{
			fmt.Sprintf("1. %s: mass %g kg, initial velocity %g m/s", s.name(s.A, "A"), s.A.Mass, s.A.Velocity),
			fmt.Sprintf("2. %s: mass %g kg, initial velocity %g m/s", s.name(s.B, "B"), s.B.Mass, s.B.Velocity),
			law,
			fmt.Sprintf("4. Final velocity of %s: %.3f m/s", s.name(s.A, "A"), r.VelocityA),
			fmt.Sprintf("5. Final velocity of %s: %.3f m/s", s.name(s.B, "B"), r.VelocityB),
			fmt.Sprintf("6. Momentum before/after: %.3f / %.3f kg*m/s", pBefore, pAfter),
			fmt.Sprintf("7. Kinetic energy before/after: %.3f / %.3f J", keBefore, keAfter),
		},
	}, nil
}

func (s *Collision) name(o problem.PhysicsObject, fallback string) string {
	if o.Name != "" {
		return o.Name
	}
	return "Ball " + fallback
}

// Simulate reports the closed-form result without stepping the world. Equal
// masses in an elastic collision swap velocities exactly.
func (s *Collision) Simulate(w *engine.World, lim Limits) (problem.SimResult, error) {
	var r problem.CollisionResult
	if s.A.Mass == s.B.Mass && s.Restitution == 1 {
		r = problem.CollisionResult{VelocityA: s.B.Velocity, VelocityB: s.A.Velocity}
	} else {
		var err error
		r, err = kinematics.CollisionWithRestitution(s.A.Mass, s.B.Mass, s.A.Velocity, s.B.Velocity, s.Restitution)
		if err != nil {
			return problem.SimResult{}, err
		}
	}
	return problem.SimResult{Family: problem.Collision, Measurement: r}, nil
}

func (s *Collision) Compare(sol problem.Solution, sim problem.SimResult) (Comparison, error) {
	m, ok := sim.Measurement.(problem.CollisionResult)
	if !ok {
		return Comparison{}, mismatch(problem.Collision, sim.Measurement)
	}
	if len(sol.Answer) != 2 {
		return Comparison{}, fmt.Errorf("expected two final velocities, got %d values", len(sol.Answer))
	}
	return Comparison{
		Quantity:   problem.QuantityFinalVelocities,
		Unit:       "m/s",
		Analytical: sol.Answer,
		Simulated:  problem.Pair(m.VelocityA, m.VelocityB),
		Display:    fmt.Sprintf("Final velocities: %s = %.3f m/s, %s = %.3f m/s", s.name(s.A, "A"), m.VelocityA, s.name(s.B, "B"), m.VelocityB),
	}, nil
}
