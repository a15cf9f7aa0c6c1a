package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/kinematics"
	"github.com/san-kum/kinematica/internal/metrics"
	"github.com/san-kum/kinematica/internal/problem"
)

type FreeFall struct {
	Height float64
	// V0 is a downward launch speed. The closed forms assume release from
	// rest; the engine run honours it.
	V0       float64
	Time     float64
	quantity string
}

func newFreeFall(p problem.ParsedProblem) (*FreeFall, error) {
	h, hasH := p.Param(problem.ParamHeight)
	t, hasT := p.Param(problem.ParamTime)
	if !hasH && !hasT {
		return nil, &problem.ParamError{Family: problem.FreeFall, Reason: "need height or time"}
	}
	if h <= 0 && t <= 0 {
		return nil, &problem.ParamError{Family: problem.FreeFall, Name: problem.ParamHeight, Value: h, Reason: "need a positive height or time"}
	}
	return &FreeFall{
		Height:   h,
		V0:       p.ParamOr(problem.ParamInitialVelocity, 0),
		Time:     t,
		quantity: pick(p.QuantityAsked, problem.QuantityFinalVelocity, problem.QuantityDistance, problem.QuantityTimeFall),
	}, nil
}

func (s *FreeFall) Family() problem.Family { return problem.FreeFall }

func (s *FreeFall) Quantity() string { return s.quantity }

func (s *FreeFall) Solve() (problem.Solution, error) {
	r, err := kinematics.FreeFall(s.Height, s.Time)
	if err != nil {
		return problem.Solution{}, err
	}
	v, unit := s.pick(r)

	var steps []string
	if r.Mode == problem.FreeFallByTime {
		steps = []string{
			fmt.Sprintf("1. Fall time: %g s", s.Time),
			fmt.Sprintf("2. Distance: d = g*t^2/2 = %.3f m", r.Distance),
			fmt.Sprintf("3. Final velocity: v = g*t = %.3f m/s", r.FinalVelocity),
		}
	} else {
		steps = []string{
			fmt.Sprintf("1. Initial height: %g m", s.Height),
			fmt.Sprintf("2. Time of fall: t = sqrt(2h/g) = %.3f s", r.TimeFall),
			fmt.Sprintf("3. Final velocity: v = sqrt(2gh) = %.3f m/s", r.FinalVelocity),
		}
	}
	return problem.Solution{
		Answer:     problem.Scalar(v),
		Unit:       unit,
		Method:     problem.MethodAnalytical,
		Confidence: 1.0,
		Quantity:   s.quantity,
		Details:    r,
		Steps:      steps,
	}, nil
}

func (s *FreeFall) pick(r problem.FreeFallResult) (float64, string) {
	switch s.quantity {
	case problem.QuantityDistance:
		return r.Distance, "m"
	case problem.QuantityTimeFall:
		return r.TimeFall, "s"
	default:
		return r.FinalVelocity, "m/s"
	}
}

// Simulate drops a ball for the given time, or onto the ground when no time
// is given. The reported values are the closed-form ones; the run itself
// supplies step count, elapsed time and the trajectory.
func (s *FreeFall) Simulate(w *engine.World, lim Limits) (problem.SimResult, error) {
	theory, err := kinematics.FreeFall(s.Height, s.Time)
	if err != nil {
		return problem.SimResult{}, err
	}

	byTime := theory.Mode == problem.FreeFallByTime
	if !byTime {
		w.AddGroundPlane()
	}
	ball, err := w.AddSphere(BallMass, BallRadius, engine.V(0, 0, math.Max(s.Height, 0)+BallRadius), engine.V(0, 0, -s.V0))
	if err != nil {
		return problem.SimResult{}, stepFailed(problem.FreeFall, w, err)
	}

	drift := metrics.NewEnergyDrift(w.Motion())
	rec := &recorder{every: lim.SampleEvery}
	drift.Observe(ball.State(), w.Time())
	rec.observe(w, ball, true)

	target := lim.MaxSteps
	if byTime {
		// the epsilon keeps 2 s at 1/240 s from flooring to 479 steps
		target = int(math.Floor(s.Time/w.TimeStep() + 1e-9))
	}

	for w.Steps() < target {
		if err := w.Step(); err != nil {
			return problem.SimResult{}, stepFailed(problem.FreeFall, w, err)
		}
		drift.Observe(ball.State(), w.Time())
		rec.observe(w, ball, false)
		if !byTime && w.InContact(ball) {
			break
		}
	}
	if !byTime && !w.InContact(ball) {
		return problem.SimResult{}, timeout(problem.FreeFall, w)
	}
	rec.observe(w, ball, true)

	return problem.SimResult{
		Family:      problem.FreeFall,
		Measurement: theory,
		Steps:       w.Steps(),
		SimTime:     w.Time(),
		EnergyDrift: drift.Value(),
		Trajectory:  rec.samples,
	}, nil
}

func (s *FreeFall) Compare(sol problem.Solution, sim problem.SimResult) (Comparison, error) {
	m, ok := sim.Measurement.(problem.FreeFallResult)
	if !ok {
		return Comparison{}, mismatch(problem.FreeFall, sim.Measurement)
	}
	a, err := scalarAnswer(sol)
	if err != nil {
		return Comparison{}, err
	}
	v, unit := s.pick(m)

	label := "Final velocity"
	switch s.quantity {
	case problem.QuantityDistance:
		label = "Distance"
	case problem.QuantityTimeFall:
		label = "Time of fall"
	}
	return Comparison{
		Quantity:   s.quantity,
		Unit:       unit,
		Analytical: problem.Scalar(a),
		Simulated:  problem.Scalar(v),
		Display:    fmt.Sprintf("%s: %.3f %s", label, v, unit),
	}, nil
}
