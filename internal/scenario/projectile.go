package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/kinematics"
	"github.com/san-kum/kinematica/internal/metrics"
	"github.com/san-kum/kinematica/internal/problem"
)

type Projectile struct {
	V0       float64
	Angle    float64
	Height   float64
	quantity string
}

func newProjectile(p problem.ParsedProblem) (*Projectile, error) {
	v0, err := require(p, problem.ParamInitialVelocity)
	if err != nil {
		return nil, err
	}
	angle, err := require(p, problem.ParamAngle)
	if err != nil {
		return nil, err
	}
	return &Projectile{
		V0:       v0,
		Angle:    angle,
		Height:   p.ParamOr(problem.ParamHeight, 0),
		quantity: pick(p.QuantityAsked, problem.QuantityRange, problem.QuantityMaxHeight, problem.QuantityTimeFlight),
	}, nil
}

func (s *Projectile) Family() problem.Family { return problem.Projectile }

func (s *Projectile) Quantity() string { return s.quantity }

func (s *Projectile) Solve() (problem.Solution, error) {
	r, err := kinematics.Projectile(s.V0, s.Angle, s.Height)
	if err != nil {
		return problem.Solution{}, err
	}
	v, unit := s.pick(r)
	return problem.Solution{
		Answer:     problem.Scalar(v),
		Unit:       unit,
		Method:     problem.MethodAnalytical,
		Confidence: 1.0,
		Quantity:   s.quantity,
		Details:    r,
		Steps: []string{
			fmt.Sprintf("1. Initial velocity: %g m/s at %g degrees from %g m", s.V0, s.Angle, s.Height),
			fmt.Sprintf("2. Components: v0x = %.3f m/s, v0y = %.3f m/s", r.V0x, r.V0y),
			fmt.Sprintf("3. Time of flight: t = (v0y + sqrt(v0y^2 + 2gh0))/g = %.3f s", r.TimeFlight),
			fmt.Sprintf("4. Maximum height: %.3f m (apex at %.3f s)", r.MaxHeight, r.TimeToApex),
			fmt.Sprintf("5. Range: v0x * t = %.3f m", r.Range),
		},
	}, nil
}

func (s *Projectile) pick(r problem.ProjectileResult) (float64, string) {
	switch s.quantity {
	case problem.QuantityMaxHeight:
		return r.MaxHeight, "m"
	case problem.QuantityTimeFlight:
		return r.TimeFlight, "s"
	default:
		return r.Range, "m"
	}
}

// Simulate launches a ball from just above the launch height and steps until
// it is back on the ground.
func (s *Projectile) Simulate(w *engine.World, lim Limits) (problem.SimResult, error) {
	w.AddGroundPlane()
	theta := kinematics.Radians(s.Angle)
	vel := engine.V(s.V0*math.Cos(theta), 0, s.V0*math.Sin(theta))
	ball, err := w.AddSphere(BallMass, BallRadius, engine.V(0, 0, s.Height+BallRadius), vel)
	if err != nil {
		return problem.SimResult{}, stepFailed(problem.Projectile, w, err)
	}

	height := metrics.NewMaxHeight(BallRadius)
	reach := metrics.NewMaxRange()
	drift := metrics.NewEnergyDrift(w.Motion())
	set := metrics.Set{height, reach, drift}
	rec := &recorder{every: lim.SampleEvery}

	set.Observe(ball.State(), w.Time())
	rec.observe(w, ball, true)

	landed := false
	for w.Steps() < lim.MaxSteps {
		if err := w.Step(); err != nil {
			return problem.SimResult{}, stepFailed(problem.Projectile, w, err)
		}
		set.Observe(ball.State(), w.Time())
		rec.observe(w, ball, false)
		if w.InContact(ball) {
			landed = true
			break
		}
	}
	if !landed {
		return problem.SimResult{}, timeout(problem.Projectile, w)
	}
	rec.observe(w, ball, true)

	return problem.SimResult{
		Family: problem.Projectile,
		Measurement: problem.ProjectileResult{
			Range:      reach.Value(),
			MaxHeight:  height.Value(),
			TimeFlight: w.Time(),
		},
		Steps:       w.Steps(),
		SimTime:     w.Time(),
		EnergyDrift: drift.Value(),
		Trajectory:  rec.samples,
	}, nil
}

func (s *Projectile) Compare(sol problem.Solution, sim problem.SimResult) (Comparison, error) {
	m, ok := sim.Measurement.(problem.ProjectileResult)
	if !ok {
		return Comparison{}, mismatch(problem.Projectile, sim.Measurement)
	}
	a, err := scalarAnswer(sol)
	if err != nil {
		return Comparison{}, err
	}
	v, unit := s.pick(m)

	var label string
	switch s.quantity {
	case problem.QuantityMaxHeight:
		label = "Max height"
	case problem.QuantityTimeFlight:
		label = "Time of flight"
	default:
		label = "Range"
	}
	return Comparison{
		Quantity:   s.quantity,
		Unit:       unit,
		Analytical: problem.Scalar(a),
		Simulated:  problem.Scalar(v),
		Display:    fmt.Sprintf("%s: %.3f %s", label, v, unit),
	}, nil
}
