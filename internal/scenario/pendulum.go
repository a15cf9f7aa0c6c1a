package scenario

import (
	"fmt"
	"math"

	"github.com/san-kum/kinematica/internal/analysis"
	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/kinematics"
	"github.com/san-kum/kinematica/internal/metrics"
	"github.com/san-kum/kinematica/internal/problem"
)

// DefaultInitialAngle is used when a pendulum problem gives no release angle.
const DefaultInitialAngle = 30.0

// nominalPeriods is how long the pendulum runs, in small-angle periods.
const nominalPeriods = 3

type Pendulum struct {
	Length       float64
	InitialAngle float64
	quantity     string
}

func newPendulum(p problem.ParsedProblem) (*Pendulum, error) {
	l, err := require(p, problem.ParamLength)
	if err != nil {
		return nil, err
	}
	if l <= 0 {
		return nil, &problem.ParamError{Family: problem.Pendulum, Name: problem.ParamLength, Value: l, Reason: "must be positive"}
	}
	return &Pendulum{
		Length:       l,
		InitialAngle: p.ParamOr(problem.ParamInitialAngle, DefaultInitialAngle),
		quantity:     pick(p.QuantityAsked, problem.QuantityPeriod, problem.QuantityMaxVelocity),
	}, nil
}

func (s *Pendulum) Family() problem.Family { return problem.Pendulum }

func (s *Pendulum) Quantity() string { return s.quantity }

func (s *Pendulum) Solve() (problem.Solution, error) {
	r, err := kinematics.Pendulum(s.Length, s.InitialAngle)
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
			fmt.Sprintf("1. Pendulum length: %g m, released at %g degrees", s.Length, s.InitialAngle),
			fmt.Sprintf("2. Period (small angle): T = 2*pi*sqrt(L/g) = %.3f s", r.Period),
			fmt.Sprintf("3. Frequency: %.3f Hz", r.Frequency),
			fmt.Sprintf("4. Maximum speed: v = sqrt(2gL(1 - cos theta0)) = %.3f m/s", r.MaxVelocity),
			fmt.Sprintf("5. Large-angle period for reference: %.3f s", kinematics.LargeAnglePeriod(s.Length, s.InitialAngle)),
			fmt.Sprintf("6. Exact period (elliptic integral): %.3f s", kinematics.ExactPeriod(s.Length, s.InitialAngle)),
		},
	}, nil
}

func (s *Pendulum) pick(r problem.PendulumResult) (float64, string) {
	if s.quantity == problem.QuantityMaxVelocity {
		return r.MaxVelocity, "m/s"
	}
	return r.Period, "s"
}

// Simulate swings a bob on a rigid rod from the origin for three nominal
// periods and measures the period from zero crossings of the angle.
func (s *Pendulum) Simulate(w *engine.World, lim Limits) (problem.SimResult, error) {
	theta := kinematics.Radians(s.InitialAngle)
	start := engine.V(s.Length*math.Sin(theta), 0, -s.Length*math.Cos(theta))
	bob, err := w.AddSphere(BallMass, BallRadius, start, engine.Vec3{})
	if err != nil {
		return problem.SimResult{}, stepFailed(problem.Pendulum, w, err)
	}
	rod := w.AddDistanceConstraint(engine.Vec3{}, bob)

	nominal := kinematics.SmallAnglePeriod(s.Length)
	total := int(nominalPeriods * nominal / w.TimeStep())

	peak := metrics.NewPeakSpeed()
	drift := metrics.NewEnergyDrift(w.Motion())
	set := metrics.Set{peak, drift}
	rec := &recorder{every: lim.SampleEvery}

	times := make([]float64, 0, total+1)
	angles := make([]float64, 0, total+1)
	times = append(times, w.Time())
	angles = append(angles, rod.Angle())
	set.Observe(bob.State(), w.Time())
	rec.observe(w, bob, true)

	for w.Steps() < total {
		if err := w.Step(); err != nil {
			return problem.SimResult{}, stepFailed(problem.Pendulum, w, err)
		}
		times = append(times, w.Time())
		angles = append(angles, rod.Angle())
		set.Observe(bob.State(), w.Time())
		rec.observe(w, bob, false)
	}
	rec.observe(w, bob, true)

	crossings := analysis.ZeroCrossings(times, angles)
	period, ok := analysis.PeriodFromCrossings(crossings)
	if !ok {
		period = nominal
		crossings = nil
	}

	return problem.SimResult{
		Family: problem.Pendulum,
		Measurement: problem.PendulumResult{
			Period:      period,
			MaxVelocity: peak.Value(),
			Frequency:   1 / period,
			Crossings:   len(crossings),
		},
		Steps:       w.Steps(),
		SimTime:     w.Time(),
		EnergyDrift: drift.Value(),
		Trajectory:  rec.samples,
	}, nil
}

func (s *Pendulum) Compare(sol problem.Solution, sim problem.SimResult) (Comparison, error) {
	m, ok := sim.Measurement.(problem.PendulumResult)
	if !ok {
		return Comparison{}, mismatch(problem.Pendulum, sim.Measurement)
	}
	a, err := scalarAnswer(sol)
	if err != nil {
		return Comparison{}, err
	}
	v, unit := s.pick(m)

	display := fmt.Sprintf("Period: %.3f s", v)
	if s.quantity == problem.QuantityMaxVelocity {
		display = fmt.Sprintf("Max velocity: %.3f m/s", v)
	}
	return Comparison{
		Quantity:   s.quantity,
		Unit:       unit,
		Analytical: problem.Scalar(a),
		Simulated:  problem.Scalar(v),
		Display:    display,
	}, nil
}
