package simulator

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
)

func projectile() problem.ParsedProblem {
	return problem.New(problem.Projectile, map[string]float64{
		problem.ParamInitialVelocity: 20, problem.ParamAngle: 45,
	}, problem.QuantityRange)
}

func TestSimulateReleasesEngine(t *testing.T) {
	rec := observe.NewRecorder()
	s := New(engine.DefaultParams(), WithSink(rec))

	res, err := s.Simulate(projectile())
	if err != nil {
		t.Fatal(err)
	}
	if s.Connected() {
		t.Error("engine still held after a successful run")
	}
	m := res.Measurement.(problem.ProjectileResult)
	if math.Abs(m.Range-40.775) > 0.1 {
		t.Errorf("range %.4f", m.Range)
	}

	names := rec.Names()
	if len(names) != 2 || names[0] != observe.SimulationStarted || names[1] != observe.SimulationFinished {
		t.Errorf("unexpected events %v", names)
	}
}

func TestSimulateTimeoutReleasesEngine(t *testing.T) {
	rec := observe.NewRecorder()
	s := New(engine.DefaultParams(), WithSink(rec), WithLimits(scenario.Limits{MaxSteps: 10}))

	_, err := s.Simulate(projectile())
	if !errors.Is(err, problem.ErrSimulationTimeout) {
		t.Fatalf("expected ErrSimulationTimeout, got %v", err)
	}
	if s.Connected() {
		t.Error("engine still held after a timeout")
	}
	if len(rec.Named(observe.SimulationFailed)) != 1 {
		t.Errorf("expected failure event, got %v", rec.Names())
	}
}

func TestSimulateUnavailable(t *testing.T) {
	p := engine.DefaultParams()
	p.Integrator = "unknown"
	s := New(p)

	_, err := s.Simulate(projectile())
	if !errors.Is(err, problem.ErrSimulationUnavailable) {
		t.Errorf("expected ErrSimulationUnavailable, got %v", err)
	}
}

func TestSimulateBusy(t *testing.T) {
	s := New(engine.DefaultParams())
	if _, err := s.handle.Connect(); err != nil {
		t.Fatal(err)
	}
	defer s.handle.Disconnect()

	_, err := s.Simulate(projectile())
	if !errors.Is(err, problem.ErrSimulationUnavailable) {
		t.Errorf("expected ErrSimulationUnavailable while busy, got %v", err)
	}
}

func TestSimulateReusable(t *testing.T) {
	s := New(engine.DefaultParams())
	first, err := s.Simulate(projectile())
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Simulate(projectile())
	if err != nil {
		t.Fatal(err)
	}
	if first.Measurement != second.Measurement || first.Steps != second.Steps {
		t.Errorf("repeat runs differ: %+v vs %+v", first.Measurement, second.Measurement)
	}
}

func TestSimulateInvalidProblem(t *testing.T) {
	s := New(engine.DefaultParams())
	_, err := s.Simulate(problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: -1}, ""))
	if !errors.Is(err, problem.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
