package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
)

func TestSolveScenarios(t *testing.T) {
	tests := []struct {
		name string
		p    problem.ParsedProblem
		want problem.Answer
		unit string
	}{
		{
			name: "projectile range",
			p: problem.New(problem.Projectile, map[string]float64{
				problem.ParamInitialVelocity: 20, problem.ParamAngle: 45, problem.ParamHeight: 0,
			}, problem.QuantityRange),
			want: problem.Scalar(40.775),
			unit: "m",
		},
		{
			name: "free fall final velocity",
			p:    problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 15}, problem.QuantityFinalVelocity),
			want: problem.Scalar(17.155),
			unit: "m/s",
		},
		{
			name: "pendulum period",
			p:    problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 1, problem.ParamInitialAngle: 30}, problem.QuantityPeriod),
			want: problem.Scalar(2.006),
			unit: "s",
		},
		{
			name: "collision exchange",
			p: problem.New(problem.Collision, nil, "",
				problem.PhysicsObject{Name: "A", Mass: 1, Velocity: 5},
				problem.PhysicsObject{Name: "B", Mass: 1, Velocity: 0}),
			want: problem.Pair(0, 5),
			unit: "m/s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := observe.NewRecorder()
			sol, err := New(rec).Solve(tt.p)
			if err != nil {
				t.Fatal(err)
			}
			if len(sol.Answer) != len(tt.want) {
				t.Fatalf("answer %v, expected %v", sol.Answer, tt.want)
			}
			for i := range tt.want {
				if math.Abs(sol.Answer[i]-tt.want[i]) > 1e-3 {
					t.Errorf("answer %v, expected %v", sol.Answer, tt.want)
				}
			}
			if sol.Unit != tt.unit {
				t.Errorf("unit %s, expected %s", sol.Unit, tt.unit)
			}
			if len(rec.Named(observe.SolverSolved)) != 1 {
				t.Errorf("expected one solved event, got %v", rec.Names())
			}
		})
	}
}

func TestSolvePendulumZeroLength(t *testing.T) {
	rec := observe.NewRecorder()
	p := problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 0}, problem.QuantityPeriod)

	_, err := New(rec).Solve(p)
	if !errors.Is(err, problem.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
	if len(rec.Named(observe.SolverFailed)) != 1 {
		t.Errorf("expected one failure event, got %v", rec.Names())
	}
}

func TestSolveUnsupported(t *testing.T) {
	_, err := New(nil).Solve(problem.ParsedProblem{Family: "OPTICS"})
	if !errors.Is(err, problem.ErrUnsupportedProblemType) {
		t.Errorf("expected ErrUnsupportedProblemType, got %v", err)
	}
}
