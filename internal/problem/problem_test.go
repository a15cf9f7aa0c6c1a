package problem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFamily(t *testing.T) {
	tests := []struct {
		in   string
		want Family
	}{
		{"PROJECTILE", Projectile},
		{"projectile_motion", Projectile},
		{"Free Fall", FreeFall},
		{"free-fall", FreeFall},
		{"PENDULUM", Pendulum},
		{"collision", Collision},
	}

	for _, tt := range tests {
		got, err := ParseFamily(tt.in)
		if err != nil {
			t.Errorf("ParseFamily(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFamily(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseFamily_Unknown(t *testing.T) {
	_, err := ParseFamily("thermodynamics")
	if !errors.Is(err, ErrUnsupportedProblemType) {
		t.Errorf("expected ErrUnsupportedProblemType, got %v", err)
	}
}

func TestNewCopiesInputs(t *testing.T) {
	params := map[string]float64{ParamLength: 1}
	p := New(Pendulum, params, QuantityPeriod)
	params[ParamLength] = 5

	if v, _ := p.Param(ParamLength); v != 1 {
		t.Errorf("problem changed with caller map: length %f", v)
	}

	c := p.Clone()
	c.Parameters[ParamLength] = 3
	if v, _ := p.Param(ParamLength); v != 1 {
		t.Errorf("clone shares parameters: length %f", v)
	}
}

func TestAnswer(t *testing.T) {
	if v, ok := Scalar(2.5).Scalar(); !ok || v != 2.5 {
		t.Errorf("scalar answer: got %v %v", v, ok)
	}
	if _, ok := Pair(1, 2).Scalar(); ok {
		t.Error("pair should not be a scalar")
	}
	if s := Pair(0, 5).String(); s != "[0.000, 5.000]" {
		t.Errorf("unexpected pair format %q", s)
	}
}

func TestParamErrorIs(t *testing.T) {
	err := error(&ParamError{Family: Pendulum, Name: ParamLength, Value: 0, Reason: "must be positive"})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("ParamError should match ErrInvalidParameter")
	}
	if !strings.Contains(err.Error(), "length=0") {
		t.Errorf("error should name the parameter: %s", err)
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := error(&SimulationError{Family: Projectile, Step: 10000, SimTime: 41.6, Wrapped: ErrSimulationTimeout})
	if !errors.Is(err, ErrSimulationTimeout) {
		t.Error("SimulationError should unwrap to its cause")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.yaml")
	doc := `problem_type: projectile_motion
parameters:
  initial_velocity: 20
  angle: 45
quantity_asked: range
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Family != Projectile {
		t.Errorf("expected PROJECTILE, got %s", p.Family)
	}
	if v, _ := p.Param(ParamInitialVelocity); v != 20 {
		t.Errorf("expected initial_velocity 20, got %f", v)
	}
}

func TestDecodeJSON(t *testing.T) {
	doc := `{"problem_type": "COLLISION", "parameters": {}, "objects": [{"name": "A", "mass": 1, "velocity": 5}, {"name": "B", "mass": 1, "velocity": 0}]}`
	p, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(p.Objects) != 2 || p.Objects[0].Velocity != 5 {
		t.Errorf("objects not decoded: %+v", p.Objects)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.yaml")
	in := New(FreeFall, map[string]float64{ParamHeight: 15}, QuantityFinalVelocity)
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Family != FreeFall || out.Parameters[ParamHeight] != 15 {
		t.Errorf("round trip lost data: %+v", out)
	}
}
