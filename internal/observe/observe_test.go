package observe

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	Emit(r, SolverSolved, "PENDULUM", map[string]any{"answer": 2.006})
	Emit(r, VerificationCompleted, "PENDULUM", nil)

	if got := r.Names(); len(got) != 2 || got[0] != SolverSolved {
		t.Errorf("unexpected events %v", got)
	}
	solved := r.Named(SolverSolved)
	if len(solved) != 1 || solved[0].Fields["answer"] != 2.006 {
		t.Errorf("fields not kept: %+v", solved)
	}
	if solved[0].Time.IsZero() {
		t.Error("event not stamped")
	}
}

func TestEmitNilSink(t *testing.T) {
	Emit(nil, SolverFailed, "", nil)
}

func TestSlogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSlogSink(logger, slog.LevelInfo)

	Emit(s, SimulationFinished, "PROJECTILE", map[string]any{"steps": 692})

	out := buf.String()
	for _, want := range []string{"simulation.finished", "family=PROJECTILE", "steps=692"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestMulti(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Emit(Multi{a, nil, b}, SolverSolved, "", nil)
	if len(a.Events()) != 1 || len(b.Events()) != 1 {
		t.Error("multi sink did not fan out")
	}
}
