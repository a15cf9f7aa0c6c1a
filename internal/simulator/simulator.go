// Package simulator reproduces problems in the rigid-body engine. Each
// Simulator owns one engine handle and holds it only for the duration of a
// single Simulate call.
package simulator

import (
	"errors"
	"fmt"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
)

type Simulator struct {
	handle *engine.Handle
	limits scenario.Limits
	sink   observe.Sink
}

type Option func(*Simulator)

func WithLimits(l scenario.Limits) Option {
	return func(s *Simulator) { s.limits = l }
}

func WithSink(sink observe.Sink) Option {
	return func(s *Simulator) { s.sink = sink }
}

func New(params engine.Params, opts ...Option) *Simulator {
	s := &Simulator{
		handle: engine.NewHandle(params),
		limits: scenario.DefaultLimits(),
		sink:   observe.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connected reports whether a Simulate call currently holds the engine.
func (s *Simulator) Connected() bool { return s.handle.Connected() }

// Simulate runs p in a fresh world. A second call made while one is running
// on the same Simulator fails with problem.ErrSimulationUnavailable.
func (s *Simulator) Simulate(p problem.ParsedProblem) (problem.SimResult, error) {
	family := p.Family.String()
	sc, err := scenario.From(p)
	if err != nil {
		observe.Emit(s.sink, observe.SimulationFailed, family, map[string]any{"error": err.Error()})
		return problem.SimResult{}, err
	}

	observe.Emit(s.sink, observe.SimulationStarted, family, map[string]any{"quantity": sc.Quantity()})

	var res problem.SimResult
	err = s.handle.With(func(w *engine.World) error {
		var runErr error
		res, runErr = sc.Simulate(w, s.limits)
		return runErr
	})
	if errors.Is(err, engine.ErrBusy) || errors.Is(err, engine.ErrInvalidParams) {
		err = fmt.Errorf("%w: %v", problem.ErrSimulationUnavailable, err)
	}
	if err != nil {
		observe.Emit(s.sink, observe.SimulationFailed, family, map[string]any{"error": err.Error()})
		return problem.SimResult{}, err
	}

	observe.Emit(s.sink, observe.SimulationFinished, family, map[string]any{
		"steps":        res.Steps,
		"sim_time":     res.SimTime,
		"energy_drift": res.EnergyDrift,
	})
	return res, nil
}
