// Package observe carries structured events out of the solver, simulator
// and verifier. Components take a [Sink] by injection; nothing here is
// global.
package observe

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event names emitted by the core components.
const (
	SolverSolved          = "solver.solved"
	SolverFailed          = "solver.failed"
	SimulationStarted     = "simulation.started"
	SimulationFinished    = "simulation.finished"
	SimulationFailed      = "simulation.failed"
	VerificationCompleted = "verification.completed"
	VerificationFailed    = "verification.failed"
	ExperienceRecorded    = "memory.recorded"
	ExperienceFailed      = "memory.failed"
	RunArchived           = "storage.archived"
	ArchiveFailed         = "storage.failed"
)

type Event struct {
	Name   string
	Family string
	Fields map[string]any
	Time   time.Time
}

type Sink interface {
	Emit(e Event)
}

// Emit stamps the event and forwards it. A nil sink discards it.
func Emit(s Sink, name, family string, fields map[string]any) {
	if s == nil {
		return
	}
	s.Emit(Event{Name: name, Family: family, Fields: fields, Time: time.Now()})
}

type nop struct{}

func (nop) Emit(Event) {}

// Nop discards every event.
var Nop Sink = nop{}

// SlogSink writes events as structured log records.
type SlogSink struct {
	logger *slog.Logger
	level  slog.Level
}

func NewSlogSink(logger *slog.Logger, level slog.Level) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger, level: level}
}

func (s *SlogSink) Emit(e Event) {
	attrs := make([]slog.Attr, 0, len(e.Fields)+1)
	if e.Family != "" {
		attrs = append(attrs, slog.String("family", e.Family))
	}
	for k, v := range e.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	s.logger.LogAttrs(context.Background(), s.level, e.Name, attrs...)
}

// Recorder keeps events in memory; tests assert on it.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Named(name string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) Names() []string {
	events := r.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.Name
	}
	return names
}

// Multi fans an event out to several sinks.
type Multi []Sink

func (m Multi) Emit(e Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}
