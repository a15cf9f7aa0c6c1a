// Package pipeline chains solve, verify, remember and archive into the
// single check used by the CLI and the HTTP server.
package pipeline

import (
	"context"
	"fmt"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/memory"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/scenario"
	"github.com/san-kum/kinematica/internal/simulator"
	"github.com/san-kum/kinematica/internal/solver"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/san-kum/kinematica/internal/verify"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one check.
type Report struct {
	Problem      problem.ParsedProblem      `json:"problem"`
	Solution     problem.Solution           `json:"solution"`
	Verification problem.VerificationResult `json:"verification"`
	Label        string                     `json:"confidence_label"`
	RunID        string                     `json:"run_id,omitempty"`
	Simulation   *problem.SimResult         `json:"simulation,omitempty"`
}

type Pipeline struct {
	solver *solver.Solver
	params engine.Params
	limits scenario.Limits
	newSim func() verify.Simulator
	memory memory.Store
	store  *storage.Store
	sink   observe.Sink
}

type Option func(*Pipeline)

func WithLimits(l scenario.Limits) Option {
	return func(p *Pipeline) { p.limits = l }
}

func WithMemory(m memory.Store) Option {
	return func(p *Pipeline) { p.memory = m }
}

// WithStorage archives every checked run into st.
func WithStorage(st *storage.Store) Option {
	return func(p *Pipeline) { p.store = st }
}

func WithSink(sink observe.Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithSimulator replaces the per-check simulator factory.
func WithSimulator(fn func() verify.Simulator) Option {
	return func(p *Pipeline) { p.newSim = fn }
}

func New(params engine.Params, opts ...Option) *Pipeline {
	p := &Pipeline{
		params: params,
		limits: scenario.DefaultLimits(),
		sink:   observe.Nop,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = observe.Nop
	}
	p.solver = solver.New(p.sink)
	if p.newSim == nil {
		p.newSim = func() verify.Simulator {
			return simulator.New(p.params, simulator.WithLimits(p.limits), simulator.WithSink(p.sink))
		}
	}
	return p
}

func (p *Pipeline) Solver() *solver.Solver { return p.solver }

func (p *Pipeline) Memory() memory.Store { return p.memory }

// Simulator returns a fresh simulator owning its own engine handle.
func (p *Pipeline) Simulator() verify.Simulator { return p.newSim() }

// Check solves and verifies pr. Only solver errors and cancellation are
// returned; verification failures are reported in the result, and memory
// or archive failures are emitted as events.
func (p *Pipeline) Check(ctx context.Context, pr problem.ParsedProblem) (Report, error) {
	return p.check(ctx, pr, p.newSim())
}

func (p *Pipeline) check(ctx context.Context, pr problem.ParsedProblem, sim verify.Simulator) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	sol, err := p.solver.Solve(pr)
	if err != nil {
		return Report{}, err
	}

	vr, simRes := verify.New(sim, p.sink).Run(pr, sol)
	rep := Report{
		Problem:      pr,
		Solution:     sol.WithConfidence(vr.Confidence),
		Verification: vr,
		Label:        verify.ConfidenceLabel(vr.Confidence),
		Simulation:   simRes,
	}

	p.remember(ctx, rep)
	rep.RunID = p.archive(rep)
	return rep, nil
}

func (p *Pipeline) remember(ctx context.Context, rep Report) {
	if p.memory == nil || rep.Problem.Text == "" {
		return
	}
	family := rep.Problem.Family.String()
	e, err := p.memory.Record(ctx, memory.FromCheck(rep.Problem, rep.Solution, rep.Verification))
	if err != nil {
		observe.Emit(p.sink, observe.ExperienceFailed, family, map[string]any{"error": err.Error()})
		return
	}
	observe.Emit(p.sink, observe.ExperienceRecorded, family, map[string]any{
		"id":      e.ID.String(),
		"success": e.Success,
	})
}

func (p *Pipeline) archive(rep Report) string {
	if p.store == nil {
		return ""
	}
	family := rep.Problem.Family.String()
	id, err := p.store.Save(storage.Run{
		Problem:      rep.Problem,
		Solution:     rep.Solution,
		Verification: rep.Verification,
		Sim:          rep.Simulation,
		Integrator:   p.params.Integrator,
		Dt:           p.params.TimeStep,
	})
	if err != nil {
		observe.Emit(p.sink, observe.ArchiveFailed, family, map[string]any{"error": err.Error()})
		return ""
	}
	observe.Emit(p.sink, observe.RunArchived, family, map[string]any{"run_id": id})
	return id
}

// Item is one entry of a batch check, in input order.
type Item struct {
	Index  int     `json:"index"`
	Report *Report `json:"report,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// CheckAll checks problems with at most workers in flight. Each worker uses
// its own simulator. A problem that cannot be solved fails only its item;
// cancellation stops the batch.
func (p *Pipeline) CheckAll(ctx context.Context, problems []problem.ParsedProblem, workers int) ([]Item, error) {
	if workers <= 0 {
		workers = 1
	}
	items := make([]Item, len(problems))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, pr := range problems {
		i, pr := i, pr
		g.Go(func() error {
			rep, err := p.check(ctx, pr, p.newSim())
			items[i] = Item{Index: i}
			switch {
			case err == nil:
				items[i].Report = &rep
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				items[i].Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch check: %w", err)
	}
	return items, nil
}
