package pipeline

import (
	"context"
	"testing"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/memory"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/san-kum/kinematica/internal/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSimulator struct{}

func (failingSimulator) Simulate(problem.ParsedProblem) (problem.SimResult, error) {
	return problem.SimResult{}, problem.ErrSimulationUnavailable
}

func projectile() problem.ParsedProblem {
	return problem.New(problem.Projectile, map[string]float64{
		problem.ParamInitialVelocity: 20,
		problem.ParamAngle:           45,
	}, problem.QuantityRange).WithText("A ball is launched at 20 m/s at 45 degrees. How far does it go?")
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewInMemory()
	st := storage.New(t.TempDir())
	rec := observe.NewRecorder()

	p := New(engine.DefaultParams(), WithMemory(mem), WithStorage(st), WithSink(rec))
	rep, err := p.Check(ctx, projectile())
	require.NoError(t, err)

	assert.True(t, rep.Verification.IsValid)
	assert.Equal(t, rep.Verification.Confidence, rep.Solution.Confidence)
	assert.Equal(t, "high", rep.Label)
	require.NotNil(t, rep.Simulation)
	assert.NotEmpty(t, rep.Simulation.Trajectory)

	assert.NotEmpty(t, rep.RunID)
	meta, err := st.Load(rep.RunID)
	require.NoError(t, err)
	assert.True(t, meta.Verification.IsValid)

	matches, err := mem.Recall(ctx, "A ball is launched at 20 m/s at 45 degrees", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	names := rec.Names()
	assert.Contains(t, names, observe.SolverSolved)
	assert.Contains(t, names, observe.VerificationCompleted)
	assert.Contains(t, names, observe.ExperienceRecorded)
	assert.Contains(t, names, observe.RunArchived)
}

func TestCheckSolverError(t *testing.T) {
	p := New(engine.DefaultParams())
	bad := problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 0}, problem.QuantityPeriod)

	_, err := p.Check(context.Background(), bad)
	assert.ErrorIs(t, err, problem.ErrInvalidParameter)
}

func TestCheckSoftVerificationFailure(t *testing.T) {
	mem := memory.NewInMemory()
	p := New(engine.DefaultParams(),
		WithMemory(mem),
		WithSimulator(func() verify.Simulator { return failingSimulator{} }),
	)

	rep, err := p.Check(context.Background(), projectile())
	require.NoError(t, err)
	assert.False(t, rep.Verification.IsValid)
	assert.Zero(t, rep.Solution.Confidence)
	assert.Equal(t, "low", rep.Label)
	assert.Nil(t, rep.Simulation)
	assert.Empty(t, rep.RunID)

	in, err := mem.Insights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, in.Total)
	assert.Zero(t, in.Successes)
}

func TestCheckWithoutTextSkipsMemory(t *testing.T) {
	mem := memory.NewInMemory()
	p := New(engine.DefaultParams(), WithMemory(mem))

	pr := projectile()
	pr.Text = ""
	_, err := p.Check(context.Background(), pr)
	require.NoError(t, err)
	assert.Zero(t, mem.Len())
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(engine.DefaultParams()).Check(ctx, projectile())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckAll(t *testing.T) {
	problems := []problem.ParsedProblem{
		projectile(),
		problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 15}, problem.QuantityFinalVelocity),
		problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: -1}, problem.QuantityPeriod),
		problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 1, problem.ParamInitialAngle: 30}, problem.QuantityPeriod),
		problem.New(problem.Collision, nil, problem.QuantityFinalVelocities,
			problem.PhysicsObject{Name: "A", Mass: 1, Velocity: 5},
			problem.PhysicsObject{Name: "B", Mass: 1, Velocity: 0}),
	}

	items, err := New(engine.DefaultParams()).CheckAll(context.Background(), problems, 3)
	require.NoError(t, err)
	require.Len(t, items, len(problems))

	for i, it := range items {
		assert.Equal(t, i, it.Index)
		if i == 2 {
			assert.Nil(t, it.Report)
			assert.Contains(t, it.Error, "length")
			continue
		}
		require.NotNil(t, it.Report, "item %d: %s", i, it.Error)
		assert.True(t, it.Report.Verification.IsValid, "item %d: %+v", i, it.Report.Verification)
	}
}

func TestCheckAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(engine.DefaultParams()).CheckAll(ctx, []problem.ParsedProblem{projectile()}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
