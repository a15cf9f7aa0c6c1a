package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func experience(text string, family problem.Family, success bool, confidence float64) Experience {
	return Experience{
		ProblemText: text,
		Family:      family,
		Method:      problem.MethodAnalytical,
		Answer:      problem.Scalar(1),
		Unit:        "m",
		Success:     success,
		Confidence:  confidence,
		Agreement:   confidence,
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("A ball falls", "a BALL falls!"))
	assert.Equal(t, 0.0, Similarity("", "anything"))
	assert.Equal(t, 0.0, Similarity("pendulum period", "ball range"))
	assert.InDelta(t, 0.6, Similarity("ball dropped from 15 m", "ball thrown from 20 m"), 1e-9)
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	m := NewInMemory()
	e, err := m.Record(context.Background(), experience("A ball is dropped from 15 m", problem.FreeFall, true, 0.99))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestRecordRejectsEmptyText(t *testing.T) {
	_, err := NewInMemory().Record(context.Background(), experience("   ", problem.FreeFall, true, 1))
	assert.ErrorIs(t, err, ErrEmptyProblem)
}

func TestRecordReplacesSameText(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	first, err := m.Record(ctx, experience("A pendulum of length 2 m", problem.Pendulum, false, 0))
	require.NoError(t, err)
	second, err := m.Record(ctx, experience("A pendulum of length 2 m", problem.Pendulum, true, 0.95))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, m.Len())

	matches, err := m.Recall(ctx, "pendulum of length 2 m", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Success)
}

func TestRecallRanksSuccessfulMatches(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	for _, e := range []Experience{
		experience("A ball is launched at 20 m/s at 45 degrees", problem.Projectile, true, 0.99),
		experience("A ball is launched at 30 m/s at 60 degrees", problem.Projectile, true, 0.97),
		experience("A ball is launched at 20 m/s at 45 degrees from a cliff", problem.Projectile, false, 0),
		experience("Two carts collide elastically", problem.Collision, true, 1),
	} {
		_, err := m.Record(ctx, e)
		require.NoError(t, err)
	}

	matches, err := m.Recall(ctx, "A ball is launched at 20 m/s at 45 degrees", 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 1.0, matches[0].Similarity)
	assert.Greater(t, matches[0].Similarity, matches[1].Similarity)
	for _, mt := range matches {
		assert.True(t, mt.Success)
		assert.Greater(t, mt.Similarity, SimilarityThreshold)
	}

	limited, err := m.Recall(ctx, "A ball is launched at 20 m/s at 45 degrees", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestInsights(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	empty, err := m.Insights(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)

	inputs := []Experience{
		experience("p1", problem.Projectile, true, 0.9),
		experience("p2", problem.Projectile, true, 1.0),
		experience("f1", problem.FreeFall, false, 0.2),
	}
	for _, e := range inputs {
		_, err := m.Record(ctx, e)
		require.NoError(t, err)
	}

	in, err := m.Insights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, in.Total)
	assert.Equal(t, 2, in.Successes)
	assert.InDelta(t, 2.0/3, in.SuccessRate, 1e-9)
	assert.InDelta(t, 0.95, in.AverageConfidence, 1e-9)
	assert.InDelta(t, 0.7, in.AverageAgreement, 1e-9)
	assert.InDelta(t, 0.9, in.MedianAgreement, 1e-9)
	assert.Equal(t, 2, in.ByFamily[problem.Projectile])
	assert.Equal(t, 1, in.ByFamily[problem.FreeFall])
}

func TestFromCheck(t *testing.T) {
	p := problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 1}, problem.QuantityPeriod).
		WithText("What is the period of a 1 m pendulum?")
	sol := problem.Solution{Answer: problem.Scalar(2.006), Unit: "s", Method: problem.MethodAnalytical, Quantity: problem.QuantityPeriod}
	vr := problem.VerificationResult{IsValid: true, Confidence: 0.99, AgreementScore: 0.99, SimulationResult: "2.004"}

	e := FromCheck(p, sol, vr)
	assert.Equal(t, p.Text, e.ProblemText)
	assert.True(t, e.Success)
	assert.Equal(t, "2.004", e.Metadata["simulation"])
	assert.Equal(t, problem.QuantityPeriod, e.Metadata["quantity"])
}

func TestInMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewInMemory()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Record(ctx, experience(fmt.Sprintf("ball %d dropped", i), problem.FreeFall, true, 1))
			assert.NoError(t, err)
			_, err = m.Recall(ctx, "ball dropped", 3)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 32, m.Len())
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("KINEMATICA_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("KINEMATICA_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pg, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	defer pg.Close()

	_, err = pg.db.ExecContext(ctx, "TRUNCATE experiences")
	require.NoError(t, err)

	first, err := pg.Record(ctx, experience("A stone falls from 15 meters", problem.FreeFall, true, 0.98))
	require.NoError(t, err)
	again, err := pg.Record(ctx, experience("A stone falls from 15 meters", problem.FreeFall, true, 0.99))
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	matches, err := pg.Recall(ctx, "a stone falls from 15 meters", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, problem.Answer{1}, matches[0].Answer)

	in, err := pg.Insights(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Total)
}

func TestReplay(t *testing.T) {
	ctx := context.Background()
	st := storage.New(t.TempDir())

	p := problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 15}, problem.QuantityFinalVelocity).
		WithText("A ball is dropped from 15 m")
	_, err := st.Save(storage.Run{
		Problem:      p,
		Solution:     problem.Solution{Answer: problem.Scalar(17.155), Unit: "m/s", Quantity: problem.QuantityFinalVelocity},
		Verification: problem.VerificationResult{IsValid: true, Confidence: 1, AgreementScore: 1},
	})
	require.NoError(t, err)
	_, err = st.Save(storage.Run{Problem: p.WithText("")})
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)

	m := NewInMemory()
	n, err := Replay(ctx, m, runs)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	matches, err := m.Recall(ctx, "ball dropped from 15 m", 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, problem.Answer{17.155}, matches[0].Answer)
}
