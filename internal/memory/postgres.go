package memory

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/san-kum/kinematica/internal/problem"
)

// recallCandidates caps how many successful rows are scored per recall.
const recallCandidates = 500

const schema = `
CREATE TABLE IF NOT EXISTS experiences (
	id           UUID PRIMARY KEY,
	problem_text TEXT NOT NULL UNIQUE,
	family       TEXT NOT NULL,
	method       TEXT NOT NULL DEFAULT '',
	answer       JSONB NOT NULL DEFAULT '[]',
	unit         TEXT NOT NULL DEFAULT '',
	success      BOOLEAN NOT NULL,
	confidence   DOUBLE PRECISION NOT NULL,
	agreement    DOUBLE PRECISION NOT NULL,
	metadata     JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS experiences_success_confidence_idx
	ON experiences (success, confidence DESC);
`

// jsonColumn stores a value as JSONB.
type jsonColumn[T any] struct{ V T }

func (j jsonColumn[T]) Value() (driver.Value, error) {
	return json.Marshal(j.V)
}

func (j *jsonColumn[T]) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		return nil
	default:
		return fmt.Errorf("memory: cannot scan %T into json column", src)
	}
	return json.Unmarshal(data, &j.V)
}

type experienceRow struct {
	ID          uuid.UUID                     `db:"id"`
	ProblemText string                        `db:"problem_text"`
	Family      string                        `db:"family"`
	Method      string                        `db:"method"`
	Answer      jsonColumn[problem.Answer]    `db:"answer"`
	Unit        string                        `db:"unit"`
	Success     bool                          `db:"success"`
	Confidence  float64                       `db:"confidence"`
	Agreement   float64                       `db:"agreement"`
	Metadata    jsonColumn[map[string]string] `db:"metadata"`
	CreatedAt   time.Time                     `db:"created_at"`
}

func toRow(e Experience) experienceRow {
	return experienceRow{
		ID:          e.ID,
		ProblemText: e.ProblemText,
		Family:      string(e.Family),
		Method:      e.Method,
		Answer:      jsonColumn[problem.Answer]{V: e.Answer},
		Unit:        e.Unit,
		Success:     e.Success,
		Confidence:  e.Confidence,
		Agreement:   e.Agreement,
		Metadata:    jsonColumn[map[string]string]{V: e.Metadata},
		CreatedAt:   e.CreatedAt,
	}
}

func (r experienceRow) experience() Experience {
	return Experience{
		ID:          r.ID,
		ProblemText: r.ProblemText,
		Family:      problem.Family(r.Family),
		Method:      r.Method,
		Answer:      r.Answer.V,
		Unit:        r.Unit,
		Success:     r.Success,
		Confidence:  r.Confidence,
		Agreement:   r.Agreement,
		Metadata:    r.Metadata.V,
		CreatedAt:   r.CreatedAt,
	}
}

// Postgres is a Store backed by a PostgreSQL table.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// OpenPostgres connects with the lib/pq driver and runs Migrate.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("connect memory database: %w", err)
	}
	pg := NewPostgres(db)
	if err := pg.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return pg, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate experiences: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Record(ctx context.Context, e Experience) (Experience, error) {
	e, err := prepare(e)
	if err != nil {
		return Experience{}, err
	}

	var id uuid.UUID
	rows, err := p.db.NamedQueryContext(ctx, `
		INSERT INTO experiences (
			id, problem_text, family, method, answer, unit,
			success, confidence, agreement, metadata, created_at
		) VALUES (
			:id, :problem_text, :family, :method, :answer, :unit,
			:success, :confidence, :agreement, :metadata, :created_at
		)
		ON CONFLICT (problem_text) DO UPDATE SET
			family = EXCLUDED.family,
			method = EXCLUDED.method,
			answer = EXCLUDED.answer,
			unit = EXCLUDED.unit,
			success = EXCLUDED.success,
			confidence = EXCLUDED.confidence,
			agreement = EXCLUDED.agreement,
			metadata = EXCLUDED.metadata,
			created_at = EXCLUDED.created_at
		RETURNING id
	`, toRow(e))
	if err != nil {
		return Experience{}, fmt.Errorf("record experience: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Experience{}, err
		}
		return Experience{}, errors.New("memory: insert returned no id")
	}
	if err := rows.Scan(&id); err != nil {
		return Experience{}, err
	}
	e.ID = id
	return e, nil
}

func (p *Postgres) Recall(ctx context.Context, query string, limit int) ([]Match, error) {
	var rows []experienceRow
	err := p.db.SelectContext(ctx, &rows, `
		SELECT id, problem_text, family, method, answer, unit,
		       success, confidence, agreement, metadata, created_at
		FROM experiences
		WHERE success = TRUE
		ORDER BY confidence DESC
		LIMIT $1
	`, recallCandidates)
	if err != nil {
		return nil, fmt.Errorf("recall experiences: %w", err)
	}
	return rank(query, experiences(rows), limit), nil
}

func (p *Postgres) Insights(ctx context.Context) (Insights, error) {
	var rows []experienceRow
	err := p.db.SelectContext(ctx, &rows, `
		SELECT id, problem_text, family, method, answer, unit,
		       success, confidence, agreement, metadata, created_at
		FROM experiences
	`)
	if err != nil {
		return Insights{}, fmt.Errorf("load experiences: %w", err)
	}
	return summarize(experiences(rows)), nil
}

func experiences(rows []experienceRow) []Experience {
	out := make([]Experience, len(rows))
	for i, r := range rows {
		out[i] = r.experience()
	}
	return out
}
