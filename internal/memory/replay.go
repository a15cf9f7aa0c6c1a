package memory

import (
	"context"

	"github.com/san-kum/kinematica/internal/storage"
)

// Replay records archived runs into s, oldest first, so a process-local
// store starts with the history kept on disk. Runs without problem text
// are skipped.
func Replay(ctx context.Context, s Store, runs []storage.RunMetadata) (int, error) {
	n := 0
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		if run.Problem.Text == "" {
			continue
		}
		e := FromCheck(run.Problem, run.Solution(), run.Verification)
		e.CreatedAt = run.Timestamp
		if _, err := s.Record(ctx, e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
