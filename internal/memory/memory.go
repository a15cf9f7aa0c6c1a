// Package memory keeps a record of checked problems and recalls similar
// ones that were verified before.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/san-kum/kinematica/internal/problem"
)

const (
	// SimilarityThreshold is the minimum keyword overlap for a recalled match.
	SimilarityThreshold = 0.3
	DefaultRecallLimit  = 5
)

var ErrEmptyProblem = errors.New("memory: experience has no problem text")

// Experience is one recorded check. Recording the same problem text again
// replaces the earlier experience.
type Experience struct {
	ID          uuid.UUID         `json:"id"`
	ProblemText string            `json:"problem_text"`
	Family      problem.Family    `json:"family"`
	Method      string            `json:"method"`
	Answer      problem.Answer    `json:"answer"`
	Unit        string            `json:"unit"`
	Success     bool              `json:"success"`
	Confidence  float64           `json:"confidence"`
	Agreement   float64           `json:"agreement"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// FromCheck builds an experience from a solved and verified problem.
func FromCheck(p problem.ParsedProblem, sol problem.Solution, vr problem.VerificationResult) Experience {
	meta := map[string]string{"quantity": sol.Quantity}
	if vr.SimulationResult != "" {
		meta["simulation"] = vr.SimulationResult
	}
	if vr.Error != "" {
		meta["error"] = vr.Error
	}
	return Experience{
		ProblemText: p.Text,
		Family:      p.Family,
		Method:      sol.Method,
		Answer:      sol.Answer,
		Unit:        sol.Unit,
		Success:     vr.IsValid,
		Confidence:  vr.Confidence,
		Agreement:   vr.AgreementScore,
		Metadata:    meta,
	}
}

type Match struct {
	Experience
	Similarity float64 `json:"similarity"`
}

type Insights struct {
	Total             int                    `json:"total"`
	Successes         int                    `json:"successes"`
	SuccessRate       float64                `json:"success_rate"`
	AverageConfidence float64                `json:"average_confidence"`
	AverageAgreement  float64                `json:"average_agreement"`
	MedianAgreement   float64                `json:"median_agreement"`
	ByFamily          map[problem.Family]int `json:"by_family"`
}

type Store interface {
	Record(ctx context.Context, e Experience) (Experience, error)
	Recall(ctx context.Context, query string, limit int) ([]Match, error)
	Insights(ctx context.Context) (Insights, error)
}

func prepare(e Experience) (Experience, error) {
	e.ProblemText = strings.TrimSpace(e.ProblemText)
	if e.ProblemText == "" {
		return e, ErrEmptyProblem
	}
	if e.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return e, err
		}
		e.ID = id
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return e, nil
}

func keywords(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.Trim(w, ".")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Similarity is the shared keyword count over the larger keyword set.
func Similarity(a, b string) float64 {
	ka, kb := keywords(a), keywords(b)
	n := max(len(ka), len(kb))
	if n == 0 {
		return 0
	}
	common := 0
	for w := range ka {
		if _, ok := kb[w]; ok {
			common++
		}
	}
	return float64(common) / float64(n)
}

// rank keeps successful candidates above the threshold, most similar first.
func rank(query string, candidates []Experience, limit int) []Match {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}
	matches := make([]Match, 0)
	for _, e := range candidates {
		if !e.Success {
			continue
		}
		if sim := Similarity(query, e.ProblemText); sim > SimilarityThreshold {
			matches = append(matches, Match{Experience: e, Similarity: sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func summarize(exps []Experience) Insights {
	in := Insights{Total: len(exps), ByFamily: make(map[problem.Family]int)}
	var confidence, agreement stats.Float64Data
	for _, e := range exps {
		in.ByFamily[e.Family]++
		agreement = append(agreement, e.Agreement)
		if e.Success {
			in.Successes++
			confidence = append(confidence, e.Confidence)
		}
	}
	if in.Total == 0 {
		return in
	}
	in.SuccessRate = float64(in.Successes) / float64(in.Total)
	in.AverageAgreement, _ = agreement.Mean()
	in.MedianAgreement, _ = agreement.Median()
	if len(confidence) > 0 {
		in.AverageConfidence, _ = confidence.Mean()
	}
	return in
}
