package verify

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/san-kum/kinematica/internal/problem"
)

// Threshold is the single validity cut-off: a result is valid when its
// agreement score is strictly greater.
const Threshold = 0.8

func IsValid(score float64) bool { return score > Threshold }

// Agreement is 1 − |a − s| / max(|a|, |s|), floored at 0. Both zero agree
// fully; exactly one zero does not agree at all.
func Agreement(analytical, simulated float64) float64 {
	if !isFinite(analytical) || !isFinite(simulated) {
		return 0
	}
	if analytical == 0 && simulated == 0 {
		return 1
	}
	if analytical == 0 || simulated == 0 {
		return 0
	}
	scale := math.Max(math.Abs(analytical), math.Abs(simulated))
	return math.Max(0, 1-math.Abs(analytical-simulated)/scale)
}

// VectorAgreement averages component agreements with equal weight.
func VectorAgreement(analytical, simulated problem.Answer) (float64, error) {
	if len(analytical) == 0 || len(analytical) != len(simulated) {
		return 0, fmt.Errorf("cannot compare %d analytical values with %d simulated", len(analytical), len(simulated))
	}
	scores := make([]float64, len(analytical))
	for i := range analytical {
		scores[i] = Agreement(analytical[i], simulated[i])
	}
	return stats.Mean(scores)
}

// ConfidenceLabel buckets a score for display. It never affects validity.
func ConfidenceLabel(score float64) string {
	switch {
	case score >= 0.9:
		return "high"
	case score >= 0.7:
		return "medium"
	default:
		return "low"
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
