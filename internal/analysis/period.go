package analysis

import (
	"github.com/montanaflynn/stats"
)

// ZeroCrossings returns the interpolated times at which values changes sign.
// Samples that are exactly zero count once, at their own time.
func ZeroCrossings(times, values []float64) []float64 {
	n := min(len(times), len(values))
	var out []float64
	for i := 1; i < n; i++ {
		a, b := values[i-1], values[i]
		switch {
		case a == 0:
			continue
		case b == 0:
			out = append(out, times[i])
		case a*b < 0:
			frac := a / (a - b)
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// PeriodFromCrossings is twice the mean spacing between crossings. It needs
// at least two crossings.
func PeriodFromCrossings(crossings []float64) (float64, bool) {
	if len(crossings) < 2 {
		return 0, false
	}
	gaps := make([]float64, len(crossings)-1)
	for i := 1; i < len(crossings); i++ {
		gaps[i-1] = crossings[i] - crossings[i-1]
	}
	mean, err := stats.Mean(gaps)
	if err != nil {
		return 0, false
	}
	return 2 * mean, true
}

type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize describes a series; an empty series gives the zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(values)
	s := Summary{Count: len(values)}
	s.Mean, _ = data.Mean()
	s.StdDev, _ = data.StandardDeviation()
	s.Median, _ = data.Median()
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	return s
}
