// Package analysis extracts summary quantities from sampled trajectories.
//
//   - [ZeroCrossings]: sign changes of a signal, linearly interpolated
//   - [PeriodFromCrossings]: oscillation period from crossing spacing
//   - [Summarize]: mean, spread and median of a series
//
// # Periods
//
// Consecutive zero crossings of an oscillation are half a period apart:
//
//	crossings := analysis.ZeroCrossings(times, angles)
//	if period, ok := analysis.PeriodFromCrossings(crossings); ok {
//	    // use period
//	}
package analysis
