package metrics

import (
	"math"

	"github.com/san-kum/kinematica/internal/dynamo"
)

// The extent metrics read body states laid out as [x, y, z, vx, vy, vz].

// MaxHeight is the highest z seen, minus an offset such as a sphere radius.
type MaxHeight struct {
	offset float64
	max    float64
	seen   bool
}

func NewMaxHeight(offset float64) *MaxHeight {
	return &MaxHeight{offset: offset}
}

func (m *MaxHeight) Name() string { return "max_height" }

func (m *MaxHeight) Observe(x dynamo.State, t float64) {
	h := x[2] - m.offset
	if !m.seen || h > m.max {
		m.max = h
		m.seen = true
	}
}

func (m *MaxHeight) Value() float64 { return m.max }

func (m *MaxHeight) Reset() {
	m.max = 0
	m.seen = false
}

// MaxRange is the farthest horizontal distance from the origin.
type MaxRange struct {
	max float64
}

func NewMaxRange() *MaxRange {
	return &MaxRange{}
}

func (m *MaxRange) Name() string { return "max_range" }

func (m *MaxRange) Observe(x dynamo.State, t float64) {
	m.max = math.Max(m.max, math.Hypot(x[0], x[1]))
}

func (m *MaxRange) Value() float64 { return m.max }

func (m *MaxRange) Reset() { m.max = 0 }

type PeakSpeed struct {
	max float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{}
}

func (m *PeakSpeed) Name() string { return "peak_speed" }

func (m *PeakSpeed) Observe(x dynamo.State, t float64) {
	_, vel := x.Split()
	m.max = math.Max(m.max, math.Sqrt(vel[0]*vel[0]+vel[1]*vel[1]+vel[2]*vel[2]))
}

func (m *PeakSpeed) Value() float64 { return m.max }

func (m *PeakSpeed) Reset() { m.max = 0 }

// Set observes several metrics at once and reports them by name.
type Set []dynamo.Metric

func (s Set) Observe(x dynamo.State, t float64) {
	for _, m := range s {
		m.Observe(x, t)
	}
}

func (s Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, m := range s {
		out[m.Name()] = m.Value()
	}
	return out
}
