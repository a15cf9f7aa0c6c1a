package problem

import (
	"strconv"
	"strings"
)

// Answer is a scalar (one value) or a fixed-size list such as a pair of
// post-collision velocities.
type Answer []float64

func Scalar(v float64) Answer { return Answer{v} }

func Pair(a, b float64) Answer { return Answer{a, b} }

func (a Answer) Scalar() (float64, bool) {
	if len(a) != 1 {
		return 0, false
	}
	return a[0], true
}

func (a Answer) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatFloat(v, 'f', 3, 64)
	}
	if len(a) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Measurement is one of the per-family result records.
type Measurement interface {
	Family() Family
}

type ProjectileResult struct {
	Range      float64 `json:"range"`
	MaxHeight  float64 `json:"max_height"`
	TimeFlight float64 `json:"time_flight"`
	TimeToApex float64 `json:"time_to_apex,omitempty"`
	FinalSpeed float64 `json:"final_speed,omitempty"`
	V0x        float64 `json:"v0x,omitempty"`
	V0y        float64 `json:"v0y,omitempty"`
}

type FreeFallMode string

const (
	FreeFallByTime   FreeFallMode = "time"
	FreeFallByHeight FreeFallMode = "height"
)

type FreeFallResult struct {
	Mode          FreeFallMode `json:"mode"`
	Distance      float64      `json:"distance"`
	FinalVelocity float64      `json:"final_velocity"`
	TimeFall      float64      `json:"time_fall"`
}

type PendulumResult struct {
	Period      float64 `json:"period"`
	MaxVelocity float64 `json:"max_velocity"`
	Frequency   float64 `json:"frequency,omitempty"`
	// Crossings is the number of zero crossings the simulated period was
	// measured from; zero for analytical results and small-angle fallbacks.
	Crossings int `json:"crossings,omitempty"`
}

type CollisionResult struct {
	VelocityA float64 `json:"velocity_a"`
	VelocityB float64 `json:"velocity_b"`
}

func (ProjectileResult) Family() Family { return Projectile }
func (FreeFallResult) Family() Family   { return FreeFall }
func (PendulumResult) Family() Family   { return Pendulum }
func (CollisionResult) Family() Family  { return Collision }

// Solution is the analytical answer to a problem.
type Solution struct {
	Answer     Answer      `json:"answer"`
	Unit       string      `json:"unit"`
	Method     string      `json:"method"`
	Steps      []string    `json:"steps"`
	Confidence float64     `json:"confidence"`
	Quantity   string      `json:"quantity"`
	Details    Measurement `json:"details,omitempty"`
}

const MethodAnalytical = "analytical"

// WithConfidence returns a copy carrying the verification confidence.
func (s Solution) WithConfidence(c float64) Solution {
	s.Confidence = c
	s.Steps = append([]string(nil), s.Steps...)
	return s
}

// Sample is one recorded point of a simulated trajectory.
type Sample struct {
	T     float64 `json:"t"`
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Speed float64 `json:"speed"`
}

// SimResult is what the rigid-body simulator measured for a problem.
type SimResult struct {
	Family      Family      `json:"family"`
	Measurement Measurement `json:"measurement"`
	Steps       int         `json:"steps"`
	SimTime     float64     `json:"sim_time"`
	EnergyDrift float64     `json:"energy_drift"`
	Trajectory  []Sample    `json:"-"`
}

// VerificationResult reports how well the analytical and simulated answers agree.
type VerificationResult struct {
	IsValid          bool    `json:"is_valid"`
	Confidence       float64 `json:"confidence"`
	Error            string  `json:"error,omitempty"`
	AnalyticalResult Answer  `json:"analytical_result,omitempty"`
	SimulationResult string  `json:"simulation_result,omitempty"`
	AgreementScore   float64 `json:"agreement_score"`
	Quantity         string  `json:"quantity,omitempty"`
	SimulatedValue   Answer  `json:"simulated_value,omitempty"`
}

// Failed builds the soft-failure form: invalid, zero confidence, error set.
func Failed(err error) VerificationResult {
	return VerificationResult{Error: err.Error()}
}
