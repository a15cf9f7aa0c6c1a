package dynamo

import "math"

// State is a flat vector. Second-order integrators expect the first half to
// hold positions and the second half the matching velocities.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Split returns the position and velocity halves without copying.
func (s State) Split() (pos, vel State) {
	half := len(s) / 2
	return s[:half], s[half:]
}

// System is an ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian systems report a conserved energy, used for drift metrics.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Name() string
	Step(dyn System, x State, t, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Validate checks a state against its system before stepping.
func Validate(dyn System, x State) error {
	if len(x) != dyn.StateDim() {
		return ErrDimensionMismatch
	}
	if !x.IsValid() {
		return ErrInvalidState
	}
	return nil
}
