package problem

import (
	"errors"
	"fmt"
)

// Domain errors shared by the solver, simulator and verifier.
var (
	// ErrInvalidParameter indicates a missing, non-positive or physically impossible input.
	ErrInvalidParameter = errors.New("kinematica: invalid parameter")

	// ErrNoRealSolution indicates the closed form has no real root (negative discriminant).
	ErrNoRealSolution = errors.New("kinematica: no real solution")

	// ErrUnsupportedProblemType indicates a family outside the supported set.
	ErrUnsupportedProblemType = errors.New("kinematica: unsupported problem type")

	// ErrSimulationUnavailable indicates the rigid-body engine could not be acquired.
	ErrSimulationUnavailable = errors.New("kinematica: simulation engine unavailable")

	// ErrSimulationTimeout indicates the step budget ran out before the stop condition.
	ErrSimulationTimeout = errors.New("kinematica: simulation step budget exhausted")
)

// ParamError names the offending input of a rejected problem.
type ParamError struct {
	Family Family
	Name   string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidParameter, e.Family, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s=%g: %s", ErrInvalidParameter, e.Family, e.Name, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// SimulationError wraps an error with engine context.
type SimulationError struct {
	Family  Family
	Step    int
	SimTime float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s: step %d (t=%.4f): %v", e.Family, e.Step, e.SimTime, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
