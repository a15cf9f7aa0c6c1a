package engine

import (
	"fmt"

	"github.com/san-kum/kinematica/internal/dynamo"
	"github.com/san-kum/kinematica/internal/integrators"
)

const (
	DefaultTimeStep         = 1.0 / 240
	DefaultSolverIterations = 10
	DefaultIntegrator       = "verlet"
	DefaultRestitution      = 1.0

	// contact correction, as in impulse-based 2D engines
	correctionPercent = 0.4
	correctionSlop    = 0.005
)

type Params struct {
	Gravity          Vec3
	TimeStep         float64
	SolverIterations int
	Integrator       string
	// Restitution applies to ground contact only.
	Restitution float64
}

func DefaultParams() Params {
	return Params{
		Gravity:          Vec3{0, 0, -9.81},
		TimeStep:         DefaultTimeStep,
		SolverIterations: DefaultSolverIterations,
		Integrator:       DefaultIntegrator,
		Restitution:      DefaultRestitution,
	}
}

func (p Params) Validate() error {
	if p.TimeStep <= 0 {
		return fmt.Errorf("%w: time step %g", ErrInvalidParams, p.TimeStep)
	}
	if p.SolverIterations <= 0 {
		return fmt.Errorf("%w: solver iterations %d", ErrInvalidParams, p.SolverIterations)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("%w: restitution %g", ErrInvalidParams, p.Restitution)
	}
	return nil
}

// World is a deterministic rigid-body scene. It is only reachable through a
// connected [Handle] and must not be used after the handle is released.
type World struct {
	params      Params
	integ       dynamo.Integrator
	motion      ballistic
	bodies      []*Body
	constraints []*DistanceConstraint
	ground      bool
	time        float64
	steps       int
	closed      bool
}

func newWorld(p Params) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(p.Integrator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return &World{params: p, integ: integ, motion: ballistic{g: p.Gravity}}, nil
}

func (w *World) Params() Params { return w.params }

func (w *World) TimeStep() float64 { return w.params.TimeStep }

func (w *World) Time() float64 { return w.time }

func (w *World) Steps() int { return w.steps }

// Motion is the free-flight system bodies are integrated with.
func (w *World) Motion() dynamo.System { return w.motion }

// AddGroundPlane adds a static plane at z = 0.
func (w *World) AddGroundPlane() {
	w.ground = true
}

func (w *World) AddSphere(mass, radius float64, pos, vel Vec3) (*Body, error) {
	if w.closed {
		return nil, ErrDisconnected
	}
	if mass <= 0 || radius <= 0 {
		return nil, fmt.Errorf("%w: mass %g radius %g", ErrInvalidBody, mass, radius)
	}
	b := &Body{ID: len(w.bodies), Mass: mass, Radius: radius, Position: pos, Velocity: vel}
	if err := dynamo.Validate(w.motion, b.state()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	w.bodies = append(w.bodies, b)
	return b, nil
}

// AddDistanceConstraint pins b at its current distance from anchor.
func (w *World) AddDistanceConstraint(anchor Vec3, b *Body) *DistanceConstraint {
	c := &DistanceConstraint{Anchor: anchor, Body: b, Length: b.Position.Sub(anchor).Norm()}
	w.constraints = append(w.constraints, c)
	return c
}

// Step advances the world by one fixed time step: integrate free flight,
// project constraints for a fixed number of iterations, then resolve ground
// contact.
func (w *World) Step() error {
	if w.closed {
		return ErrDisconnected
	}
	dt := w.params.TimeStep

	for _, b := range w.bodies {
		next := w.integ.Step(w.motion, b.state(), w.time, dt)
		if !next.IsValid() {
			return &dynamo.StepError{Step: w.steps, Time: w.time, State: next, Wrapped: dynamo.ErrInvalidState}
		}
		b.setState(next)
	}

	for i := 0; i < w.params.SolverIterations; i++ {
		for _, c := range w.constraints {
			c.projectPosition()
			c.projectVelocity()
		}
	}

	if w.ground {
		for _, b := range w.bodies {
			w.resolveGround(b)
		}
	}

	w.time += dt
	w.steps++
	return nil
}

func (w *World) resolveGround(b *Body) {
	penetration := b.Radius - b.Position.Z
	if penetration <= 0 {
		return
	}
	if b.Velocity.Z < 0 {
		b.Velocity.Z = -w.params.Restitution * b.Velocity.Z
	}
	if penetration > correctionSlop {
		b.Position.Z += (penetration - correctionSlop) * correctionPercent
	}
}

// InContact reports whether b touches the ground plane.
func (w *World) InContact(b *Body) bool {
	return w.ground && b.Position.Z <= b.Radius
}
