package engine

import (
	"math"

	"github.com/san-kum/kinematica/internal/dynamo"
)

// Body is a rigid sphere. Spheres never rotate in this engine, so the state
// is position and linear velocity only.
type Body struct {
	ID       int
	Mass     float64
	Radius   float64
	Position Vec3
	Velocity Vec3
}

func (b *Body) state() dynamo.State {
	return dynamo.State{
		b.Position.X, b.Position.Y, b.Position.Z,
		b.Velocity.X, b.Velocity.Y, b.Velocity.Z,
	}
}

func (b *Body) setState(x dynamo.State) {
	b.Position = Vec3{x[0], x[1], x[2]}
	b.Velocity = Vec3{x[3], x[4], x[5]}
}

// State exposes the body as a dynamo state for metrics.
func (b *Body) State() dynamo.State { return b.state() }

func (b *Body) Speed() float64 { return b.Velocity.Norm() }

// ballistic is free flight in a uniform field.
type ballistic struct {
	g Vec3
}

func (m ballistic) StateDim() int { return 6 }

func (m ballistic) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[3], x[4], x[5], m.g.X, m.g.Y, m.g.Z}
}

// Energy is per unit mass, measured from the origin.
func (m ballistic) Energy(x dynamo.State) float64 {
	v := Vec3{x[3], x[4], x[5]}
	p := Vec3{x[0], x[1], x[2]}
	return 0.5*v.Dot(v) - m.g.Dot(p)
}

// DistanceConstraint keeps a body at a fixed distance from an anchor point,
// as a massless rigid rod would.
type DistanceConstraint struct {
	Anchor Vec3
	Body   *Body
	Length float64
}

func (c *DistanceConstraint) projectPosition() {
	d := c.Body.Position.Sub(c.Anchor)
	dist := d.Norm()
	if dist == 0 {
		return
	}
	c.Body.Position = c.Anchor.Add(d.Scale(c.Length / dist))
}

// projectVelocity removes the velocity component along the rod.
func (c *DistanceConstraint) projectVelocity() {
	n := c.Body.Position.Sub(c.Anchor).Normalize()
	c.Body.Velocity = c.Body.Velocity.Sub(n.Scale(c.Body.Velocity.Dot(n)))
}

// Angle is the deflection from straight down in the x-z plane, in radians.
func (c *DistanceConstraint) Angle() float64 {
	d := c.Body.Position.Sub(c.Anchor)
	return math.Atan2(d.X, -d.Z)
}
