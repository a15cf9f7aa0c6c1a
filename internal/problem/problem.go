package problem

import (
	"maps"
	"slices"
)

// Parameter keys understood by the solver.
const (
	ParamInitialVelocity = "initial_velocity"
	ParamAngle           = "angle"
	ParamHeight          = "height"
	ParamTime            = "time"
	ParamLength          = "length"
	ParamInitialAngle    = "initial_angle"
	ParamMassA           = "mass_a"
	ParamMassB           = "mass_b"
	ParamVelocityA       = "velocity_a"
	ParamVelocityB       = "velocity_b"
	ParamRestitution     = "restitution"
)

// Quantities a problem may ask for.
const (
	QuantityRange           = "range"
	QuantityMaxHeight       = "max_height"
	QuantityTimeFlight      = "time_flight"
	QuantityFinalVelocity   = "final_velocity"
	QuantityDistance        = "distance"
	QuantityTimeFall        = "time_fall"
	QuantityPeriod          = "period"
	QuantityMaxVelocity     = "max_velocity"
	QuantityFinalVelocities = "final_velocities"
)

// PhysicsObject is a point mass moving along the collision axis.
type PhysicsObject struct {
	Name     string  `json:"name" yaml:"name"`
	Mass     float64 `json:"mass" yaml:"mass"`
	Velocity float64 `json:"velocity" yaml:"velocity"`
}

// ParsedProblem is the structured form of a question. Values are SI except
// angles, which are degrees. It is built once and treated as read-only.
type ParsedProblem struct {
	Text          string             `json:"text,omitempty" yaml:"text,omitempty"`
	Family        Family             `json:"problem_type" yaml:"problem_type"`
	Parameters    map[string]float64 `json:"parameters" yaml:"parameters"`
	QuantityAsked string             `json:"quantity_asked,omitempty" yaml:"quantity_asked,omitempty"`
	Objects       []PhysicsObject    `json:"objects,omitempty" yaml:"objects,omitempty"`
}

func New(family Family, params map[string]float64, quantity string, objects ...PhysicsObject) ParsedProblem {
	return ParsedProblem{
		Family:        family,
		Parameters:    maps.Clone(params),
		QuantityAsked: quantity,
		Objects:       slices.Clone(objects),
	}
}

func (p ParsedProblem) Param(name string) (float64, bool) {
	v, ok := p.Parameters[name]
	return v, ok
}

func (p ParsedProblem) ParamOr(name string, def float64) float64 {
	if v, ok := p.Parameters[name]; ok {
		return v
	}
	return def
}

func (p ParsedProblem) WithText(text string) ParsedProblem {
	c := p.Clone()
	c.Text = text
	return c
}

func (p ParsedProblem) Clone() ParsedProblem {
	c := p
	c.Parameters = maps.Clone(p.Parameters)
	c.Objects = slices.Clone(p.Objects)
	return c
}
