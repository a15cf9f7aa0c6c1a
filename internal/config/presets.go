package config

import (
	"sort"

	"github.com/san-kum/kinematica/internal/problem"
)

// Presets are ready-made problems keyed by family slug and name.
var Presets = map[string]map[string]problem.ParsedProblem{
	"projectile": {
		"standard": {
			Text:          "A ball is launched at 20 m/s at 45 degrees. How far does it travel?",
			Family:        problem.Projectile,
			Parameters:    map[string]float64{problem.ParamInitialVelocity: 20, problem.ParamAngle: 45, problem.ParamHeight: 0},
			QuantityAsked: problem.QuantityRange,
		},
		"cliff": {
			Text:          "A stone is thrown horizontally at 10 m/s from a 20 m cliff. How long is it in the air?",
			Family:        problem.Projectile,
			Parameters:    map[string]float64{problem.ParamInitialVelocity: 10, problem.ParamAngle: 0, problem.ParamHeight: 20},
			QuantityAsked: problem.QuantityTimeFlight,
		},
		"lob": {
			Text:          "A ball is lobbed at 15 m/s at 70 degrees. How high does it go?",
			Family:        problem.Projectile,
			Parameters:    map[string]float64{problem.ParamInitialVelocity: 15, problem.ParamAngle: 70, problem.ParamHeight: 0},
			QuantityAsked: problem.QuantityMaxHeight,
		},
	},
	"free_fall": {
		"standard": {
			Text:          "A ball is dropped from 15 m. How fast is it going when it hits the ground?",
			Family:        problem.FreeFall,
			Parameters:    map[string]float64{problem.ParamHeight: 15, problem.ParamInitialVelocity: 0},
			QuantityAsked: problem.QuantityFinalVelocity,
		},
		"timed": {
			Text:          "How far does an object fall from rest in 2 seconds?",
			Family:        problem.FreeFall,
			Parameters:    map[string]float64{problem.ParamTime: 2},
			QuantityAsked: problem.QuantityDistance,
		},
		"tower": {
			Text:          "How long does a ball take to fall from a 100 m tower?",
			Family:        problem.FreeFall,
			Parameters:    map[string]float64{problem.ParamHeight: 100},
			QuantityAsked: problem.QuantityTimeFall,
		},
	},
	"pendulum": {
		"standard": {
			Text:          "What is the period of a 1 m pendulum released at 30 degrees?",
			Family:        problem.Pendulum,
			Parameters:    map[string]float64{problem.ParamLength: 1, problem.ParamInitialAngle: 30},
			QuantityAsked: problem.QuantityPeriod,
		},
		"small": {
			Text:          "What is the period of a 2.5 m pendulum released at 5 degrees?",
			Family:        problem.Pendulum,
			Parameters:    map[string]float64{problem.ParamLength: 2.5, problem.ParamInitialAngle: 5},
			QuantityAsked: problem.QuantityPeriod,
		},
		"swing": {
			Text:          "How fast does a 2 m pendulum released at 60 degrees move at the bottom?",
			Family:        problem.Pendulum,
			Parameters:    map[string]float64{problem.ParamLength: 2, problem.ParamInitialAngle: 60},
			QuantityAsked: problem.QuantityMaxVelocity,
		},
	},
	"collision": {
		"standard": {
			Text:          "A 1 kg ball at 5 m/s hits a resting 1 kg ball elastically. What are the final velocities?",
			Family:        problem.Collision,
			Parameters:    map[string]float64{},
			QuantityAsked: problem.QuantityFinalVelocities,
			Objects: []problem.PhysicsObject{
				{Name: "Ball A", Mass: 1, Velocity: 5},
				{Name: "Ball B", Mass: 1, Velocity: 0},
			},
		},
		"heavy": {
			Text:          "A 5 kg cart at 2 m/s hits a 1 kg cart moving at -1 m/s elastically.",
			Family:        problem.Collision,
			Parameters:    map[string]float64{},
			QuantityAsked: problem.QuantityFinalVelocities,
			Objects: []problem.PhysicsObject{
				{Name: "Cart A", Mass: 5, Velocity: 2},
				{Name: "Cart B", Mass: 1, Velocity: -1},
			},
		},
	},
}

// GetPreset returns a copy so callers cannot alter the table.
func GetPreset(family, name string) *problem.ParsedProblem {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	p, ok := familyPresets[name]
	if !ok {
		return nil
	}
	c := p.Clone()
	return &c
}

func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func PresetFamilies() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllPresets returns every preset as family/name -> problem.
func AllPresets() map[string]problem.ParsedProblem {
	out := make(map[string]problem.ParsedProblem)
	for family, presets := range Presets {
		for name, p := range presets {
			out[family+"/"+name] = p.Clone()
		}
	}
	return out
}
