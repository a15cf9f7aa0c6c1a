// Package parse turns free-text questions into structured problems.
package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/kinematica/internal/problem"
)

var ErrParse = errors.New("kinematica: cannot parse problem")

type Parser interface {
	Parse(ctx context.Context, text string) (problem.ParsedProblem, error)
}

type rawObject struct {
	Name     string  `json:"name"`
	Mass     float64 `json:"mass"`
	Velocity float64 `json:"velocity"`
}

type rawProblem struct {
	ProblemType   string                     `json:"problem_type"`
	Parameters    map[string]json.RawMessage `json:"parameters"`
	QuantityAsked string                     `json:"quantity_asked"`
	Objects       []rawObject                `json:"objects"`
}

var quantityAliases = map[string]string{
	"horizontal_range":   problem.QuantityRange,
	"distance_traveled":  problem.QuantityRange,
	"maximum_height":     problem.QuantityMaxHeight,
	"time_of_flight":     problem.QuantityTimeFlight,
	"flight_time":        problem.QuantityTimeFlight,
	"impact_velocity":    problem.QuantityFinalVelocity,
	"fall_time":          problem.QuantityTimeFall,
	"time":               problem.QuantityTimeFall,
	"oscillation_period": problem.QuantityPeriod,
	"maximum_velocity":   problem.QuantityMaxVelocity,
	"max_speed":          problem.QuantityMaxVelocity,
	"velocities":         problem.QuantityFinalVelocities,
}

// Decode maps a model response onto a problem. Code fences around the JSON
// are tolerated and non-numeric parameters are dropped.
func Decode(raw, text string) (problem.ParsedProblem, error) {
	var rp rawProblem
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &rp); err != nil {
		return problem.ParsedProblem{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	family, err := problem.ParseFamily(rp.ProblemType)
	if err != nil {
		return problem.ParsedProblem{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	params := make(map[string]float64, len(rp.Parameters))
	for name, v := range rp.Parameters {
		if f, ok := number(v); ok {
			params[normalize(name)] = f
		}
	}

	objects := make([]problem.PhysicsObject, 0, len(rp.Objects))
	for _, o := range rp.Objects {
		objects = append(objects, problem.PhysicsObject{Name: o.Name, Mass: o.Mass, Velocity: o.Velocity})
	}
	if family == problem.Collision && len(objects) < 2 {
		objects = objectsFromParams(params)
	}

	p := problem.New(family, params, quantity(rp.QuantityAsked), objects...)
	return p.WithText(strings.TrimSpace(text)), nil
}

func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func number(v json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func quantity(s string) string {
	q := normalize(s)
	if alias, ok := quantityAliases[q]; ok {
		return alias
	}
	return q
}

func objectsFromParams(params map[string]float64) []problem.PhysicsObject {
	ma, okMA := params[problem.ParamMassA]
	mb, okMB := params[problem.ParamMassB]
	if !okMA || !okMB {
		return nil
	}
	return []problem.PhysicsObject{
		{Name: "A", Mass: ma, Velocity: params[problem.ParamVelocityA]},
		{Name: "B", Mass: mb, Velocity: params[problem.ParamVelocityB]},
	}
}
