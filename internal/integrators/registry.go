package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/kinematica/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"euler":            func() dynamo.Integrator { return NewEuler() },
	"symplectic_euler": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"rk4":              func() dynamo.Integrator { return NewRK4() },
	"verlet":           func() dynamo.Integrator { return NewVerlet() },
	"leapfrog":         func() dynamo.Integrator { return NewLeapfrog() },
}

// ByName returns a fresh integrator; instances are not shared.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
