// Package integrators advances bodies stored in an ecs.World.
//
// [SymplecticEuler] works in place on the store and consumes forces
// accumulated by the physics package. The snapshot methods ([Leapfrog],
// [RK4]) extract positions and velocities into flat arrays, compute gravity
// themselves and write the result back.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/orbitsim/internal/ecs"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Integrator advances every body matched by q by dt.
type Integrator interface {
	Name() string
	Integrate(w *ecs.World, q *ecs.Query, dt float64)
	// ComputesGravity reports whether Integrate evaluates gravity itself, in
	// which case no force solver should run before it.
	ComputesGravity() bool
}

var factories = map[string]func(p physics.Params, lightSpeed float64) Integrator{
	"symplectic-euler": func(physics.Params, float64) Integrator { return NewEuler() },
	"leapfrog":         func(p physics.Params, _ float64) Integrator { return NewLeapfrog(p) },
	"leapfrog-1pn":     func(p physics.Params, c float64) Integrator { return NewPostNewtonian(p, c) },
	"rk4":              func(p physics.Params, _ float64) Integrator { return NewRK4(p) },
}

// ByName builds the named integrator. lightSpeed is used by leapfrog-1pn.
func ByName(name string, p physics.Params, lightSpeed float64) (Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(p, lightSpeed), nil
}

// Names lists the registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
