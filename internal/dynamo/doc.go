// Package dynamo provides the numerical primitives the rigid-body engine is
// built on.
//
//   - [State]: flat vector, positions first and velocities second
//   - [System]: ODE right-hand side (dX/dt = f(X, t))
//   - [Integrator]: fixed-step solver
//   - [Metric]: observer that folds states into one number
//
// # Example
//
//	integ, _ := integrators.ByName("verlet")
//	x := dynamo.State{0, 0, 1, 3, 0, 4}
//	for i := 0; i < 240; i++ {
//	    x = integ.Step(body, x, float64(i)*dt, dt)
//	}
//
// # Thread Safety
//
// Integrators keep scratch buffers and are NOT safe for concurrent use.
// Give each goroutine its own instance.
package dynamo
