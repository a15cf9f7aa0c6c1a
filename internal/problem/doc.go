// Package problem defines the value types exchanged between the solver,
// the simulator and the verifier.
//
//   - [ParsedProblem]: structured question (family, parameters, quantity asked)
//   - [Solution]: closed-form answer with its derivation steps
//   - [SimResult]: what the rigid-body engine measured
//   - [VerificationResult]: agreement between the two
//
// Per-family results ([ProjectileResult], [FreeFallResult], [PendulumResult],
// [CollisionResult]) implement [Measurement], so callers switch on concrete
// types instead of looking values up by string key.
//
// # Errors
//
// Failures are reported with the sentinels in errors.go; use [errors.Is].
package problem
