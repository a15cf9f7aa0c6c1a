// Package kinematics holds the closed-form results for the supported
// problem families. Everything here is pure and deterministic.
package kinematics

import (
	"math"

	"github.com/san-kum/kinematica/internal/problem"
	"gonum.org/v1/gonum/mathext"
)

// G is standard gravity in m/s².
const G = 9.81

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Projectile launches from height h0 at speed v0 and angle angleDeg above
// the horizontal and lands on the ground plane.
func Projectile(v0, angleDeg, h0 float64) (problem.ProjectileResult, error) {
	theta := Radians(angleDeg)
	v0x := v0 * math.Cos(theta)
	v0y := v0 * math.Sin(theta)

	disc := v0y*v0y + 2*G*h0
	if disc < 0 {
		return problem.ProjectileResult{}, problem.ErrNoRealSolution
	}
	t := (v0y + math.Sqrt(disc)) / G

	ta := v0y / G
	maxH := h0 + v0y*ta - 0.5*G*ta*ta
	vyLand := v0y - G*t

	return problem.ProjectileResult{
		Range:      v0x * t,
		MaxHeight:  maxH,
		TimeFlight: t,
		TimeToApex: ta,
		FinalSpeed: math.Hypot(v0x, vyLand),
		V0x:        v0x,
		V0y:        v0y,
	}, nil
}

// FreeFall works in time mode when t > 0 and in height mode otherwise.
// Both modes assume release from rest.
func FreeFall(h, t float64) (problem.FreeFallResult, error) {
	if t > 0 {
		return problem.FreeFallResult{
			Mode:          problem.FreeFallByTime,
			Distance:      0.5 * G * t * t,
			FinalVelocity: G * t,
			TimeFall:      t,
		}, nil
	}
	if h <= 0 {
		return problem.FreeFallResult{}, &problem.ParamError{
			Family: problem.FreeFall, Name: problem.ParamHeight, Value: h,
			Reason: "need a positive height or time",
		}
	}
	return problem.FreeFallResult{
		Mode:          problem.FreeFallByHeight,
		Distance:      h,
		FinalVelocity: math.Sqrt(2 * G * h),
		TimeFall:      math.Sqrt(2 * h / G),
	}, nil
}

// Pendulum uses the small-angle period; the maximum speed comes from energy
// conservation and is exact for any release angle.
func Pendulum(length, angleDeg float64) (problem.PendulumResult, error) {
	if length <= 0 {
		return problem.PendulumResult{}, &problem.ParamError{
			Family: problem.Pendulum, Name: problem.ParamLength, Value: length,
			Reason: "must be positive",
		}
	}
	period := SmallAnglePeriod(length)
	return problem.PendulumResult{
		Period:      period,
		MaxVelocity: math.Sqrt(2 * G * length * (1 - math.Cos(Radians(angleDeg)))),
		Frequency:   1 / period,
	}, nil
}

func SmallAnglePeriod(length float64) float64 {
	return 2 * math.Pi * math.Sqrt(length/G)
}

// LargeAnglePeriod applies the first two series corrections in k = sin(θ₀/2).
func LargeAnglePeriod(length, angleDeg float64) float64 {
	k := math.Sin(Radians(angleDeg) / 2)
	k2 := k * k
	return SmallAnglePeriod(length) * (1 + k2/4 + 9*k2*k2/64)
}

// ExactPeriod is 4√(L/g)·K(m) with m = sin²(θ₀/2).
func ExactPeriod(length, angleDeg float64) float64 {
	k := math.Sin(Radians(angleDeg) / 2)
	return 4 * math.Sqrt(length/G) * mathext.CompleteK(k*k)
}

// Collision returns the post-impact velocities of a 1-D elastic collision.
func Collision(mA, mB, vA, vB float64) (problem.CollisionResult, error) {
	return CollisionWithRestitution(mA, mB, vA, vB, 1)
}

// CollisionWithRestitution generalises [Collision]; e = 1 is elastic and
// e = 0 perfectly inelastic.
func CollisionWithRestitution(mA, mB, vA, vB, e float64) (problem.CollisionResult, error) {
	if mA <= 0 {
		return problem.CollisionResult{}, &problem.ParamError{Family: problem.Collision, Name: problem.ParamMassA, Value: mA, Reason: "must be positive"}
	}
	if mB <= 0 {
		return problem.CollisionResult{}, &problem.ParamError{Family: problem.Collision, Name: problem.ParamMassB, Value: mB, Reason: "must be positive"}
	}
	total := mA + mB
	if e == 1 {
		return problem.CollisionResult{
			VelocityA: ((mA-mB)*vA + 2*mB*vB) / total,
			VelocityB: ((mB-mA)*vB + 2*mA*vA) / total,
		}, nil
	}
	p := mA*vA + mB*vB
	return problem.CollisionResult{
		VelocityA: (p + mB*e*(vB-vA)) / total,
		VelocityB: (p + mA*e*(vA-vB)) / total,
	}, nil
}

func Momentum(m, v float64) float64 { return m * v }

func KineticEnergy(m, v float64) float64 { return 0.5 * m * v * v }
