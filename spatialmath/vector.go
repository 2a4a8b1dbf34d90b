// Package spatialmath provides the rigid-body math primitives the frame
// graph is built on: 3D vectors, unit quaternions, and composable rigid
// transforms. It mirrors the external math contract a frame graph needs
// (see frametree's design notes) without pulling in a full linear-algebra
// stack.
package spatialmath

import "github.com/golang/geo/r3"

// Vector is a point or free vector in R3. It is exactly golang/geo's
// r3.Vector; there is no reason to wrap it in a second type when the
// pack's own conventions already reach for r3 wherever a Vec3 is needed.
type Vector = r3.Vector

// NewVector constructs a Vector from its three components.
func NewVector(x, y, z float64) Vector {
	return r3.Vector{X: x, Y: y, Z: z}
}

// ZeroVector is the additive identity.
var ZeroVector = Vector{}

// LerpVector linearly interpolates between a and b at parameter t.
// t is not clamped; callers that need clamping (e.g. the temporal buffer)
// do so themselves so the clamp policy stays visible at the call site.
func LerpVector(a, b Vector, t float64) Vector {
	return Vector{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// VectorAlmostEqual reports whether a and b are within eps of each other
// component-wise, matching the epsilon-comparison convention used
// throughout this package.
func VectorAlmostEqual(a, b Vector, eps float64) bool {
	return absf(a.X-b.X) <= eps && absf(a.Y-b.Y) <= eps && absf(a.Z-b.Z) <= eps
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
