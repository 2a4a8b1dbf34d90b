package spatialmath

import "math"

// Pose is a rigid-body transform: a translation plus a unit-quaternion
// rotation, expressing one frame's coordinates relative to another. This
// is the Transform of spec §3: composition is associative but not
// commutative, and inversion follows (-R^-1*t, R^-1).
type Pose struct {
	Translation Vector
	Rotation    Quaternion
}

// NewPose builds a Pose from a translation and rotation.
func NewPose(translation Vector, rotation Quaternion) Pose {
	return Pose{Translation: translation, Rotation: rotation.Normalize()}
}

// NewPoseFromPoint builds a pure-translation Pose (identity rotation).
func NewPoseFromPoint(p Vector) Pose {
	return Pose{Translation: p, Rotation: IdentityQuaternion}
}

// NewPoseFromOrientation builds a Pose from a translation and an
// axis-angle orientation.
func NewPoseFromOrientation(p Vector, aa R4AA) Pose {
	return Pose{Translation: p, Rotation: NewQuaternionFromAxisAngle(aa)}
}

// Identity is the identity transform.
var Identity = Pose{Rotation: IdentityQuaternion}

// Compose returns the transform that applies a then b: points first pass
// through a's local frame, and the result is re-expressed through b.
// Column-major convention, matching ToMat4/FromMat4 below: Compose(a, b)
// corresponds to the matrix product b.Matrix() * a.Matrix().
func Compose(a, b Pose) Pose {
	return Pose{
		Translation: b.Rotation.RotateVector(a.Translation).Add(b.Translation),
		Rotation:    b.Rotation.Multiply(a.Rotation).Normalize(),
	}
}

// Invert returns p^-1 such that Compose(p, Invert(p)) is (approximately)
// Identity.
func Invert(p Pose) Pose {
	inv := p.Rotation.Invert()
	return Pose{
		Translation: inv.RotateVector(p.Translation).Mul(-1),
		Rotation:    inv,
	}
}

// Apply rotates then translates point by p (rotate-then-translate, per
// spec §4.A).
func Apply(p Pose, point Vector) Vector {
	return p.Rotation.RotateVector(point).Add(p.Translation)
}

// AlmostEqual reports whether p and q are the same rigid transform within
// eps (translation compared component-wise, rotation compared via
// |dot| ~= 1).
func (p Pose) AlmostEqual(q Pose, eps float64) bool {
	return VectorAlmostEqual(p.Translation, q.Translation, eps) && p.Rotation.AlmostEqual(q.Rotation, eps)
}

// ToMat4 renders p as a 16-element column-major 4x4 matrix, suitable for
// handing to an external renderer (spec §6.3).
func (p Pose) ToMat4() [16]float64 {
	q := p.Rotation
	x, y, z, w := q.X, q.Y, q.Z, q.W

	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	var m [16]float64
	// Column-major: m[col*4+row].
	m[0] = 1 - 2*(yy+zz)
	m[1] = 2 * (xy + wz)
	m[2] = 2 * (xz - wy)
	m[3] = 0

	m[4] = 2 * (xy - wz)
	m[5] = 1 - 2*(xx+zz)
	m[6] = 2 * (yz + wx)
	m[7] = 0

	m[8] = 2 * (xz + wy)
	m[9] = 2 * (yz - wx)
	m[10] = 1 - 2*(xx+yy)
	m[11] = 0

	m[12] = p.Translation.X
	m[13] = p.Translation.Y
	m[14] = p.Translation.Z
	m[15] = 1
	return m
}

// ToMat4Array34 is a 3x4, row-major (translation+rotation only)
// convenience for renderer adapters that do not want a full homogeneous
// 4x4 (SPEC_FULL §12).
func (p Pose) ToMat4Array34() [12]float64 {
	m := p.ToMat4()
	return [12]float64{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
	}
}

// FromMat4 decomposes a column-major 4x4 matrix back into a Pose,
// extracting rotation from the upper-left 3x3 block (spec §4.A).
func FromMat4(m [16]float64) Pose {
	trace := m[0] + m[5] + m[10]

	var q Quaternion
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		q = Quaternion{
			W: 0.25 / s,
			X: (m[6] - m[9]) * s,
			Y: (m[8] - m[2]) * s,
			Z: (m[1] - m[4]) * s,
		}
	case m[0] > m[5] && m[0] > m[10]:
		s := 2.0 * math.Sqrt(1.0+m[0]-m[5]-m[10])
		q = Quaternion{
			W: (m[6] - m[9]) / s,
			X: 0.25 * s,
			Y: (m[4] + m[1]) / s,
			Z: (m[8] + m[2]) / s,
		}
	case m[5] > m[10]:
		s := 2.0 * math.Sqrt(1.0+m[5]-m[0]-m[10])
		q = Quaternion{
			W: (m[8] - m[2]) / s,
			X: (m[4] + m[1]) / s,
			Y: 0.25 * s,
			Z: (m[9] + m[6]) / s,
		}
	default:
		s := 2.0 * math.Sqrt(1.0+m[10]-m[0]-m[5])
		q = Quaternion{
			W: (m[1] - m[4]) / s,
			X: (m[8] + m[2]) / s,
			Y: (m[9] + m[6]) / s,
			Z: 0.25 * s,
		}
	}

	return Pose{
		Translation: NewVector(m[12], m[13], m[14]),
		Rotation:    q.Normalize(),
	}
}
