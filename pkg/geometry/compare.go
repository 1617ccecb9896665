package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEpsilon is the tolerance used when comparing live rotation state
// against exact reference values.
const DefaultEpsilon = 1e-5

// AboutEqual reports whether |a-b| < eps.
func AboutEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// QuatAboutEqual compares two quaternions component-wise. It does not treat
// q and -q as equal; callers that need that check both signs.
func QuatAboutEqual(a, b mgl64.Quat, eps float64) bool {
	return AboutEqual(a.W, b.W, eps) &&
		AboutEqual(a.V[0], b.V[0], eps) &&
		AboutEqual(a.V[1], b.V[1], eps) &&
		AboutEqual(a.V[2], b.V[2], eps)
}

// VecAboutEqual compares two vectors component-wise.
func VecAboutEqual(a, b mgl64.Vec3, eps float64) bool {
	return AboutEqual(a[0], b[0], eps) &&
		AboutEqual(a[1], b[1], eps) &&
		AboutEqual(a[2], b[2], eps)
}

// NegateQuat returns -q, which encodes the same rotation as q.
func NegateQuat(q mgl64.Quat) mgl64.Quat {
	return mgl64.Quat{W: -q.W, V: q.V.Mul(-1)}
}
