package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RoundTo rounds v to the given number of decimal places. Applying it to an
// already rounded value returns that value unchanged. Negative zero is
// folded into zero.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

// SnapVec rounds every coordinate of v with RoundTo.
func SnapVec(v mgl64.Vec3, decimals int) mgl64.Vec3 {
	return mgl64.Vec3{
		RoundTo(v[0], decimals),
		RoundTo(v[1], decimals),
		RoundTo(v[2], decimals),
	}
}

// RotateAround turns a transform (pos, rot) by angle radians about the line
// through pivot with direction axis. Both the position and the orientation
// change, matching a world-space rotation of a rigid body.
func RotateAround(pos mgl64.Vec3, rot mgl64.Quat, pivot, axis mgl64.Vec3, angle float64) (mgl64.Vec3, mgl64.Quat) {
	r := mgl64.QuatRotate(angle, axis.Normalize())
	offset := r.Rotate(pos.Sub(pivot))
	return pivot.Add(offset), r.Mul(rot)
}

// AbsExtents returns the axis-aligned extents of a box with the given local
// extents after rotation by rot.
func AbsExtents(rot mgl64.Quat, extents mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		var local mgl64.Vec3
		local[i] = extents[i]
		w := rot.Rotate(local)
		out[0] += math.Abs(w[0])
		out[1] += math.Abs(w[1])
		out[2] += math.Abs(w[2])
	}
	return out
}
