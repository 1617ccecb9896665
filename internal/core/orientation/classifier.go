package orientation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/htmlbox/pkg/geometry"
)

// Reference is one entry of the classification table.
type Reference struct {
	Quat        mgl64.Quat
	Orientation Orientation
}

// quarterTurns are the in-plane rotations, in table order.
var quarterTurns = [...]float64{0, math.Pi / 2, math.Pi, -math.Pi / 2}

// base returns the rotation that brings face onto the floor with no
// in-plane turn.
func base(face Face) mgl64.Quat {
	switch face {
	case Top:
		return mgl64.QuatRotate(math.Pi, mgl64.Vec3{1, 0, 0})
	case Right:
		return mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{0, 0, 1})
	case Left:
		return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	case Front:
		return mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})
	case Back:
		return mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})
	default:
		return mgl64.QuatIdent()
	}
}

var references = buildReferences()

func buildReferences() []Reference {
	refs := make([]Reference, 0, len(Faces)*len(quarterTurns))
	// Bottom first so the identity rotation hits the first entry.
	order := [...]Face{Bottom, Top, Left, Right, Front, Back}
	for _, face := range order {
		b := base(face)
		for _, turn := range quarterTurns {
			yaw := mgl64.QuatRotate(turn, mgl64.Vec3{0, 1, 0})
			refs = append(refs, Reference{
				Quat:        yaw.Mul(b),
				Orientation: Orientation{Face: face, Rotation: turn},
			})
		}
	}
	return refs
}

// References returns a copy of the 24-entry classification table.
func References() []Reference {
	out := make([]Reference, len(references))
	copy(out, references)
	return out
}

// RotationFor returns the reference quaternion of o, or false when o is not
// one of the 24 poses.
func RotationFor(o Orientation) (mgl64.Quat, bool) {
	for _, ref := range references {
		if ref.Orientation.Face == o.Face && geometry.AboutEqual(ref.Orientation.Rotation, o.Rotation, geometry.DefaultEpsilon) {
			return ref.Quat, true
		}
	}
	return mgl64.Quat{}, false
}

// Classifier maps rotation state onto one of the 24 poses.
type Classifier struct {
	eps float64
}

// NewClassifier returns a classifier with the given tolerance; a
// non-positive eps selects geometry.DefaultEpsilon.
func NewClassifier(eps float64) Classifier {
	if eps <= 0 {
		eps = geometry.DefaultEpsilon
	}
	return Classifier{eps: eps}
}

// Classify returns the pose encoded by q. The zero quaternion is read as
// "no rotation" and maps to bottom at 0. q and -q classify identically.
// Anything outside the table yields UnknownOrientation.
func (c Classifier) Classify(q mgl64.Quat) Orientation {
	eps := c.eps
	if eps <= 0 {
		eps = geometry.DefaultEpsilon
	}
	if q.W == 0 && q.V == (mgl64.Vec3{}) {
		return Orientation{Face: Bottom}
	}
	neg := geometry.NegateQuat(q)
	for _, ref := range references {
		if geometry.QuatAboutEqual(q, ref.Quat, eps) || geometry.QuatAboutEqual(neg, ref.Quat, eps) {
			return ref.Orientation
		}
	}
	return UnknownOrientation
}

var defaultClassifier = NewClassifier(geometry.DefaultEpsilon)

// Classify uses the default tolerance.
func Classify(q mgl64.Quat) Orientation {
	return defaultClassifier.Classify(q)
}
