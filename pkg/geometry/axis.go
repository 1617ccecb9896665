package geometry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidAxis = errors.New("invalid axis")

// Axis names one of the three world axes.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

// Valid reports whether a is one of X, Y or Z.
func (a Axis) Valid() bool {
	return a <= AxisZ
}

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
	}
}

// Sign maps a direction flag to -1 or +1.
func Sign(positive bool) float64 {
	if positive {
		return 1
	}
	return -1
}

// IdentityAxisVector returns the unit vector along axis.
func IdentityAxisVector(axis Axis) (mgl64.Vec3, error) {
	switch axis {
	case AxisX:
		return mgl64.Vec3{1, 0, 0}, nil
	case AxisY:
		return mgl64.Vec3{0, 1, 0}, nil
	case AxisZ:
		return mgl64.Vec3{0, 0, 1}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
	}
}

// RotationAxisVector returns the axis a roll along axis turns about.
// Rolling along X turns about Z and rolling along Z turns about X.
// Y maps onto itself and is never used for rolling.
func RotationAxisVector(axis Axis) (mgl64.Vec3, error) {
	switch axis {
	case AxisX:
		return mgl64.Vec3{0, 0, 1}, nil
	case AxisY:
		return mgl64.Vec3{0, 1, 0}, nil
	case AxisZ:
		return mgl64.Vec3{1, 0, 0}, nil
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: %s", ErrInvalidAxis, axis)
	}
}

// RotationSign is the chirality correction that makes a positive roll
// advance the prism towards the positive end of axis: a positive turn
// about Z carries the top towards -X, a positive turn about X carries it
// towards +Z.
func RotationSign(axis Axis) float64 {
	switch axis {
	case AxisX:
		return -1
	case AxisZ:
		return 1
	default:
		return 0
	}
}

// Component returns the coordinate of v along axis.
func Component(v mgl64.Vec3, axis Axis) float64 {
	switch axis {
	case AxisX:
		return v.X()
	case AxisY:
		return v.Y()
	case AxisZ:
		return v.Z()
	default:
		return 0
	}
}

// WithComponent returns a copy of v whose coordinate along axis is value.
func WithComponent(v mgl64.Vec3, axis Axis, value float64) mgl64.Vec3 {
	if axis.Valid() {
		v[axis] = value
	}
	return v
}

// Perpendicular returns the other horizontal axis: X for Z and Z for X.
func Perpendicular(axis Axis) (Axis, error) {
	switch axis {
	case AxisX:
		return AxisZ, nil
	case AxisZ:
		return AxisX, nil
	default:
		return 0, fmt.Errorf("%w: %s has no horizontal perpendicular", ErrInvalidAxis, axis)
	}
}
