package orientation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one of the six faces of a rectangular prism.
type Face uint8

const (
	Unknown Face = iota
	Top
	Bottom
	Left
	Right
	Front
	Back
)

var ErrUnknownFace = errors.New("unknown face")

// Faces lists the six real faces in a stable order.
var Faces = [...]Face{Top, Bottom, Left, Right, Front, Back}

func (f Face) String() string {
	switch f {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// ParseFace accepts a face name as printed by String, in any case.
func ParseFace(s string) (Face, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Faces {
		if f.String() == name {
			return f, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownFace, s)
}

// Normal returns the outward normal of the face in the prism's local frame.
// Front faces -Z, as in the engine the prism was modelled in.
func (f Face) Normal() mgl64.Vec3 {
	switch f {
	case Top:
		return mgl64.Vec3{0, 1, 0}
	case Bottom:
		return mgl64.Vec3{0, -1, 0}
	case Left:
		return mgl64.Vec3{-1, 0, 0}
	case Right:
		return mgl64.Vec3{1, 0, 0}
	case Front:
		return mgl64.Vec3{0, 0, -1}
	case Back:
		return mgl64.Vec3{0, 0, 1}
	default:
		return mgl64.Vec3{}
	}
}

// Orientation is the rest pose of a prism: the face touching the floor and
// the quarter-turn about the vertical axis applied on top of it.
type Orientation struct {
	Face     Face
	Rotation float64
}

// UnknownOrientation is returned when a rotation matches none of the 24
// reachable poses.
var UnknownOrientation = Orientation{Face: Unknown}

// Valid reports whether o is one of the 24 reachable poses.
func (o Orientation) Valid() bool {
	return o.Face != Unknown
}

// QuarterTurns returns the in-plane rotation as a count in [0,3].
func (o Orientation) QuarterTurns() int {
	n := int(math.Round(o.Rotation/(math.Pi/2))) % 4
	if n < 0 {
		n += 4
	}
	return n
}

func (o Orientation) String() string {
	if !o.Valid() {
		return "unknown"
	}
	return fmt.Sprintf("%s@%d", o.Face, o.QuarterTurns()*90)
}
