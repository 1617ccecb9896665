package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/htmlbox/pkg/geometry"
)

var ErrUnknownDirection = errors.New("unknown direction")

// Direction is one of the four cardinal rolls.
type Direction struct {
	Axis     geometry.Axis
	Positive bool
}

var (
	XPositive = Direction{Axis: geometry.AxisX, Positive: true}
	XNegative = Direction{Axis: geometry.AxisX, Positive: false}
	ZPositive = Direction{Axis: geometry.AxisZ, Positive: true}
	ZNegative = Direction{Axis: geometry.AxisZ, Positive: false}
)

func (d Direction) String() string {
	if d.Positive {
		return d.Axis.String() + "+"
	}
	return d.Axis.String() + "-"
}

// ParseDirection accepts "x+", "x-", "z+", "z-" and the keys w (z+),
// s (z-), d (x+) and a (x-).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x+", "d", "right":
		return XPositive, nil
	case "x-", "a", "left":
		return XNegative, nil
	case "z+", "w", "up":
		return ZPositive, nil
	case "z-", "s", "down":
		return ZNegative, nil
	default:
		return Direction{}, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}
