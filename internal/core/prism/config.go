package prism

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultSteps         = 20
	DefaultStepDuration  = 10 * time.Millisecond
	DefaultSnapDecimals  = 1
	DefaultEdgeThickness = 0.1
)

// Config describes a prism and how it rolls.
type Config struct {
	Name          string        // Root node name; prefixes every face node
	Width         float64       // Extent along local X
	Height        float64       // Extent along local Y
	Depth         float64       // Extent along local Z
	EdgeThickness float64       // Frame thickness around each face
	Ground        mgl64.Vec3    // Floor point under the prism centre
	Steps         int           // Rotation increments per roll
	StepDuration  time.Duration // Pause before each increment
	SnapDecimals  int           // Decimal grid the position snaps to after a roll
}

// DefaultConfig returns a unit cube resting at the origin.
func DefaultConfig() Config {
	return Config{
		Name:          "prism",
		Width:         1,
		Height:        1,
		Depth:         1,
		EdgeThickness: DefaultEdgeThickness,
		Steps:         DefaultSteps,
		StepDuration:  DefaultStepDuration,
		SnapDecimals:  DefaultSnapDecimals,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Depth <= 0 {
		return fmt.Errorf("%w: got %gx%gx%g", ErrInvalidExtents, c.Width, c.Height, c.Depth)
	}
	smallest := min(c.Width, c.Height, c.Depth)
	if c.EdgeThickness < 0 || c.EdgeThickness >= smallest {
		return fmt.Errorf("%w: got %g", ErrInvalidEdgeThickness, c.EdgeThickness)
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSteps, c.Steps)
	}
	if c.StepDuration < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidStepDuration, c.StepDuration)
	}
	if c.SnapDecimals < 0 || c.SnapDecimals > 9 {
		return fmt.Errorf("%w: got %d", ErrInvalidSnapDecimals, c.SnapDecimals)
	}
	return nil
}

// Extents returns width, height and depth as a vector.
func (c Config) Extents() mgl64.Vec3 {
	return mgl64.Vec3{c.Width, c.Height, c.Depth}
}
