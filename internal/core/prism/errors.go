package prism

import "errors"

var (
	ErrUnsupportedAxis      = errors.New("prism: only the X and Z axes can be rolled along")
	ErrInvalidExtents       = errors.New("prism: width, height and depth must be positive")
	ErrInvalidEdgeThickness = errors.New("prism: edge thickness must be in [0, smallest extent)")
	ErrInvalidSteps         = errors.New("prism: steps must be at least 1")
	ErrInvalidStepDuration  = errors.New("prism: step duration must not be negative")
	ErrInvalidSnapDecimals  = errors.New("prism: snap decimals must be in [0, 9]")
	ErrNilScene             = errors.New("prism: scene is nil")
)
