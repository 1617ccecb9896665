package scene

import "errors"

var (
	ErrNilNode      = errors.New("scene: nil node")
	ErrDisposed     = errors.New("scene: node disposed")
	ErrForeignNode  = errors.New("scene: node belongs to another scene")
	ErrParentCycle  = errors.New("scene: parent would create a cycle")
	ErrInvalidSize  = errors.New("scene: size must not be negative")
)
