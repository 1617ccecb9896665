package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed   = errors.New("server is closed")
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidMessage = errors.New("invalid message")
	ErrInvalidConfig  = errors.New("invalid server configuration")
	ErrNilBoard       = errors.New("board is nil")
)
