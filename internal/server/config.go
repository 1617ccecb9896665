package server

import (
	"fmt"
	"time"
)

// Config holds bridge and listener settings.
type Config struct {
	Addr           string        // Listen address
	Path           string        // WebSocket endpoint
	WriteTimeout   time.Duration // Per-frame write deadline
	SendBuffer     int           // Frames queued per client before drops
	AllowedOrigins []string      // Empty accepts any origin
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		Path:         "/ws",
		WriteTimeout: 5 * time.Second,
		SendBuffer:   256,
	}
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: empty addr", ErrInvalidConfig)
	}
	if c.Path == "" || c.Path[0] != '/' {
		return fmt.Errorf("%w: path %q must start with /", ErrInvalidConfig, c.Path)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("%w: write timeout must be positive", ErrInvalidConfig)
	}
	if c.SendBuffer < 1 {
		return fmt.Errorf("%w: send buffer must be at least 1", ErrInvalidConfig)
	}
	return nil
}
