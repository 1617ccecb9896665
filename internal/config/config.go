package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/htmlbox/internal/core/grid"
	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/prism"
)

var (
	ErrInvalidTileSize  = errors.New("config: grid tile_size must be positive")
	ErrInvalidLogLevel  = errors.New("config: unknown log level")
	ErrInvalidLogFormat = errors.New("config: unknown log format")
	ErrMissingAddr      = errors.New("config: server addr is empty")
)

// Config is the root of the YAML configuration file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Prism  PrismConfig  `yaml:"prism"`
	Grid   GridConfig   `yaml:"grid"`
	Server ServerConfig `yaml:"server"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is json or console.
	Format string `yaml:"format"`
}

// PrismConfig mirrors prism.Config with file-friendly types.
type PrismConfig struct {
	Name          string                `yaml:"name"`
	Width         float64               `yaml:"width"`
	Height        float64               `yaml:"height"`
	Depth         float64               `yaml:"depth"`
	EdgeThickness float64               `yaml:"edge_thickness"`
	Ground        [3]float64            `yaml:"ground,flow"`
	Steps         int                   `yaml:"steps"`
	StepDuration  time.Duration         `yaml:"step_duration"`
	SnapDecimals  int                   `yaml:"snap_decimals"`
	Faces         map[string]FaceConfig `yaml:"faces,omitempty"`
}

type FaceConfig struct {
	Name   string `yaml:"name,omitempty"`
	Markup string `yaml:"markup"`
}

// GridConfig describes the floor. A ~ cell in Pattern leaves a hole.
type GridConfig struct {
	TileSize float64      `yaml:"tile_size"`
	OriginX  int          `yaml:"origin_x"`
	OriginZ  int          `yaml:"origin_z"`
	Pattern  [][]*float64 `yaml:"pattern"`
	// GateMoves rejects rolls that would leave the tiled area.
	GateMoves bool `yaml:"gate_moves"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	Path         string        `yaml:"path"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// AllowedOrigins empty accepts any origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// Default returns a unit cube on a 3x3 floor.
func Default() Config {
	p := prism.DefaultConfig()
	tile := grid.DefaultTileHeight
	row := func() []*float64 { return []*float64{&tile, &tile, &tile} }
	return Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Prism: PrismConfig{
			Name:          p.Name,
			Width:         p.Width,
			Height:        p.Height,
			Depth:         p.Depth,
			EdgeThickness: p.EdgeThickness,
			Steps:         p.Steps,
			StepDuration:  p.StepDuration,
			SnapDecimals:  p.SnapDecimals,
		},
		Grid: GridConfig{
			TileSize: grid.DefaultTileSize,
			OriginX:  -1,
			OriginZ:  -1,
			Pattern:  [][]*float64{row(), row(), row()},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			Path:         "/ws",
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Load decodes YAML from r on top of Default and validates the result.
func Load(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads the configuration at path.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every section.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error", "silent", "off":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if err := c.Prism.Prism().Validate(); err != nil {
		return err
	}
	if _, err := c.Prism.FaceContents(); err != nil {
		return err
	}
	if c.Grid.TileSize <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidTileSize, c.Grid.TileSize)
	}
	if c.Server.Addr == "" {
		return ErrMissingAddr
	}
	return nil
}

// Prism converts the section into a prism.Config.
func (p PrismConfig) Prism() prism.Config {
	return prism.Config{
		Name:          p.Name,
		Width:         p.Width,
		Height:        p.Height,
		Depth:         p.Depth,
		EdgeThickness: p.EdgeThickness,
		Ground:        mgl64.Vec3(p.Ground),
		Steps:         p.Steps,
		StepDuration:  p.StepDuration,
		SnapDecimals:  p.SnapDecimals,
	}
}

// FaceContents resolves face names into prism face content.
func (p PrismConfig) FaceContents() (map[orientation.Face]prism.FaceContent, error) {
	out := make(map[orientation.Face]prism.FaceContent, len(p.Faces))
	for name, fc := range p.Faces {
		face, err := orientation.ParseFace(name)
		if err != nil {
			return nil, fmt.Errorf("config: prism.faces: %w", err)
		}
		out[face] = prism.FaceContent{Name: fc.Name, Markup: fc.Markup}
	}
	return out, nil
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
