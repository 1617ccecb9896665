package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/htmlbox/internal/core/orientation"
	"github.com/zeusync/htmlbox/internal/core/prism"
)

const sample = `
log:
  level: debug
  format: console
prism:
  name: box
  width: 1
  height: 2
  depth: 1
  edge_thickness: 0.05
  ground: [2, 0, -1]
  steps: 10
  step_duration: 15ms
  snap_decimals: 1
  faces:
    front:
      name: signup
      markup: "<form><input name=\"n\"></form>"
    Top:
      markup: "<p>hello</p>"
grid:
  tile_size: 1
  origin_x: 1
  origin_z: -2
  gate_moves: true
  pattern:
    - [0.1, 0.1, ~]
    - [~, 0.2, 0.1]
server:
  addr: "127.0.0.1:9000"
  path: /socket
  write_timeout: 2s
`

func TestLoadSample(t *testing.T) {
	c, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "console", c.Log.Format)

	pc := c.Prism.Prism()
	assert.Equal(t, "box", pc.Name)
	assert.Equal(t, mgl64.Vec3{2, 0, -1}, pc.Ground)
	assert.Equal(t, 10, pc.Steps)
	assert.Equal(t, 15*time.Millisecond, pc.StepDuration)
	assert.Equal(t, 0.05, pc.EdgeThickness)

	faces, err := c.Prism.FaceContents()
	require.NoError(t, err)
	assert.Equal(t, prism.FaceContent{Name: "signup", Markup: `<form><input name="n"></form>`}, faces[orientation.Front])
	assert.Equal(t, "<p>hello</p>", faces[orientation.Top].Markup)

	require.Len(t, c.Grid.Pattern, 2)
	assert.Nil(t, c.Grid.Pattern[0][2])
	assert.Nil(t, c.Grid.Pattern[1][0])
	require.NotNil(t, c.Grid.Pattern[1][1])
	assert.Equal(t, 0.2, *c.Grid.Pattern[1][1])
	assert.True(t, c.Grid.GateMoves)
	assert.Equal(t, -2, c.Grid.OriginZ)

	assert.Equal(t, "127.0.0.1:9000", c.Server.Addr)
	assert.Equal(t, "/socket", c.Server.Path)
	assert.Equal(t, 2*time.Second, c.Server.WriteTimeout)
}

func TestLoadEmptyKeepsDefaults(t *testing.T) {
	c, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadPartialOverridesDefaults(t *testing.T) {
	c, err := Load(strings.NewReader("prism:\n  width: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.Prism.Width)
	assert.Equal(t, prism.DefaultSteps, c.Prism.Steps)
	assert.Equal(t, ":8080", c.Server.Addr)
}

func TestDefaultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().Encode(&buf))
	assert.Contains(t, buf.String(), "step_duration: 10ms")

	c, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"zero width", "prism:\n  width: 0\n", prism.ErrInvalidExtents},
		{"negative height", "prism:\n  height: -2\n", prism.ErrInvalidExtents},
		{"no steps", "prism:\n  steps: 0\n", prism.ErrInvalidSteps},
		{"bad face", "prism:\n  faces:\n    side:\n      markup: x\n", orientation.ErrUnknownFace},
		{"tile size", "grid:\n  tile_size: 0\n", ErrInvalidTileSize},
		{"log level", "log:\n  level: loud\n", ErrInvalidLogLevel},
		{"log format", "log:\n  format: xml\n", ErrInvalidLogFormat},
		{"addr", "server:\n  addr: \"\"\n", ErrMissingAddr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("prism:\n  colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "htmlbox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "box", c.Prism.Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExampleConfigIsValid(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "..", "htmlbox.example.yaml"))
	require.NoError(t, err)
	require.Len(t, c.Grid.Pattern, 5)
	assert.Nil(t, c.Grid.Pattern[2][3])
	assert.True(t, c.Grid.GateMoves)

	faces, err := c.Prism.FaceContents()
	require.NoError(t, err)
	assert.Len(t, faces, 2)
}
