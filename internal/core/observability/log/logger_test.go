package log

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromCore(core, level), logs
}

func TestLoggerFields(t *testing.T) {
	l, logs := newObserved(LevelDebug)
	child := l.With(String("component", "prism"))

	child.Info("roll finished",
		Vec3("position", mgl64.Vec3{1, 0.5, 0}),
		Quat("rotation", mgl64.QuatIdent()),
		Int("steps", 20),
		Duration("took", 200*time.Millisecond),
		Bool("ok", true),
		Error(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "roll finished", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "prism", ctx["component"])
	assert.Equal(t, []interface{}{1.0, 0.5, 0.0}, ctx["position"])
	assert.Equal(t, int64(20), ctx["steps"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLoggerLevels(t *testing.T) {
	l, logs := newObserved(LevelInfo)
	l.Debug("hidden")
	l.Log(LevelWarn, "shown")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

	l.SetLevel(LevelError)
	assert.Equal(t, LevelError, l.GetLevel())
	l.Warn("hidden")
	assert.Equal(t, 1, logs.Len())

	l.SetLevel(LevelSilent)
	l.Error("hidden")
	l.Log(LevelSilent, "hidden")
	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, LevelSilent, l.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelSilent, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("chatty"))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := NewNop()
	assert.Same(t, l, OrNop(l))
}

func TestBuildFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	l, err := Build(LevelInfo, Options{Format: "console", Output: []string{path}})
	require.NoError(t, err)
	l.Info("roll finished", String("face", "BOTTOM"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "roll finished")
	assert.Contains(t, string(data), "BOTTOM")

	_, err = Build(LevelInfo, Options{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
