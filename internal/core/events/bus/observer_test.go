package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/htmlbox/internal/core/observability/log"
)

func TestLogObserverReportsFailedAndSlowDeliveries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	b := New()
	b.AddObserver(NewLogObserver(log.FromCore(core, log.LevelDebug), 5*time.Millisecond))

	boom := errors.New("boom")
	_, err := b.Subscribe("fail", func(Event) error { return boom })
	require.NoError(t, err)
	_, err = b.Subscribe("slow", func(Event) error { time.Sleep(20 * time.Millisecond); return nil })
	require.NoError(t, err)
	_, err = b.Subscribe("fast", func(Event) error { return nil })
	require.NoError(t, err)

	assert.ErrorIs(t, b.Publish(NewEvent("fail", "test", nil)), boom)
	require.NoError(t, b.Publish(NewEvent("slow", "test", nil)))
	require.NoError(t, b.Publish(NewEvent("fast", "test", nil)))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Event handlers failed", entries[0].Message)
	assert.Equal(t, "fail", entries[0].ContextMap()["event"])
	assert.Equal(t, "Slow event delivery", entries[1].Message)
	assert.Equal(t, "slow", entries[1].ContextMap()["event"])

	m := b.GetMetrics()
	assert.Equal(t, uint64(3), m.Published)
	assert.Equal(t, uint64(1), m.Errors)
}

func TestLogObserverWithoutLatencyCheck(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewLogObserver(log.FromCore(core, log.LevelDebug), 0)
	obs.OnDelivered("slow", 1, nil, time.Hour)
	assert.Zero(t, logs.Len())
}
