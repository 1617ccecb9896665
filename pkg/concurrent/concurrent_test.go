package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zeusync/htmlbox/pkg/sequence"
)

func TestLimitedVisitsEveryElement(t *testing.T) {
	var sum atomic.Int64
	err := Limited(sequence.From([]int{1, 2, 3, 4}), 0, func(v int) error {
		sum.Add(int64(v))
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestLimitedReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := Limited(sequence.From([]int{1, 2, 3}), 2, func(v int) error {
		if v == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestLimitedBoundsParallelism(t *testing.T) {
	var running, peak atomic.Int32
	err := Limited(sequence.From(make([]int, 16)), 2, func(int) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	assert.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}
