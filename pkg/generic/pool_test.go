package generic

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutResetsValue(t *testing.T) {
	resets := 0
	p := NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, func(b *bytes.Buffer) {
		resets++
		b.Reset()
	})

	b := p.Get()
	b.WriteString("frame")
	p.Put(b)

	assert.Equal(t, 1, resets)
	assert.Zero(t, b.Len())
	assert.NotNil(t, p.Get())
}
