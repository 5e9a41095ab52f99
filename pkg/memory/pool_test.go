package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPoolReuse(t *testing.T) {
	pool := NewBufferPool(64)

	buf := pool.Get()
	buf.WriteString("hello")
	pool.Put(buf)

	// A reused buffer always comes back empty.
	again := pool.Get()
	assert.Zero(t, again.Len())
}

func TestBufferPoolDropsOversized(t *testing.T) {
	pool := NewBufferPool(64)
	buf := pool.Get()
	buf.Grow(2 << 20)
	pool.Put(buf) // must not panic, buffer is discarded

	assert.Zero(t, pool.Get().Len())
}
