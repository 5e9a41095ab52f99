// Package memory provides small pooling helpers for hot paths that would
// otherwise allocate per call.
package memory

import (
	"bytes"
	"sync"
)

// maxPooledBufferSize caps the buffers returned to the pool. Oversized
// buffers from one large response would otherwise pin memory forever.
const maxPooledBufferSize = 1 << 20

// BufferPool pools bytes.Buffers for response body reads and JSON encoding.
type BufferPool struct {
	pool sync.Pool
}

// NewBufferPool creates a pool whose buffers start at initialSize capacity.
func NewBufferPool(initialSize int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, initialSize))
			},
		},
	}
}

// Get returns an empty buffer from the pool.
func (p *BufferPool) Get() *bytes.Buffer {
	buf := p.pool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// Put returns a buffer to the pool unless it has grown past the cap.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledBufferSize {
		return
	}
	p.pool.Put(buf)
}
