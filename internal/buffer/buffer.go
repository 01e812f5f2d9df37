// Package buffer pools the byte slices that connections read into.
package buffer

import "sync"

// DefaultSize is the alignment of buffer capacities.
const DefaultSize = 4096

type Buffer struct{ Data []byte }

// Pool recycles buffers of possibly different sizes; a buffer taken from the
// pool is only reused if its capacity can hold the requested size.
type Pool struct{ pool sync.Pool }

func (p *Pool) Get(size int) *Buffer {
	if b, _ := p.pool.Get().(*Buffer); b != nil {
		if size <= cap(b.Data) {
			b.Data = b.Data[:size]
			return b
		}
		p.Put(b)
	}
	return New(size)
}

func (p *Pool) Put(b *Buffer) {
	if b != nil {
		p.pool.Put(b)
	}
}

func New(size int) *Buffer {
	return &Buffer{Data: make([]byte, size, Align(size, DefaultSize))}
}

// Release returns *buf to the pool and clears the pointer so the buffer
// cannot be used after being released.
func Release(buf **Buffer, pool *Pool) {
	if b := *buf; b != nil {
		*buf = nil
		pool.Put(b)
	}
}

func Align(size, to int) int {
	return ((size + (to - 1)) / to) * to
}
