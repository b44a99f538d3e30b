// SPDX-License-Identifier: EPL-2.0

package otoplay

import (
	"io"
	"sync"
)

// queueReader feeds queued buffers to an oto player in order. A buffer
// counts as processed once the player has read all of it.
type queueReader struct {
	mu        sync.Mutex
	pending   []*Buffer
	offset    int
	processed []*Buffer
}

func (q *queueReader) push(b *Buffer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, b)
}

// Read returns io.EOF while the queue is empty, which lets the player run
// dry instead of blocking the device callback.
func (q *queueReader) Read(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var n int
	for n < len(p) && len(q.pending) > 0 {
		head := q.pending[0]
		c := copy(p[n:], head.data[q.offset:])
		n += c
		q.offset += c

		if q.offset == len(head.data) {
			q.pending = q.pending[1:]
			q.offset = 0
			q.processed = append(q.processed, head)
		}
	}

	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (q *queueReader) queued() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}

// takeProcessed removes and returns the fully read buffers.
func (q *queueReader) takeProcessed() []*Buffer {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.processed
	q.processed = nil
	return out
}

// flush marks everything pending as processed.
func (q *queueReader) flush() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.processed = append(q.processed, q.pending...)
	q.pending = nil
	q.offset = 0
}

// drain empties the reader and returns every buffer it held.
func (q *queueReader) drain() []*Buffer {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := append(q.processed, q.pending...)
	q.pending = nil
	q.processed = nil
	q.offset = 0
	return out
}
