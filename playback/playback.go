// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"github.com/ik5/audstream/audio"
)

// Engine creates device sources and buffers.
type Engine interface {
	CreateSource() (Source, error)
	CreateBuffer() (Buffer, error)
}

// Source plays a queue of buffers in order.
//
// Only one goroutine may queue buffers on a Source: the occupancy reported
// by BuffersQueued is read and then acted on without a transaction.
type Source interface {
	// QueueBuffer appends b to the play queue. The source takes ownership of
	// b until it is returned by Processed.
	QueueBuffer(b Buffer) error
	// BuffersQueued is the number of queued buffers not yet played.
	BuffersQueued() int
	// Processed unqueues and returns the buffers played since the last call.
	Processed() []Buffer
	IsPlaying() bool
	Play() error
	Stop() error
	// Volume is the output gain in [0, 1].
	Volume() float64
	SetVolume(v float64) error
	Close() error
}

// Buffer holds one block of PCM for a Source.
type Buffer interface {
	// BufferData loads data, replacing any previous contents. The buffer
	// keeps data without copying it.
	BufferData(data []byte, f audio.Format) error
	Close() error
}
