// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/playback"
)

// BufferChain moves decoded windows from a decoder onto a device source,
// reusing buffers the source has finished with.
type BufferChain struct {
	engine playback.Engine
	source playback.Source
	dec    audio.Source
	window int

	buffers []playback.Buffer
	free    []playback.Buffer
}

// NewBufferChain pulls window samples per Fill.
func NewBufferChain(engine playback.Engine, source playback.Source, dec audio.Source, window int) *BufferChain {
	return &BufferChain{
		engine: engine,
		source: source,
		dec:    dec,
		window: max(window, 1),
	}
}

// Fill decodes one window and queues it. It reports false, without
// touching the decoder, once the decoder is finished.
func (c *BufferChain) Fill() (bool, error) {
	if c.dec.Finished() {
		return false, nil
	}

	_, data, err := c.dec.ReadSamples(c.window)
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}

	b, err := c.buffer()
	if err != nil {
		return false, err
	}

	if err := b.BufferData(data, c.dec.Format()); err != nil {
		c.free = append(c.free, b)
		return false, backendError("buffer data", err)
	}

	if err := c.source.QueueBuffer(b); err != nil {
		c.free = append(c.free, b)
		return false, backendError("queue buffer", err)
	}

	return true, nil
}

// buffer returns a processed buffer when one is available, or a new one.
func (c *BufferChain) buffer() (playback.Buffer, error) {
	c.free = append(c.free, c.source.Processed()...)

	if n := len(c.free); n > 0 {
		b := c.free[n-1]
		c.free = c.free[:n-1]
		return b, nil
	}

	b, err := c.engine.CreateBuffer()
	if err != nil {
		return nil, backendError("create buffer", err)
	}
	c.buffers = append(c.buffers, b)

	return b, nil
}

// Queued is the number of buffers waiting on the source.
func (c *BufferChain) Queued() int { return c.source.BuffersQueued() }

// Allocated is the number of buffers the chain has created.
func (c *BufferChain) Allocated() int { return len(c.buffers) }

// Close releases every buffer the chain created. The source must be closed
// or stopped first so none of them is still queued.
func (c *BufferChain) Close() error {
	var errs []error
	for _, b := range c.buffers {
		if err := b.Close(); err != nil {
			errs = append(errs, backendError("close buffer", err))
		}
	}

	c.buffers = nil
	c.free = nil

	return errors.Join(errs...)
}
