// SPDX-License-Identifier: EPL-2.0

package memory

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/playback"
)

var mono8k = audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}

// fakeClock is a manually advanced clock for real-time playback.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func loaded(t *testing.T, e *Engine, data []byte) playback.Buffer {
	t.Helper()

	b, err := e.CreateBuffer()
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	if err := b.BufferData(data, mono8k); err != nil {
		t.Fatalf("BufferData() error = %v", err)
	}
	return b
}

func TestSource_ConsumePlaysInOrder(t *testing.T) {
	t.Parallel()

	e := New()
	ps, _ := e.CreateSource()
	src := ps.(*Source)

	for _, d := range [][]byte{{1, 1}, {2, 2}, {3, 3}} {
		if err := src.QueueBuffer(loaded(t, e, d)); err != nil {
			t.Fatalf("QueueBuffer() error = %v", err)
		}
	}

	if n := src.Consume(1); n != 0 {
		t.Errorf("Consume() before Play played %d buffers", n)
	}

	if err := src.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if n := src.Consume(2); n != 2 {
		t.Errorf("Consume(2) = %d, want 2", n)
	}
	if src.BuffersQueued() != 1 {
		t.Errorf("BuffersQueued() = %d, want 1", src.BuffersQueued())
	}
	if !src.IsPlaying() {
		t.Error("IsPlaying() = false with a buffer left")
	}

	src.Consume(5)

	if src.IsPlaying() {
		t.Error("IsPlaying() = true after the queue drained")
	}
	if !bytes.Equal(src.Played(), []byte{1, 1, 2, 2, 3, 3}) {
		t.Errorf("Played() = %v", src.Played())
	}
	if got := len(src.Processed()); got != 3 {
		t.Errorf("Processed() returned %d buffers, want 3", got)
	}
	if got := len(src.Processed()); got != 0 {
		t.Errorf("second Processed() returned %d buffers, want 0", got)
	}
	if src.MaxQueued() != 3 || src.TotalQueued() != 3 {
		t.Errorf("MaxQueued() = %d, TotalQueued() = %d, want 3 and 3", src.MaxQueued(), src.TotalQueued())
	}
}

func TestSource_Realtime(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Unix(0, 0)}
	e := New(WithRealtime(), WithClock(clock.Now))
	src, _ := e.CreateSource()

	// 100 ms each at 8 kHz mono 16-bit
	for range 3 {
		src.QueueBuffer(loaded(t, e, make([]byte, 1600)))
	}
	src.Play()

	clock.Advance(150 * time.Millisecond)
	if got := src.BuffersQueued(); got != 2 {
		t.Errorf("BuffersQueued() after 150ms = %d, want 2", got)
	}

	clock.Advance(100 * time.Millisecond)
	if got := src.BuffersQueued(); got != 1 {
		t.Errorf("BuffersQueued() after 250ms = %d, want 1", got)
	}

	clock.Advance(50 * time.Millisecond)
	if src.IsPlaying() {
		t.Error("IsPlaying() = true after 300ms of audio elapsed")
	}
}

func TestSource_StopMarksQueueProcessed(t *testing.T) {
	t.Parallel()

	e := New()
	src, _ := e.CreateSource()

	src.QueueBuffer(loaded(t, e, []byte{1, 0}))
	src.QueueBuffer(loaded(t, e, []byte{2, 0}))
	src.Play()

	if err := src.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if src.IsPlaying() || src.BuffersQueued() != 0 {
		t.Errorf("after Stop() playing = %v, queued = %d", src.IsPlaying(), src.BuffersQueued())
	}

	bufs := src.Processed()
	if len(bufs) != 2 {
		t.Fatalf("Processed() returned %d buffers, want 2", len(bufs))
	}

	// unqueued buffers can be loaded again
	if err := bufs[0].BufferData([]byte{9, 9}, mono8k); err != nil {
		t.Errorf("BufferData() on a processed buffer error = %v", err)
	}
}

func TestSource_PlayWithEmptyQueue(t *testing.T) {
	t.Parallel()

	src, _ := New().CreateSource()

	if err := src.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if src.IsPlaying() {
		t.Error("IsPlaying() = true with nothing queued")
	}
}

func TestSource_QueueErrors(t *testing.T) {
	t.Parallel()

	e := New()
	src, _ := e.CreateSource()

	empty, _ := e.CreateBuffer()
	if err := src.QueueBuffer(empty); !errors.Is(err, playback.ErrBufferNotLoaded) {
		t.Errorf("queueing an empty buffer error = %v", err)
	}

	other, _ := New().CreateBuffer()
	if err := src.QueueBuffer(other); !errors.Is(err, playback.ErrForeignBuffer) {
		t.Errorf("queueing a foreign buffer error = %v", err)
	}

	b := loaded(t, e, []byte{0, 0})
	src.QueueBuffer(b)
	if err := src.QueueBuffer(b); !errors.Is(err, playback.ErrBufferQueued) {
		t.Errorf("queueing a buffer twice error = %v", err)
	}
	if err := b.BufferData([]byte{1, 1}, mono8k); !errors.Is(err, playback.ErrBufferQueued) {
		t.Errorf("reloading a queued buffer error = %v", err)
	}
	if err := b.Close(); !errors.Is(err, playback.ErrBufferQueued) {
		t.Errorf("closing a queued buffer error = %v", err)
	}

	injected := errors.New("device lost")
	src.(*Source).FailNextQueue(injected)
	if err := src.QueueBuffer(loaded(t, e, []byte{0, 0})); !errors.Is(err, injected) {
		t.Errorf("QueueBuffer() error = %v, want injected failure", err)
	}
}

func TestBuffer_BufferDataValidatesFormat(t *testing.T) {
	t.Parallel()

	b, _ := New().CreateBuffer()

	err := b.BufferData([]byte{0}, audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 4})
	if !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("BufferData() error = %v, want ErrInvalidFormat", err)
	}
}

func TestSource_Volume(t *testing.T) {
	t.Parallel()

	src, _ := New().CreateSource()

	if src.Volume() != 1 {
		t.Errorf("Volume() = %v, want 1", src.Volume())
	}
	if err := src.SetVolume(0.25); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if src.Volume() != 0.25 {
		t.Errorf("Volume() = %v, want 0.25", src.Volume())
	}

	for _, v := range []float64{-0.1, 1.5} {
		if err := src.SetVolume(v); !errors.Is(err, playback.ErrVolumeRange) {
			t.Errorf("SetVolume(%v) error = %v, want ErrVolumeRange", v, err)
		}
	}
}

func TestEngine_TracksReleases(t *testing.T) {
	t.Parallel()

	e := New()
	src, _ := e.CreateSource()
	b1 := loaded(t, e, []byte{0, 0})
	b2 := loaded(t, e, []byte{0, 0})
	src.QueueBuffer(b1)

	if e.OpenSources() != 1 || e.OpenBuffers() != 2 {
		t.Fatalf("open = %d sources, %d buffers", e.OpenSources(), e.OpenBuffers())
	}

	if err := src.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	for _, b := range []playback.Buffer{b1, b2} {
		if err := b.Close(); err != nil {
			t.Errorf("buffer Close() error = %v", err)
		}
	}

	if e.OpenSources() != 0 || e.OpenBuffers() != 0 {
		t.Errorf("after Close open = %d sources, %d buffers", e.OpenSources(), e.OpenBuffers())
	}

	if err := src.Play(); !errors.Is(err, playback.ErrClosed) {
		t.Errorf("Play() on a closed source error = %v, want ErrClosed", err)
	}
}
