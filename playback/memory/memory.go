// SPDX-License-Identifier: EPL-2.0

package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/playback"
)

// Option configures an Engine.
type Option func(*Engine)

// WithRealtime plays each buffer for its audio duration instead of waiting
// for Consume.
func WithRealtime() Option {
	return func(e *Engine) { e.realtime = true }
}

// WithClock replaces time.Now for real-time playback.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is a goroutine-safe in-memory playback engine.
type Engine struct {
	realtime bool
	now      func() time.Time

	mu      sync.Mutex
	sources int
	buffers int
}

func New(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CreateSource() (playback.Source, error) {
	e.mu.Lock()
	e.sources++
	e.mu.Unlock()

	return &Source{engine: e, volume: 1}, nil
}

func (e *Engine) CreateBuffer() (playback.Buffer, error) {
	e.mu.Lock()
	e.buffers++
	e.mu.Unlock()

	return &Buffer{engine: e}, nil
}

// OpenSources is the number of sources created and not yet closed.
func (e *Engine) OpenSources() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.sources
}

// OpenBuffers is the number of buffers created and not yet closed.
func (e *Engine) OpenBuffers() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.buffers
}

func (e *Engine) released(sources, buffers int) {
	e.mu.Lock()
	e.sources -= sources
	e.buffers -= buffers
	e.mu.Unlock()
}

// Buffer is a PCM block owned by an Engine.
type Buffer struct {
	engine *Engine

	mu     sync.Mutex
	data   []byte
	format audio.Format
	queued bool
	closed bool
}

func (b *Buffer) BufferData(data []byte, f audio.Format) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.closed:
		return playback.ErrClosed
	case b.queued:
		return playback.ErrBufferQueued
	}

	b.data = data
	b.format = f

	return nil
}

// Data returns the loaded PCM.
func (b *Buffer) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.data
}

func (b *Buffer) duration() time.Duration {
	if b.format.BytesPerSample() == 0 {
		return 0
	}
	return b.format.DurationOf(int64(len(b.data) / b.format.BytesPerSample()))
}

func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	if b.queued {
		return playback.ErrBufferQueued
	}

	b.closed = true
	b.data = nil
	b.engine.released(0, 1)

	return nil
}

// Source plays its queue when Consume is called, or in real time.
type Source struct {
	engine *Engine

	mu        sync.Mutex
	queue     []*Buffer
	processed []*Buffer
	playing   bool
	volume    float64
	closed    bool
	// headStart is when the buffer at the head of the queue began playing
	headStart time.Time

	played      []byte
	totalQueued int
	maxQueued   int
	queueErr    error
}

func (s *Source) QueueBuffer(pb playback.Buffer) error {
	b, ok := pb.(*Buffer)
	if !ok || b.engine != s.engine {
		return playback.ErrForeignBuffer
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrClosed
	}
	if err := s.queueErr; err != nil {
		s.queueErr = nil
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.closed:
		return playback.ErrClosed
	case b.queued:
		return playback.ErrBufferQueued
	case b.data == nil:
		return playback.ErrBufferNotLoaded
	}

	s.advance()

	b.queued = true
	s.queue = append(s.queue, b)
	s.totalQueued++
	s.maxQueued = max(s.maxQueued, len(s.queue))

	if s.playing && len(s.queue) == 1 {
		s.headStart = s.engine.now()
	}

	return nil
}

// FailNextQueue makes the next QueueBuffer call return err.
func (s *Source) FailNextQueue(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queueErr = err
}

// advance pops the buffers whose playback time has passed.
// Callers hold s.mu.
func (s *Source) advance() {
	if !s.engine.realtime || !s.playing {
		return
	}

	now := s.engine.now()
	for len(s.queue) > 0 {
		d := s.queue[0].duration()
		if now.Sub(s.headStart) < d {
			return
		}
		s.headStart = s.headStart.Add(d)
		s.pop()
	}
}

// pop finishes the head buffer. Callers hold s.mu.
func (s *Source) pop() {
	b := s.queue[0]
	s.queue = s.queue[1:]
	s.played = append(s.played, b.data...)
	s.processed = append(s.processed, b)

	if len(s.queue) == 0 {
		s.playing = false
	}
}

// Consume plays up to n queued buffers and returns how many were played.
// It does nothing while the source is stopped.
func (s *Source) Consume(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var done int
	for ; done < n && s.playing && len(s.queue) > 0; done++ {
		s.pop()
	}
	return done
}

func (s *Source) BuffersQueued() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	return len(s.queue)
}

func (s *Source) Processed() []playback.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()

	out := make([]playback.Buffer, len(s.processed))
	for i, b := range s.processed {
		b.mu.Lock()
		b.queued = false
		b.mu.Unlock()
		out[i] = b
	}
	s.processed = nil

	return out
}

func (s *Source) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	return s.playing
}

// Play starts the queue. A source with nothing queued stays stopped.
func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrClosed
	}
	if s.playing || len(s.queue) == 0 {
		return nil
	}

	s.playing = true
	s.headStart = s.engine.now()

	return nil
}

// Stop halts playback and marks every queued buffer processed.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrClosed
	}

	s.playing = false
	s.processed = append(s.processed, s.queue...)
	s.queue = nil

	return nil
}

func (s *Source) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.volume
}

func (s *Source) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%v: %w", v, playback.ErrVolumeRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = v
	return nil
}

// Close stops the source and releases its hold on every queued buffer.
// The buffers themselves stay open.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	for _, b := range append(s.queue, s.processed...) {
		b.mu.Lock()
		b.queued = false
		b.mu.Unlock()
	}

	s.closed = true
	s.playing = false
	s.queue = nil
	s.processed = nil
	s.engine.released(1, 0)

	return nil
}

// Played returns the PCM of every buffer played so far, in order.
func (s *Source) Played() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	return s.played
}

// TotalQueued counts every QueueBuffer call that succeeded.
func (s *Source) TotalQueued() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totalQueued
}

// MaxQueued is the most buffers that were waiting at once.
func (s *Source) MaxQueued() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.maxQueued
}
