// SPDX-License-Identifier: EPL-2.0

package otoplay

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/playback"
)

// player is the part of oto.Player used by Source.
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	Volume() float64
	SetVolume(v float64)
	Close() error
}

// Option configures an Engine.
type Option func(*Engine)

// WithBufferSize sets the device buffer length passed to oto.
func WithBufferSize(d time.Duration) Option {
	return func(e *Engine) { e.bufferSize = d }
}

// Engine plays through the system audio device.
//
// oto allows one context per process, so the device format is fixed by the
// first buffer an Engine plays. Later buffers must use the same format.
type Engine struct {
	bufferSize time.Duration
	newPlayer  func(f audio.Format, r io.Reader) (player, error)

	mu     sync.Mutex
	ctx    *oto.Context
	format audio.Format
}

func New(opts ...Option) *Engine {
	e := &Engine{}
	e.newPlayer = e.otoPlayer
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// otoFormat maps a PCM layout to oto's sample formats.
func otoFormat(f audio.Format) (oto.Format, error) {
	switch f.BitsPerSample {
	case 8:
		return oto.FormatUnsignedInt8, nil
	case 16:
		return oto.FormatSignedInt16LE, nil
	}
	return 0, fmt.Errorf("%d bits: %w", f.BitsPerSample, playback.ErrUnsupportedPCM)
}

// checkFormat pins the device format to f on first use.
func (e *Engine) checkFormat(f audio.Format) error {
	if _, err := otoFormat(f); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.format == (audio.Format{}) {
		e.format = f
		return nil
	}
	if e.format != f {
		return fmt.Errorf("%s, device is %s: %w", f, e.format, playback.ErrFormatMismatch)
	}
	return nil
}

func (e *Engine) context(f audio.Format) (*oto.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx != nil {
		return e.ctx, nil
	}

	format, err := otoFormat(f)
	if err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       format,
		BufferSize:   e.bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	e.ctx = ctx
	return ctx, nil
}

func (e *Engine) otoPlayer(f audio.Format, r io.Reader) (player, error) {
	ctx, err := e.context(f)
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(r), nil
}

func (e *Engine) CreateSource() (playback.Source, error) {
	return &Source{engine: e, queue: &queueReader{}, volume: 1}, nil
}

func (e *Engine) CreateBuffer() (playback.Buffer, error) {
	return &Buffer{engine: e}, nil
}

// Buffer is a PCM block for the device.
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
	if _, err := otoFormat(f); err != nil {
		return err
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

func (b *Buffer) setQueued(v bool) {
	b.mu.Lock()
	b.queued = v
	b.mu.Unlock()
}

func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queued {
		return playback.ErrBufferQueued
	}
	b.closed = true
	b.data = nil
	return nil
}

// Source owns one oto player, created on the first Play.
type Source struct {
	engine *Engine
	queue  *queueReader

	mu       sync.Mutex
	player   player
	format   audio.Format
	volume   float64
	wantPlay bool
	closed   bool
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

	b.mu.Lock()
	switch {
	case b.closed:
		b.mu.Unlock()
		return playback.ErrClosed
	case b.queued:
		b.mu.Unlock()
		return playback.ErrBufferQueued
	case b.data == nil:
		b.mu.Unlock()
		return playback.ErrBufferNotLoaded
	}
	f := b.format
	b.queued = true
	b.mu.Unlock()

	if err := s.engine.checkFormat(f); err != nil {
		b.setQueued(false)
		return err
	}

	s.format = f
	s.queue.push(b)

	// restart a player that ran dry
	if s.wantPlay && s.player != nil && !s.player.IsPlaying() {
		s.player.Play()
	}

	return nil
}

func (s *Source) BuffersQueued() int { return s.queue.queued() }

func (s *Source) Processed() []playback.Buffer {
	done := s.queue.takeProcessed()

	out := make([]playback.Buffer, len(done))
	for i, b := range done {
		b.setQueued(false)
		out[i] = b
	}
	return out
}

func (s *Source) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.player != nil && s.player.IsPlaying()
}

// Play starts the player. A source that never had a buffer queued stays
// stopped.
func (s *Source) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrClosed
	}
	if s.format == (audio.Format{}) {
		return nil
	}

	if s.player == nil {
		p, err := s.engine.newPlayer(s.format, s.queue)
		if err != nil {
			return err
		}
		p.SetVolume(s.volume)
		s.player = p
	}

	s.wantPlay = true
	s.player.Play()

	return nil
}

// Stop drops the player with whatever it had buffered and marks the queue
// processed.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return playback.ErrClosed
	}

	s.wantPlay = false
	s.queue.flush()

	if s.player == nil {
		return nil
	}

	s.player.Pause()
	err := s.player.Close()
	s.player = nil

	return err
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
	if s.player != nil {
		s.player.SetVolume(v)
	}
	return nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.wantPlay = false

	for _, b := range s.queue.drain() {
		b.setQueued(false)
	}

	if s.player == nil {
		return nil
	}

	err := s.player.Close()
	s.player = nil
	return err
}
