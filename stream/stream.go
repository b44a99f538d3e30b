// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/playback"
	"github.com/rs/zerolog"
)

// State of a SoundStream.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// SoundStream plays one decoded input through a playback source.
//
// Streamed kinds are decoded a window at a time by a refill worker that runs
// while the stream plays. Other kinds are decoded whole into one buffer when
// the stream is created.
type SoundStream struct {
	id     uuid.UUID
	kind   audio.Kind
	dec    audio.Source
	source playback.Source
	chain  *BufferChain
	static playback.Buffer
	opts   options
	log    zerolog.Logger
	timer  *Timer

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	err    error

	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
	closed    bool
	closeErr  error
}

// New sniffs rs, opens it with the matching decoder from registry and
// prepares it for playback on engine.
//
// No stream is returned on error; everything acquired up to the failure is
// released.
func New(rs io.ReadSeeker, registry *audio.Registry, engine playback.Engine, opts ...Option) (*SoundStream, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	dec, kind, err := registry.Open(rs)
	if err != nil {
		return nil, err
	}

	return build(dec, kind, engine, o)
}

// NewFromSource prepares an already opened decoder for playback. The stream
// takes ownership of dec and closes it on error.
func NewFromSource(dec audio.Source, kind audio.Kind, engine playback.Engine, opts ...Option) (*SoundStream, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		dec.Close()
		return nil, err
	}

	return build(dec, kind, engine, o)
}

func build(dec audio.Source, kind audio.Kind, engine playback.Engine, o options) (*SoundStream, error) {
	id := uuid.New()
	log := o.logger.With().Str("stream", id.String()).Stringer("kind", kind).Logger()

	source, err := engine.CreateSource()
	if err != nil {
		dec.Close()
		return nil, backendError("create source", err)
	}

	s := &SoundStream{
		id:     id,
		kind:   kind,
		dec:    dec,
		source: source,
		opts:   o,
		log:    log,
		timer:  NewTimer(),
		done:   make(chan struct{}),
	}

	if kind.Streamed() {
		err = s.prefill(engine)
	} else {
		err = s.loadStatic(engine)
	}
	if err != nil {
		s.release()
		return nil, err
	}

	s.log.Debug().
		Stringer("format", dec.Format()).
		Bool("streamed", s.chain != nil).
		Msg("stream ready")

	return s, nil
}

func (s *SoundStream) prefill(engine playback.Engine) error {
	window := s.dec.Format().SamplesIn(s.opts.window)
	s.chain = NewBufferChain(engine, s.source, s.dec, window)

	for range s.opts.prefill {
		ok, err := s.chain.Fill()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}

	s.log.Debug().Int("queued", s.chain.Queued()).Msg("prefilled")

	return nil
}

func (s *SoundStream) loadStatic(engine playback.Engine) error {
	data, err := s.dec.ReadAll()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	b, err := engine.CreateBuffer()
	if err != nil {
		return backendError("create buffer", err)
	}
	s.static = b

	if err := b.BufferData(data, s.dec.Format()); err != nil {
		return backendError("buffer data", err)
	}
	if err := s.source.QueueBuffer(b); err != nil {
		return backendError("queue buffer", err)
	}

	return nil
}

// Play starts playback. A stream plays once: Play after Stop returns
// ErrStopped.
func (s *SoundStream) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return ErrClosed
	case s.state == StatePlaying:
		return ErrAlreadyPlaying
	case s.state == StateStopped:
		return ErrStopped
	}

	if err := s.source.Play(); err != nil {
		return backendError("play", err)
	}

	s.timer.Start()
	s.state = StatePlaying

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.worker(ctx)

	s.log.Info().Msg("playing")

	return nil
}

func (s *SoundStream) worker(ctx context.Context) {
	err := s.run(ctx)
	s.finish()

	// after finish, so the handler may call Stop or Close
	if err != nil && s.opts.onError != nil {
		s.opts.onError(err)
	}
}

// run keeps the source fed until playback ends, the stream is stopped or a
// refill fails. Non-streamed playback only waits for the end.
func (s *SoundStream) run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.refillInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !s.source.IsPlaying() {
			s.log.Debug().Msg("playback ended")
			return nil
		}

		if s.chain == nil || s.chain.Queued() >= s.opts.maxQueued {
			continue
		}

		if _, err := s.chain.Fill(); err != nil {
			s.fail(err)
			return err
		}
	}
}

// fail records err and stops the source. Refills are never retried.
func (s *SoundStream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.log.Error().Err(err).Msg("refill failed")

	if stopErr := s.source.Stop(); stopErr != nil {
		s.log.Warn().Err(stopErr).Msg("stopping source after refill failure")
	}
}

// finish ends playback bookkeeping. The timer is stopped last, before
// Done is closed.
func (s *SoundStream) finish() {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		if s.state == StatePlaying {
			s.state = StateStopped
		}
		s.mu.Unlock()

		s.timer.Stop()
		close(s.done)
	})
}

// Stop halts playback and waits for the refill worker to exit; no buffer is
// queued after Stop returns.
func (s *SoundStream) Stop() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.state == StateStopped {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-s.done
	} else {
		s.finish()
	}

	s.timer.Stop()

	if err := s.source.Stop(); err != nil {
		return backendError("stop", err)
	}

	s.log.Info().Dur("position", s.timer.Elapsed()).Msg("stopped")

	return nil
}

// Close stops playback and releases the source, every buffer and the
// decoder. It is safe to call more than once.
func (s *SoundStream) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if err := s.Stop(); err != nil && !errors.Is(err, ErrClosed) {
			errs = append(errs, err)
		}

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		errs = append(errs, s.release())
		s.closeErr = errors.Join(errs...)
	})

	return s.closeErr
}

// release frees what the stream holds, source first so no buffer is still
// queued when buffers are closed.
func (s *SoundStream) release() error {
	var errs []error

	if err := s.source.Close(); err != nil {
		errs = append(errs, backendError("close source", err))
	}
	if s.chain != nil {
		errs = append(errs, s.chain.Close())
	}
	if s.static != nil {
		if err := s.static.Close(); err != nil {
			errs = append(errs, backendError("close buffer", err))
		}
	}
	if err := s.dec.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Position is the time spent playing.
func (s *SoundStream) Position() time.Duration { return s.timer.Elapsed() }

// Duration is the decoder's total duration, or 0 when unknown.
func (s *SoundStream) Duration() time.Duration { return s.dec.Duration() }

func (s *SoundStream) Volume() float64 { return s.source.Volume() }

func (s *SoundStream) SetVolume(v float64) error {
	return backendError("set volume", s.source.SetVolume(v))
}

// IsPlaying reports whether the stream is playing and the device has not
// run out of audio.
func (s *SoundStream) IsPlaying() bool {
	s.mu.Lock()
	playing := s.state == StatePlaying
	s.mu.Unlock()

	return playing && s.source.IsPlaying()
}

func (s *SoundStream) IsStreamed() bool     { return s.chain != nil }
func (s *SoundStream) Format() audio.Format { return s.dec.Format() }
func (s *SoundStream) Kind() audio.Kind     { return s.kind }
func (s *SoundStream) ID() uuid.UUID        { return s.id }

func (s *SoundStream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Done is closed once playback has ended for any reason.
func (s *SoundStream) Done() <-chan struct{} { return s.done }

// Err is the error that stopped the refill worker, if any.
func (s *SoundStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}
