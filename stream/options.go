// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultWindow is the audio decoded per pull for streamed formats.
	DefaultWindow = time.Second
	// DefaultPrefill is the number of windows queued before Play.
	DefaultPrefill = 2
	// DefaultMaxQueued caps the buffers waiting on the device.
	DefaultMaxQueued = 3
	// DefaultRefillInterval is how often the refill worker checks the queue.
	DefaultRefillInterval = 100 * time.Millisecond
)

type options struct {
	logger         zerolog.Logger
	window         time.Duration
	prefill        int
	maxQueued      int
	refillInterval time.Duration
	onError        func(error)
}

func defaultOptions() options {
	return options{
		logger:         zerolog.Nop(),
		window:         DefaultWindow,
		prefill:        DefaultPrefill,
		maxQueued:      DefaultMaxQueued,
		refillInterval: DefaultRefillInterval,
	}
}

func (o options) validate() error {
	switch {
	case o.window <= 0:
		return fmt.Errorf("window %v: %w", o.window, ErrInvalidOption)
	case o.prefill < 1:
		return fmt.Errorf("prefill %d: %w", o.prefill, ErrInvalidOption)
	case o.maxQueued < o.prefill:
		return fmt.Errorf("max queued %d below prefill %d: %w", o.maxQueued, o.prefill, ErrInvalidOption)
	case o.refillInterval <= 0:
		return fmt.Errorf("refill interval %v: %w", o.refillInterval, ErrInvalidOption)
	}
	return nil
}

// Option configures a SoundStream.
type Option func(*options)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithWindow sets how much audio one streamed buffer holds.
func WithWindow(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// WithPrefill sets how many windows are queued before Play.
func WithPrefill(n int) Option {
	return func(o *options) { o.prefill = n }
}

// WithMaxQueued caps the streamed buffers waiting on the device.
func WithMaxQueued(n int) Option {
	return func(o *options) { o.maxQueued = n }
}

// WithRefillInterval sets the refill worker's polling period.
func WithRefillInterval(d time.Duration) Option {
	return func(o *options) { o.refillInterval = d }
}

// WithErrorHandler registers fn to receive the error that ended a refill
// worker. fn runs on the worker goroutine after Done is closed.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) { o.onError = fn }
}
