// SPDX-License-Identifier: EPL-2.0

// Package config loads the YAML settings of the audstream command.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ik5/audstream/stream"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type PlaybackConfig struct {
	WindowMs         int     `yaml:"window_ms"`
	PrefillWindows   int     `yaml:"prefill_windows"`
	MaxQueuedBuffers int     `yaml:"max_queued_buffers"`
	RefillIntervalMs int     `yaml:"refill_interval_ms"`
	Volume           float64 `yaml:"volume"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default matches the stream package defaults at full volume.
func Default() *Config {
	return &Config{
		Playback: PlaybackConfig{
			WindowMs:         int(stream.DefaultWindow / time.Millisecond),
			PrefillWindows:   stream.DefaultPrefill,
			MaxQueuedBuffers: stream.DefaultMaxQueued,
			RefillIntervalMs: int(stream.DefaultRefillInterval / time.Millisecond),
			Volume:           1,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks ranges. The queue never holds more than
// stream.DefaultMaxQueued buffers; lower caps are allowed.
func (c *Config) Validate() error {
	p := c.Playback
	switch {
	case p.WindowMs <= 0:
		return fmt.Errorf("%w: playback.window_ms must be positive, got %d", ErrInvalid, p.WindowMs)
	case p.PrefillWindows < 1:
		return fmt.Errorf("%w: playback.prefill_windows must be at least 1, got %d", ErrInvalid, p.PrefillWindows)
	case p.MaxQueuedBuffers > stream.DefaultMaxQueued:
		return fmt.Errorf("%w: playback.max_queued_buffers %d exceeds the cap of %d",
			ErrInvalid, p.MaxQueuedBuffers, stream.DefaultMaxQueued)
	case p.MaxQueuedBuffers < p.PrefillWindows:
		return fmt.Errorf("%w: playback.max_queued_buffers %d is below prefill_windows %d",
			ErrInvalid, p.MaxQueuedBuffers, p.PrefillWindows)
	case p.RefillIntervalMs <= 0:
		return fmt.Errorf("%w: playback.refill_interval_ms must be positive, got %d", ErrInvalid, p.RefillIntervalMs)
	case p.Volume < 0 || p.Volume > 1:
		return fmt.Errorf("%w: playback.volume %v outside [0, 1]", ErrInvalid, p.Volume)
	}

	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging.level: %v", ErrInvalid, err)
	}

	return nil
}

// StreamOptions converts the playback section, prepending extra options.
func (c *Config) StreamOptions(extra ...stream.Option) []stream.Option {
	p := c.Playback

	return append(extra,
		stream.WithWindow(time.Duration(p.WindowMs)*time.Millisecond),
		stream.WithPrefill(p.PrefillWindows),
		stream.WithMaxQueued(p.MaxQueuedBuffers),
		stream.WithRefillInterval(time.Duration(p.RefillIntervalMs)*time.Millisecond),
	)
}

// Logger builds a logger writing to w: JSON lines, or a console writer.
func (l LoggingConfig) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging level: %w", err)
	}

	if !l.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
