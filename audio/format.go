// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// Format describes interleaved linear PCM.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// BytesPerSample is the size of one frame (all channels) in bytes.
func (f Format) BytesPerSample() int {
	return f.Channels * f.BitsPerSample / 8
}

// Validate checks that f describes playable PCM.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate %d: %w", f.SampleRate, ErrInvalidFormat)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("channels %d: %w", f.Channels, ErrInvalidFormat)
	}

	switch f.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("bits per sample %d: %w", f.BitsPerSample, ErrInvalidFormat)
	}

	return nil
}

// SamplesIn returns how many samples fit into a window of length d.
func (f Format) SamplesIn(d time.Duration) int {
	return int(int64(f.SampleRate) * int64(d) / int64(time.Second))
}

// DurationOf returns the playback time of n samples.
func (f Format) DurationOf(n int64) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(n * int64(time.Second) / int64(f.SampleRate))
}

func (f Format) String() string {
	return fmt.Sprintf("%dHz %dch %dbit", f.SampleRate, f.Channels, f.BitsPerSample)
}
