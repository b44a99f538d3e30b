// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/ik5/audstream/audio"
)

// ErrInjected is returned by a MockSource configured to fail.
var ErrInjected = errors.New("injected decode failure")

// DefaultFormat is 8 kHz mono 16-bit PCM.
var DefaultFormat = audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}

// MockSource is a test helper that generates PCM for a fixed number of samples.
// It implements audio.Source.
type MockSource struct {
	mu sync.Mutex

	format       audio.Format
	totalSamples int
	generated    int
	duration     time.Duration

	// FailAfter makes ReadSamples fail once this many calls succeeded (0 = never).
	FailAfter int
	// Delay is slept inside every ReadSamples call.
	Delay time.Duration

	pulls         int
	calls         int
	callsFinished int
	closed        bool
}

// NewMockSource creates a source producing totalSamples samples of f.
// Byte i of sample n is (n + i) mod 256 so blocks can be checked for order.
func NewMockSource(f audio.Format, totalSamples int) *MockSource {
	return &MockSource{
		format:       f,
		totalSamples: totalSamples,
		duration:     f.DurationOf(int64(totalSamples)),
	}
}

func (m *MockSource) Format() audio.Format    { return m.format }
func (m *MockSource) Duration() time.Duration { return m.duration }

func (m *MockSource) Finished() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generated >= m.totalSamples
}

func (m *MockSource) ReadSamples(maxSamples int) (int, []byte, error) {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pulls++
	if m.generated >= m.totalSamples {
		m.callsFinished++
		return 0, nil, io.EOF
	}

	if m.FailAfter > 0 && m.calls >= m.FailAfter {
		return 0, nil, &audio.DecodeError{Format: "mock", Err: ErrInjected}
	}
	m.calls++

	n := min(maxSamples, m.totalSamples-m.generated)
	frame := m.format.BytesPerSample()
	block := make([]byte, n*frame)
	for s := range n {
		for i := range frame {
			block[s*frame+i] = byte(m.generated + s + i)
		}
	}
	m.generated += n

	return n, block, nil
}

func (m *MockSource) ReadAll() ([]byte, error) {
	m.mu.Lock()
	rest := m.totalSamples - m.generated
	m.mu.Unlock()

	if rest == 0 {
		return nil, nil
	}

	_, block, err := m.ReadSamples(rest)
	return block, err
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// Pulls is the number of ReadSamples calls, failed ones included.
func (m *MockSource) Pulls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pulls
}

// Calls is the number of successful ReadSamples calls.
func (m *MockSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.calls
}

// CallsAfterFinish counts ReadSamples calls made once the source was exhausted.
func (m *MockSource) CallsAfterFinish() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.callsFinished
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closed
}

// Registry returns a registry whose every kind decodes to src, ignoring the input bytes.
func Registry(src audio.Source) *audio.Registry {
	reg := audio.NewRegistry()
	d := audio.DecoderFunc(func(io.Reader) (audio.Source, error) { return src, nil })

	for _, k := range []audio.Kind{audio.KindWAV, audio.KindMP3, audio.KindVorbis, audio.KindAIFF, audio.KindFLAC} {
		reg.Register(k, d)
	}

	return reg
}
