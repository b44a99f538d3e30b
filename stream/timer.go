// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"sync"
	"time"
)

// Timer accumulates elapsed playback time between Start and Stop.
type Timer struct {
	now func() time.Time

	mu      sync.Mutex
	started time.Time
	elapsed time.Duration
	running bool
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.started = t.now()
}

func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.running = false
	t.elapsed += t.now().Sub(t.started)
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.running
}

func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return t.elapsed + t.now().Sub(t.started)
	}
	return t.elapsed
}
