// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"testing"
	"time"
)

func TestTimer(t *testing.T) {
	t.Parallel()

	now := time.Unix(100, 0)
	timer := &Timer{now: func() time.Time { return now }}

	if timer.Elapsed() != 0 || timer.Running() {
		t.Fatal("new timer is not zero and stopped")
	}

	timer.Start()
	now = now.Add(2 * time.Second)
	if got := timer.Elapsed(); got != 2*time.Second {
		t.Errorf("Elapsed() while running = %v, want 2s", got)
	}

	// a second Start does not reset the running span
	timer.Start()
	now = now.Add(time.Second)
	timer.Stop()
	if got := timer.Elapsed(); got != 3*time.Second {
		t.Errorf("Elapsed() after Stop = %v, want 3s", got)
	}

	now = now.Add(time.Hour)
	timer.Stop()
	if got := timer.Elapsed(); got != 3*time.Second {
		t.Errorf("Elapsed() moved while stopped: %v", got)
	}

	timer.Start()
	now = now.Add(500 * time.Millisecond)
	timer.Stop()
	if got := timer.Elapsed(); got != 3500*time.Millisecond {
		t.Errorf("Elapsed() accumulated %v, want 3.5s", got)
	}
}
