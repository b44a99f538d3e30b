// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/internal/audiotest"
	"github.com/ik5/audstream/playback/memory"
)

func TestBufferChain_FillQueuesInOrder(t *testing.T) {
	t.Parallel()

	engine := memory.New()
	ps, _ := engine.CreateSource()
	src := ps.(*memory.Source)
	dec := audiotest.NewMockSource(audiotest.DefaultFormat, 250)

	chain := NewBufferChain(engine, src, dec, 100)

	for i, want := range []bool{true, true, true, false, false} {
		ok, err := chain.Fill()
		if err != nil {
			t.Fatalf("Fill() #%d error = %v", i, err)
		}
		if ok != want {
			t.Errorf("Fill() #%d = %v, want %v", i, ok, want)
		}
	}

	if dec.CallsAfterFinish() != 0 {
		t.Errorf("decoder pulled %d times after finishing", dec.CallsAfterFinish())
	}
	if chain.Queued() != 3 {
		t.Errorf("Queued() = %d, want 3", chain.Queued())
	}

	src.Play()
	src.Consume(3)

	reference, _ := audiotest.NewMockSource(audiotest.DefaultFormat, 250).ReadAll()
	if !bytes.Equal(src.Played(), reference) {
		t.Error("played PCM differs from the decoder output")
	}
}

func TestBufferChain_RecyclesProcessedBuffers(t *testing.T) {
	t.Parallel()

	engine := memory.New()
	ps, _ := engine.CreateSource()
	src := ps.(*memory.Source)
	dec := audiotest.NewMockSource(audiotest.DefaultFormat, 1000)

	chain := NewBufferChain(engine, src, dec, 100)
	chain.Fill()
	chain.Fill()
	src.Play()

	for range 8 {
		src.Consume(1)
		if _, err := chain.Fill(); err != nil {
			t.Fatalf("Fill() error = %v", err)
		}
	}

	if chain.Allocated() != 2 {
		t.Errorf("Allocated() = %d, want 2 buffers reused throughout", chain.Allocated())
	}

	src.Close()
	if err := chain.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if engine.OpenBuffers() != 0 {
		t.Errorf("%d buffers left open", engine.OpenBuffers())
	}
}

func TestBufferChain_Errors(t *testing.T) {
	t.Parallel()

	engine := memory.New()
	ps, _ := engine.CreateSource()
	src := ps.(*memory.Source)

	dec := audiotest.NewMockSource(audiotest.DefaultFormat, 1000)
	dec.FailAfter = 1

	chain := NewBufferChain(engine, src, dec, 100)
	if _, err := chain.Fill(); err != nil {
		t.Fatalf("first Fill() error = %v", err)
	}
	if _, err := chain.Fill(); !errors.Is(err, audio.ErrDecode) {
		t.Errorf("Fill() error = %v, want ErrDecode", err)
	}

	injected := errors.New("device gone")
	src.FailNextQueue(injected)

	dec2 := audiotest.NewMockSource(audiotest.DefaultFormat, 1000)
	chain2 := NewBufferChain(engine, src, dec2, 100)
	_, err := chain2.Fill()
	if !errors.Is(err, audio.ErrBackend) || !errors.Is(err, injected) {
		t.Errorf("Fill() error = %v, want backend error wrapping the device failure", err)
	}
}
