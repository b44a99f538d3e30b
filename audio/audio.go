// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Source is a decoded audio stream with an exclusive read cursor.
//
// A sample is one frame: one value for every channel. Blocks returned by
// ReadSamples and ReadAll are owned by the caller and are never touched
// again by the Source.
type Source interface {
	// Format of the PCM produced by ReadSamples and ReadAll.
	Format() Format
	// Duration of the whole stream, or 0 when unknown.
	Duration() time.Duration
	// Finished reports that no more samples remain.
	Finished() bool
	// ReadSamples returns up to maxSamples samples as interleaved little-endian PCM.
	// It returns fewer at the end of the stream and (0, nil, io.EOF) once finished.
	ReadSamples(maxSamples int) (n int, data []byte, err error)
	// ReadAll drains every remaining sample and marks the Source finished.
	ReadAll() ([]byte, error)
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// DecoderFunc adapts a plain function to the Decoder interface.
type DecoderFunc func(r io.Reader) (Source, error)

func (f DecoderFunc) Decode(r io.Reader) (Source, error) { return f(r) }

// Registry for decoders by format kind.
type Registry struct {
	codecs map[Kind]Decoder
	mtx    *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[Kind]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(kind Kind, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[kind] = d
}

func (r *Registry) Get(kind Kind) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[kind]
	return d, ok
}

// Open sniffs rs, picks the registered decoder for its kind and decodes it.
// The reader is handed to the decoder positioned at offset 0.
func (r *Registry) Open(rs io.ReadSeeker) (Source, Kind, error) {
	kind, err := Sniff(rs)
	if err != nil {
		return nil, KindUnknown, err
	}

	d, ok := r.Get(kind)
	if !ok {
		return nil, kind, fmt.Errorf("%s: %w", kind, ErrDecoderNotRegistered)
	}

	src, err := d.Decode(rs)
	if err != nil {
		return nil, kind, fmt.Errorf("opening %s: %w", kind, err)
	}

	return src, kind, nil
}
