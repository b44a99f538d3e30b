// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"

	"github.com/ik5/audstream/audio"
)

var (
	ErrAlreadyPlaying = errors.New("stream is already playing")
	ErrStopped        = errors.New("stream was stopped")
	ErrClosed         = errors.New("stream is closed")
	ErrInvalidOption  = errors.New("invalid stream option")
)

// backendError tags a playback device failure, leaving already tagged
// errors alone.
func backendError(op string, err error) error {
	if err == nil {
		return nil
	}

	var be *audio.BackendError
	if errors.As(err, &be) {
		return err
	}
	return &audio.BackendError{Op: op, Err: err}
}
