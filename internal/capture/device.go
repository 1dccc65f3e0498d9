package capture

import (
	"context"
	"errors"
	"time"
)

// ErrDeviceAccess indicates the camera or microphone could not be acquired,
// either because permission was denied or no device is present.
var ErrDeviceAccess = errors.New("camera or microphone unavailable")

// ErrStreamActive indicates an acquire was attempted while a stream is
// still held.
var ErrStreamActive = errors.New("a capture stream is already held")

// Chunk is one unit of encoded media delivered by a live stream.
type Chunk struct {
	Data []byte
	At   time.Time
}

// Constraints describe which tracks to request from the device.
type Constraints struct {
	Video bool
	Audio bool
}

// Stream is a live capture stream. Chunks delivers encoded media in
// arrival order and is closed once the stream ends; Stop halts all
// underlying tracks and is safe to call more than once.
type Stream interface {
	Chunks() <-chan Chunk
	Stop() error
}

// Device grants access to a camera and microphone pair.
type Device interface {
	Acquire(ctx context.Context, constraints Constraints) (Stream, error)
}
