package capture

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Manager scopes device access so that every successful Acquire is paired
// with exactly one Release and at most one stream is held at a time. The
// device must never be left active after any exit path, so Release is
// idempotent and callers may defer it unconditionally.
type Manager struct {
	device Device
	logger zerolog.Logger

	mu     sync.Mutex
	stream Stream
}

// NewManager constructs a manager over the given device.
func NewManager(device Device, logger zerolog.Logger) *Manager {
	return &Manager{
		device: device,
		logger: logger.With().Str("component", "capture_manager").Logger(),
	}
}

// Acquire requests a combined video+audio stream. It fails with
// ErrStreamActive when a stream is already held and wraps any device
// failure in ErrDeviceAccess, holding nothing in that case.
func (m *Manager) Acquire(ctx context.Context) (Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream != nil {
		return nil, ErrStreamActive
	}

	stream, err := m.device.Acquire(ctx, Constraints{Video: true, Audio: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceAccess, err)
	}

	m.stream = stream
	m.logger.Debug().Msg("capture stream acquired")
	return stream, nil
}

// Release stops and drops the held stream. Safe to call when nothing is
// held.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return
	}

	if err := m.stream.Stop(); err != nil {
		m.logger.Warn().Err(err).Msg("failed to stop capture stream")
	}

	m.stream = nil
	m.logger.Debug().Msg("capture stream released")
}

// Held reports whether a stream is currently held.
func (m *Manager) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil
}
