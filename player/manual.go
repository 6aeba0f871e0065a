package player

import (
	"context"
	"sync"
)

// Manual is a Player whose position is set explicitly. It backs headless
// commands (the --at flag) and embedded providers whose playback happens in
// a browser reactvid cannot query.
type Manual struct {
	mu       sync.Mutex
	pos      float64
	duration float64
	paused   bool
	closed   bool
}

var _ Player = (*Manual)(nil)

// NewManual returns a paused player at position 0 with the given duration
// (0 when unknown).
func NewManual(duration float64) *Manual {
	return &Manual{duration: duration, paused: true}
}

func (m *Manual) Ready(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrNotReady
	}
	return ctx.Err()
}

func (m *Manual) CurrentTime() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pos, nil
}

func (m *Manual) Duration() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration, nil
}

// Seek moves the position, clamped to [0, duration] when the duration is known.
func (m *Manual) Seek(seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	if m.duration > 0 && seconds > m.duration {
		seconds = m.duration
	}
	m.pos = seconds
	return nil
}

func (m *Manual) TogglePause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = !m.paused
	return nil
}

// Paused reports the pause state.
func (m *Manual) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

func (m *Manual) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
