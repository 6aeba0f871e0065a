// Package player defines the video player the rest of reactvid depends on.
// Adapters (mpv, a manual clock) implement Player; nothing else talks to a
// concrete player.
package player

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotReady is returned when the player has not reported readiness.
	ErrNotReady = errors.New("player: not ready")
)

// Player is the playback surface annotations are stamped against.
type Player interface {
	// Ready blocks until the player can answer queries or ctx is done.
	Ready(ctx context.Context) error
	CurrentTime() (float64, error)
	Duration() (float64, error)
	Seek(seconds float64) error
	TogglePause() error
	Close() error
}

// EventKind classifies player events.
type EventKind int

const (
	TimeUpdate EventKind = iota
	Ended
	Failed
)

// Event is a playback notification.
type Event struct {
	Kind EventKind
	Time float64
	Err  error
}

// Watch polls p every interval and emits TimeUpdate events when the
// position changes. Ended is sent once when the position reaches the
// duration. A query failure is sent as Failed and ends the watch.
// The channel is closed when ctx is done or the watch ends.
func Watch(ctx context.Context, p Player, interval time.Duration) <-chan Event {
	ch := make(chan Event, 1)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := -1.0
		ended := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			pos, err := p.CurrentTime()
			if err != nil {
				send(ctx, ch, Event{Kind: Failed, Err: err})
				return
			}
			if pos != last {
				last = pos
				if !send(ctx, ch, Event{Kind: TimeUpdate, Time: pos}) {
					return
				}
			}
			if dur, err := p.Duration(); err == nil && dur > 0 && pos >= dur && !ended {
				ended = true
				if !send(ctx, ch, Event{Kind: Ended, Time: pos}) {
					return
				}
			}
		}
	}()
	return ch
}

func send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
