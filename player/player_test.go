package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_Seek(t *testing.T) {
	m := NewManual(100)

	require.NoError(t, m.Seek(42.5))
	pos, _ := m.CurrentTime()
	assert.Equal(t, 42.5, pos)

	require.NoError(t, m.Seek(-3))
	pos, _ = m.CurrentTime()
	assert.Equal(t, 0.0, pos)

	require.NoError(t, m.Seek(500))
	pos, _ = m.CurrentTime()
	assert.Equal(t, 100.0, pos)
}

func TestManual_ReadyAfterClose(t *testing.T) {
	m := NewManual(0)
	require.NoError(t, m.Ready(context.Background()))

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Ready(context.Background()), ErrNotReady)
}

func TestManual_TogglePause(t *testing.T) {
	m := NewManual(0)
	assert.True(t, m.Paused())
	require.NoError(t, m.TogglePause())
	assert.False(t, m.Paused())
}

func TestWatch_EmitsUpdatesAndEnded(t *testing.T) {
	m := NewManual(10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := Watch(ctx, m, 5*time.Millisecond)

	first := <-events
	assert.Equal(t, TimeUpdate, first.Kind)
	assert.Equal(t, 0.0, first.Time)

	require.NoError(t, m.Seek(10))
	var kinds []EventKind
	for ev := range events {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == Ended {
			cancel()
		}
	}
	assert.Contains(t, kinds, TimeUpdate)
	assert.Contains(t, kinds, Ended)
}

type brokenPlayer struct{ Manual }

func (*brokenPlayer) CurrentTime() (float64, error) { return 0, errors.New("socket closed") }

func TestWatch_FailureEndsWatch(t *testing.T) {
	events := Watch(context.Background(), &brokenPlayer{}, time.Millisecond)

	ev, ok := <-events
	require.True(t, ok)
	assert.Equal(t, Failed, ev.Kind)
	assert.Error(t, ev.Err)

	_, ok = <-events
	assert.False(t, ok)
}
