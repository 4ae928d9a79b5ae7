package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUpdateCountsFramesPerSecond(t *testing.T) {
	clock := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	s := New()
	s.now = func() time.Time { return clock }
	s.start = clock
	s.frameTimer = clock

	for range 30 {
		clock = clock.Add(20 * time.Millisecond)
		s.Update(1)
	}
	snap := s.Snapshot()
	assert.Equal(t, uint64(30), snap.Frames)
	assert.Equal(t, uint64(30), snap.DrawCalls)
	assert.Zero(t, snap.FPS, "no full second has passed yet")

	for range 20 {
		clock = clock.Add(20 * time.Millisecond)
		s.Update(1)
	}
	snap = s.Snapshot()
	assert.Equal(t, uint64(50), snap.FPS)
	assert.InDelta(t, 1.0, snap.Uptime, 1e-9)
}

func TestSetters(t *testing.T) {
	s := New()
	s.SetViewport(640, 480)
	s.SetRunning(true)
	s.SetWsClients(2)

	snap := s.Snapshot()
	assert.Equal(t, [2]int{640, 480}, snap.Viewport)
	assert.True(t, snap.Running)
	assert.Equal(t, 2, snap.WsClients)
}
