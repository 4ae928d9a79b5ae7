package stats

import (
	"sync"
	"time"
)

// Snapshot is what the API serves.
type Snapshot struct {
	Frames    uint64  `json:"frames"`
	DrawCalls uint64  `json:"draw_calls"`
	FPS       uint64  `json:"fps"`
	Uptime    float64 `json:"uptime"`
	Viewport  [2]int  `json:"viewport"`
	Running   bool    `json:"running"`
	WsClients int     `json:"ws_clients"`
}

// Stats is written by the render loop and read by the API goroutines.
type Stats struct {
	mu sync.Mutex
	s  Snapshot

	frameCounter uint64
	frameTimer   time.Time
	start        time.Time
	now          func() time.Time
}

func New() *Stats {
	s := &Stats{now: time.Now}
	s.start = s.now()
	s.frameTimer = s.start
	return s
}

// Update accounts for one presented frame with the given number of draws.
func (s *Stats) Update(draws int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.s.Frames++
	s.s.DrawCalls += uint64(draws)
	s.frameCounter++
	if now.Sub(s.frameTimer) >= 1*time.Second {
		s.s.FPS = s.frameCounter
		s.frameCounter = 0
		s.frameTimer = now
	}
	s.s.Uptime = float64(now.Sub(s.start).Nanoseconds()) / 1e9
}

func (s *Stats) SetViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.Viewport = [2]int{width, height}
}

func (s *Stats) SetRunning(running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.Running = running
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s.WsClients = n
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s
}
