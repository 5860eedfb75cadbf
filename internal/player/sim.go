package player

import (
	"context"
	"sync"
	"time"
)

// SimTransport is a wall-clock transport used when no audio backend is
// wired up: it reports positions as if the stream were really playing,
// which exercises the full session lifecycle including natural track
// ends and auto-advance.
type SimTransport struct {
	mu        sync.Mutex
	playing   bool
	duration  float64
	base      float64   // position when playback last started or seeked
	startedAt time.Time // wall clock at that moment

	// DurationFor maps a stream URI to its length in seconds. Defaults
	// to a fixed three minutes when nil.
	DurationFor func(uri string) float64
}

// NewSimTransport creates a simulated transport.
func NewSimTransport() *SimTransport {
	return &SimTransport{}
}

func (s *SimTransport) Open(_ context.Context, uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing = false
	s.base = 0
	s.duration = 180
	if s.DurationFor != nil {
		s.duration = s.DurationFor(uri)
	}
	return nil
}

func (s *SimTransport) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		s.playing = true
		s.startedAt = time.Now()
	}
	return nil
}

func (s *SimTransport) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing {
		s.base = s.positionLocked()
		s.playing = false
	}
	return nil
}

func (s *SimTransport) SeekTo(seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.base = seconds
	s.startedAt = time.Now()
	return nil
}

// Playing reports whether the simulated stream is still progressing; it
// flips false on its own once the track runs out.
func (s *SimTransport) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing && s.positionLocked() < s.duration
}

func (s *SimTransport) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

func (s *SimTransport) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *SimTransport) positionLocked() float64 {
	position := s.base
	if s.playing {
		position += time.Since(s.startedAt).Seconds()
	}
	if s.duration > 0 && position > s.duration {
		return s.duration
	}
	return position
}
