package segment

import (
	"sync"

	"github.com/rs/zerolog"
)

// Sim is a display without hardware: it keeps the last text and logs changes.
type Sim struct {
	mu         sync.Mutex
	log        zerolog.Logger
	text       string
	brightness float64
	on         bool
}

func NewSim(log zerolog.Logger) *Sim {
	return &Sim{log: log.With().Str("driver", "sim").Logger()}
}

func (s *Sim) Configure(brightness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = brightness
	return nil
}

func (s *Sim) Enable(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
	return nil
}

func (s *Sim) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = ""
	return nil
}

// Write validates text like the hardware does, then logs it if it changed.
func (s *Sim) Write(text string) error {
	if err := check(text, Digits); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if text != s.text {
		s.log.Info().Str("text", text).Bool("on", s.on).Float64("brightness", s.brightness).Msg("display")
	}
	s.text = text
	return nil
}

// Text returns what the display currently shows.
func (s *Sim) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Sim) Close() error { return nil }
