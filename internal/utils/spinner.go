package utils

import (
	"time"
)

// DefaultSpinnerInterval is how long each spinner frame is held.
const DefaultSpinnerInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a time-driven loading indicator. Frames advance as View
// is called; Interval controls the advance rate, so views sharing one
// instance animate at a consistent speed.
type Spinner struct {
	Interval time.Duration

	index int
	last  time.Time
}

func NewSpinner() *Spinner {
	return &Spinner{Interval: DefaultSpinnerInterval}
}

// View returns the frame for the current moment, advancing when the
// interval has elapsed since the last advance.
func (s *Spinner) View() string {
	now := time.Now()
	if now.Sub(s.last) >= s.Interval {
		s.index = (s.index + 1) % len(spinnerFrames)
		s.last = now
	}
	return spinnerFrames[s.index]
}
