package utils

import (
	"testing"
	"time"
)

func TestSpinnerHoldsFrameWithinInterval(t *testing.T) {
	s := NewSpinner()
	s.Interval = time.Hour

	first := s.View()
	second := s.View()
	if first != second {
		t.Errorf("frame advanced within the interval: %q then %q", first, second)
	}
}

func TestSpinnerAdvancesAfterInterval(t *testing.T) {
	s := NewSpinner()
	s.Interval = 0

	first := s.View()
	second := s.View()
	if first == second {
		t.Errorf("frame did not advance after the interval: %q twice", first)
	}
}
