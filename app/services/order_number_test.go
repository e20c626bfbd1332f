package services

import (
	"testing"
	"time"
)

func TestNextNumberFormat(t *testing.T) {
	s := &OrderService{}
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	if got, want := s.nextNumber(at), "ORD-BG-20260314-150926"; got != want {
		t.Errorf("nextNumber = %q, want %q", got, want)
	}
}

func TestNextNumberCollision(t *testing.T) {
	s := &OrderService{}
	at := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	first := s.nextNumber(at)
	second := s.nextNumber(at)
	third := s.nextNumber(at)

	if second != first+"-2" {
		t.Errorf("second number = %q, want %q", second, first+"-2")
	}
	if third != first+"-3" {
		t.Errorf("third number = %q, want %q", third, first+"-3")
	}

	// A new second resets the counter.
	later := s.nextNumber(at.Add(time.Second))
	if later != "ORD-BG-20260314-150927" {
		t.Errorf("number after tick = %q", later)
	}
}
