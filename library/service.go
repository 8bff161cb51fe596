package library

import (
	"math"
	"time"
)

// Service implements the lending and fee lifecycle engine on top of a
// Storage collaborator. It runs each operation synchronously within the
// caller's invocation; it performs no internal locking, so concurrent calls
// touching the same patron or book may race (write failures are still
// detected and reported, never masked).
type Service struct {
	store Storage
	now   func() time.Time
}

// NewService wires the engine to its storage collaborator.
func NewService(store Storage) *Service {
	return &Service{store: store, now: time.Now}
}

// round2 rounds a currency amount to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
