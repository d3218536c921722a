package adapter

import (
	"context"
	"sync"

	"go-turbopad/pad"
)

// LatchSource simulates a pad from discrete key events. Terminals only
// report key presses, so a tap holds a button for exactly one sample and
// a toggle holds it until toggled again.
type LatchSource struct {
	mu     sync.Mutex
	held   [pad.NumButtons]bool
	tapped [pad.NumButtons]bool
}

func NewLatchSource() *LatchSource {
	return &LatchSource{}
}

// Tap presses id for the next sample only
func (s *LatchSource) Tap(id pad.ButtonID) {
	if !valid(id) {
		return
	}
	s.mu.Lock()
	s.tapped[id] = true
	s.mu.Unlock()
}

// Toggle flips the held state of id and returns the new state
func (s *LatchSource) Toggle(id pad.ButtonID) bool {
	if !valid(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[id] = !s.held[id]
	return s.held[id]
}

// Set holds or releases id
func (s *LatchSource) Set(id pad.ButtonID, pressed bool) {
	if !valid(id) {
		return
	}
	s.mu.Lock()
	s.held[id] = pressed
	s.mu.Unlock()
}

// Held reports whether id is latched down
func (s *LatchSource) Held(id pad.ButtonID) bool {
	if !valid(id) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[id]
}

// ReleaseAll drops every held and pending button
func (s *LatchSource) ReleaseAll() {
	s.mu.Lock()
	s.held = [pad.NumButtons]bool{}
	s.tapped = [pad.NumButtons]bool{}
	s.mu.Unlock()
}

// Sample returns held buttons plus any taps since the last sample
func (s *LatchSource) Sample(ctx context.Context) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, pad.NumButtons)
	for i := range out {
		out[i] = s.held[i] || s.tapped[i]
	}
	s.tapped = [pad.NumButtons]bool{}
	return out, nil
}

func valid(id pad.ButtonID) bool {
	return id >= 0 && int(id) < pad.NumButtons
}
