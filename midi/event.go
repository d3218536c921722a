package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// DefaultVelocity is sent for pressed host buttons
const DefaultVelocity uint8 = 100

// Event is a note message derived from a host report change
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// Message converts the event for sending
func (e Event) Message() gomidi.Message {
	if e.Type == NoteOn {
		return gomidi.NoteOn(e.Channel, e.Note, e.Velocity)
	}
	return gomidi.NoteOff(e.Channel, e.Note)
}
