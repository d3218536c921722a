package midi

import (
	"context"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

// NoteSource turns note on/off messages into button levels. Button n is
// note base+n on any channel.
type NoteSource struct {
	base uint8

	mu       sync.Mutex
	levels   [pad.NumButtons]bool
	port     string
	stopFunc func()
	gen      uint64 // bumped on detach; callbacks of older listeners are dropped
}

// listen is swapped out in tests
var listen = gomidi.ListenTo

// NewNoteSource creates a source with no port attached
func NewNoteSource(base uint8) *NoteSource {
	return &NoteSource{base: base}
}

// Attach starts listening on an input port, replacing any previous one
func (s *NoteSource) Attach(id string, in drivers.In) error {
	s.Detach()

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	stop, err := listen(in, func(msg gomidi.Message, timestampms int32) {
		s.handle(gen, msg)
	})
	if err != nil {
		return fault.Wrap(err, fmsg.With("listen to "+id))
	}

	s.mu.Lock()
	s.port = id
	s.stopFunc = stop
	s.mu.Unlock()
	debug.Info("midi-in", "attached %s", id)
	return nil
}

// Detach stops listening and releases every button. Messages still in
// flight from the old port are ignored.
func (s *NoteSource) Detach() {
	s.mu.Lock()
	stop := s.stopFunc
	port := s.port
	s.stopFunc = nil
	s.port = ""
	s.mu.Unlock()

	if stop != nil {
		stop()
		debug.Info("midi-in", "detached %s", port)
	}

	s.mu.Lock()
	s.gen++
	s.levels = [pad.NumButtons]bool{}
	s.mu.Unlock()
}

// Port returns the attached port name, empty when detached
func (s *NoteSource) Port() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Handle applies one MIDI message. Note on with velocity 0 counts as release.
func (s *NoteSource) Handle(msg gomidi.Message) {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	s.handle(gen, msg)
}

func (s *NoteSource) handle(gen uint64, msg gomidi.Message) {
	var channel, note, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		s.set(gen, note, velocity > 0)
	case msg.GetNoteOff(&channel, &note, &velocity):
		s.set(gen, note, false)
	}
}

func (s *NoteSource) set(gen uint64, note uint8, pressed bool) {
	if note < s.base {
		return
	}
	idx := int(note - s.base)
	if idx >= pad.NumButtons {
		return
	}
	s.mu.Lock()
	if gen == s.gen {
		s.levels[idx] = pressed
	}
	s.mu.Unlock()
}

// Sample returns a copy of the current levels
func (s *NoteSource) Sample(ctx context.Context) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, pad.NumButtons)
	copy(out, s.levels[:])
	return out, nil
}

// Close detaches the port
func (s *NoteSource) Close() error {
	s.Detach()
	return nil
}
