package midi

import (
	"strings"
	"sync/atomic"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

var noteSendCount uint64

// NoteSink forwards host reports as notes, one note per host button.
// Only buttons that differ from what the receiver last got are sent.
type NoteSink struct {
	send    func(msg gomidi.Message) error
	channel uint8
	base    uint8
	sent    [pad.NumHostButtons]bool // level delivered per host button
}

// NewNoteSink creates a sink writing through send
func NewNoteSink(send func(msg gomidi.Message) error, channel, base uint8) *NoteSink {
	return &NoteSink{send: send, channel: channel, base: base}
}

// OpenNoteSink finds the first output port whose name contains match
func OpenNoteSink(match string, channel, base uint8) (*NoteSink, error) {
	match = strings.ToLower(match)
	for _, out := range gomidi.GetOutPorts() {
		if !strings.Contains(strings.ToLower(out.String()), match) {
			continue
		}
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With("open output "+out.String()))
		}
		debug.Info("midi-out", "sending reports to %s", out.String())
		return NewNoteSink(send, channel, base), nil
	}
	return nil, fault.Wrap(fault.New("no MIDI output matching "+match),
		ftag.With(ftag.NotFound),
		fmsg.WithDesc("no MIDI output", "Please ensure a MIDI device is connected"))
}

// Submit sends note on/off for every host button that changed. A failed
// send leaves that button and the ones after it pending for the next call.
func (s *NoteSink) Submit(r pad.Report) error {
	var n uint64
	defer func() {
		if n == 0 {
			return
		}
		count := atomic.AddUint64(&noteSendCount, n)
		if count%100 < n {
			debug.Log("midi-out", "sent count=%d (this report=%d)", count, n)
		}
	}()

	for i, on := range r.Buttons() {
		if s.sent[i] == on {
			continue
		}
		e := ButtonEvent(pad.HostButton(i), on, s.channel, s.base)
		if err := s.send(e.Message()); err != nil {
			return fault.Wrap(err, fmsg.With("send note"))
		}
		s.sent[i] = on
		n++
	}
	return nil
}

// Close releases every held note
func (s *NoteSink) Close() error {
	return s.Submit(pad.Report{})
}

// ButtonEvent is the note for host button b; button n maps to note base+n
func ButtonEvent(b pad.HostButton, on bool, channel, base uint8) Event {
	e := Event{Type: NoteOff, Channel: channel, Note: base + uint8(b)}
	if on {
		e.Type = NoteOn
		e.Velocity = DefaultVelocity
	}
	return e
}
