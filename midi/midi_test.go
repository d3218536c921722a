package midi

import (
	"context"
	"errors"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-turbopad/pad"
)

func TestNoteSourceLevels(t *testing.T) {
	s := NewNoteSource(36)

	s.Handle(gomidi.NoteOn(0, 36, 100))    // B
	s.Handle(gomidi.NoteOn(3, 44, 1))      // A, any channel
	s.Handle(gomidi.NoteOn(0, 20, 100))    // below base
	s.Handle(gomidi.NoteOn(0, 36+12, 100)) // past last button

	levels, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(levels) != pad.NumButtons {
		t.Fatalf("len = %d", len(levels))
	}
	for i, on := range levels {
		want := pad.ButtonID(i) == pad.ButtonB || pad.ButtonID(i) == pad.ButtonA
		if on != want {
			t.Errorf("%s = %v, want %v", pad.ButtonID(i), on, want)
		}
	}

	s.Handle(gomidi.NoteOff(0, 36))
	s.Handle(gomidi.NoteOn(3, 44, 0))
	levels, _ = s.Sample(context.Background())
	if levels[pad.ButtonB] || levels[pad.ButtonA] {
		t.Errorf("expected release, got %v", levels)
	}
}

func TestNoteSourceDetachReleases(t *testing.T) {
	s := NewNoteSource(0)
	s.Handle(gomidi.NoteOn(0, uint8(pad.ButtonStart), 100))
	s.Detach()

	levels, _ := s.Sample(context.Background())
	if levels[pad.ButtonStart] {
		t.Error("detach should release held buttons")
	}
}

func TestNoteSourceIgnoresLateMessages(t *testing.T) {
	var recv func(gomidi.Message, int32)
	stopped := false
	listen = func(in drivers.In, fn func(gomidi.Message, int32), _ ...gomidi.Option) (func(), error) {
		recv = fn
		return func() { stopped = true }, nil
	}
	defer func() { listen = gomidi.ListenTo }()

	s := NewNoteSource(0)
	if err := s.Attach("pad", fakeIn{name: "pad"}); err != nil {
		t.Fatal(err)
	}
	recv(gomidi.NoteOn(0, uint8(pad.ButtonA), 100), 0)
	if levels, _ := s.Sample(context.Background()); !levels[pad.ButtonA] {
		t.Fatal("attached port should drive levels")
	}

	s.Detach()
	if !stopped {
		t.Error("Detach should stop the listener")
	}
	// A callback that was already running when the port went away
	recv(gomidi.NoteOn(0, uint8(pad.ButtonX), 100), 0)
	levels, _ := s.Sample(context.Background())
	if levels[pad.ButtonA] || levels[pad.ButtonX] {
		t.Errorf("detached port left buttons held: %v", levels)
	}
}

type sentNote struct {
	on   bool
	ch   uint8
	note uint8
}

func recordSend(sent *[]sentNote) func(gomidi.Message) error {
	return func(msg gomidi.Message) error {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel) && vel > 0:
			*sent = append(*sent, sentNote{true, ch, key})
		case msg.GetNoteOff(&ch, &key, &vel):
			*sent = append(*sent, sentNote{false, ch, key})
		}
		return nil
	}
}

func TestNoteSinkSendsChangesOnly(t *testing.T) {
	var sent []sentNote
	s := NewNoteSink(recordSend(&sent), 2, 60)

	steps := []struct {
		report pad.Report
		want   []sentNote
	}{
		{pad.Report{A: true}, []sentNote{{true, 2, 60}}},
		{pad.Report{A: true}, nil},
		{pad.Report{A: true, Right: true}, []sentNote{{true, 2, 60 + uint8(pad.HostRight)}}},
		{pad.Report{Right: true}, []sentNote{{false, 2, 60}}},
	}

	for i, step := range steps {
		sent = nil
		if err := s.Submit(step.report); err != nil {
			t.Fatalf("step %d: Submit: %v", i, err)
		}
		if len(sent) != len(step.want) {
			t.Fatalf("step %d: sent %v, want %v", i, sent, step.want)
		}
		for j := range sent {
			if sent[j] != step.want[j] {
				t.Errorf("step %d: sent[%d] = %v, want %v", i, j, sent[j], step.want[j])
			}
		}
	}

	sent = nil
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].on {
		t.Errorf("Close should release held notes, sent %v", sent)
	}
}

func TestNoteSinkSendError(t *testing.T) {
	s := NewNoteSink(func(gomidi.Message) error { return errors.New("unplugged") }, 0, 0)
	if err := s.Submit(pad.Report{B: true}); err == nil {
		t.Error("expected send error")
	}
}

func TestNoteSinkRetriesFailedSend(t *testing.T) {
	var sent []sentNote
	record := recordSend(&sent)
	failures := 1
	s := NewNoteSink(func(msg gomidi.Message) error {
		if failures > 0 {
			failures--
			return errors.New("busy")
		}
		return record(msg)
	}, 0, 60)

	if err := s.Submit(pad.Report{A: true, B: true}); err == nil {
		t.Fatal("expected send error")
	}
	if len(sent) != 0 {
		t.Fatalf("sent %v after failure", sent)
	}

	// Same report again: both notes are still owed
	if err := s.Submit(pad.Report{A: true, B: true}); err != nil {
		t.Fatal(err)
	}
	want := []sentNote{{true, 0, 60 + uint8(pad.HostA)}, {true, 0, 60 + uint8(pad.HostB)}}
	if len(sent) != len(want) || sent[0] != want[0] || sent[1] != want[1] {
		t.Errorf("sent %v, want %v", sent, want)
	}

	sent = nil
	if err := s.Submit(pad.Report{A: true, B: true}); err != nil {
		t.Fatal(err)
	}
	if len(sent) != 0 {
		t.Errorf("delivered notes sent again: %v", sent)
	}
}

type fakeIn struct {
	drivers.In
	name string
}

func (f fakeIn) String() string { return f.name }

func TestDeviceManagerHotplug(t *testing.T) {
	src := NewNoteSource(36)
	dm := NewDeviceManager("nanopad", src)

	var ports []drivers.In
	var attached []string
	dm.listPorts = func() []drivers.In { return ports }
	dm.attach = func(id string, in drivers.In) error {
		attached = append(attached, id)
		return nil
	}

	expect := func(typ DeviceEventType, id string) {
		t.Helper()
		select {
		case ev := <-dm.Events():
			if ev.Type != typ || ev.ID != id {
				t.Errorf("event = %v %q, want %v %q", ev.Type, ev.ID, typ, id)
			}
		default:
			t.Errorf("no event, want %v %q", typ, id)
		}
	}
	expectNone := func() {
		t.Helper()
		select {
		case ev := <-dm.Events():
			t.Errorf("unexpected event %v %q", ev.Type, ev.ID)
		default:
		}
	}

	dm.scan()
	expectNone()

	ports = []drivers.In{fakeIn{name: "Launchpad X MIDI 1"}, fakeIn{name: "nanoPAD2 PAD"}}
	dm.scan()
	expect(DeviceConnected, "nanoPAD2 PAD")
	if dm.Current() != "nanoPAD2 PAD" {
		t.Errorf("Current() = %q", dm.Current())
	}

	dm.scan()
	expectNone()
	if len(attached) != 1 {
		t.Errorf("attached %d times, want 1", len(attached))
	}

	ports = nil
	dm.scan()
	expect(DeviceDisconnected, "nanoPAD2 PAD")
	if dm.Current() != "" {
		t.Errorf("Current() = %q after unplug", dm.Current())
	}
}

func TestDeviceManagerAttachFailure(t *testing.T) {
	dm := NewDeviceManager("pad", NewNoteSource(0))
	dm.listPorts = func() []drivers.In { return []drivers.In{fakeIn{name: "pad"}} }
	dm.attach = func(string, drivers.In) error { return errors.New("busy") }

	dm.scan()
	if dm.Current() != "" {
		t.Errorf("Current() = %q, want none", dm.Current())
	}
	select {
	case ev := <-dm.Events():
		t.Errorf("unexpected event %v", ev.Type)
	default:
	}
}
