package vpad

import (
	"bytes"
	"errors"
	"testing"

	"go-turbopad/pad"
)

func TestEventsDiff(t *testing.T) {
	if got := Events(pad.Report{}, pad.Report{}); got != nil {
		t.Errorf("no change should give no events, got %v", got)
	}

	got := Events(pad.Report{A: true}, pad.Report{Start: true, Logo: true})
	want := []Event{
		{evKey, btnSouth, 0},
		{evKey, btnStart, 1},
		{evKey, btnMode, 1},
		{evSyn, synReport, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestKeyCodesUnique(t *testing.T) {
	seen := map[uint16]bool{}
	for i, code := range keyCodes {
		if code == 0 {
			t.Errorf("host button %d has no key code", i)
		}
		if seen[code] {
			t.Errorf("key code %#x used twice", code)
		}
		seen[code] = true
	}
}

func TestEncode(t *testing.T) {
	e := Event{Type: evKey, Code: btnDpadUp, Value: 1}

	got := e.Encode(nil, 16)
	want := append(make([]byte, 16), 0x01, 0x00, 0x20, 0x02, 0x01, 0x00, 0x00, 0x00)
	if !bytes.Equal(got, want) {
		t.Errorf("Encode = % x, want % x", got, want)
	}

	if n := len(e.Encode(nil, 8)); n != 16 {
		t.Errorf("32-bit layout length = %d, want 16", n)
	}
}

func TestReportWriterRetriesFailedWrite(t *testing.T) {
	var writes [][]byte
	failures := 1
	w := reportWriter{
		timeSize: 8,
		write: func(p []byte) (int, error) {
			if failures > 0 {
				failures--
				return 0, errors.New("resource temporarily unavailable")
			}
			writes = append(writes, append([]byte(nil), p...))
			return len(p), nil
		},
	}

	if err := w.submit(pad.Report{A: true}); err == nil {
		t.Fatal("expected write error")
	}
	if err := w.submit(pad.Report{A: true}); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 || len(writes[0]) != 2*16 {
		t.Fatalf("writes = %d, want one press + sync batch", len(writes))
	}
	want := Event{Type: evKey, Code: btnSouth, Value: 1}.Encode(nil, 8)
	if !bytes.Equal(writes[0][:16], want) {
		t.Errorf("first event = % x, want % x", writes[0][:16], want)
	}

	if err := w.submit(pad.Report{A: true}); err != nil {
		t.Fatal(err)
	}
	if len(writes) != 1 {
		t.Error("accepted report written twice")
	}
}

func TestReportWriterShortWrite(t *testing.T) {
	w := reportWriter{
		timeSize: 8,
		write:    func(p []byte) (int, error) { return len(p) / 2, nil },
	}
	if err := w.submit(pad.Report{Start: true}); err == nil {
		t.Fatal("short write should fail")
	}
	if w.prev.Start {
		t.Error("prev must not advance on a short write")
	}
}
