package link

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

// fakeLine behaves like a serial port with a read timeout
type fakeLine struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (f *fakeLine) Read(p []byte) (int, error) {
	if f.in.Len() == 0 {
		return 0, nil
	}
	return f.in.Read(p)
}

func (f *fakeLine) Write(p []byte) (int, error) {
	return f.out.Write(p)
}

func TestPortSample(t *testing.T) {
	line := &fakeLine{}
	p := NewPort("test", line)
	ctx := context.Background()

	levels, err := p.Sample(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, on := range levels {
		if on {
			t.Fatal("expected all released before the first frame")
		}
	}

	// Newest frame wins
	a := Encode(SyncSample, 1<<pad.ButtonA)
	b := Encode(SyncSample, 1<<pad.ButtonStart)
	line.in.Write(a[:])
	line.in.Write(b[:])
	levels, err = p.Sample(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if levels[pad.ButtonA] || !levels[pad.ButtonStart] {
		t.Errorf("levels = %v", levels)
	}
	if p.Frames() != 2 {
		t.Errorf("Frames() = %d", p.Frames())
	}

	// No new bytes: previous levels repeat
	levels, _ = p.Sample(ctx)
	if !levels[pad.ButtonStart] {
		t.Error("levels should hold between frames")
	}
}

func TestPortSampleLargeBacklog(t *testing.T) {
	line := &fakeLine{}
	p := NewPort("test", line)
	for i := 0; i < 40; i++ {
		f := Encode(SyncSample, uint16(i))
		line.in.Write(f[:])
	}
	last := Encode(SyncSample, 1<<pad.ButtonL)
	line.in.Write(last[:])

	levels, err := p.Sample(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !levels[pad.ButtonL] || levels[pad.ButtonB] {
		t.Errorf("levels = %v", levels)
	}
	if p.Frames() != 41 {
		t.Errorf("Frames() = %d", p.Frames())
	}
}

func TestPortSubmit(t *testing.T) {
	line := &fakeLine{}
	p := NewPort("test", line)

	if err := p.Submit(pad.Report{B: true}); err != nil {
		t.Fatal(err)
	}
	want := Encode(SyncReport, 1<<pad.HostB)
	if !bytes.Equal(line.out.Bytes(), want[:]) {
		t.Errorf("wrote % x, want % x", line.out.Bytes(), want)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestPortLogsEachResyncOnce(t *testing.T) {
	var log bytes.Buffer
	debug.EnableWriter(&log)
	defer debug.Disable()

	line := &fakeLine{}
	p := NewPort("test", line)
	ctx := context.Background()

	f := Encode(SyncSample, 1<<pad.ButtonB)
	line.in.Write([]byte{0x00, 0x11})
	line.in.Write(f[:])
	if _, err := p.Sample(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(log.String(), "resync dropped 2 bytes") {
		t.Fatalf("log = %q", log.String())
	}

	log.Reset()
	line.in.Write(f[:])
	if _, err := p.Sample(ctx); err != nil {
		t.Fatal(err)
	}
	p.Sample(ctx)
	if strings.Contains(log.String(), "resync") {
		t.Errorf("old drops reported again: %q", log.String())
	}

	line.in.Write([]byte{0x22})
	line.in.Write(f[:])
	p.Sample(ctx)
	if !strings.Contains(log.String(), "resync dropped 1 bytes") {
		t.Errorf("new drop not reported: %q", log.String())
	}
}
