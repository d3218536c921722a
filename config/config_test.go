package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Southclaws/fault/ftag"

	"go-turbopad/pad"
)

func TestDefaultsMatchController(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got, want := cfg.PadGestures(), pad.DefaultGestures(); got != want {
		t.Errorf("PadGestures() = %+v, want %+v", got, want)
	}
	if cfg.PollInterval() != 8*time.Millisecond {
		t.Errorf("PollInterval() = %s", cfg.PollInterval())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Gestures.RecordClicks != 2 {
		t.Errorf("expected defaults, got %+v", cfg.Gestures)
	}
}

func TestSaveLoadKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Gestures.RecordClicks = 3
	cfg.Source.Type = SourceMIDI
	cfg.Source.MIDIPort = "nanoPAD"
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Gestures.RecordClicks != 3 || got.Source.Type != SourceMIDI || got.Source.MIDIPort != "nanoPAD" {
		t.Errorf("overrides lost: %+v", got)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"gestures":{"loopHoldMs":1500,"multiClickTimeoutMs":350,"fuseHoldMs":5000,"recordClicks":2,"saveClicks":2,"playClicks":1}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.PadGestures().LoopHold != 1500*time.Millisecond {
		t.Errorf("LoopHold = %s", cfg.PadGestures().LoopHold)
	}
	if cfg.PollIntervalMs != 8 || !cfg.SwapAB {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{gestures`},
		{"zero timeout", `{"gestures":{"multiClickTimeoutMs":0}}`},
		{"same clicks", `{"gestures":{"multiClickTimeoutMs":350,"fuseHoldMs":1,"loopHoldMs":1,"recordClicks":1,"saveClicks":1,"playClicks":1}}`},
		{"unknown source", `{"source":{"type":"joystick"}}`},
		{"bad channel", `{"sink":{"type":"midi","channel":16}}`},
		{"loop hold past fuse", `{"gestures":{"loopHoldMs":6000,"fuseHoldMs":5000}}`},
		{"unnamed vpad", `{"sink":{"type":"vpad","deviceName":""}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFile(path)
			if err == nil {
				t.Fatal("expected an error")
			}
			if ftag.Get(err) != ftag.InvalidArgument {
				t.Errorf("tag = %v, want InvalidArgument", ftag.Get(err))
			}
		})
	}
}

func TestVPadSinkUsesDefaultName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"sink":{"type":"vpad"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Sink.Type != SinkVPad || cfg.Sink.DeviceName != "go-turbopad" {
		t.Errorf("sink = %+v", cfg.Sink)
	}
}
