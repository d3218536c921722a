package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	"go-turbopad/pad"
)

// SourceType identifies where raw samples come from
type SourceType string

const (
	SourceGPIO     SourceType = "gpio"     // SNES pad wired to GPIO
	SourceSerial   SourceType = "serial"   // microcontroller bridge
	SourceMIDI     SourceType = "midi"     // MIDI pad/keyboard
	SourceKeyboard SourceType = "keyboard" // terminal keys (TUI only)
)

// SinkType identifies where host reports go
type SinkType string

const (
	SinkNone   SinkType = "none"
	SinkSerial SinkType = "serial"
	SinkMIDI   SinkType = "midi"
	SinkVPad   SinkType = "vpad" // Linux uinput gamepad
)

// GestureConfig holds the tunable gesture thresholds
type GestureConfig struct {
	MultiClickTimeoutMs int `json:"multiClickTimeoutMs"`
	FuseHoldMs          int `json:"fuseHoldMs"`
	FuseWindowMs        int `json:"fuseWindowMs"`
	LoopHoldMs          int `json:"loopHoldMs"`
	RecordClicks        int `json:"recordClicks"`
	SaveClicks          int `json:"saveClicks"`
	PlayClicks          int `json:"playClicks"`
}

// PinConfig names the GPIO lines of the pad connector
type PinConfig struct {
	Latch string `json:"latch"`
	Clock string `json:"clock"`
	Data  string `json:"data"`
}

// SourceConfig selects and configures the sample source
type SourceConfig struct {
	Type       SourceType `json:"type"`
	MIDIPort   string     `json:"midiPort,omitempty"` // name fragment, matched case-insensitively
	BaseNote   uint8      `json:"baseNote,omitempty"` // note of button 0
	SerialPort string     `json:"serialPort,omitempty"`
	Baud       int        `json:"baud,omitempty"`
	Pins       PinConfig  `json:"pins,omitempty"`
}

// SinkConfig selects and configures the report sink
type SinkConfig struct {
	Type       SinkType `json:"type"`
	MIDIPort   string   `json:"midiPort,omitempty"`
	Channel    uint8    `json:"channel,omitempty"` // 0-15
	BaseNote   uint8    `json:"baseNote,omitempty"`
	SerialPort string   `json:"serialPort,omitempty"`
	Baud       int      `json:"baud,omitempty"`
	DeviceName string   `json:"deviceName,omitempty"` // virtual gamepad name
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GPL file, empty = built-in
}

// Config is the main configuration structure
type Config struct {
	Gestures       GestureConfig `json:"gestures"`
	Source         SourceConfig  `json:"source"`
	Sink           SinkConfig    `json:"sink"`
	SwapAB         bool          `json:"swapAB"`
	PollIntervalMs int           `json:"pollIntervalMs"`
	LogLevel       string        `json:"logLevel,omitempty"`
	UI             UIConfig      `json:"ui,omitempty"`
}

// DefaultConfig returns a config with the reference thresholds
func DefaultConfig() *Config {
	return &Config{
		Gestures: GestureConfig{
			MultiClickTimeoutMs: 350,
			FuseHoldMs:          5000,
			FuseWindowMs:        30000,
			LoopHoldMs:          3000,
			RecordClicks:        2,
			SaveClicks:          2,
			PlayClicks:          1,
		},
		Source: SourceConfig{
			Type:     SourceKeyboard,
			MIDIPort: "midi",
			BaseNote: 36,
			Baud:     115200,
			Pins: PinConfig{
				Latch: "GPIO17",
				Clock: "GPIO27",
				Data:  "GPIO22",
			},
		},
		Sink: SinkConfig{
			Type:       SinkNone,
			BaseNote:   36,
			Baud:       115200,
			DeviceName: "go-turbopad",
		},
		SwapAB:         true,
		PollIntervalMs: 8,
		LogLevel:       "info",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-turbopad"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Fields missing from the file keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("parse config", "The config file "+path+" is not valid JSON"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return fault.Wrap(err, fmsg.With("locate config"))
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}

// Validate rejects settings the controller cannot run with
func (c *Config) Validate() error {
	g := c.Gestures
	invalid := func(msg string) error {
		return fault.Wrap(fault.New(msg), ftag.With(ftag.InvalidArgument))
	}

	switch {
	case g.MultiClickTimeoutMs <= 0:
		return invalid("multiClickTimeoutMs must be positive")
	case g.FuseHoldMs <= 0 || g.LoopHoldMs <= 0:
		return invalid("hold thresholds must be positive")
	case g.LoopHoldMs >= g.FuseHoldMs:
		return invalid("loopHoldMs must be shorter than fuseHoldMs")
	case g.FuseWindowMs < 0:
		return invalid("fuseWindowMs must not be negative")
	case g.RecordClicks < 1 || g.SaveClicks < 1 || g.PlayClicks < 1:
		return invalid("click counts must be at least 1")
	case g.PlayClicks == g.RecordClicks:
		return invalid("playClicks and recordClicks must differ")
	case c.PollIntervalMs <= 0:
		return invalid("pollIntervalMs must be positive")
	case c.Sink.Channel > 15:
		return invalid("sink channel must be 0-15")
	}

	switch c.Source.Type {
	case SourceGPIO, SourceSerial, SourceMIDI, SourceKeyboard:
	default:
		return invalid("unknown source type " + string(c.Source.Type))
	}
	switch c.Sink.Type {
	case SinkNone, SinkSerial, SinkMIDI:
	case SinkVPad:
		if c.Sink.DeviceName == "" || len(c.Sink.DeviceName) > 79 {
			return invalid("vpad device name must be 1-79 bytes")
		}
	default:
		return invalid("unknown sink type " + string(c.Sink.Type))
	}
	return nil
}

// PadGestures converts the gesture section for the controller
func (c *Config) PadGestures() pad.Gestures {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	g := c.Gestures
	return pad.Gestures{
		MultiClickTimeout: ms(g.MultiClickTimeoutMs),
		FuseHold:          ms(g.FuseHoldMs),
		FuseWindow:        ms(g.FuseWindowMs),
		LoopHold:          ms(g.LoopHoldMs),
		RecordClicks:      g.RecordClicks,
		SaveClicks:        g.SaveClicks,
		PlayClicks:        g.PlayClicks,
	}
}

// PollInterval returns the tick period
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
