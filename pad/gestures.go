package pad

import "time"

// Designated buttons. The control button doubles as autofire shift, macro
// program button and fuse button.
const (
	ShiftButton   = ButtonSelect
	ProgramButton = ButtonSelect
	FuseButton    = ButtonSelect
)

// LogoChord is held together to emulate the logo button
var LogoChord = [2]ButtonID{ButtonSelect, ButtonStart}

// AutofireButtons can be toggled into autofire while ShiftButton is held
var AutofireButtons = [...]ButtonID{ButtonA, ButtonB, ButtonX, ButtonY, ButtonL, ButtonR}

// Gestures holds the tunable timing and click-count thresholds
type Gestures struct {
	MultiClickTimeout time.Duration // inter-click tolerance

	FuseHold   time.Duration // hold needed to blow the fuse
	FuseWindow time.Duration // fuse only blows this soon after boot
	LoopHold   time.Duration // hold that ends a recording in continuous mode

	RecordClicks int // clicks that start a recording
	SaveClicks   int // clicks that end a recording
	PlayClicks   int // clicks that start playback
}

// DefaultGestures returns the reference thresholds
func DefaultGestures() Gestures {
	return Gestures{
		MultiClickTimeout: MultiClickTimeout,
		FuseHold:          5 * time.Second,
		FuseWindow:        30 * time.Second,
		LoopHold:          3 * time.Second,
		RecordClicks:      2,
		SaveClicks:        2,
		PlayClicks:        1,
	}
}
