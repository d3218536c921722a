package pad

import "time"

// ButtonState is the displayable part of a Button
type ButtonState struct {
	Input    bool
	Output   bool
	Mode     Mode
	Clicks   int
	Duration time.Duration
}

// Snapshot is a copy of the controller state after a tick
type Snapshot struct {
	Uptime      time.Duration
	Ticks       uint64
	Buttons     [NumOutputs]ButtonState
	Recorder    RecorderState
	Tape        []ButtonID
	Cursor      int // next tape position, -1 when not playing
	Continuous  bool
	Deactivated bool
	Rule        string // rule that claimed the last tick, if any
}

// Snapshot copies the current state for readers outside the tick loop
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:      c.clock.Now(),
		Ticks:       c.ticks,
		Recorder:    c.recorder.State(),
		Tape:        c.recorder.Tape(),
		Cursor:      c.recorder.Cursor(),
		Continuous:  c.recorder.Continuous,
		Deactivated: c.deactivated,
		Rule:        c.lastRule,
	}
	for i, b := range c.buttons {
		s.Buttons[i] = ButtonState{
			Input:    b.Input,
			Output:   b.Output,
			Mode:     b.Mode,
			Clicks:   b.Clicks,
			Duration: b.Duration,
		}
	}
	return s
}

// Outputs returns the per-button outputs recorded in the snapshot
func (s Snapshot) Outputs() Outputs {
	var out Outputs
	for i, b := range s.Buttons {
		out[i] = b.Output
	}
	return out
}
