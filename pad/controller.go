package pad

import (
	"time"

	"go-turbopad/debug"
)

// Outputs holds the final per-button values for one tick
type Outputs [NumOutputs]bool

// rule is one entry of the gesture arbiter. Rules are evaluated in order and
// the first whose guard holds runs its action and ends arbitration.
type rule struct {
	name   string
	guard  func(now time.Duration) bool
	action func(now time.Duration)
}

// Controller owns the buttons and the recorder and runs one full
// input-to-output pass per Tick. It is not safe for concurrent use.
type Controller struct {
	gestures Gestures
	clock    Clock
	swapAB   bool

	buttons  [NumOutputs]Button
	recorder Recorder
	rules    []rule

	deactivated bool
	lastRule    string
	ticks       uint64
}

// NewController creates a controller reading time from clock. swapAB only
// affects log labels.
func NewController(g Gestures, clock Clock, swapAB bool) *Controller {
	c := &Controller{
		gestures: g,
		clock:    clock,
		swapAB:   swapAB,
	}
	now := clock.Now()
	for i := range c.buttons {
		c.buttons[i] = NewButton(g.MultiClickTimeout)
		c.buttons[i].Reset(now)
	}
	c.buttons[ButtonLogo].SetInput(false, now)

	c.rules = []rule{
		{"fuse", c.fuseArmed, c.blowFuse},
		{"autofire", c.autofireArmed, c.toggleAutofire},
		{"record-start", c.recordStartArmed, c.startRecording},
		{"play-start", c.playStartArmed, c.startPlayback},
		{"loop", c.loopArmed, c.loopPlayback},
		{"record-save", c.saveArmed, c.saveRecording},
		{"record-loop", c.recordLoopArmed, c.saveLoop},
		{"record-overwrite", c.overwriteArmed, c.startRecording},
	}
	return c
}

// Tick ingests one sample per physical button and returns the outputs for
// the host report. Missing samples read as released.
func (c *Controller) Tick(levels []bool) Outputs {
	now := c.clock.Now()
	c.ticks++
	c.lastRule = ""

	for id := 0; id < NumButtons; id++ {
		b := &c.buttons[id]
		b.UpdateInput(id < len(levels) && levels[id], now)
		if b.Changed && !c.deactivated && c.recorder.IsIdle() {
			debug.Debug("button", "%s pressed=%t released=%t duration=%s clicks=%d",
				Label(ButtonID(id), c.swapAB), b.Pressed, b.Released, b.Duration, b.Clicks)
		}
	}

	c.emulateLogo(now)
	c.noteExpiredFuse(now)

	if !c.deactivated {
		for _, r := range c.rules {
			if r.guard(now) {
				r.action(now)
				c.lastRule = r.name
				break
			}
		}
	}

	c.output()

	var out Outputs
	for i := range c.buttons {
		out[i] = c.buttons[i].Output
	}
	return out
}

// Deactivated reports whether the fuse has blown
func (c *Controller) Deactivated() bool {
	return c.deactivated
}

// Button returns a copy of a button's state
func (c *Controller) Button(id ButtonID) Button {
	return c.buttons[id]
}

func (c *Controller) emulateLogo(now time.Duration) {
	chord := c.buttons[LogoChord[0]].Held && c.buttons[LogoChord[1]].Held
	c.buttons[ButtonLogo].UpdateInput(chord, now)
}

// noteExpiredFuse warns when the fuse gesture is attempted too late. It never
// claims the tick.
func (c *Controller) noteExpiredFuse(now time.Duration) {
	b := &c.buttons[FuseButton]
	if c.deactivated || !b.Held || b.Duration <= c.gestures.FuseHold || now < c.gestures.FuseWindow {
		return
	}
	debug.LogEvery(100, debug.LevelWarning, "fuse", "disabling modifications only possible within the first %s", c.gestures.FuseWindow)
}

// Fuse

func (c *Controller) fuseArmed(now time.Duration) bool {
	b := &c.buttons[FuseButton]
	return b.Held && b.Duration > c.gestures.FuseHold && now < c.gestures.FuseWindow
}

// blowFuse also closes an open recording, no rule could end it afterwards
func (c *Controller) blowFuse(now time.Duration) {
	if c.recorder.IsRecording() {
		c.endRecording(c.recorder.Continuous)
	}
	c.buttons[FuseButton].Reset(now)
	c.deactivated = true
	debug.Warn("fuse", "modifications disabled until power reset")
	if lvl := debug.GetLevel(); lvl < debug.LevelError {
		debug.SetLevel(debug.LevelError)
	}
}

// Autofire

func (c *Controller) autofireTarget() (ButtonID, bool) {
	if !c.buttons[ShiftButton].Held {
		return 0, false
	}
	for _, id := range AutofireButtons {
		if c.buttons[id].Released {
			return id, true
		}
	}
	return 0, false
}

func (c *Controller) autofireArmed(time.Duration) bool {
	_, ok := c.autofireTarget()
	return ok
}

func (c *Controller) toggleAutofire(time.Duration) {
	id, _ := c.autofireTarget()
	b := &c.buttons[id]
	b.ToggleMode()
	state := "disabled"
	if b.Mode == ModeAutofire {
		state = "enabled"
	}
	debug.Info("autofire", "%s auto-fire %s", Label(id, c.swapAB), state)
}

// Recording and playback

func (c *Controller) clicked(n int) bool {
	b := &c.buttons[ProgramButton]
	return b.Released && b.Clicks == n
}

func (c *Controller) recordStartArmed(time.Duration) bool {
	return c.recorder.IsIdle() && c.clicked(c.gestures.RecordClicks)
}

func (c *Controller) startRecording(time.Duration) {
	if c.recorder.IsPlaying() {
		debug.Debug("recorder", "loop interrupted by new recording")
	}
	c.recorder.StartRecording()
	debug.Debug("recorder", "recording started")
}

func (c *Controller) playStartArmed(time.Duration) bool {
	return c.recorder.IsIdle() && c.recorder.HasRecord() &&
		c.clicked(c.gestures.PlayClicks) &&
		c.buttons[ProgramButton].Duration < c.gestures.MultiClickTimeout
}

func (c *Controller) startPlayback(time.Duration) {
	c.recorder.StartPlayback()
	debug.Debug("recorder", "playback started")
}

func (c *Controller) loopArmed(time.Duration) bool {
	return c.recorder.IsIdle() && c.recorder.Continuous && c.recorder.HasRecord() &&
		c.buttons[ProgramButton].Held
}

func (c *Controller) loopPlayback(time.Duration) {
	c.recorder.StartPlayback()
	debug.Debug("recorder", "continuous playback looped")
}

func (c *Controller) saveArmed(time.Duration) bool {
	return c.recorder.IsRecording() && c.clicked(c.gestures.SaveClicks)
}

func (c *Controller) saveRecording(time.Duration) {
	c.endRecording(false)
}

func (c *Controller) recordLoopArmed(time.Duration) bool {
	b := &c.buttons[ProgramButton]
	return c.recorder.IsRecording() && b.Held && b.Duration > c.gestures.LoopHold
}

func (c *Controller) saveLoop(time.Duration) {
	c.endRecording(true)
}

func (c *Controller) endRecording(continuous bool) {
	c.recorder.EndRecording()
	c.recorder.Continuous = continuous

	n := c.recorder.Count()
	switch {
	case n == 0:
		debug.Debug("recorder", "recording aborted")
	case continuous:
		debug.Info("recorder", "recording finished (%d presses saved), continuous playback", n)
	default:
		debug.Info("recorder", "recording finished (%d presses saved)", n)
	}
}

// overwriteArmed lets a new recording replace a tape that is looping
func (c *Controller) overwriteArmed(time.Duration) bool {
	return c.recorder.IsPlaying() && c.recorder.Continuous && c.recorder.HasRecord() &&
		c.clicked(c.gestures.RecordClicks)
}

// output computes every button's final value for this tick
func (c *Controller) output() {
	forced, forcing := c.recorder.Playback()
	logo := c.buttons[ButtonLogo].Held
	program := c.buttons[ProgramButton].Held && c.recorder.Count() > 0

	for i := range c.buttons {
		id := ButtonID(i)
		b := &c.buttons[i]

		if (logo && (id == LogoChord[0] || id == LogoChord[1])) || (program && id == ProgramButton) {
			b.Ignore()
			continue
		}

		b.Process()
		switch {
		case c.recorder.IsRecording():
			if b.Pressed && id != ProgramButton {
				if c.recorder.Record(id) {
					debug.Debug("recorder", "%s recorded", Label(id, c.swapAB))
				} else {
					debug.Error("recorder", "%s not recorded: tape full (%d)", Label(id, c.swapAB), TapeCapacity)
				}
			}
			b.Ignore()
		case forcing:
			if id == forced {
				b.Fire()
			} else {
				b.Ignore()
			}
		}
	}
	if forcing {
		debug.Debug("recorder", "%s playback", Label(forced, c.swapAB))
	}
}
