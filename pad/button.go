package pad

import "time"

// MultiClickTimeout is the default inter-click tolerance
const MultiClickTimeout = 350 * time.Millisecond

// Mode selects how a button computes its output
type Mode int

const (
	ModeNormal Mode = iota
	ModeAutofire
)

func (m Mode) String() string {
	switch m {
	case ModeAutofire:
		return "autofire"
	default:
		return "normal"
	}
}

// apply computes the next output from the sampled input and the previous output
func (m Mode) apply(input, output bool) bool {
	switch m {
	case ModeAutofire:
		if input {
			return !output
		}
		return false
	default:
		return input
	}
}

// Button tracks edges, hold duration and clicks of a single input.
// Edge flags describe the most recent UpdateInput call.
type Button struct {
	Mode     Mode
	Input    bool
	Changed  bool
	Pressed  bool
	Released bool
	Held     bool
	Duration time.Duration // since the current press began, frozen on release
	Clicks   int
	Output   bool

	clickTimeout time.Duration
	pressedAt    time.Duration
	timing       bool
	clickStart   time.Duration
}

// NewButton creates a button that forgets clicks after clickTimeout
func NewButton(clickTimeout time.Duration) Button {
	return Button{clickTimeout: clickTimeout}
}

// UpdateInput advances the edge, duration and click state with a new sample
// taken at now (elapsed time on a monotonic clock).
func (b *Button) UpdateInput(level bool, now time.Duration) {
	b.Changed = level != b.Input
	b.Input = level
	b.Pressed = b.Changed && level
	b.Released = b.Changed && !level
	b.Held = !b.Changed && level

	if b.Pressed {
		b.pressedAt = now
		b.timing = true
	}
	if b.timing {
		b.Duration = now - b.pressedAt
	}

	if now-b.clickStart >= b.clickTimeout {
		b.Clicks = 0
	}

	if b.Released {
		b.timing = false
		b.Clicks++
		b.clickStart = now
	}
}

// SetInput forces the button into a state without edge history.
// Used to seed synthetic buttons.
func (b *Button) SetInput(level bool, now time.Duration) {
	b.Mode = ModeNormal
	b.Input = level
	b.Changed = false
	b.Pressed = level
	b.Released = false
	b.Held = level
	b.Output = level
	b.Reset(now)
	if level {
		b.pressedAt = now
		b.timing = true
	}
}

// Reset clears clicks and duration and restarts the click window
func (b *Button) Reset(now time.Duration) {
	b.Clicks = 0
	b.Duration = 0
	b.timing = false
	b.clickStart = now
}

// ToggleMode flips between normal and autofire
func (b *Button) ToggleMode() {
	if b.Mode == ModeNormal {
		b.Mode = ModeAutofire
	} else {
		b.Mode = ModeNormal
	}
}

// Process recomputes Output from Mode and Input
func (b *Button) Process() {
	b.Output = b.Mode.apply(b.Input, b.Output)
}

// Ignore hides the button from this tick's report
func (b *Button) Ignore() {
	b.Output = false
}

// Fire forces the button on for this tick's report
func (b *Button) Fire() {
	b.Output = true
}
