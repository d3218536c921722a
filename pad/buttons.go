package pad

// ButtonID indexes a button in shift-register order
type ButtonID int

// SNES shift-register order (first 12 of the 16 clocked bits)
const (
	ButtonB ButtonID = iota
	ButtonY
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonX
	ButtonL
	ButtonR

	// ButtonLogo is synthetic, driven by the Select+Start chord
	ButtonLogo
)

const (
	NumButtons = 12             // physical buttons sampled per tick
	NumOutputs = NumButtons + 1 // physical + logo
	SampleBits = 16             // bits clocked out per latch
)

var labels = [NumOutputs]string{"B", "Y", "Select", "Start", "Up", "Down", "Left", "Right", "A", "X", "L", "R", "Logo"}

// Label returns the printable name of a button. With swapAB the A and B
// labels follow the host layout instead of the pad's.
func Label(id ButtonID, swapAB bool) string {
	if id < 0 || int(id) >= NumOutputs {
		return "?"
	}
	if swapAB {
		switch id {
		case ButtonA:
			return labels[ButtonB]
		case ButtonB:
			return labels[ButtonA]
		}
	}
	return labels[id]
}

// String implements fmt.Stringer
func (id ButtonID) String() string {
	return Label(id, false)
}

// Report is the host-facing gamepad report (XInput layout)
type Report struct {
	A, B, X, Y     bool
	LB, RB         bool
	Back, Start    bool
	Logo           bool
	Up, Down, Left bool
	Right          bool
}

// HostReport maps per-button outputs onto the host report
func HostReport(out Outputs, swapAB bool) Report {
	a, b := ButtonA, ButtonB
	if swapAB {
		a, b = ButtonB, ButtonA
	}
	return Report{
		A:     out[a],
		B:     out[b],
		X:     out[ButtonX],
		Y:     out[ButtonY],
		LB:    out[ButtonL],
		RB:    out[ButtonR],
		Back:  out[ButtonSelect],
		Start: out[ButtonStart],
		Logo:  out[ButtonLogo],
		Up:    out[ButtonUp],
		Down:  out[ButtonDown],
		Left:  out[ButtonLeft],
		Right: out[ButtonRight],
	}
}

// HostButton identifies a field of Report for transports that address
// buttons by number
type HostButton int

const (
	HostA HostButton = iota
	HostB
	HostX
	HostY
	HostLB
	HostRB
	HostBack
	HostStart
	HostLogo
	HostUp
	HostDown
	HostLeft
	HostRight
	NumHostButtons
)

// Buttons flattens the report in HostButton order
func (r Report) Buttons() [NumHostButtons]bool {
	return [NumHostButtons]bool{
		r.A, r.B, r.X, r.Y, r.LB, r.RB, r.Back, r.Start, r.Logo,
		r.Up, r.Down, r.Left, r.Right,
	}
}

// Bits packs the report into a bitfield, bit n = HostButton n
func (r Report) Bits() uint16 {
	var v uint16
	for i, on := range r.Buttons() {
		if on {
			v |= 1 << i
		}
	}
	return v
}
