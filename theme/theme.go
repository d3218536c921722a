package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Role names a place in the UI that takes its color from the palette
type Role int

const (
	RoleMuted   Role = iota // released buttons, hints
	RoleFG                  // tape entries
	RoleAccent              // header, autofire marks
	RoleActive              // pressed outputs, recording
	RoleWarning             // suppressed outputs, fuse
	RoleSuccess             // tape cursor
	numRoles
)

// rolePositions places each role along the palette (0-1)
var rolePositions = [numRoles]float64{
	RoleMuted:   0.2,
	RoleFG:      0.4,
	RoleAccent:  0.5,
	RoleActive:  0.7,
	RoleWarning: 0.8,
	RoleSuccess: 1.0,
}

type Theme struct {
	Palette *Palette
	Symbols Symbols

	colors [numRoles]lipgloss.Color
}

type Symbols struct {
	Released rune // not pressed
	Pressed  rune // output on
	Hidden   rune // pressed, output suppressed
	Autofire rune

	TapeEntry  rune
	TapeCursor rune // next press to play
}

// New resolves every role against palette
func New(palette *Palette) *Theme {
	t := &Theme{
		Palette: palette,
		Symbols: Symbols{
			Released:   '○',
			Pressed:    '●',
			Hidden:     '◌',
			Autofire:   '↯',
			TapeEntry:  '·',
			TapeCursor: '▶',
		},
	}
	for r, pos := range rolePositions {
		t.colors[r] = lipgloss.Color(palette.Lookup(pos).Hex())
	}
	return t
}

func Default() *Theme {
	return New(DefaultPalette())
}

// Color returns the resolved color for r
func (t *Theme) Color(r Role) lipgloss.Color {
	if r < 0 || r >= numRoles {
		return t.colors[RoleFG]
	}
	return t.colors[r]
}

func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }
