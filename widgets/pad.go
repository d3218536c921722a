package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-turbopad/pad"
	"go-turbopad/theme"
)

const cellWidth = 9

// padLayout places buttons roughly where they sit on the pad; -1 is a gap
var padLayout = [][]pad.ButtonID{
	{pad.ButtonL, -1, -1, -1, pad.ButtonR},
	{-1, pad.ButtonUp, -1, pad.ButtonX, -1},
	{pad.ButtonLeft, -1, pad.ButtonRight, pad.ButtonY, pad.ButtonA},
	{-1, pad.ButtonDown, -1, pad.ButtonB, -1},
	{pad.ButtonSelect, pad.ButtonStart, -1, pad.ButtonLogo, -1},
}

// RenderButton renders one button cell: symbol, label and an autofire mark
func RenderButton(th *theme.Theme, label string, st pad.ButtonState) string {
	sym, color := th.Symbols.Released, th.Muted()
	switch {
	case st.Output:
		sym, color = th.Symbols.Pressed, th.Active()
	case st.Input:
		sym, color = th.Symbols.Hidden, th.Warning()
	}

	text := fmt.Sprintf("%c %s", sym, label)
	if st.Mode == pad.ModeAutofire {
		text += string(th.Symbols.Autofire)
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// RenderPad renders every button of a snapshot in pad layout
func RenderPad(th *theme.Theme, snap pad.Snapshot, swapAB bool) string {
	cell := lipgloss.NewStyle().Width(cellWidth)

	var lines []string
	for _, row := range padLayout {
		var cells []string
		for _, id := range row {
			if id < 0 {
				cells = append(cells, cell.Render(""))
				continue
			}
			cells = append(cells, cell.Render(RenderButton(th, pad.Label(id, swapAB), snap.Buttons[id])))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "● name"
func RenderLegendItem(color lipgloss.Color, sym rune, name string) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(sym)) + " " + name
}

// RenderLegend explains the button symbols
func RenderLegend(th *theme.Theme) string {
	return strings.Join([]string{
		RenderLegendItem(th.Active(), th.Symbols.Pressed, "on"),
		RenderLegendItem(th.Warning(), th.Symbols.Hidden, "held back"),
		RenderLegendItem(th.Accent(), th.Symbols.Autofire, "autofire"),
	}, "   ")
}
