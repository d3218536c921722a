package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-turbopad/pad"
	"go-turbopad/theme"
)

// RenderTape shows up to width entries of the recording. While playing,
// the window follows the cursor and the next entry is marked.
func RenderTape(th *theme.Theme, tape []pad.ButtonID, cursor int, swapAB bool, width int) string {
	if len(tape) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render("(empty)")
	}
	if width <= 0 {
		width = len(tape)
	}

	start := 0
	if cursor >= width {
		start = cursor - width + 1
	}
	end := min(start+width, len(tape))

	entry := lipgloss.NewStyle().Foreground(th.FG())
	next := lipgloss.NewStyle().Foreground(th.Success()).Bold(true)

	var parts []string
	if start > 0 {
		parts = append(parts, "…")
	}
	for i := start; i < end; i++ {
		label := pad.Label(tape[i], swapAB)
		if i == cursor {
			parts = append(parts, next.Render(string(th.Symbols.TapeCursor)+label))
			continue
		}
		parts = append(parts, entry.Render(label))
	}
	if end < len(tape) {
		parts = append(parts, "…")
	}

	return strings.Join(parts, string(th.Symbols.TapeEntry)) +
		fmt.Sprintf("  [%d/%d]", len(tape), pad.TapeCapacity)
}
