package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-turbopad/adapter"
	"go-turbopad/midi"
	"go-turbopad/pad"
	"go-turbopad/theme"
	"go-turbopad/widgets"
)

const tapeWidth = 24

type Model struct {
	Adapter   *adapter.Adapter
	Keyboard  *adapter.LatchSource // nil when the pad is not simulated
	DeviceMgr *midi.DeviceManager  // nil unless the source is MIDI
	Theme     *theme.Theme
	SwapAB    bool

	keys     keyMap
	help     help.Model
	holdMode bool
	device   string
	quitting bool
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

func NewModel(a *adapter.Adapter, kb *adapter.LatchSource, deviceMgr *midi.DeviceManager, th *theme.Theme, swapAB bool) Model {
	return Model{
		Adapter:   a,
		Keyboard:  kb,
		DeviceMgr: deviceMgr,
		Theme:     th,
		SwapAB:    swapAB,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

func ListenForUpdates(a *adapter.Adapter) tea.Cmd {
	return func() tea.Msg {
		<-a.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Adapter)}
	if m.DeviceMgr != nil {
		cmds = append(cmds, ListenForDevices(m.DeviceMgr))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.HoldMode):
			m.holdMode = !m.holdMode

		case key.Matches(msg, m.keys.ReleaseAll):
			if m.Keyboard != nil {
				m.Keyboard.ReleaseAll()
			}

		default:
			id, ok := m.keys.button(msg)
			if !ok || m.Keyboard == nil {
				break
			}
			if m.holdMode {
				m.Keyboard.Toggle(id)
			} else {
				m.Keyboard.Tap(id)
			}
		}

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case UpdateMsg:
		return m, ListenForUpdates(m.Adapter)

	case DeviceEventMsg:
		event := midi.DeviceEvent(msg)
		if event.Type == midi.DeviceConnected {
			m.device = event.ID
		} else if event.ID == m.device {
			m.device = ""
		}
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Adapter.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning()).Bold(true)
	recStyle := lipgloss.NewStyle().Foreground(m.Theme.Active()).Bold(true)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-turbopad  %s", m.statusLine(snap))))
	if snap.Deactivated {
		out.WriteString("  " + warnStyle.Render("FUSED"))
	}
	out.WriteString("\n\n")

	out.WriteString(widgets.RenderPad(m.Theme, snap, m.SwapAB))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderLegend(m.Theme))
	out.WriteString("\n\n")

	// Recorder
	state := snap.Recorder.String()
	if snap.Recorder == pad.Recording {
		state = recStyle.Render(state)
	}
	if snap.Continuous {
		state += " loop"
	}
	out.WriteString(fmt.Sprintf("tape %s  %s\n", state,
		widgets.RenderTape(m.Theme, snap.Tape, snap.Cursor, m.SwapAB, tapeWidth)))

	prog := snap.Buttons[pad.ProgramButton]
	out.WriteString(dimStyle.Render(fmt.Sprintf("program clicks:%d held:%s  last rule:%s",
		prog.Clicks, prog.Duration.Truncate(100*time.Millisecond), orDash(snap.Rule))))
	out.WriteString("\n")

	if err := m.Adapter.Err(); err != nil {
		out.WriteString(warnStyle.Render(err.Error()))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	out.WriteString(m.help.View(m.keys))

	return out.String()
}

// statusLine summarises input mode and connection
func (m Model) statusLine(snap pad.Snapshot) string {
	var parts []string
	if m.Keyboard != nil {
		mode := "tap"
		if m.holdMode {
			mode = "hold"
		}
		parts = append(parts, "keys:"+mode)
	}
	if m.DeviceMgr != nil {
		parts = append(parts, "midi:"+orDash(m.device))
	}
	parts = append(parts, fmt.Sprintf("up %s", snap.Uptime.Truncate(time.Second)))
	return strings.Join(parts, "  ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
