package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-turbopad/pad"
)

func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

type keyMap struct {
	Buttons    [pad.NumButtons]key.Binding
	HoldMode   key.Binding
	ReleaseAll key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	var k keyMap
	k.Buttons[pad.ButtonUp] = Key("up", "up", "k")
	k.Buttons[pad.ButtonDown] = Key("down", "down", "j")
	k.Buttons[pad.ButtonLeft] = Key("left", "left", "h")
	k.Buttons[pad.ButtonRight] = Key("right", "right", "l")
	k.Buttons[pad.ButtonB] = Key("B", "z")
	k.Buttons[pad.ButtonA] = Key("A", "x")
	k.Buttons[pad.ButtonY] = Key("Y", "a")
	k.Buttons[pad.ButtonX] = Key("X", "s")
	k.Buttons[pad.ButtonL] = Key("L", "w")
	k.Buttons[pad.ButtonR] = Key("R", "e")
	k.Buttons[pad.ButtonSelect] = Key("select", "n")
	k.Buttons[pad.ButtonStart] = Key("start", "enter", "m")
	k.HoldMode = Key("hold mode", "tab")
	k.ReleaseAll = Key("release all", " ", "0")
	k.Help = Key("help", "?")
	k.Quit = Key("quit", "ctrl+c", "q", "esc")
	return k
}

// button returns the pad button bound to msg
func (k keyMap) button(msg tea.KeyMsg) (pad.ButtonID, bool) {
	for i, b := range k.Buttons {
		if key.Matches(msg, b) {
			return pad.ButtonID(i), true
		}
	}
	return 0, false
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Buttons[pad.ButtonSelect], k.HoldMode, k.ReleaseAll, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Buttons[pad.ButtonUp], k.Buttons[pad.ButtonDown], k.Buttons[pad.ButtonLeft], k.Buttons[pad.ButtonRight]},
		{k.Buttons[pad.ButtonB], k.Buttons[pad.ButtonA], k.Buttons[pad.ButtonY], k.Buttons[pad.ButtonX]},
		{k.Buttons[pad.ButtonL], k.Buttons[pad.ButtonR], k.Buttons[pad.ButtonSelect], k.Buttons[pad.ButtonStart]},
		{k.HoldMode, k.ReleaseAll},
		{k.Help, k.Quit},
	}
}
