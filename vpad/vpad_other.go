//go:build !linux

package vpad

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"

	"go-turbopad/pad"
)

// Gamepad is only available on Linux
type Gamepad struct{}

func Open(name string) (*Gamepad, error) {
	return nil, fault.Wrap(fault.New("virtual gamepads need Linux uinput"), ftag.With(ftag.InvalidArgument))
}

func (g *Gamepad) Submit(pad.Report) error { return nil }

func (g *Gamepad) Close() error { return nil }
