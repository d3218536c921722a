//go:build linux

package vpad

import (
	"unsafe"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"golang.org/x/sys/unix"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

// uinput ioctls
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiDevSetup   = 0x405c5503
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565

	busUSB = 0x03
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputSetup struct {
	ID           inputID
	Name         [80]byte
	FFEffectsMax uint32
}

// Gamepad is a virtual gamepad device
type Gamepad struct {
	fd int
	w  reportWriter
}

// Open creates a virtual gamepad called name
func Open(name string) (*Gamepad, error) {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("open uinput", "Could not open /dev/uinput (is the uinput module loaded and writable?)"))
	}

	fail := func(err error, msg string) (*Gamepad, error) {
		unix.Close(fd)
		return nil, fault.Wrap(err, fmsg.With(msg))
	}

	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		return fail(err, "enable key events")
	}
	for _, code := range keyCodes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			return fail(err, "enable key")
		}
	}

	setup := uinputSetup{ID: inputID{Bustype: busUSB, Vendor: 0x1209, Product: 0x5350, Version: 1}}
	copy(setup.Name[:len(setup.Name)-1], name)
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uiDevSetup, uintptr(unsafe.Pointer(&setup))); errno != 0 {
		return fail(errno, "setup device")
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fail(err, "create device")
	}

	debug.Info("vpad", "created virtual gamepad %q", name)
	g := &Gamepad{fd: fd}
	g.w = reportWriter{
		write:    func(p []byte) (int, error) { return unix.Write(fd, p) },
		timeSize: int(unsafe.Sizeof(unix.Timeval{})),
	}
	return g, nil
}

// Submit writes the buttons that changed since the last accepted report
func (g *Gamepad) Submit(r pad.Report) error {
	return g.w.submit(r)
}

// Close releases every button and removes the device
func (g *Gamepad) Close() error {
	g.Submit(pad.Report{})
	unix.IoctlSetInt(g.fd, uiDevDestroy, 0)
	return unix.Close(g.fd)
}
