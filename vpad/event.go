// Package vpad exposes host reports as a Linux virtual gamepad through
// /dev/uinput.
package vpad

import (
	"encoding/binary"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	"go-turbopad/pad"
)

// Linux input event types and codes
const (
	evSyn     = 0x00
	evKey     = 0x01
	synReport = 0x00

	btnSouth     = 0x130
	btnEast      = 0x131
	btnNorth     = 0x133
	btnWest      = 0x134
	btnTL        = 0x136
	btnTR        = 0x137
	btnSelect    = 0x13a
	btnStart     = 0x13b
	btnMode      = 0x13c
	btnDpadUp    = 0x220
	btnDpadDown  = 0x221
	btnDpadLeft  = 0x222
	btnDpadRight = 0x223
)

// keyCodes maps HostButton order onto gamepad key codes (positional: A is
// the bottom face button, Y the top one)
var keyCodes = [pad.NumHostButtons]uint16{
	pad.HostA:     btnSouth,
	pad.HostB:     btnEast,
	pad.HostX:     btnWest,
	pad.HostY:     btnNorth,
	pad.HostLB:    btnTL,
	pad.HostRB:    btnTR,
	pad.HostBack:  btnSelect,
	pad.HostStart: btnStart,
	pad.HostLogo:  btnMode,
	pad.HostUp:    btnDpadUp,
	pad.HostDown:  btnDpadDown,
	pad.HostLeft:  btnDpadLeft,
	pad.HostRight: btnDpadRight,
}

// Event is one struct input_event without its timestamp
type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// Events returns key events for every changed button followed by a sync,
// or nil when nothing changed
func Events(prev, next pad.Report) []Event {
	var events []Event
	before, after := prev.Buttons(), next.Buttons()
	for i := range after {
		if before[i] == after[i] {
			continue
		}
		var v int32
		if after[i] {
			v = 1
		}
		events = append(events, Event{Type: evKey, Code: keyCodes[i], Value: v})
	}
	if len(events) == 0 {
		return nil
	}
	return append(events, Event{Type: evSyn, Code: synReport})
}

// Encode appends e in input_event layout. The timestamp is left zero
// for the kernel to fill; timeSize is the size of struct timeval.
func (e Event) Encode(p []byte, timeSize int) []byte {
	p = append(p, make([]byte, timeSize)...)
	p = binary.LittleEndian.AppendUint16(p, e.Type)
	p = binary.LittleEndian.AppendUint16(p, e.Code)
	return binary.LittleEndian.AppendUint32(p, uint32(e.Value))
}

// reportWriter turns reports into event batches. prev only advances when
// the whole batch was written, so a failed write is retried next report.
type reportWriter struct {
	write    func(p []byte) (int, error)
	timeSize int // sizeof(struct timeval)
	prev     pad.Report
	buf      []byte
}

func (w *reportWriter) submit(r pad.Report) error {
	events := Events(w.prev, r)
	if len(events) == 0 {
		return nil
	}

	w.buf = w.buf[:0]
	for _, e := range events {
		w.buf = e.Encode(w.buf, w.timeSize)
	}
	n, err := w.write(w.buf)
	if err != nil {
		return fault.Wrap(err, fmsg.With("write events"))
	}
	if n < len(w.buf) {
		return fault.Newf("short event write: %d of %d bytes", n, len(w.buf))
	}
	w.prev = r
	return nil
}
