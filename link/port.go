package link

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"go.bug.st/serial"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

// readTimeout bounds how long a Sample may wait for bridge bytes
const readTimeout = 2 * time.Millisecond

// Port talks to a microcontroller bridge over a serial line. It is both
// a sample source and a report sink.
type Port struct {
	name string
	rw   io.ReadWriter

	mu     sync.Mutex
	dec    *Decoder
	levels []bool
	frames uint64
	logged int // Decoder.Dropped already reported
	buf    [64]byte
}

// Open opens a serial port at baud, 8N1
func Open(name string, baud int) (*Port, error) {
	sp, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("open "+name, "Could not open serial port "+name))
	}
	if err := sp.SetReadTimeout(readTimeout); err != nil {
		sp.Close()
		return nil, fault.Wrap(err, fmsg.With("set read timeout"))
	}
	debug.Info("link", "opened %s at %d baud", name, baud)
	return NewPort(name, sp), nil
}

// NewPort wraps an already open stream. Reads must return (0, nil) when
// no data is pending, as serial ports with a read timeout do.
func NewPort(name string, rw io.ReadWriter) *Port {
	return &Port{
		name:   name,
		rw:     rw,
		dec:    NewDecoder(SyncSample),
		levels: make([]bool, pad.NumButtons),
	}
}

// Ports lists serial ports present on the system
func Ports() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("list serial ports"))
	}
	return names, nil
}

func (p *Port) Name() string { return p.name }

// Frames returns the number of sample frames decoded so far
func (p *Port) Frames() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Sample drains pending bytes and returns the levels of the newest frame.
// Without a new frame the previous levels are repeated.
func (p *Port) Sample(ctx context.Context) ([]bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := p.rw.Read(p.buf[:])
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With("read "+p.name))
		}
		if frames := p.dec.Write(p.buf[:n]); len(frames) > 0 {
			p.frames += uint64(len(frames))
			p.levels = Levels(frames[len(frames)-1])
		}
		if n < len(p.buf) {
			break
		}
	}

	if n := p.dec.Dropped - p.logged; n > 0 {
		p.logged = p.dec.Dropped
		debug.Warn("link", "%s: resync dropped %d bytes", p.name, n)
	}

	out := make([]bool, len(p.levels))
	copy(out, p.levels)
	return out, nil
}

// Submit writes one report frame
func (p *Port) Submit(r pad.Report) error {
	frame := EncodeReport(r)
	if _, err := p.rw.Write(frame[:]); err != nil {
		return fault.Wrap(err, fmsg.With("write "+p.name))
	}
	return nil
}

// Close closes the underlying port if it can be closed
func (p *Port) Close() error {
	if c, ok := p.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
