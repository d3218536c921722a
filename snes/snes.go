// Package snes reads an SNES pad through its latch/clock/data shift
// register on GPIO lines.
package snes

import (
	"context"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"go-turbopad/pad"
)

// Pulse timings of a 16 MHz microcontroller reader. Slower clocks are fine,
// the shift register is static.
const (
	LatchHigh = 12 * time.Microsecond
	LatchLow  = 4500 * time.Nanosecond
	ClockHigh = 6 * time.Microsecond
	ClockLow  = 4500 * time.Nanosecond
)

// Pins names the three lines of the pad connector
type Pins struct {
	Latch string
	Clock string
	Data  string
}

type outPin interface {
	Out(l gpio.Level) error
}

type inPin interface {
	Read() gpio.Level
}

// Reader clocks samples out of the pad
type Reader struct {
	mu    sync.Mutex
	latch outPin
	clock outPin
	data  inPin
	sleep func(time.Duration)
}

// Open initialises the host drivers and configures the pins: latch and
// clock as outputs idling low, data as input with pull-up.
func Open(p Pins) (*Reader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fault.Wrap(err, fmsg.With("init gpio host"))
	}

	lookup := func(name string) (gpio.PinIO, error) {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fault.Wrap(fault.New("no gpio pin "+name),
				ftag.With(ftag.NotFound),
				fmsg.WithDesc("unknown pin", "GPIO pin "+name+" does not exist on this host"))
		}
		return pin, nil
	}

	latch, err := lookup(p.Latch)
	if err != nil {
		return nil, err
	}
	clock, err := lookup(p.Clock)
	if err != nil {
		return nil, err
	}
	data, err := lookup(p.Data)
	if err != nil {
		return nil, err
	}

	for _, out := range []gpio.PinIO{latch, clock} {
		if err := out.Out(gpio.Low); err != nil {
			return nil, fault.Wrap(err, fmsg.With("configure "+out.Name()))
		}
	}
	if err := data.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fault.Wrap(err, fmsg.With("configure "+data.Name()))
	}

	return newReader(latch, clock, data, time.Sleep), nil
}

func newReader(latch, clock outPin, data inPin, sleep func(time.Duration)) *Reader {
	return &Reader{latch: latch, clock: clock, data: data, sleep: sleep}
}

// ReadBits latches the pad and clocks out all 16 bits. Bit n is set when
// the button in position n is pressed (data line low).
func (r *Reader) ReadBits() (uint16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.pulse(r.latch, LatchHigh, LatchLow); err != nil {
		return 0, fault.Wrap(err, fmsg.With("latch"))
	}

	var bits uint16
	for i := 0; i < pad.SampleBits; i++ {
		if r.data.Read() == gpio.Low {
			bits |= 1 << i
		}
		if err := r.pulse(r.clock, ClockHigh, ClockLow); err != nil {
			return 0, fault.Wrap(err, fmsg.With("clock"))
		}
	}
	return bits, nil
}

func (r *Reader) pulse(pin outPin, high, low time.Duration) error {
	if err := pin.Out(gpio.High); err != nil {
		return err
	}
	r.sleep(high)
	if err := pin.Out(gpio.Low); err != nil {
		return err
	}
	r.sleep(low)
	return nil
}

// Sample implements the adapter source
func (r *Reader) Sample(ctx context.Context) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bits, err := r.ReadBits()
	if err != nil {
		return nil, err
	}
	return Decode(bits), nil
}

// Decode keeps the physical buttons of a 16 bit sample. The last four
// bits are unused by the pad and ignored.
func Decode(bits uint16) []bool {
	levels := make([]bool, pad.NumButtons)
	for i := range levels {
		levels[i] = bits&(1<<i) != 0
	}
	return levels
}
