package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-turbopad/adapter"
	"go-turbopad/config"
	"go-turbopad/link"
	padmidi "go-turbopad/midi"
	"go-turbopad/pad"
	"go-turbopad/snes"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		cfg = config.DefaultConfig()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "poll":
		pollDevices(ctx)
	case "monitor":
		match := cfg.Source.MIDIPort
		if len(os.Args) > 2 {
			match = os.Args[2]
		}
		monitorMIDI(ctx, match, cfg.Source.BaseNote)
	case "serial":
		name, baud := cfg.Source.SerialPort, cfg.Source.Baud
		if len(os.Args) > 2 {
			name = os.Args[2]
		}
		if len(os.Args) > 3 {
			if b, err := strconv.Atoi(os.Args[3]); err == nil {
				baud = b
			}
		}
		monitorSerial(ctx, name, baud)
	case "gpio":
		p := cfg.Source.Pins
		monitorGPIO(ctx, snes.Pins{Latch: p.Latch, Clock: p.Clock, Data: p.Data})
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Pad Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                  - List MIDI and serial ports")
	fmt.Println("  poll                  - Poll for MIDI device changes")
	fmt.Println("  monitor [name]        - Show button levels from a MIDI input")
	fmt.Println("  serial [port] [baud]  - Show button levels from a serial bridge")
	fmt.Println("  gpio                  - Show raw bits from a pad on GPIO")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ins: midi.GetInPorts(), outs: midi.GetOutPorts()}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! MIDI driver is hung.")
	}

	fmt.Println("\n=== Serial Ports ===")
	names, err := link.Ports()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for i, name := range names {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

func pollDevices(ctx context.Context) {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect a pad to test. Ctrl+C to exit.")

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	last := ""
	for {
		var names []string
		for _, p := range midi.GetInPorts() {
			names = append(names, p.String())
		}
		current := strings.Join(names, ",")
		if current != last {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", names)
			last = current
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// printLevels redraws one status line whenever the held set changes
func printLevels(ctx context.Context, src adapter.Source, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
		}

		levels, err := src.Sample(ctx)
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			return
		}
		var out pad.Outputs
		copy(out[:], levels)
		line := adapter.HeldLine(out, false)
		if line != last {
			fmt.Printf("\r[%s] %-60s", time.Now().Format("15:04:05.000"), line)
			last = line
		}
	}
}

func monitorMIDI(ctx context.Context, match string, base uint8) {
	fmt.Printf("Waiting for MIDI input matching %q (base note %d). Ctrl+C to exit.\n", match, base)

	src := padmidi.NewNoteSource(base)
	dm := padmidi.NewDeviceManager(match, src)
	go dm.Run(ctx)
	go func() {
		for ev := range dm.Events() {
			fmt.Printf("\n%s: %s\n", ev.Type, ev.ID)
		}
	}()

	printLevels(ctx, src, 10*time.Millisecond)
}

func monitorSerial(ctx context.Context, name string, baud int) {
	if name == "" {
		fmt.Println("No serial port given (see: padtest list)")
		return
	}
	port, err := link.Open(name, baud)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer port.Close()

	fmt.Printf("Reading %s at %d baud. Ctrl+C to exit.\n", name, baud)
	printLevels(ctx, port, 10*time.Millisecond)
	fmt.Printf("%d frames\n", port.Frames())
}

func monitorGPIO(ctx context.Context, pins snes.Pins) {
	r, err := snes.Open(pins)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Reading pad on latch=%s clock=%s data=%s. Ctrl+C to exit.\n", pins.Latch, pins.Clock, pins.Data)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	var last uint16 = 0xFFFF
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return
		case <-ticker.C:
		}
		bits, err := r.ReadBits()
		if err != nil {
			fmt.Printf("\nError: %v\n", err)
			return
		}
		if bits != last {
			var out pad.Outputs
			copy(out[:], snes.Decode(bits))
			fmt.Printf("\r%016b  %-60s", bits, adapter.HeldLine(out, false))
			last = bits
		}
	}
}
