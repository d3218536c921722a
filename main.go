package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
	tea "github.com/charmbracelet/bubbletea"

	"go-turbopad/adapter"
	"go-turbopad/config"
	"go-turbopad/debug"
	"go-turbopad/link"
	"go-turbopad/midi"
	"go-turbopad/pad"
	"go-turbopad/snes"
	"go-turbopad/theme"
	"go-turbopad/tui"
	"go-turbopad/vpad"
)

func main() {
	headless := flag.Bool("headless", false, "run without the terminal UI")
	configPath := flag.String("config", "", "config file (default ~/.config/go-turbopad/config.json)")
	logLevel := flag.String("log", "", "log level override: debug, info, warn, error, none")
	flag.Parse()

	if err := run(*configPath, *logLevel, *headless); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string, headless bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if err := debug.Enable(); err != nil {
		fmt.Printf("Logging disabled: %v\n", err)
	}
	defer debug.Disable()

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if l, ok := debug.ParseLevel(logLevel); ok {
		debug.SetLevel(l)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Pad source
	var (
		source    adapter.Source
		keyboard  *adapter.LatchSource
		deviceMgr *midi.DeviceManager
		bridge    *link.Port
		closers   []io.Closer
	)
	switch cfg.Source.Type {
	case config.SourceGPIO:
		p := cfg.Source.Pins
		r, err := snes.Open(snes.Pins{Latch: p.Latch, Clock: p.Clock, Data: p.Data})
		if err != nil {
			return err
		}
		source = r
	case config.SourceSerial:
		bridge, err = link.Open(cfg.Source.SerialPort, cfg.Source.Baud)
		if err != nil {
			return err
		}
		closers = append(closers, bridge)
		source = bridge
	case config.SourceMIDI:
		ns := midi.NewNoteSource(cfg.Source.BaseNote)
		deviceMgr = midi.NewDeviceManager(cfg.Source.MIDIPort, ns)
		go deviceMgr.Run(ctx)
		source = ns
	default:
		if headless {
			return fault.Wrap(fault.New("keyboard source needs the terminal UI"), ftag.With(ftag.InvalidArgument))
		}
		keyboard = adapter.NewLatchSource()
		source = keyboard
	}

	// Report sink
	var sink adapter.Sink = adapter.Discard{}
	switch cfg.Sink.Type {
	case config.SinkSerial:
		if bridge != nil && (cfg.Sink.SerialPort == "" || cfg.Sink.SerialPort == bridge.Name()) {
			sink = bridge // one line carries both directions
			break
		}
		p, err := link.Open(cfg.Sink.SerialPort, cfg.Sink.Baud)
		if err != nil {
			return err
		}
		closers = append(closers, p)
		sink = p
	case config.SinkMIDI:
		ns, err := midi.OpenNoteSink(cfg.Sink.MIDIPort, cfg.Sink.Channel, cfg.Sink.BaseNote)
		if err != nil {
			return err
		}
		closers = append(closers, ns)
		sink = ns
	case config.SinkVPad:
		g, err := vpad.Open(cfg.Sink.DeviceName)
		if err != nil {
			return err
		}
		closers = append(closers, g)
		sink = g
	}
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}()

	ctrl := pad.NewController(cfg.PadGestures(), pad.NewSystemClock(), cfg.SwapAB)
	a := adapter.New(ctrl, source, sink, cfg.SwapAB)

	done := make(chan struct{})
	loopCtx, cancelLoop := context.WithCancel(ctx)
	go func() {
		a.Run(loopCtx, cfg.PollInterval())
		close(done)
	}()
	defer func() {
		cancelLoop()
		<-done
	}()

	debug.Info("main", "source=%s sink=%s poll=%s", cfg.Source.Type, cfg.Sink.Type, cfg.PollInterval())

	if headless {
		fmt.Println("go-turbopad running headless. Ctrl+C to exit.")
		<-ctx.Done()
		return nil
	}

	th := theme.Default()
	if cfg.UI.Palette != "" {
		palette, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			debug.Warn("main", "%v", err)
		} else {
			th = theme.New(palette)
		}
	}

	m := tui.NewModel(a, keyboard, deviceMgr, th, cfg.SwapAB)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
