package adapter

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"

	"go-turbopad/debug"
	"go-turbopad/pad"
)

// Source produces one level per physical button, true = pressed
type Source interface {
	Sample(ctx context.Context) ([]bool, error)
}

// Sink receives the host report after every tick
type Sink interface {
	Submit(r pad.Report) error
}

// Discard is a Sink that drops every report
type Discard struct{}

func (Discard) Submit(pad.Report) error { return nil }

// Adapter runs the sample -> tick -> submit loop. Only the Run/Step
// goroutine touches the controller; readers get copies via Snapshot.
type Adapter struct {
	ctrl   *pad.Controller
	source Source
	sink   Sink
	swapAB bool

	mu       sync.RWMutex
	snapshot pad.Snapshot
	report   pad.Report
	lastErr  error
	heldLine string

	// UpdateChan signals the UI that a new snapshot is available
	UpdateChan chan struct{}
}

// New creates an adapter around ctrl
func New(ctrl *pad.Controller, source Source, sink Sink, swapAB bool) *Adapter {
	if sink == nil {
		sink = Discard{}
	}
	a := &Adapter{
		ctrl:       ctrl,
		source:     source,
		sink:       sink,
		swapAB:     swapAB,
		UpdateChan: make(chan struct{}, 1),
	}
	a.snapshot = ctrl.Snapshot()
	return a
}

// Step runs one full tick. A failed sample is reported and the tick is
// skipped; a failed submit is reported after the state is published.
func (a *Adapter) Step(ctx context.Context) error {
	levels, err := a.source.Sample(ctx)
	if err != nil {
		err = fault.Wrap(err, fmsg.With("sample"))
		a.setErr(err)
		return err
	}

	out := a.ctrl.Tick(levels)
	report := pad.HostReport(out, a.swapAB)
	a.logHeld(out)

	a.mu.Lock()
	a.snapshot = a.ctrl.Snapshot()
	a.report = report
	a.mu.Unlock()

	err = a.sink.Submit(report)
	if err != nil {
		err = fault.Wrap(err, fmsg.With("submit"))
	}
	a.setErr(err)
	a.notifyUpdate()
	return err
}

// Run ticks every interval until ctx is cancelled. Errors are logged
// and the loop keeps going.
func (a *Adapter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Leave the host with nothing held
			if err := a.sink.Submit(pad.Report{}); err != nil {
				debug.Warn("adapter", "final submit: %v", err)
			}
			return
		case <-ticker.C:
			if err := a.Step(ctx); err != nil {
				debug.LogEvery(250, debug.LevelError, "adapter", "%v", err)
			}
		}
	}
}

// Snapshot returns the state published by the last tick
func (a *Adapter) Snapshot() pad.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Report returns the last host report
func (a *Adapter) Report() pad.Report {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.report
}

// Err returns the error of the last tick, if any
func (a *Adapter) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastErr
}

func (a *Adapter) setErr(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}

// notifyUpdate never blocks; a pending signal already covers this tick
func (a *Adapter) notifyUpdate() {
	select {
	case a.UpdateChan <- struct{}{}:
	default:
	}
}

// logHeld writes the list of active outputs whenever it changes
func (a *Adapter) logHeld(out pad.Outputs) {
	line := HeldLine(out, a.swapAB)
	if line == a.heldLine {
		return
	}
	a.heldLine = line
	debug.Debug("held", "%s", line)
}

// HeldLine lists the active outputs by label, "-" when none
func HeldLine(out pad.Outputs, swapAB bool) string {
	var names []string
	for i, on := range out {
		if on {
			names = append(names, pad.Label(pad.ButtonID(i), swapAB))
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, " ")
}
