package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"go-turbopad/debug"
)

// DeviceEvent is emitted when a pad port connects/disconnects
type DeviceEvent struct {
	Type DeviceEventType
	ID   string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

func (t DeviceEventType) String() string {
	if t == DeviceConnected {
		return "connected"
	}
	return "disconnected"
}

// DeviceManager keeps the first input port whose name contains match
// attached to a NoteSource, following unplug and replug.
type DeviceManager struct {
	match    string
	source   *NoteSource
	mu       sync.RWMutex
	current  string
	events   chan DeviceEvent
	pollRate time.Duration

	listPorts func() []drivers.In
	attach    func(id string, in drivers.In) error
}

// NewDeviceManager creates a device manager feeding source
func NewDeviceManager(match string, source *NoteSource) *DeviceManager {
	return &DeviceManager{
		match:     strings.ToLower(match),
		source:    source,
		events:    make(chan DeviceEvent, 16),
		pollRate:  time.Second,
		listPorts: func() []drivers.In { return gomidi.GetInPorts() },
		attach:    source.Attach,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Current returns the attached port name, empty when none
func (dm *DeviceManager) Current() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.current
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.source.Detach()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func (dm *DeviceManager) scan() {
	// Get current MIDI ports with timeout (CoreMIDI can hang)
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- dm.listPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		// Driver is hung - skip this scan
		debug.LogEvery(10, debug.LevelWarning, "midi", "port scan timed out")
		return
	}

	dm.mu.RLock()
	current := dm.current
	dm.mu.RUnlock()

	var found drivers.In
	for _, in := range inPorts {
		id := in.String()
		if current != "" && id == current {
			return // still there
		}
		if found == nil && strings.Contains(strings.ToLower(id), dm.match) {
			found = in
		}
	}

	if current != "" {
		dm.source.Detach()
		dm.setCurrent("")
		dm.emit(DeviceEvent{Type: DeviceDisconnected, ID: current})
	}

	if found == nil {
		return
	}

	id := found.String()
	if err := dm.attach(id, found); err != nil {
		debug.LogEvery(10, debug.LevelError, "midi", "attach %s: %v", id, err)
		return
	}
	dm.setCurrent(id)
	dm.emit(DeviceEvent{Type: DeviceConnected, ID: id})
}

func (dm *DeviceManager) setCurrent(id string) {
	dm.mu.Lock()
	dm.current = id
	dm.mu.Unlock()
}

// emit never blocks the scan loop; a full channel drops the event
func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
	}
}
