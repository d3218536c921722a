package pad

// TapeCapacity is the maximum number of presses a recording holds
const TapeCapacity = 255

// RecorderState is the recorder's transport state
type RecorderState int

const (
	Idle RecorderState = iota
	Recording
	Playing
)

func (s RecorderState) String() string {
	switch s {
	case Recording:
		return "REC"
	case Playing:
		return "PLAY"
	default:
		return "IDLE"
	}
}

// Recorder captures an ordered sequence of button presses and replays it one
// press per call. The tape is reused in place: starting a new recording only
// rewinds the write position.
type Recorder struct {
	state  RecorderState
	tape   [TapeCapacity]ButtonID
	length int // presses stored; 0 means no recording exists
	cursor int // next tape position to play, valid while Playing

	// Continuous is set by the controller when a recording ends via the
	// long-hold gesture; the recorder itself never reads it.
	Continuous bool
}

// State returns the current transport state
func (r *Recorder) State() RecorderState {
	return r.state
}

// IsIdle is true when neither recording nor playing
func (r *Recorder) IsIdle() bool {
	return r.state == Idle
}

func (r *Recorder) IsRecording() bool {
	return r.state == Recording
}

func (r *Recorder) IsPlaying() bool {
	return r.state == Playing
}

// StartRecording rewinds the tape and begins capturing. Playback in progress
// is abandoned.
func (r *Recorder) StartRecording() {
	r.state = Recording
	r.length = 0
	r.cursor = 0
}

// Record appends a press. It reports false when not recording or when the
// tape is full.
func (r *Recorder) Record(id ButtonID) bool {
	if r.state != Recording || r.length >= TapeCapacity {
		return false
	}
	r.tape[r.length] = id
	r.length++
	return true
}

// EndRecording stops capturing. An empty session leaves no recording behind.
func (r *Recorder) EndRecording() {
	if r.state != Recording {
		return
	}
	r.state = Idle
}

// HasRecord reports whether a non-empty tape exists
func (r *Recorder) HasRecord() bool {
	return r.length > 0
}

// Count returns the number of presses on the tape
func (r *Recorder) Count() int {
	return r.length
}

// Tape returns a copy of the recorded presses
func (r *Recorder) Tape() []ButtonID {
	out := make([]ButtonID, r.length)
	copy(out, r.tape[:r.length])
	return out
}

// Cursor returns the next tape position to play, or -1 when not playing
func (r *Recorder) Cursor() int {
	if r.state != Playing {
		return -1
	}
	return r.cursor
}

// StartPlayback rewinds playback to the start of the tape. Only allowed when
// idle with a non-empty tape.
func (r *Recorder) StartPlayback() bool {
	if r.state != Idle || r.length == 0 {
		return false
	}
	r.state = Playing
	r.cursor = 0
	return true
}

// Playback returns the next recorded press and advances. ok is false when
// nothing plays this tick; the call after the last press ends playback.
func (r *Recorder) Playback() (id ButtonID, ok bool) {
	if r.state != Playing {
		return 0, false
	}
	if r.cursor < r.length {
		id = r.tape[r.cursor]
		r.cursor++
		return id, true
	}
	r.state = Idle
	r.cursor = 0
	return 0, false
}
