package pad

import "testing"

func drain(r *Recorder, n int) []ButtonID {
	var got []ButtonID
	for i := 0; i < n; i++ {
		id, ok := r.Playback()
		if !ok {
			break
		}
		got = append(got, id)
	}
	return got
}

func TestRecorderRoundTrip(t *testing.T) {
	seq := []ButtonID{ButtonA, ButtonB, ButtonUp, ButtonUp, ButtonR, ButtonStart}

	var r Recorder
	r.StartRecording()
	for _, id := range seq {
		if !r.Record(id) {
			t.Fatalf("Record(%v) failed", id)
		}
	}
	r.EndRecording()

	if !r.StartPlayback() {
		t.Fatal("StartPlayback refused a non-empty tape")
	}
	got := drain(&r, len(seq)+1)
	if len(got) != len(seq) {
		t.Fatalf("played %v, want %v", got, seq)
	}
	for i := range seq {
		if got[i] != seq[i] {
			t.Errorf("position %d: got %v, want %v", i, got[i], seq[i])
		}
	}

	for i := 0; i < 3; i++ {
		if id, ok := r.Playback(); ok {
			t.Errorf("playback after end returned %v", id)
		}
	}
	if !r.IsIdle() {
		t.Errorf("expected idle after playback, got %v", r.State())
	}

	// Replays from the start
	r.StartPlayback()
	if id, ok := r.Playback(); !ok || id != seq[0] {
		t.Errorf("replay started with %v, %t", id, ok)
	}
}

func TestRecorderScenario(t *testing.T) {
	var r Recorder
	r.StartRecording()
	r.Record(3)
	r.Record(3)
	r.Record(5)
	r.EndRecording()

	if r.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", r.Count())
	}
	r.StartPlayback()

	want := []struct {
		id ButtonID
		ok bool
	}{{3, true}, {3, true}, {5, true}, {0, false}, {0, false}, {0, false}}
	for i, w := range want {
		id, ok := r.Playback()
		if ok != w.ok || (ok && id != w.id) {
			t.Errorf("call %d: got (%v, %t), want (%v, %t)", i, id, ok, w.id, w.ok)
		}
	}
}

func TestRecorderCapacity(t *testing.T) {
	var r Recorder
	r.StartRecording()
	for i := 0; i < TapeCapacity; i++ {
		if !r.Record(ButtonID(i % NumOutputs)) {
			t.Fatalf("Record %d failed before capacity", i)
		}
	}
	if r.Record(ButtonA) {
		t.Error("Record beyond capacity should fail")
	}
	r.EndRecording()

	if r.Count() != TapeCapacity {
		t.Fatalf("Count() = %d, want %d", r.Count(), TapeCapacity)
	}
	tape := r.Tape()
	for i, id := range tape {
		if id != ButtonID(i%NumOutputs) {
			t.Fatalf("tape[%d] = %v corrupted", i, id)
		}
	}
}

func TestRecorderEmptySession(t *testing.T) {
	var r Recorder
	r.StartRecording()
	r.EndRecording()

	if r.HasRecord() {
		t.Error("empty session should leave no recording")
	}
	if r.StartPlayback() {
		t.Error("StartPlayback should refuse an empty tape")
	}

	// Ending twice changes nothing
	r.EndRecording()
	if !r.IsIdle() || r.HasRecord() {
		t.Errorf("state %v, hasRecord %t", r.State(), r.HasRecord())
	}
}

func TestRecorderInvalidTransitions(t *testing.T) {
	var r Recorder
	if r.Record(ButtonA) {
		t.Error("Record while idle should fail")
	}

	r.StartRecording()
	r.Record(ButtonA)
	if r.StartPlayback() {
		t.Error("StartPlayback while recording should be ignored")
	}
	if _, ok := r.Playback(); ok {
		t.Error("Playback while recording should yield nothing")
	}
	if !r.IsRecording() {
		t.Errorf("expected recording, got %v", r.State())
	}
	r.EndRecording()

	r.StartPlayback()
	if r.StartPlayback() {
		t.Error("StartPlayback while playing should be ignored")
	}
	if r.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", r.Cursor())
	}
}

func TestRecorderRecordingAbortsPlayback(t *testing.T) {
	var r Recorder
	r.StartRecording()
	r.Record(ButtonA)
	r.Record(ButtonB)
	r.EndRecording()
	r.StartPlayback()
	r.Playback()

	r.StartRecording()
	if r.Cursor() != -1 {
		t.Errorf("cursor = %d after new recording, want -1", r.Cursor())
	}
	if r.Count() != 0 {
		t.Errorf("Count() = %d, want 0", r.Count())
	}
	r.Record(ButtonX)
	r.EndRecording()

	r.StartPlayback()
	got := drain(&r, 5)
	if len(got) != 1 || got[0] != ButtonX {
		t.Errorf("played %v, want [X]", got)
	}
}
