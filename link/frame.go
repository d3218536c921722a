package link

import "go-turbopad/pad"

// Frames are four bytes: sync, low byte, high byte, low^high
const (
	SyncSample byte = 0xA5 // bridge -> host: raw pad bits, bit n = button n, 1 = pressed
	SyncReport byte = 0x5A // host -> bridge: report bits, bit n = HostButton n
	FrameSize       = 4
)

// Encode builds one frame
func Encode(sync byte, bits uint16) [FrameSize]byte {
	lo, hi := byte(bits), byte(bits>>8)
	return [FrameSize]byte{sync, lo, hi, lo ^ hi}
}

// EncodeReport builds the frame for a host report
func EncodeReport(r pad.Report) [FrameSize]byte {
	return Encode(SyncReport, r.Bits())
}

// Decoder extracts frames with one sync byte from a byte stream. Bytes
// that do not start a valid frame are skipped one at a time, so the
// decoder realigns after line noise.
type Decoder struct {
	sync    byte
	buf     [FrameSize]byte
	n       int
	Dropped int // bytes discarded while resyncing
}

func NewDecoder(sync byte) *Decoder {
	return &Decoder{sync: sync}
}

// Write feeds bytes and returns the payload of every complete frame
func (d *Decoder) Write(p []byte) []uint16 {
	var frames []uint16
	for _, b := range p {
		if d.n == 0 && b != d.sync {
			d.Dropped++
			continue
		}
		d.buf[d.n] = b
		d.n++
		if d.n < FrameSize {
			continue
		}

		lo, hi, sum := d.buf[1], d.buf[2], d.buf[3]
		if lo^hi == sum {
			frames = append(frames, uint16(lo)|uint16(hi)<<8)
			d.n = 0
			continue
		}

		// Bad checksum: drop the sync byte and rescan the rest
		d.Dropped++
		rest := append([]byte(nil), d.buf[1:]...)
		d.n = 0
		frames = append(frames, d.Write(rest)...)
	}
	return frames
}

// Levels unpacks sample bits into one level per physical button
func Levels(bits uint16) []bool {
	levels := make([]bool, pad.NumButtons)
	for i := range levels {
		levels[i] = bits&(1<<i) != 0
	}
	return levels
}
