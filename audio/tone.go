package audio

import (
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const streamChunk = 512

// NewTone returns a sine tone of freq Hz lasting dur at linear volume vol
func NewTone(rate beep.SampleRate, freq float64, dur time.Duration, vol float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return newVolume(beep.Take(rate.N(dur), sine), vol), nil
}

// math.Log2(0) is -Inf, so zero volume is silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// streamReader encodes a beep stream as interleaved little-endian float32
// stereo, the layout of an ebiten F32 player
type streamReader struct {
	s       beep.Streamer
	frames  [][2]float64
	raw     []byte
	pending []byte
	done    bool
}

func newStreamReader(s beep.Streamer) *streamReader {
	return &streamReader{
		s:      s,
		frames: make([][2]float64, streamChunk),
		raw:    make([]byte, streamChunk*8),
	}
}

func (r *streamReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.pending) > 0 {
			c := copy(p[n:], r.pending)
			r.pending = r.pending[c:]
			n += c
			continue
		}
		if r.done {
			break
		}
		r.fill()
	}

	if n == 0 && r.done {
		return 0, io.EOF
	}
	return n, nil
}

func (r *streamReader) fill() {
	got, ok := r.s.Stream(r.frames)
	if !ok || got == 0 {
		r.done = true
	}

	for i := 0; i < got; i++ {
		off := i * 8
		binary.LittleEndian.PutUint32(r.raw[off:], math.Float32bits(float32(r.frames[i][0])))
		binary.LittleEndian.PutUint32(r.raw[off+4:], math.Float32bits(float32(r.frames[i][1])))
	}
	r.pending = r.raw[:got*8]
}
