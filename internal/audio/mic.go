package audio

import (
	"fmt"
	"sync"

	"github.com/dh1tw/gosamplerate"
)

// Midpoint is the unsigned 16-bit value for silence.
const Midpoint = 32768

// DefaultPickup approximates how much of the speaker output a microphone
// across the room hears.
const DefaultPickup = 0.08

// ToU16 maps a float sample in [-1, 1] onto the unsigned microphone range.
func ToU16(x float32) uint16 {
	v := float32(Midpoint) + x*32767
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}

// micChunk bounds how many frames one converter call sees.
const micChunk = 4096

// Mic is a simulated microphone. Playback code feeds it through Tap and
// the frame loop reads the newest samples with Record. Stereo input is
// mixed to mono and converted from the playback rate to the mic rate.
type Mic struct {
	mu       sync.Mutex
	ring     []float32
	writePos int
	filled   int
	pickup   float32

	// src is nil when both rates match.
	src   *gosamplerate.Src
	ratio float64
	mono  []float32
}

// NewMic keeps capacity mono samples at micRate. Call Close to release the
// rate converter.
func NewMic(playbackRate, micRate, capacity int) (*Mic, error) {
	if playbackRate <= 0 || micRate <= 0 {
		return nil, fmt.Errorf("mic: bad rates %d -> %d Hz", playbackRate, micRate)
	}
	if capacity <= 0 {
		capacity = 4096
	}
	m := &Mic{ring: make([]float32, capacity), pickup: 1}
	if playbackRate != micRate {
		src, err := gosamplerate.New(gosamplerate.SRC_SINC_FASTEST, 1, micChunk)
		if err != nil {
			return nil, fmt.Errorf("mic: rate converter: %w", err)
		}
		m.src = &src
		m.ratio = float64(micRate) / float64(playbackRate)
	}
	return m, nil
}

func (m *Mic) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.src == nil {
		return nil
	}
	err := gosamplerate.Delete(*m.src)
	m.src = nil
	return err
}

// SetPickup scales everything tapped from now on.
func (m *Mic) SetPickup(k float32) {
	m.mu.Lock()
	m.pickup = k
	m.mu.Unlock()
}

// Tap accepts interleaved stereo frames at the playback rate. Safe to call
// from an audio thread.
func (m *Mic) Tap(stereo []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames := len(stereo) / 2
	if cap(m.mono) < frames {
		m.mono = make([]float32, frames)
	}
	m.mono = m.mono[:frames]
	for i := range m.mono {
		m.mono[i] = (stereo[2*i] + stereo[2*i+1]) * 0.5
	}
	if m.src == nil {
		m.pushAll(m.mono)
		return
	}
	for in := m.mono; len(in) > 0; {
		n := min(len(in), micChunk)
		out, err := m.src.Process(in[:n], m.ratio, false)
		if err != nil {
			return
		}
		m.pushAll(out)
		in = in[n:]
	}
}

// TapMono accepts single-channel frames already at the mic rate.
func (m *Mic) TapMono(mono []float32) {
	m.mu.Lock()
	m.pushAll(mono)
	m.mu.Unlock()
}

func (m *Mic) pushAll(samples []float32) {
	for _, s := range samples {
		m.push(s)
	}
}

func (m *Mic) push(s float32) {
	m.ring[m.writePos] = s * m.pickup
	m.writePos = (m.writePos + 1) % len(m.ring)
	if m.filled < len(m.ring) {
		m.filled++
	}
}

// Record fills buf with the newest len(buf) samples. Slots older than
// anything heard yet read as silence.
func (m *Mic) Record(buf []uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(buf)
	for i := range buf {
		back := n - i
		if back > m.filled || back > len(m.ring) {
			buf[i] = Midpoint
			continue
		}
		idx := (m.writePos - back + len(m.ring)) % len(m.ring)
		buf[i] = ToU16(m.ring[idx])
	}
}
