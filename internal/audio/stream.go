package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource produces interleaved stereo float32 frames.
type SampleSource interface {
	Process(dst []float32)
}

const frameBytes = 8 // two float32 channels

// StreamReader renders a SampleSource as little-endian float32 stereo bytes,
// the layout both ebiten and oto accept. Samples are limited to [-1, 1]
// before the tap sees them, so the simulated microphone hears exactly what
// the speaker plays.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	tap    func([]float32)
	frames []float32
	closed bool
}

func NewStreamReader(source SampleSource, tap func([]float32)) *StreamReader {
	return &StreamReader{source: source, tap: tap}
}

// Read fills whole frames only. After Close it reports io.EOF.
func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.EOF
	}
	n := len(p) / frameBytes
	if n == 0 {
		return 0, nil
	}
	r.frames = slices.Grow(r.frames[:0], 2*n)[:2*n]
	r.source.Process(r.frames)
	for i, s := range r.frames {
		s = limit(s)
		r.frames[i] = s
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	if r.tap != nil {
		r.tap(r.frames)
	}
	return n * frameBytes, nil
}

func (r *StreamReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func limit(s float32) float32 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	case math.IsNaN(float64(s)):
		return 0
	}
	return s
}

// Player plays a source through ebiten's audio context.
type Player struct {
	player *ebitaudio.Player
	reader *StreamReader
}

var (
	contextOnce  sync.Once
	audioContext *ebitaudio.Context
	contextRate  int
)

func sharedContext(sampleRate int) (*ebitaudio.Context, error) {
	contextOnce.Do(func() {
		contextRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if contextRate != sampleRate {
		return nil, fmt.Errorf("audio context runs at %d Hz, not %d Hz", contextRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens a paused ebiten player. All players share one audio
// context, so every call must use the same sample rate.
func NewPlayer(sampleRate int, source SampleSource, tap func([]float32)) (*Player, error) {
	ctx, err := sharedContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source, tap)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("ebiten player: %w", err)
	}
	// Short buffer so the LEDs react to what is audible, not what is queued.
	pl.SetBufferSize(40 * time.Millisecond)
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }

func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) SetVolume(v float64) { p.player.SetVolume(v) }

// Stop ends playback for good.
func (p *Player) Stop() error {
	p.player.Pause()
	p.reader.Close()
	return p.player.Close()
}
