package synth

import (
	"errors"
	"math"
)

const twoPi = math.Pi * 2

// Params shapes the generated groove.
type Params struct {
	BPM        float64
	MasterGain float64
	KickLevel  float64
	HatLevel   float64
	BassLevel  float64

	// BarsPerSection alternates a quiet and a loud section so listeners and
	// auto-gain have something to chase. Zero keeps one level.
	BarsPerSection int
	QuietLevel     float64
}

func DefaultParams() Params {
	return Params{
		BPM:            120,
		MasterGain:     0.6,
		KickLevel:      1.0,
		HatLevel:       0.25,
		BassLevel:      0.35,
		BarsPerSection: 8,
		QuietLevel:     0.3,
	}
}

var bassLine = [...]float64{55, 55, 65.41, 49}

// Beat is a four-on-the-floor drum and bass loop. Process writes
// interleaved stereo float32 like the other sample sources.
type Beat struct {
	sampleRate float64
	params     Params
	pos        int64

	kickPhase float64
	bassPhase float64
	noiseLFSR uint16
}

func New(sampleRate int, p Params) (*Beat, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if p.BPM <= 0 {
		return nil, errors.New("bpm must be positive")
	}
	return &Beat{sampleRate: float64(sampleRate), params: p, noiseLFSR: 0xACE1}, nil
}

func (b *Beat) samplesPerBeat() float64 {
	return b.sampleRate * 60 / b.params.BPM
}

// Process fills dst with stereo frames.
func (b *Beat) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		s := float32(b.next())
		dst[i] = s
		dst[i+1] = s
	}
}

// Mono fills dst with single-channel frames.
func (b *Beat) Mono(dst []float32) {
	for i := range dst {
		dst[i] = float32(b.next())
	}
}

func (b *Beat) Reset() {
	b.pos = 0
	b.kickPhase = 0
	b.bassPhase = 0
	b.noiseLFSR = 0xACE1
}

func (b *Beat) next() float64 {
	spb := b.samplesPerBeat()
	beatPos := float64(b.pos) / spb
	beat := int64(beatPos)
	inBeat := (beatPos - float64(beat)) * spb / b.sampleRate // seconds since the beat

	// Kick: sine with a falling pitch and fast decay.
	if inBeat == 0 {
		b.kickPhase = 0
	}
	kickFreq := 45 + 110*math.Exp(-inBeat*30)
	b.kickPhase = math.Mod(b.kickPhase+kickFreq/b.sampleRate, 1)
	kick := math.Sin(twoPi*b.kickPhase) * math.Exp(-inBeat*9)

	// Hat on the off-beat: LFSR noise with a short decay.
	bit := (b.noiseLFSR ^ (b.noiseLFSR >> 1)) & 1
	b.noiseLFSR = (b.noiseLFSR >> 1) | (bit << 15)
	noise := -1.0
	if b.noiseLFSR&1 == 1 {
		noise = 1
	}
	offBeat := math.Mod(inBeat*b.sampleRate/spb+0.5, 1) * spb / b.sampleRate
	hat := noise * math.Exp(-offBeat*60)

	// Bass: triangle following a four-bar line.
	freq := bassLine[(beat/4)%int64(len(bassLine))]
	b.bassPhase = math.Mod(b.bassPhase+freq/b.sampleRate, 1)
	var bass float64
	if b.bassPhase < 0.5 {
		bass = 4*b.bassPhase - 1
	} else {
		bass = 3 - 4*b.bassPhase
	}
	bass *= math.Exp(-inBeat * 2)

	level := 1.0
	if n := int64(b.params.BarsPerSection); n > 0 && (beat/(4*n))%2 == 0 {
		level = b.params.QuietLevel
	}

	b.pos++
	p := b.params
	out := (kick*p.KickLevel + hat*p.HatLevel + bass*p.BassLevel) * p.MasterGain * level
	return math.Max(-1, math.Min(1, out))
}
