package render

import (
	"math/rand"

	"github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/lfo"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

type Off struct{}

func (Off) Render(_ Frame, u *topology.U) { u.Clear() }

type Static struct {
	Color color.RGB
}

func (s Static) Render(_ Frame, u *topology.U) { u.Fill(s.Color) }

// Breathe drifts a rainbow across the U while the brightness follows a sine.
type Breathe struct {
	hue lfo.Phase
}

const (
	breatheDrift  = 0.08
	breatheOmega  = 2.0
	breatheFloor  = 0.30
	breatheSpread = 0.65
)

func (b *Breathe) Render(f Frame, u *topology.U) {
	base := b.hue.Advance(breatheDrift, f.Clock.DT)
	v := lfo.Breathe(f.Clock.Now, breatheOmega, breatheFloor, 1.0)
	total := u.Len()
	for i := 0; i < total; i++ {
		h := base + float64(i)/float64(total)*breatheSpread
		u.Set(i, color.Rainbow(h, v))
	}
}

// Flow walks a full rainbow around the U; loudness and punch push it faster
// and brighter.
type Flow struct {
	phase lfo.Phase
}

func (fl *Flow) Render(f Frame, u *topology.U) {
	loud, punch := f.Signals.Loudness, f.Signals.Punch
	speed := 0.18 + 0.55*loud + 0.75*punch
	phase := fl.phase.Advance(speed, f.Clock.DT)
	v := clamp01(0.18 + 0.55*loud + 0.35*punch)
	total := u.Len()
	for i := 0; i < total; i++ {
		u.Set(i, color.Rainbow(phase+float64(i)/float64(total), v))
	}
}

var (
	barCool = color.RGB{R: 40, G: 160, B: 255}
	barWarm = color.RGB{R: 255, G: 110, B: 30}
)

const barPeakVisible = 0.05

// Bar is a level meter drawn identically down both sides, with a white
// peak marker that falls at a fixed rate.
type Bar struct {
	fall float64
	peak float64
}

func NewBar(peakFall float64) *Bar {
	return &Bar{fall: peakFall}
}

func (b *Bar) Peak() float64 { return b.peak }

// BarLevel is the number of lit LEDs per side for loudness on n LEDs.
func BarLevel(loud float64, n int) int {
	level := int(clamp01(loud)*float64(n) + 0.5)
	if level > n {
		level = n
	}
	return level
}

// PeakIndex is the per-side position of the peak marker.
func PeakIndex(peak float64, n int) int {
	idx := int(clamp01(peak)*float64(n) + 0.2)
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func (b *Bar) Render(f Frame, u *topology.U) {
	loud, punch := f.Signals.Loudness, f.Signals.Punch
	n := u.PerSide()
	level := BarLevel(loud, n)

	if loud > b.peak {
		b.peak = loud
	} else {
		b.peak -= b.fall
		if b.peak < 0 {
			b.peak = 0
		}
	}

	brightness := 0.35 + 0.65*loud
	denom := float64(n - 1)
	if n <= 1 {
		denom = 1
	}
	for i := 0; i < n; i++ {
		c := color.Black
		if i < level {
			mix := clamp01(float64(i)/denom*0.75 + punch*0.5)
			c = color.LerpRGB(barCool, barWarm, mix).Scale(brightness)
		}
		u.SetMirrored(i, c)
	}

	peakColor := color.Black
	if b.peak > barPeakVisible {
		peakColor = color.White
	}
	u.SetMirrored(PeakIndex(b.peak, n), peakColor)
}

const (
	soundColorCold = 0.70
	soundColorHot  = 0.02
	flashMin       = 0.05
)

// SoundColor fills one hue that slides from violet to red with loudness and
// flashes toward white on hits.
type SoundColor struct{}

func (SoundColor) Render(f Frame, u *topology.U) {
	loud, punch := f.Signals.Loudness, f.Signals.Punch
	h := color.Lerp(soundColorCold, soundColorHot, loud)
	c := color.Soft(h, 1.0, 0.25+0.75*loud)
	if punch > flashMin {
		c = color.LerpRGB(c, color.White, clamp01(punch*0.9))
	}
	u.Fill(c)
}

// Sparkle lays a dim blue base and overdrives a random handful of LEDs.
type Sparkle struct {
	rng *rand.Rand
}

func NewSparkle(rng *rand.Rand) *Sparkle {
	return &Sparkle{rng: rng}
}

// SparkCount is how many random picks a frame gets. Picks may repeat.
func SparkCount(loud, punch float64) int {
	return int(clamp01(loud)*6.0 + clamp01(punch)*8.0 + 0.4)
}

func (s *Sparkle) Render(f Frame, u *topology.U) {
	loud, punch := f.Signals.Loudness, f.Signals.Punch
	base := color.Soft(0.58, 0.9, 0.18+0.30*loud+0.25*punch)
	spark := color.Soft(0.10+0.12*punch, 0.4, 1.0)
	u.Fill(base)
	total := u.Len()
	for n := SparkCount(loud, punch); n > 0; n-- {
		u.Set(s.rng.Intn(total), spark)
	}
}

const pulseFloor = 0.05

// Pulse is a uniform warm-white wash for bouncing light off a wall.
type Pulse struct{}

func PulseBrightness(loud, punch float64) float64 {
	return clamp01(pulseFloor + 0.80*loud + 0.45*punch)
}

func (Pulse) Render(f Frame, u *topology.U) {
	u.Fill(color.WarmWhite.Scale(PulseBrightness(f.Signals.Loudness, f.Signals.Punch)))
}
