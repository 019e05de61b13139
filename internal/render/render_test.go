package render

import (
	"math"
	"math/rand"
	"testing"

	"github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/envelope"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/topology"
)

func newU(t *testing.T, n int) *topology.U {
	t.Helper()
	u, err := topology.NewU(
		topology.NewBuffer(n, nil, topology.BufferOptions{Brightness: 1}),
		topology.NewBuffer(n, nil, topology.BufferOptions{Brightness: 1}),
	)
	if err != nil {
		t.Fatalf("new u: %v", err)
	}
	return u
}

func frame(loud, punch float64) Frame {
	return Frame{
		Signals: envelope.Signals{Loudness: loud, Punch: punch},
		Clock:   Clock{Now: 1, DT: 1.0 / 60},
	}
}

func litPerSide(u *topology.U) int {
	n := 0
	for i := 0; i < u.PerSide(); i++ {
		if !u.At(i).IsOff() {
			n++
		}
	}
	return n
}

func TestOffAndStatic(t *testing.T) {
	u := newU(t, 5)
	Static{Color: color.PastelRed}.Render(frame(0, 0), u)
	for i, c := range u.Snapshot() {
		if c != color.PastelRed {
			t.Fatalf("static[%d] = %v", i, c)
		}
	}
	Off{}.Render(frame(1, 1), u)
	for i, c := range u.Snapshot() {
		if !c.IsOff() {
			t.Fatalf("off[%d] = %v", i, c)
		}
	}
}

func TestBarSilenceLightsNothing(t *testing.T) {
	u := newU(t, 5)
	b := NewBar(0.015)
	for i := 0; i < 5; i++ {
		b.Render(frame(0, 0), u)
	}
	for i, c := range u.Snapshot() {
		if !c.IsOff() {
			t.Fatalf("bar[%d] lit at silence: %v", i, c)
		}
	}
}

func TestBarLitCountMonotonic(t *testing.T) {
	for _, n := range []int{1, 5, 12} {
		prevLevel, prevLit := 0, 0
		for step := 0; step <= 200; step++ {
			loud := float64(step) / 200
			level := BarLevel(loud, n)
			if level < prevLevel {
				t.Fatalf("n=%d loud=%.3f: level %d dropped below %d", n, loud, level, prevLevel)
			}
			u := newU(t, n)
			NewBar(0.015).Render(frame(loud, 0), u)
			lit := litPerSide(u)
			if lit < prevLit {
				t.Fatalf("n=%d loud=%.3f: lit %d dropped below %d", n, loud, lit, prevLit)
			}
			prevLevel, prevLit = level, lit
		}
		if prevLevel != n {
			t.Errorf("n=%d: full loudness level = %d", n, prevLevel)
		}
	}
}

func TestBarMirrorsSides(t *testing.T) {
	u := newU(t, 5)
	NewBar(0.015).Render(frame(0.6, 0.3), u)
	for i := 0; i < 5; i++ {
		if u.At(i) != u.At(9-i) {
			t.Fatalf("position %d differs between sides: %v vs %v", i, u.At(i), u.At(9-i))
		}
	}
}

func TestBarPeakFallsAndStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	u := newU(t, 5)
	b := NewBar(0.015)
	for i := 0; i < 500; i++ {
		b.Render(frame(rng.Float64()*1.5, rng.Float64()), u)
		if idx := PeakIndex(b.Peak(), 5); idx < 0 || idx > 4 {
			t.Fatalf("peak index %d out of bounds", idx)
		}
	}

	b = NewBar(0.015)
	b.Render(frame(1, 0), u)
	if b.Peak() != 1 {
		t.Fatalf("peak = %f, want 1", b.Peak())
	}
	for i := 0; i < 10; i++ {
		b.Render(frame(0, 0), u)
	}
	if math.Abs(b.Peak()-(1-10*0.015)) > 1e-9 {
		t.Fatalf("peak after 10 quiet frames = %f", b.Peak())
	}
	if u.At(PeakIndex(b.Peak(), 5)) != color.White {
		t.Fatalf("peak marker not white: %v", u.At(PeakIndex(b.Peak(), 5)))
	}
	for i := 0; i < 100; i++ {
		b.Render(frame(0, 0), u)
	}
	if b.Peak() != 0 {
		t.Fatalf("peak should bottom out at 0, got %f", b.Peak())
	}
}

func TestBarPunchWarmsColor(t *testing.T) {
	calm, hit := newU(t, 5), newU(t, 5)
	NewBar(0.015).Render(frame(0.9, 0), calm)
	NewBar(0.015).Render(frame(0.9, 1), hit)
	if hit.At(0).R <= calm.At(0).R || hit.At(0).B >= calm.At(0).B {
		t.Fatalf("punch should warm the bar: calm=%v hit=%v", calm.At(0), hit.At(0))
	}
}

func TestPulseSilenceIsFloor(t *testing.T) {
	u := newU(t, 5)
	Pulse{}.Render(frame(0, 0), u)
	want := color.RGB{R: 12, G: 11, B: 9}
	for i, c := range u.Snapshot() {
		if c != want {
			t.Fatalf("pulse[%d] = %v, want %v", i, c, want)
		}
	}
	Pulse{}.Render(frame(1, 1), u)
	if u.At(0) != color.WarmWhite {
		t.Fatalf("full pulse = %v", u.At(0))
	}
}

func TestSoundColorFlash(t *testing.T) {
	calm, hit := newU(t, 3), newU(t, 3)
	SoundColor{}.Render(frame(0.5, 0), calm)
	SoundColor{}.Render(frame(0.5, 1), hit)
	minCh := func(c color.RGB) uint8 { return min(c.R, c.G, c.B) }
	if minCh(hit.At(0)) < 229 {
		t.Fatalf("flash should be near white, got %v", hit.At(0))
	}
	if minCh(calm.At(0)) >= minCh(hit.At(0)) {
		t.Fatalf("calm %v should be less white than hit %v", calm.At(0), hit.At(0))
	}
	quiet := newU(t, 3)
	SoundColor{}.Render(frame(0, 0), quiet)
	if quiet.At(0).B <= quiet.At(0).R {
		t.Fatalf("quiet sound color should lean violet/blue, got %v", quiet.At(0))
	}
}

func TestSparkleDeterministicAndBounded(t *testing.T) {
	a, b := newU(t, 5), newU(t, 5)
	sa := NewSparkle(rand.New(rand.NewSource(42)))
	sb := NewSparkle(rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		sa.Render(frame(0.7, 0.4), a)
		sb.Render(frame(0.7, 0.4), b)
		snapA, snapB := a.Snapshot(), b.Snapshot()
		for j := range snapA {
			if snapA[j] != snapB[j] {
				t.Fatalf("frame %d index %d: %v != %v", i, j, snapA[j], snapB[j])
			}
		}
	}

	spark := color.Soft(0.10+0.12*0.4, 0.4, 1.0)
	count := 0
	for _, c := range a.Snapshot() {
		if c == spark {
			count++
		}
	}
	if count == 0 || count > SparkCount(0.7, 0.4) {
		t.Fatalf("spark count = %d, limit %d", count, SparkCount(0.7, 0.4))
	}
}

func TestSparkleSilenceHasNoSparks(t *testing.T) {
	if n := SparkCount(0, 0); n != 0 {
		t.Fatalf("spark count at silence = %d", n)
	}
	u := newU(t, 5)
	NewSparkle(rand.New(rand.NewSource(1))).Render(frame(0, 0), u)
	base := color.Soft(0.58, 0.9, 0.18)
	for i, c := range u.Snapshot() {
		if c != base {
			t.Fatalf("sparkle[%d] = %v, want base %v", i, c, base)
		}
	}
}

func TestFlowSpeedFollowsSignals(t *testing.T) {
	u := newU(t, 5)
	quiet, loud := &Flow{}, &Flow{}
	f := frame(0, 0)
	f.Clock.DT = 1
	quiet.Render(f, u)
	if math.Abs(quiet.phase.Value()-0.18) > 1e-9 {
		t.Fatalf("quiet flow phase = %f, want 0.18", quiet.phase.Value())
	}
	f = frame(0.5, 0.2)
	f.Clock.DT = 1
	loud.Render(f, u)
	want := 0.18 + 0.55*0.5 + 0.75*0.2
	if math.Abs(loud.phase.Value()-want) > 1e-9 {
		t.Fatalf("loud flow phase = %f, want %f", loud.phase.Value(), want)
	}
}

func TestBreatheIgnoresAudio(t *testing.T) {
	a, b := newU(t, 5), newU(t, 5)
	(&Breathe{}).Render(frame(0, 0), a)
	(&Breathe{}).Render(frame(1, 1), b)
	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa {
		if sa[i] != sb[i] {
			t.Fatalf("breathe[%d] depends on audio: %v vs %v", i, sa[i], sb[i])
		}
		if sa[i].IsOff() {
			t.Fatalf("breathe[%d] is dark", i)
		}
	}
}

func TestRendererDispatch(t *testing.T) {
	r := New(DefaultParams(), rand.New(rand.NewSource(1)))
	for _, m := range mode.FullSet {
		if r.For(m) == nil {
			t.Fatalf("no renderer for %v", m)
		}
	}
	u := newU(t, 5)
	r.Render(mode.Static, frame(0, 0), u)
	if u.At(0) != color.PastelRed {
		t.Fatalf("static via renderer = %v", u.At(0))
	}
	r.Render(mode.Mode(99), frame(0, 0), u)
	if !u.At(0).IsOff() {
		t.Fatalf("unknown mode should clear, got %v", u.At(0))
	}
}

func TestSelfTestSequence(t *testing.T) {
	u := newU(t, 5)
	s := NewSelfTest()
	at := func(now float64) {
		s.Render(Frame{Clock: Clock{Now: now}}, u)
	}
	at(0.01)
	if u.At(0) != (color.RGB{R: 255}) || u.At(9) != (color.RGB{R: 255}) {
		t.Fatalf("first blink should be red, got %v", u.At(0))
	}
	at(0.2)
	if !u.At(0).IsOff() {
		t.Fatalf("blink gap should be dark, got %v", u.At(0))
	}
	chaseStart := float64(len(s.Colors)) * 2 * s.Blink
	at(chaseStart + 2.5*s.Step)
	if u.At(2) != chaseLeft {
		t.Fatalf("left chase at 2 = %v", u.At(2))
	}
	if u.At(7) != chaseRight {
		t.Fatalf("right chase at physical 2 = %v", u.At(7))
	}
	if !u.At(0).IsOff() {
		t.Fatalf("chase should clear other LEDs, got %v", u.At(0))
	}
	if p := s.Period(5); math.Abs(p-(2.1+0.5)) > 1e-9 {
		t.Fatalf("period = %f", p)
	}
}
