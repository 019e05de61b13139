package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/emoryta/ADDigitalProj/internal/envelope"
)

type constSource struct{ v float32 }

func (s constSource) Process(dst []float32) {
	for i := range dst {
		dst[i] = s.v
	}
}

func TestStreamReaderEncodesAndTaps(t *testing.T) {
	var tapped []float32
	r := NewStreamReader(constSource{v: 0.25}, func(b []float32) {
		tapped = append(tapped, b...)
	})
	p := make([]byte, 32)
	n, err := r.Read(p)
	if err != nil || n != 32 {
		t.Fatalf("read = %d, %v", n, err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(p[4:])); got != 0.25 {
		t.Fatalf("decoded sample = %f", got)
	}
	if len(tapped) != 8 {
		t.Fatalf("tapped %d samples, want 8", len(tapped))
	}
	if n, _ := r.Read(make([]byte, 7)); n != 0 {
		t.Fatalf("short read should produce nothing, got %d", n)
	}
}

func TestStreamReaderLimitsWhatIsTapped(t *testing.T) {
	var tapped []float32
	r := NewStreamReader(constSource{v: 1.5}, func(b []float32) {
		tapped = append(tapped, b...)
	})
	p := make([]byte, 16)
	if _, err := r.Read(p); err != nil {
		t.Fatal(err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(p)); got != 1 {
		t.Fatalf("played sample = %f, want 1", got)
	}
	for i, s := range tapped {
		if s != 1 {
			t.Fatalf("tapped[%d] = %f, want the limited 1", i, s)
		}
	}
}

func TestStreamReaderEOFAfterClose(t *testing.T) {
	r := NewStreamReader(constSource{}, nil)
	r.Close()
	if _, err := r.Read(make([]byte, 16)); err != io.EOF {
		t.Fatalf("err = %v, want EOF", err)
	}
}

func TestToU16(t *testing.T) {
	if ToU16(0) != Midpoint {
		t.Errorf("zero -> %d", ToU16(0))
	}
	if ToU16(2) != 65535 || ToU16(-2) != 0 {
		t.Errorf("clipping failed: %d %d", ToU16(2), ToU16(-2))
	}
}

func newTestMic(t *testing.T, playbackRate, micRate, capacity int) *Mic {
	t.Helper()
	m, err := NewMic(playbackRate, micRate, capacity)
	if err != nil {
		t.Fatalf("new mic: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func sine(rate int, freq, amp float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func stereo(mono []float32) []float32 {
	out := make([]float32, 2*len(mono))
	for i, s := range mono {
		out[2*i], out[2*i+1] = s, s
	}
	return out
}

// tapInChunks feeds the tone the way an audio callback would.
func tapInChunks(m *Mic, frames []float32, chunk int) {
	for len(frames) > 0 {
		n := min(len(frames), 2*chunk)
		m.Tap(frames[:n])
		frames = frames[n:]
	}
}

func TestMicStartsSilent(t *testing.T) {
	m := newTestMic(t, 48000, 16000, 64)
	buf := make([]uint16, 4)
	m.Record(buf)
	for i, v := range buf {
		if v != Midpoint {
			t.Fatalf("empty mic[%d] = %d, want silence", i, v)
		}
	}
	if _, err := NewMic(0, 16000, 64); err == nil {
		t.Fatal("expected error for zero playback rate")
	}
}

func TestMicConvertsPlaybackRate(t *testing.T) {
	m := newTestMic(t, 48000, 16000, 4096)
	tapInChunks(m, stereo(sine(48000, 440, 0.5, 48000)), 960)
	buf := make([]uint16, 320)
	m.Record(buf)
	if rms := envelope.NormalizedRMS(buf); math.Abs(rms-0.5/math.Sqrt2*32767/65535) > 0.01 {
		t.Fatalf("in-band tone rms = %f", rms)
	}
}

func TestMicFiltersOutOfBandTone(t *testing.T) {
	m := newTestMic(t, 44100, 16000, 4096)
	tapInChunks(m, stereo(sine(44100, 11000, 0.5, 44100)), 1024)
	buf := make([]uint16, 320)
	m.Record(buf)
	if rms := envelope.NormalizedRMS(buf); rms > 0.01 {
		t.Fatalf("11 kHz tone reached the 16 kHz mic with rms %f", rms)
	}
}

func TestMicRingWraps(t *testing.T) {
	m := newTestMic(t, 16000, 16000, 4)
	m.TapMono([]float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	buf := make([]uint16, 4)
	m.Record(buf)
	want := []float32{0.3, 0.4, 0.5, 0.6}
	for i := range buf {
		if buf[i] != ToU16(want[i]) {
			t.Fatalf("mic[%d] = %d, want %d", i, buf[i], ToU16(want[i]))
		}
	}
}

func TestWAVRoundTrip(t *testing.T) {
	clip := &Clip{SampleRate: 16000, Samples: make([]float32, 1600)}
	for i := range clip.Samples {
		clip.Samples[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := WriteWAV(path, clip); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.SampleRate != 16000 || len(got.Samples) != len(clip.Samples) {
		t.Fatalf("loaded %d Hz, %d samples", got.SampleRate, len(got.Samples))
	}
	for i := range got.Samples {
		if math.Abs(float64(got.Samples[i]-clip.Samples[i])) > 1e-3 {
			t.Fatalf("sample %d = %f, want %f", i, got.Samples[i], clip.Samples[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV(bytes.NewReader([]byte("definitely not riff data"))); err == nil {
		t.Fatal("expected error")
	}
}

func TestResampleKeepsInBandTone(t *testing.T) {
	c := &Clip{SampleRate: 44100, Samples: sine(44100, 1000, 0.5, 44100)}
	r, err := c.Resample(16000)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	if r.SampleRate != 16000 || math.Abs(float64(len(r.Samples))-16000) > 160 {
		t.Fatalf("resampled to %d Hz with %d samples", r.SampleRate, len(r.Samples))
	}
	b := NewBlocks(NewLooper(&Clip{SampleRate: 16000, Samples: r.Samples[4000:8000]}))
	buf := make([]uint16, 320)
	b.Record(buf)
	if rms := envelope.NormalizedRMS(buf); math.Abs(rms-0.5/math.Sqrt2*32767/65535) > 0.01 {
		t.Fatalf("in-band tone rms = %f", rms)
	}
}

func TestResampleFiltersAliases(t *testing.T) {
	c := &Clip{SampleRate: 44100, Samples: sine(44100, 11000, 0.5, 44100)}
	r, err := c.Resample(16000)
	if err != nil {
		t.Fatalf("resample: %v", err)
	}
	b := NewBlocks(NewLooper(&Clip{SampleRate: 16000, Samples: r.Samples[4000:8000]}))
	buf := make([]uint16, 320)
	b.Record(buf)
	if rms := envelope.NormalizedRMS(buf); rms > 0.01 {
		t.Fatalf("11 kHz tone folded into the mic band with rms %f", rms)
	}
}

func TestResampleSameRateAndBadRate(t *testing.T) {
	c := &Clip{SampleRate: 8000, Samples: []float32{0, 1, 0, -1}}
	if r, err := c.Resample(8000); err != nil || r != c {
		t.Fatalf("same-rate resample = %p, %v", r, err)
	}
	if _, err := c.Resample(0); err == nil {
		t.Fatal("expected error for zero rate")
	}
}

func TestLooperWraps(t *testing.T) {
	c := &Clip{SampleRate: 8000, Samples: []float32{0, 1, 0, -1}}
	l := NewLooper(c)
	out := make([]float32, 6)
	l.Mono(out)
	if out[4] != 0 || out[5] != 1 {
		t.Fatalf("looper did not wrap: %v", out)
	}
}

func TestBlocksReadsMonoSource(t *testing.T) {
	c := &Clip{SampleRate: 16000, Samples: []float32{0.5, -0.5}}
	b := NewBlocks(NewLooper(c))
	buf := make([]uint16, 3)
	b.Record(buf)
	if buf[0] != ToU16(0.5) || buf[1] != ToU16(-0.5) || buf[2] != ToU16(0.5) {
		t.Fatalf("blocks = %v", buf)
	}
}

func TestPickupScales(t *testing.T) {
	m := newTestMic(t, 16000, 16000, 8)
	m.SetPickup(0.5)
	m.TapMono([]float32{0.8})
	buf := make([]uint16, 1)
	m.Record(buf)
	if buf[0] != ToU16(0.4) {
		t.Fatalf("mic pickup = %d, want %d", buf[0], ToU16(0.4))
	}

	c := &Clip{SampleRate: 16000, Samples: []float32{0.8}}
	b := NewBlocks(NewLooper(c)).WithPickup(0.5)
	b.Record(buf)
	if buf[0] != ToU16(0.4) {
		t.Fatalf("blocks pickup = %d, want %d", buf[0], ToU16(0.4))
	}
}
