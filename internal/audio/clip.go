package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dh1tw/gosamplerate"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Clip is a mono recording held in memory.
type Clip struct {
	SampleRate int
	Samples    []float32
}

func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	clip, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clip, nil
}

// DecodeWAV reads integer PCM and mixes all channels down to mono.
func DecodeWAV(r io.ReadSeeker) (*Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, errors.New("WAV file has no usable format")
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	ch := buf.Format.NumChannels
	scale := float32(int64(1) << (bitDepth - 1))
	if bitDepth == 8 {
		// 8-bit WAV is unsigned.
		scale = 128
	}
	frames := len(buf.Data) / ch
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			v := float32(buf.Data[i*ch+c])
			if bitDepth == 8 {
				v -= 128
			}
			sum += v / scale
		}
		out[i] = sum / float32(ch)
	}
	return &Clip{SampleRate: buf.Format.SampleRate, Samples: out}, nil
}

// WriteWAV stores the clip as 16-bit mono PCM.
func WriteWAV(path string, c *Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(f, c.SampleRate, 16, 1, 1)
	data := make([]int, len(c.Samples))
	for i, s := range c.Samples {
		data[i] = int(ToU16(s)) - Midpoint
	}
	err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: c.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	})
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Resample converts to rate with a band-limited sinc converter, so content
// above the new Nyquist frequency is filtered out instead of folding back.
func (c *Clip) Resample(rate int) (*Clip, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("resample: bad rate %d", rate)
	}
	if rate == c.SampleRate || len(c.Samples) == 0 {
		return c, nil
	}
	ratio := float64(rate) / float64(c.SampleRate)
	out, err := gosamplerate.Simple(c.Samples, ratio, 1, gosamplerate.SRC_SINC_BEST_QUALITY)
	if err != nil {
		return nil, fmt.Errorf("resample %d -> %d Hz: %w", c.SampleRate, rate, err)
	}
	return &Clip{SampleRate: rate, Samples: out}, nil
}

// Looper plays a clip end to end forever.
type Looper struct {
	clip *Clip
	pos  int
}

func NewLooper(c *Clip) *Looper {
	return &Looper{clip: c}
}

func (l *Looper) nextSample() float32 {
	if len(l.clip.Samples) == 0 {
		return 0
	}
	s := l.clip.Samples[l.pos]
	l.pos = (l.pos + 1) % len(l.clip.Samples)
	return s
}

func (l *Looper) Process(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		s := l.nextSample()
		dst[i] = s
		dst[i+1] = s
	}
}

func (l *Looper) Mono(dst []float32) {
	for i := range dst {
		dst[i] = l.nextSample()
	}
}
