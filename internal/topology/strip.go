package topology

import "github.com/emoryta/ADDigitalProj/internal/color"

// Output receives a committed pixel buffer. Implementations must not retain px.
type Output interface {
	Write(px []color.RGB)
}

// Strip is one physical, linearly addressed LED output.
type Strip interface {
	Len() int
	Set(i int, c color.RGB)
	Fill(c color.RGB)
	Show()
}

type BufferOptions struct {
	// Brightness scales every channel on Show, 0..1.
	Brightness float64
	// AutoWrite pushes to the output after every Set or Fill.
	AutoWrite bool
}

// Buffer is a Strip backed by an in-memory pixel array.
type Buffer struct {
	px         []color.RGB
	scaled     []color.RGB
	brightness float64
	autoWrite  bool
	out        Output
}

// NewBuffer allocates n dark pixels. out may be nil for a strip that is
// only read back.
func NewBuffer(n int, out Output, opts BufferOptions) *Buffer {
	if n < 0 {
		n = 0
	}
	b := opts.Brightness
	if b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	return &Buffer{
		px:         make([]color.RGB, n),
		scaled:     make([]color.RGB, n),
		brightness: b,
		autoWrite:  opts.AutoWrite,
		out:        out,
	}
}

func (b *Buffer) Len() int { return len(b.px) }

func (b *Buffer) Set(i int, c color.RGB) {
	if i < 0 || i >= len(b.px) {
		return
	}
	b.px[i] = c
	if b.autoWrite {
		b.Show()
	}
}

func (b *Buffer) Fill(c color.RGB) {
	for i := range b.px {
		b.px[i] = c
	}
	if b.autoWrite {
		b.Show()
	}
}

// At returns the unscaled color last set at i.
func (b *Buffer) At(i int) color.RGB {
	if i < 0 || i >= len(b.px) {
		return color.Black
	}
	return b.px[i]
}

// Show scales by brightness and pushes to the output.
func (b *Buffer) Show() {
	if b.out == nil {
		return
	}
	for i, c := range b.px {
		b.scaled[i] = c.Scale(b.brightness)
	}
	b.out.Write(b.scaled)
}

// Recorder is an Output that keeps a copy of every committed frame.
type Recorder struct {
	Frames [][]color.RGB
}

func (r *Recorder) Write(px []color.RGB) {
	r.Frames = append(r.Frames, append([]color.RGB(nil), px...))
}

func (r *Recorder) Last() []color.RGB {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

func (r *Recorder) Reset() { r.Frames = r.Frames[:0] }
