package audio

// MonoSource produces single-channel float32 samples at the mic rate.
type MonoSource interface {
	Mono(dst []float32)
}

// Blocks reads a MonoSource as if it were the microphone, without any
// playback or wall-clock timing. Used for offline rendering.
type Blocks struct {
	src    MonoSource
	buf    []float32
	pickup float32
}

func NewBlocks(src MonoSource) *Blocks {
	return &Blocks{src: src, pickup: 1}
}

// WithPickup scales the source before it reaches the microphone.
func (b *Blocks) WithPickup(k float32) *Blocks {
	b.pickup = k
	return b
}

func (b *Blocks) Record(buf []uint16) {
	if cap(b.buf) < len(buf) {
		b.buf = make([]float32, len(buf))
	}
	b.buf = b.buf[:len(buf)]
	b.src.Mono(b.buf)
	for i, s := range b.buf {
		buf[i] = ToU16(s * b.pickup)
	}
}
