package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays a source straight through oto, for programs that have no
// ebiten game loop.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	reader *StreamReader
}

// NewOtoPlayer opens the default output device and waits until it is ready.
func NewOtoPlayer(sampleRate int, source SampleSource, tap func([]float32)) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	reader := NewStreamReader(source, tap)
	return &OtoPlayer{
		ctx:    ctx,
		player: ctx.NewPlayer(reader),
		reader: reader,
	}, nil
}

func (p *OtoPlayer) Play() { p.player.Play() }

func (p *OtoPlayer) SetVolume(v float64) { p.player.SetVolume(v) }

// Stop ends playback for good.
func (p *OtoPlayer) Stop() error {
	p.player.Pause()
	p.reader.Close()
	return p.player.Close()
}
