package addigital

import (
	"math/rand"
	"testing"

	"github.com/emoryta/ADDigitalProj/internal/audio"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/synth"
)

func TestRenderOfflineFollowsTheBeat(t *testing.T) {
	cfg := DefaultConfig()
	p := synth.DefaultParams()
	p.BarsPerSection = 0
	p.MasterGain = 0.05
	beat, err := synth.New(cfg.SampleRate, p)
	if err != nil {
		t.Fatal(err)
	}
	frames, err := RenderOffline(cfg, audio.NewBlocks(beat), 240, nil, WithRand(rand.New(rand.NewSource(1))))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(frames) != 240 {
		t.Fatalf("rendered %d frames", len(frames))
	}
	minLoud, maxLoud, maxPunch := 1.0, 0.0, 0.0
	for _, f := range frames[60:] {
		minLoud = min(minLoud, f.Signals.Loudness)
		maxLoud = max(maxLoud, f.Signals.Loudness)
		maxPunch = max(maxPunch, f.Signals.Punch)
		if len(f.Pixels) != 2*cfg.LEDsPerSide {
			t.Fatalf("frame has %d pixels", len(f.Pixels))
		}
	}
	if maxLoud-minLoud < 0.2 {
		t.Errorf("loudness barely moves with the beat: [%f, %f]", minLoud, maxLoud)
	}
	if maxPunch < 0.2 {
		t.Errorf("no kick registered as punch, max %f", maxPunch)
	}
}

func TestRenderOfflinePresses(t *testing.T) {
	cfg := DefaultConfig()
	clip := &audio.Clip{SampleRate: cfg.SampleRate, Samples: make([]float32, 1000)}
	frames, err := RenderOffline(cfg, audio.NewBlocks(audio.NewLooper(clip)), 10, []int{2, 5})
	if err != nil {
		t.Fatal(err)
	}
	if frames[1].Mode != mode.SoundBar || frames[2].Mode != mode.SoundColor || frames[5].Mode != mode.SoundSparkle {
		t.Fatalf("modes = %v %v %v", frames[1].Mode, frames[2].Mode, frames[5].Mode)
	}
	if !frames[2].Changed || frames[3].Changed {
		t.Fatal("Changed should mark only press frames")
	}
}
