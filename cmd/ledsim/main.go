package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math/rand"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	addigital "github.com/emoryta/ADDigitalProj"
	"github.com/emoryta/ADDigitalProj/internal/audio"
	"github.com/emoryta/ADDigitalProj/internal/button"
	ledcolor "github.com/emoryta/ADDigitalProj/internal/color"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/synth"
)

const (
	windowW      = 480
	windowH      = 560
	playbackRate = 48000

	ledSize  = 44
	ledGap   = 16
	stripTop = 150
	stripX   = 110
)

var (
	bgColor    = color.RGBA{16, 16, 20, 255}
	frameColor = color.RGBA{60, 60, 68, 255}
	textColor  = color.RGBA{220, 220, 220, 255}
)

// panel keeps the last frame committed to one strip.
type panel struct {
	px []ledcolor.RGB
}

func (p *panel) Write(px []ledcolor.RGB) {
	p.px = append(p.px[:0], px...)
}

type game struct {
	engine *addigital.Engine
	hw     addigital.Hardware
	left   *panel
	right  *panel
	player *audio.Player
	source string
	res    addigital.FrameResult
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) && g.player != nil {
		if g.player.IsPlaying() {
			g.player.Pause()
		} else {
			g.player.Play()
		}
	}
	g.res = g.engine.Tick(g.hw)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)

	n := g.engine.Topology().PerSide()
	rightX := windowW - stripX - ledSize
	height := n*(ledSize+ledGap) - ledGap
	fillRect(screen, stripX-6, stripTop-ledGap-12, rightX+ledSize+6, stripTop-ledGap, frameColor)
	fillRect(screen, stripX-6, stripTop-ledGap, stripX+ledSize+6, stripTop+height+6, frameColor)
	fillRect(screen, rightX-6, stripTop-ledGap, rightX+ledSize+6, stripTop+height+6, frameColor)

	for i := 0; i < n; i++ {
		y := stripTop + i*(ledSize+ledGap)
		drawLED(screen, stripX, y, pixel(g.left, i))
		drawLED(screen, rightX, y, pixel(g.right, i))
	}

	sig := g.res.Signals
	face := basicfont.Face7x13
	text.Draw(screen, fmt.Sprintf("mode  %s (%s)", g.res.Mode, modeKind(g.res.Mode)), face, 16, 24, textColor)
	text.Draw(screen, fmt.Sprintf("loud  %.3f   punch %.3f", sig.Loudness, sig.Punch), face, 16, 44, textColor)
	text.Draw(screen, fmt.Sprintf("rms   %.4f  gain  %.2f", sig.RMS, sig.AutoGain), face, 16, 64, textColor)
	text.Draw(screen, "source "+g.source, face, 16, 84, textColor)
	text.Draw(screen, "space: next mode   m: mute   q: quit", face, 16, windowH-20, textColor)
}

func (g *game) Layout(_, _ int) (int, int) {
	return windowW, windowH
}

func modeKind(m mode.Mode) string {
	if m.Reactive() {
		return "sound"
	}
	return "ambient"
}

func pixel(p *panel, i int) ledcolor.RGB {
	if i < len(p.px) {
		return p.px[i]
	}
	return ledcolor.Black
}

func drawLED(dst *ebiten.Image, x, y int, c ledcolor.RGB) {
	fillRect(dst, x, y, x+ledSize, y+ledSize, c)
}

func fillRect(dst *ebiten.Image, x0, y0, x1, y1 int, c color.Color) {
	dst.SubImage(image.Rect(x0, y0, x1, y1)).(*ebiten.Image).Fill(c)
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML tuning file")
		wavPath    = flag.String("wav", "", "loop a WAV file instead of the built-in beat")
		startMode  = flag.String("mode", "", "starting mode, e.g. sound_bar")
		variant    = flag.String("variant", "", "full or basic")
		seed       = flag.Int64("seed", 1, "sparkle random seed")
		mute       = flag.Bool("mute", false, "do not play the signal out loud")
		bpm        = flag.Float64("bpm", 0, "tempo of the built-in beat")
	)
	flag.Parse()

	cfg := addigital.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = addigital.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *startMode != "" {
		m, err := mode.Parse(*startMode)
		if err != nil {
			log.Fatal(err)
		}
		cfg.StartMode = m
	}
	if *variant != "" {
		v, err := addigital.ParseVariant(*variant)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Variant = v
	}

	source, name, err := openSource(*wavPath, *bpm)
	if err != nil {
		log.Fatal(err)
	}

	g := &game{left: &panel{}, right: &panel{}, source: name}
	u, err := addigital.NewTopology(cfg, g.left, g.right)
	if err != nil {
		log.Fatal(err)
	}
	logger := addigital.NewLogger(os.Stderr, cfg.Debug)
	g.engine, err = addigital.NewEngine(cfg, u,
		addigital.WithRand(rand.New(rand.NewSource(*seed))),
		addigital.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	mic, err := audio.NewMic(playbackRate, cfg.SampleRate, cfg.Samples*8)
	if err != nil {
		log.Fatal(err)
	}
	defer mic.Close()
	mic.SetPickup(audio.DefaultPickup)
	g.player, err = audio.NewPlayer(playbackRate, source, mic.Tap)
	if err != nil {
		log.Fatal(err)
	}
	if *mute {
		g.player.SetVolume(0)
	}
	g.player.Play()
	defer g.player.Stop()

	clk := addigital.NewSystemClock()
	pin := button.PinFunc(func() bool { return !ebiten.IsKeyPressed(ebiten.KeySpace) })
	g.hw = addigital.Hardware{
		Audio:  mic,
		Button: button.New(pin, clk.Now, button.DefaultInterval),
		Clock:  clk,
	}

	ebiten.SetTPS(cfg.FPS)
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("ADDigital LED simulator")
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		log.Fatal(err)
	}
}

func openSource(wavPath string, bpm float64) (audio.SampleSource, string, error) {
	if wavPath != "" {
		clip, err := audio.LoadWAV(wavPath)
		if err != nil {
			return nil, "", err
		}
		clip, err = clip.Resample(playbackRate)
		if err != nil {
			return nil, "", err
		}
		return audio.NewLooper(clip), wavPath, nil
	}
	p := synth.DefaultParams()
	if bpm > 0 {
		p.BPM = bpm
	}
	beat, err := synth.New(playbackRate, p)
	if err != nil {
		return nil, "", err
	}
	return beat, fmt.Sprintf("beat %.0f bpm", p.BPM), nil
}
