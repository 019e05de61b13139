package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	addigital "github.com/emoryta/ADDigitalProj"
	"github.com/emoryta/ADDigitalProj/internal/audio"
	"github.com/emoryta/ADDigitalProj/internal/button"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/render"
	"github.com/emoryta/ADDigitalProj/internal/synth"
)

const playbackRate = 48000

// monoSource is what both the built-in beat and a looped WAV provide.
type monoSource interface {
	audio.SampleSource
	audio.MonoSource
}

type options struct {
	wavPath string
	bpm     float64
	seed    int64
	mute    bool
	logPath string
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML tuning file")
		wavPath    = flag.String("wav", "", "loop a WAV file instead of the built-in beat")
		startMode  = flag.String("mode", "", "starting mode, e.g. sound_bar")
		variant    = flag.String("variant", "", "full or basic")
		seed       = flag.Int64("seed", 1, "sparkle random seed")
		bpm        = flag.Float64("bpm", 0, "tempo of the built-in beat")
		mute       = flag.Bool("mute", false, "feed the signal straight to the engine without playing it")
		logPath    = flag.String("log", "", "write the debug log to this file")
		selfTest   = flag.Bool("selftest", false, "run the LED self test pattern")
		dump       = flag.Int("dump", 0, "render N frames offline and print them")
		presses    = flag.String("press", "", "comma separated frames that press the button during -dump")
		export     = flag.String("export", "", "write the built-in beat to this WAV file")
		seconds    = flag.Float64("seconds", 8, "length of -export")
		showConfig = flag.Bool("show-config", false, "print the effective configuration as YAML")
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
	opts := options{wavPath: *wavPath, bpm: *bpm, seed: *seed, mute: *mute, logPath: *logPath}

	var err error
	switch {
	case *showConfig:
		var out []byte
		out, err = cfg.Marshal()
		os.Stdout.Write(out)
	case *export != "":
		err = exportBeat(*export, opts, *seconds)
	case *dump > 0:
		err = dumpFrames(cfg, opts, *dump, *presses)
	case *selfTest:
		err = runSelfTest(cfg)
	default:
		err = runInteractive(cfg, opts)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func openSource(rate int, opts options) (monoSource, string, error) {
	if opts.wavPath != "" {
		clip, err := audio.LoadWAV(opts.wavPath)
		if err != nil {
			return nil, "", err
		}
		clip, err = clip.Resample(rate)
		if err != nil {
			return nil, "", err
		}
		return audio.NewLooper(clip), opts.wavPath, nil
	}
	p := synth.DefaultParams()
	if opts.bpm > 0 {
		p.BPM = opts.bpm
	}
	beat, err := synth.New(rate, p)
	if err != nil {
		return nil, "", err
	}
	return beat, fmt.Sprintf("beat %.0f bpm", p.BPM), nil
}

func openLog(path string, debug bool) (*slog.Logger, func(), error) {
	if path == "" {
		return addigital.NewLogger(io.Discard, false), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return addigital.NewLogger(f, debug), func() { f.Close() }, nil
}

func runInteractive(cfg addigital.Config, opts options) error {
	logger, closeLog, err := openLog(opts.logPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	clk := addigital.NewSystemClock()
	var mic addigital.AudioSource
	var player *audio.OtoPlayer
	var name string
	if opts.mute {
		src, n, err := openSource(cfg.SampleRate, opts)
		if err != nil {
			return err
		}
		mic, name = audio.NewBlocks(src).WithPickup(audio.DefaultPickup), n
	} else {
		src, n, err := openSource(playbackRate, opts)
		if err != nil {
			return err
		}
		m, err := audio.NewMic(playbackRate, cfg.SampleRate, cfg.Samples*8)
		if err != nil {
			return err
		}
		defer m.Close()
		m.SetPickup(audio.DefaultPickup)
		player, err = audio.NewOtoPlayer(playbackRate, src, m.Tap)
		if err != nil {
			return fmt.Errorf("%w (try -mute)", err)
		}
		mic, name = m, n
	}

	scr := newScreen(os.Stdout, cfg.LEDsPerSide, nil)
	u, err := addigital.NewTopology(cfg, scr.left, scr.right)
	if err != nil {
		return err
	}
	e, err := addigital.NewEngine(cfg, u,
		addigital.WithRand(rand.New(rand.NewSource(opts.seed))),
		addigital.WithLogger(logger))
	if err != nil {
		return err
	}
	scr.info = engineInfo(e, name)

	kb, err := openKeyboard()
	if err != nil {
		return err
	}
	defer kb.Close()

	pin := button.NewMomentary(clk.Now, 80*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleKeys(kb, pin.Press, cancel)

	if player != nil {
		player.Play()
		defer player.Stop()
	}
	scr.begin()
	defer scr.end()

	err = e.Run(ctx, addigital.Hardware{
		Audio:  mic,
		Button: button.New(pin, clk.Now, button.DefaultInterval),
		Clock:  clk,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func handleKeys(kb *keyboard, press, quit func()) {
	for k := range kb.Keys() {
		switch k {
		case ' ', '\r':
			press()
		case 'q', 'Q', 3:
			quit()
			return
		}
	}
	quit()
}

func runSelfTest(cfg addigital.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	st := render.NewSelfTest()
	scr := newScreen(os.Stdout, cfg.LEDsPerSide, func() []string {
		return []string{"self test", fmt.Sprintf("period %.2fs", st.Period(cfg.LEDsPerSide))}
	})
	u, err := addigital.NewTopology(cfg, scr.left, scr.right)
	if err != nil {
		return err
	}
	kb, err := openKeyboard()
	if err != nil {
		return err
	}
	defer kb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleKeys(kb, func() {}, cancel)

	scr.begin()
	defer scr.end()

	clk := addigital.NewSystemClock()
	budget := time.Second / time.Duration(cfg.FPS)
	for ctx.Err() == nil {
		start := clk.Now()
		st.Render(render.Frame{Clock: render.Clock{Now: start.Seconds()}}, u)
		u.Show()
		addigital.Pace(clk, start, budget)
	}
	return nil
}

func dumpFrames(cfg addigital.Config, opts options, frames int, presses string) error {
	at, err := parseFrames(presses)
	if err != nil {
		return err
	}
	src, _, err := openSource(cfg.SampleRate, opts)
	if err != nil {
		return err
	}
	mic := audio.NewBlocks(src).WithPickup(audio.DefaultPickup)
	logger, closeLog, err := openLog(opts.logPath, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	out, err := addigital.RenderOffline(cfg, mic, frames, at,
		addigital.WithRand(rand.New(rand.NewSource(opts.seed))),
		addigital.WithLogger(logger))
	if err != nil {
		return err
	}
	for i, f := range out {
		fmt.Printf("%5d %-15s n=%.3f p=%.3f g=%.2f %s\n",
			i, f.Mode, f.Signals.Loudness, f.Signals.Punch, f.Signals.AutoGain, hexFrame(f.Pixels))
	}
	return nil
}

func parseFrames(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("press frame %q: %w", field, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func exportBeat(path string, opts options, seconds float64) error {
	const rate = 44100
	src, _, err := openSource(rate, opts)
	if err != nil {
		return err
	}
	samples := make([]float32, int(seconds*rate))
	src.Mono(samples)
	if err := audio.WriteWAV(path, &audio.Clip{SampleRate: rate, Samples: samples}); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%.1fs)\n", path, seconds)
	return nil
}
