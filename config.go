package addigital

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/emoryta/ADDigitalProj/internal/envelope"
	"github.com/emoryta/ADDigitalProj/internal/mode"
	"github.com/emoryta/ADDigitalProj/internal/render"
)

// Variant selects between the full mode list with adaptive gain and punch,
// and the reduced list that runs at fixed gain.
type Variant string

const (
	VariantFull  Variant = "full"
	VariantBasic Variant = "basic"
)

// ParseVariant accepts a variant name in any case.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VariantFull, VariantBasic:
		return v, nil
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// Config holds every load-time constant of the light engine.
type Config struct {
	FPS         int     `yaml:"fps"`
	LEDsPerSide int     `yaml:"leds_per_side"`
	Brightness  float64 `yaml:"brightness"`
	AutoWrite   bool    `yaml:"auto_write"`

	SampleRate int `yaml:"sample_rate"`
	Samples    int `yaml:"samples"`

	Envelope envelope.Params `yaml:"envelope"`
	Render   render.Params   `yaml:"render"`

	StartMode mode.Mode `yaml:"start_mode"`
	Variant   Variant   `yaml:"variant"`
	Debug     bool      `yaml:"debug"`
}

// DefaultConfig matches the installed piece: 5 LEDs per side at 60 FPS.
func DefaultConfig() Config {
	return Config{
		FPS:         60,
		LEDsPerSide: 5,
		Brightness:  0.35,
		SampleRate:  16000,
		Samples:     320,
		Envelope:    envelope.DefaultParams(),
		Render:      render.DefaultParams(),
		StartMode:   mode.SoundBar,
		Variant:     VariantFull,
		Debug:       true,
	}
}

// ModeSet is the button cycle for the configured variant.
func (c Config) ModeSet() mode.Set {
	if c.Variant == VariantBasic {
		return mode.BasicSet
	}
	return mode.FullSet
}

// EnvelopeParams applies the variant to the envelope settings.
func (c Config) EnvelopeParams() envelope.Params {
	p := c.Envelope
	if c.Variant == VariantBasic {
		p.AutoGain = false
		p.PunchBoost = 0
	}
	return p
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.LEDsPerSide <= 0 {
		errs = append(errs, fmt.Errorf("leds_per_side must be positive, got %d", c.LEDsPerSide))
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		errs = append(errs, fmt.Errorf("brightness must be in [0, 1], got %v", c.Brightness))
	}
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate))
	}
	if c.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	switch c.Variant {
	case VariantFull, VariantBasic:
	default:
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if !c.ModeSet().Contains(c.StartMode) {
		errs = append(errs, fmt.Errorf("start_mode %v is not available in the %s variant", c.StartMode, c.Variant))
	}
	if c.Render.PeakFall < 0 {
		errs = append(errs, fmt.Errorf("render.peak_fall must not be negative, got %v", c.Render.PeakFall))
	}
	if err := c.EnvelopeParams().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("envelope: %w", err))
	}
	return errors.Join(errs...)
}

// ParseConfig overlays YAML onto the defaults. Keys that are absent keep
// their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(string(data)) != "" {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Variant = Variant(strings.ToLower(string(cfg.Variant)))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML tuning file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders the config as YAML that ParseConfig reads back.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
