package ambience

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration of a Stage.
type Config struct {
	// Background holds 2–3 hex colors for the generative background.
	Background []string `yaml:"background"`
	// Intensity is the alpha of the procedural field.
	Intensity float64 `yaml:"intensity"`
	// Viewport is the default membership threshold for mounted elements.
	Viewport ThresholdConfig `yaml:"viewport"`
	// BackgroundTimeScale and DistortionTimeScale scale the render clock.
	BackgroundTimeScale float64 `yaml:"background_time_scale"`
	DistortionTimeScale float64 `yaml:"distortion_time_scale"`
	// ReducedMotion forces the accessibility preference on desktop, where
	// the platform does not report one.
	ReducedMotion bool `yaml:"reduced_motion"`
	// DeviceMemoryGB overrides the probed memory size. Zero probes.
	DeviceMemoryGB float64 `yaml:"device_memory_gb"`
	// FPS is the rate springs are integrated at.
	FPS int `yaml:"fps"`
	// Debug enables debug mode.
	Debug bool `yaml:"debug"`
	// Audio enables the ambient audio collaborator at startup.
	Audio bool `yaml:"audio"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Background:          []string{"#F5F5F0", "#F0F0E8", "#E8E8E0"},
		Intensity:           0.1,
		Viewport:            DefaultThreshold(),
		BackgroundTimeScale: BackgroundTimeScale,
		DistortionTimeScale: DistortionTimeScale,
		FPS:                 60,
	}
}

// LoadConfig parses YAML over DefaultConfig and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate reports the first invalid field. Every error wraps
// ErrInvalidConfig.
func (c Config) Validate() error {
	if n := len(c.Background); n < 2 || n > 3 {
		return fmt.Errorf("%w: background needs 2 or 3 colors, got %d", ErrInvalidConfig, n)
	}
	for i, h := range c.Background {
		if !hexColor.MatchString(h) {
			return fmt.Errorf("%w: background[%d] %q is not a hex color", ErrInvalidConfig, i, h)
		}
	}
	if c.Intensity < 0 || c.Intensity > 1 {
		return fmt.Errorf("%w: intensity %v outside [0, 1]", ErrInvalidConfig, c.Intensity)
	}
	if c.Viewport.Threshold < 0 || c.Viewport.Threshold > 1 {
		return fmt.Errorf("%w: viewport threshold %v outside [0, 1]", ErrInvalidConfig, c.Viewport.Threshold)
	}
	if c.BackgroundTimeScale <= 0 || c.DistortionTimeScale <= 0 {
		return fmt.Errorf("%w: time scales must be positive", ErrInvalidConfig)
	}
	if c.DeviceMemoryGB < 0 {
		return fmt.Errorf("%w: device memory %v is negative", ErrInvalidConfig, c.DeviceMemoryGB)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, c.FPS)
	}
	return nil
}

// Colors parses the background palette.
func (c Config) Colors() []Color {
	out := make([]Color, len(c.Background))
	for i, h := range c.Background {
		out[i] = ParseHex(h)
	}
	return out
}
