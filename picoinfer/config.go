package picoinfer

import "fmt"

// Device selects where a model runs.
type Device int

const (
	DeviceAuto Device = iota
	DeviceCPU
	DeviceGPU
)

// String returns the CLI-facing name of the device.
func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	default:
		return "auto"
	}
}

// ParseDevice parses a CLI device name.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "", "auto":
		return DeviceAuto, nil
	case "cpu":
		return DeviceCPU, nil
	case "gpu", "cuda":
		return DeviceGPU, nil
	default:
		return DeviceAuto, fmt.Errorf("%w: unknown device %q (want cpu, gpu or auto)", ErrInvalidConfig, s)
	}
}

// GenerationConfig holds the parameters for a single generation call.
// It is immutable once a call starts.
type GenerationConfig struct {
	MaxLength   int
	Temperature float64
	Device      Device
}

// GenerationOption is a functional option for GenerationConfig.
type GenerationOption func(*GenerationConfig)

// NewGenerationConfig creates a GenerationConfig with default values.
// Defaults match the original harness: 100 tokens at temperature 0.7.
func NewGenerationConfig(opts ...GenerationOption) (GenerationConfig, error) {
	cfg := GenerationConfig{
		MaxLength:   100,
		Temperature: 0.7,
		Device:      DeviceAuto,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return GenerationConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration. A non-positive temperature is a
// configuration error, never silently clamped.
func (c GenerationConfig) Validate() error {
	if c.MaxLength <= 0 {
		return fmt.Errorf("%w: max length must be positive, got %d", ErrInvalidConfig, c.MaxLength)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("%w: temperature must be positive, got %g", ErrInvalidConfig, c.Temperature)
	}
	return nil
}

// WithMaxLength sets the maximum number of tokens to generate.
func WithMaxLength(n int) GenerationOption {
	return func(c *GenerationConfig) {
		c.MaxLength = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GenerationOption {
	return func(c *GenerationConfig) {
		c.Temperature = t
	}
}

// WithDevice sets the target compute device.
func WithDevice(d Device) GenerationOption {
	return func(c *GenerationConfig) {
		c.Device = d
	}
}
