package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Hue             HueConfig         `yaml:"hue"`
	Stream          StreamConfig      `yaml:"stream"`
	Audio           AudioConfig       `yaml:"audio"`
	Effect          EffectConfig      `yaml:"effect"`
	Database        DatabaseConfig    `yaml:"database"`
	Log             LogConfig         `yaml:"log"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// HueConfig contains Hue bridge connection settings
type HueConfig struct {
	Bridge              string   `yaml:"bridge"`
	AppKey              string   `yaml:"app_key"`
	ClientKey           string   `yaml:"client_key"`
	EntertainmentConfig string   `yaml:"entertainment_config"` // Entertainment configuration UUID, empty = first available
	Timeout             Duration `yaml:"timeout"`              // HTTP timeout for Hue API requests
	RateLimitRPS        float64  `yaml:"rate_limit_rps"`       // REST request rate limit (default: 10)
}

// StreamConfig contains entertainment streaming settings
type StreamConfig struct {
	RateHz           float64  `yaml:"rate_hz"`           // Frames per second (default: 50)
	ColorSpace       string   `yaml:"color_space"`       // "rgb" or "xy" (default: rgb)
	HandshakeTimeout Duration `yaml:"handshake_timeout"` // DTLS handshake timeout (default: 5s)
	SendTimeout      Duration `yaml:"send_timeout"`      // Per-frame write deadline (default: 100ms)
}

// AudioConfig contains audio analysis settings
type AudioConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`     // WAV file to analyze
	FFTSize int    `yaml:"fft_size"` // FFT block size, power of two (default: 1024)
}

// EffectConfig contains effect selection and parameters
type EffectConfig struct {
	Name       string  `yaml:"name"`         // area, multichannel, lightsource, iterator, strobe, gradient, pulse, multiband, lua
	Color      RGB     `yaml:"color"`        // Primary color for single-color effects
	ColorEnd   RGB     `yaml:"color_end"`    // Gradient end color
	Radius     float64 `yaml:"radius"`       // Light source falloff radius (default: 1.0)
	FreqHz     float64 `yaml:"freq_hz"`      // Strobe frequency (default: 2)
	HoldTicks  int     `yaml:"hold_ticks"`   // Iterator ticks per light (default: 10)
	Script     string  `yaml:"script"`       // Lua effect script path
	MaxFlashHz float64 `yaml:"max_flash_hz"` // Flash safety ceiling (default: 5)
}

// RGB is an 8-bit color triple for YAML configuration
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./huestreamd.sqlite"
	}

	// Hue defaults
	if cfg.Hue.Timeout == 0 {
		cfg.Hue.Timeout = Duration(30 * time.Second)
	}
	if cfg.Hue.RateLimitRPS == 0 {
		cfg.Hue.RateLimitRPS = 10.0 // 10 requests per second
	}

	// Stream defaults
	if cfg.Stream.RateHz == 0 {
		cfg.Stream.RateHz = 50.0
	}
	if cfg.Stream.ColorSpace == "" {
		cfg.Stream.ColorSpace = "rgb"
	}
	if cfg.Stream.HandshakeTimeout == 0 {
		cfg.Stream.HandshakeTimeout = Duration(5 * time.Second)
	}
	if cfg.Stream.SendTimeout == 0 {
		cfg.Stream.SendTimeout = Duration(100 * time.Millisecond)
	}

	// Audio defaults
	if cfg.Audio.FFTSize == 0 {
		cfg.Audio.FFTSize = 1024
	}

	// Effect defaults
	if cfg.Effect.Name == "" {
		cfg.Effect.Name = "area"
	}
	if cfg.Effect.Color == (RGB{}) {
		cfg.Effect.Color = RGB{R: 255, G: 255, B: 255}
	}
	if cfg.Effect.Radius == 0 {
		cfg.Effect.Radius = 1.0
	}
	if cfg.Effect.FreqHz == 0 {
		cfg.Effect.FreqHz = 2.0
	}
	if cfg.Effect.HoldTicks == 0 {
		cfg.Effect.HoldTicks = 10
	}
	if cfg.Effect.MaxFlashHz == 0 {
		cfg.Effect.MaxFlashHz = 5.0
	}

	// Healthcheck defaults
	if cfg.Healthcheck.Port == 0 {
		cfg.Healthcheck.Port = 9090
	}
	if cfg.Healthcheck.Host == "" {
		cfg.Healthcheck.Host = "0.0.0.0"
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
