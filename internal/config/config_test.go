package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
hue:
  bridge: 192.168.1.10
  app_key: testkey
  client_key: DEADBEEF
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Hue.Bridge != "192.168.1.10" {
		t.Errorf("bridge = %q, want 192.168.1.10", cfg.Hue.Bridge)
	}
	if cfg.Hue.Timeout.Duration() != 30*time.Second {
		t.Errorf("hue timeout = %v, want 30s", cfg.Hue.Timeout.Duration())
	}
	if cfg.Stream.RateHz != 50.0 {
		t.Errorf("rate_hz = %v, want 50", cfg.Stream.RateHz)
	}
	if cfg.Stream.ColorSpace != "rgb" {
		t.Errorf("color_space = %q, want rgb", cfg.Stream.ColorSpace)
	}
	if cfg.Stream.SendTimeout.Duration() != 100*time.Millisecond {
		t.Errorf("send_timeout = %v, want 100ms", cfg.Stream.SendTimeout.Duration())
	}
	if cfg.Audio.FFTSize != 1024 {
		t.Errorf("fft_size = %d, want 1024", cfg.Audio.FFTSize)
	}
	if cfg.Effect.Name != "area" {
		t.Errorf("effect name = %q, want area", cfg.Effect.Name)
	}
	if cfg.Effect.MaxFlashHz != 5.0 {
		t.Errorf("max_flash_hz = %v, want 5", cfg.Effect.MaxFlashHz)
	}
	if cfg.Effect.Color != (RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("effect color = %+v, want white", cfg.Effect.Color)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.ShutdownTimeout.Duration() != 5*time.Second {
		t.Errorf("shutdown_timeout = %v, want 5s", cfg.ShutdownTimeout.Duration())
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
hue:
  bridge: hue.local
  timeout: 10s
stream:
  rate_hz: 60
  color_space: xy
  send_timeout: 50ms
audio:
  enabled: true
  file: track.wav
  fft_size: 2048
effect:
  name: strobe
  freq_hz: 4
  max_flash_hz: 3
  color:
    r: 255
    g: 0
    b: 64
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Hue.Timeout.Duration() != 10*time.Second {
		t.Errorf("hue timeout = %v, want 10s", cfg.Hue.Timeout.Duration())
	}
	if cfg.Stream.RateHz != 60 {
		t.Errorf("rate_hz = %v, want 60", cfg.Stream.RateHz)
	}
	if cfg.Stream.ColorSpace != "xy" {
		t.Errorf("color_space = %q, want xy", cfg.Stream.ColorSpace)
	}
	if !cfg.Audio.Enabled || cfg.Audio.File != "track.wav" || cfg.Audio.FFTSize != 2048 {
		t.Errorf("audio = %+v, want enabled track.wav 2048", cfg.Audio)
	}
	if cfg.Effect.Name != "strobe" || cfg.Effect.FreqHz != 4 || cfg.Effect.MaxFlashHz != 3 {
		t.Errorf("effect = %+v", cfg.Effect)
	}
	if cfg.Effect.Color != (RGB{R: 255, G: 0, B: 64}) {
		t.Errorf("effect color = %+v, want {255 0 64}", cfg.Effect.Color)
	}
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("TEST_HUE_BRIDGE", "10.0.0.5")

	path := writeConfig(t, `
hue:
  bridge: ${TEST_HUE_BRIDGE}
  app_key: ${TEST_HUE_APP_KEY:fallback-key}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Hue.Bridge != "10.0.0.5" {
		t.Errorf("bridge = %q, want 10.0.0.5", cfg.Hue.Bridge)
	}
	if cfg.Hue.AppKey != "fallback-key" {
		t.Errorf("app_key = %q, want fallback-key", cfg.Hue.AppKey)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := writeConfig(t, `
hue:
  timeout: not-a-duration
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
