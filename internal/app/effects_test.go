package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dokzlo13/huestreamd/internal/config"
	"github.com/dokzlo13/huestreamd/internal/protocol"
)

func TestBuildEffect(t *testing.T) {
	names := []string{"area", "multichannel", "lightsource", "iterator", "strobe", "gradient", "pulse", "multiband"}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg := &config.EffectConfig{
				Name:      name,
				Color:     config.RGB{R: 255},
				ColorEnd:  config.RGB{B: 255},
				Radius:    1.0,
				FreqHz:    2.0,
				HoldTicks: 10,
			}
			eff, err := BuildEffect(cfg, 50.0)
			if err != nil {
				t.Fatalf("BuildEffect(%s) failed: %v", name, err)
			}
			if eff == nil {
				t.Fatalf("BuildEffect(%s) returned nil effect", name)
			}
		})
	}
}

func TestBuildEffectUnknown(t *testing.T) {
	if _, err := BuildEffect(&config.EffectConfig{Name: "disco"}, 50.0); err == nil {
		t.Fatal("expected error for unknown effect")
	}
}

func TestBuildEffectLua(t *testing.T) {
	if _, err := BuildEffect(&config.EffectConfig{Name: "lua"}, 50.0); err == nil {
		t.Fatal("expected error for lua effect without script")
	}

	script := filepath.Join(t.TempDir(), "effect.lua")
	src := `function update(audio, nodes)
	local colors = {}
	for i, node in ipairs(nodes) do
		colors[node.channel] = {0, 0, 255}
	end
	return colors
end`
	if err := os.WriteFile(script, []byte(src), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	eff, err := BuildEffect(&config.EffectConfig{Name: "lua", Script: script}, 50.0)
	if err != nil {
		t.Fatalf("BuildEffect(lua) failed: %v", err)
	}
	if eff == nil {
		t.Fatal("BuildEffect(lua) returned nil effect")
	}
}

func TestParseColorSpace(t *testing.T) {
	tests := []struct {
		name    string
		want    protocol.ColorSpace
		wantErr bool
	}{
		{name: "rgb", want: protocol.ColorSpaceRGB},
		{name: "xy", want: protocol.ColorSpaceXY},
		{name: "hsv", wantErr: true},
		{name: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseColorSpace(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseColorSpace(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseColorSpace(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseColorSpace(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
