package app

import (
	"fmt"

	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/config"
	"github.com/dokzlo13/huestreamd/internal/effects"
)

// BuildEffect constructs the configured effect. tickHz is the engine tick
// rate, needed by tick-phased effects like strobe.
func BuildEffect(cfg *config.EffectConfig, tickHz float64) (effects.Effect, error) {
	primary := color.RGB{R: cfg.Color.R, G: cfg.Color.G, B: cfg.Color.B}
	secondary := color.RGB{R: cfg.ColorEnd.R, G: cfg.ColorEnd.G, B: cfg.ColorEnd.B}

	switch cfg.Name {
	case "area":
		return effects.NewArea(primary), nil
	case "multichannel":
		return effects.NewMultiChannel([]color.RGB{primary, secondary}), nil
	case "lightsource":
		return effects.NewLightSource(primary, 0, 0, 0, cfg.Radius), nil
	case "iterator":
		return effects.NewLightIterator(primary, cfg.HoldTicks), nil
	case "strobe":
		return effects.NewStrobe(primary, cfg.FreqHz, tickHz), nil
	case "gradient":
		return effects.NewSpatialGradient(primary, secondary), nil
	case "pulse":
		return effects.NewPulse(primary), nil
	case "multiband":
		return effects.NewMultiBand(), nil
	case "lua":
		if cfg.Script == "" {
			return nil, fmt.Errorf("lua effect requires effect.script")
		}
		return effects.NewLuaEffect(cfg.Script)
	default:
		return nil, fmt.Errorf("unknown effect %q", cfg.Name)
	}
}
