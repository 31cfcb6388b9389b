// Package effects implements the lighting effects driven by the engine.
//
// An effect maps the latest audio spectrum and the session's light layout to
// a per-channel color. Effects own whatever mutable state they need (phase
// accumulators, chase positions); instances are not shared and are only ever
// called from the engine's tick loop.
package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// Effect produces one channel→color mapping per tick.
type Effect interface {
	Update(spec audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB
}

// FlashRater is implemented by effects with a perceptual flash frequency.
// The engine consults it before activation to enforce the photosensitivity
// ceiling.
type FlashRater interface {
	FlashHz() float64
}

// FlashLimiter is implemented by effects whose flash frequency can be
// clamped. Effects that implement FlashRater but not FlashLimiter are
// rejected outright when over the ceiling.
type FlashLimiter interface {
	LimitFlashHz(max float64)
}
