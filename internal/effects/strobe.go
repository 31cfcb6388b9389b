package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// Strobe toggles all channels between a color and black at a fixed
// frequency. The phase accumulator advances by FreqHz/tickHz per update, so
// the duty cycle is 50% regardless of tick rate.
//
// Strobe implements FlashRater and FlashLimiter; the engine clamps FreqHz to
// the configured photosensitivity ceiling before activation.
type Strobe struct {
	Color  color.RGB
	FreqHz float64

	tickHz float64
	phase  float64
}

// NewStrobe creates a strobe effect. tickHz is the engine's tick rate, used
// to advance the phase per update.
func NewStrobe(c color.RGB, freqHz, tickHz float64) *Strobe {
	if tickHz <= 0 {
		tickHz = 50
	}
	if freqHz < 0 {
		freqHz = 0
	}
	return &Strobe{Color: c, FreqHz: freqHz, tickHz: tickHz}
}

// FlashHz returns the configured strobe frequency.
func (e *Strobe) FlashHz() float64 {
	return e.FreqHz
}

// LimitFlashHz clamps the strobe frequency to max.
func (e *Strobe) LimitFlashHz(max float64) {
	if e.FreqHz > max {
		e.FreqHz = max
	}
}

// Update toggles the output according to the current phase.
func (e *Strobe) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	on := e.phase < 0.5
	e.phase += e.FreqHz / e.tickHz
	for e.phase >= 1 {
		e.phase -= 1
	}

	c := color.Black
	if on {
		c = e.Color
	}
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		out[n.Channel] = c
	}
	return out
}
