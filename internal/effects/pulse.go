package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// Pulse dims a single color across all channels following the music: the
// brightness tracks bass weighted by overall energy.
type Pulse struct {
	Color color.RGB
}

// NewPulse creates a bass-following pulse effect.
func NewPulse(c color.RGB) *Pulse {
	return &Pulse{Color: c}
}

// Update scales the pulse color by the current bass level.
func (e *Pulse) Update(spec audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	c := e.Color.Scale(spec.Bass * spec.Energy)
	out := make(map[uint8]color.RGB, len(nodes))
	for _, n := range nodes {
		out[n.Channel] = c
	}
	return out
}
