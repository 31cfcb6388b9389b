package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// LightIterator chases a single lit channel through the nodes in order,
// advancing every HoldTicks updates.
type LightIterator struct {
	Color     color.RGB
	HoldTicks int

	pos   int
	ticks int
}

// NewLightIterator creates a chase effect. holdTicks is how many updates
// each node stays lit; values below 1 are treated as 1.
func NewLightIterator(c color.RGB, holdTicks int) *LightIterator {
	if holdTicks < 1 {
		holdTicks = 1
	}
	return &LightIterator{Color: c, HoldTicks: holdTicks}
}

// Update lights the current node and darkens the rest.
func (e *LightIterator) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	if e.pos >= len(nodes) {
		e.pos = 0
	}
	for i, n := range nodes {
		if i == e.pos {
			out[n.Channel] = e.Color
		} else {
			out[n.Channel] = color.Black
		}
	}

	e.ticks++
	if e.ticks >= e.HoldTicks {
		e.ticks = 0
		e.pos = (e.pos + 1) % len(nodes)
	}
	return out
}
