package effects

import (
	"github.com/dokzlo13/huestreamd/internal/audio"
	"github.com/dokzlo13/huestreamd/internal/color"
	"github.com/dokzlo13/huestreamd/internal/spatial"
)

// MultiChannel distributes a set of virtual color sources across the
// channels in node order: node i takes source i mod N.
type MultiChannel struct {
	Sources []color.RGB
}

// NewMultiChannel creates a source-distribution effect. At least one source
// color is required; a nil or empty set renders black.
func NewMultiChannel(sources []color.RGB) *MultiChannel {
	return &MultiChannel{Sources: sources}
}

// Update assigns each node its source color.
func (e *MultiChannel) Update(_ audio.Spectrum, nodes []spatial.LightNode) map[uint8]color.RGB {
	out := make(map[uint8]color.RGB, len(nodes))
	for i, n := range nodes {
		if len(e.Sources) == 0 {
			out[n.Channel] = color.Black
			continue
		}
		out[n.Channel] = e.Sources[i%len(e.Sources)]
	}
	return out
}
