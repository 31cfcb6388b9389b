// Package spatial holds the per-session layout of streamed lights: each
// node's channel id and its 3-D position within the entertainment area.
package spatial

import (
	"fmt"
	"sort"
)

// MaxChannel is the highest valid streaming channel id.
const MaxChannel = 19

// LightNode is one light's slot in a streaming session. Coordinates are the
// bridge's normalized room coordinates in [-1,1]. Nodes are immutable for the
// session lifetime.
type LightNode struct {
	Channel uint8
	RestID  string
	X, Y, Z float64
}

// Model is the immutable set of light nodes for one session, ordered by
// channel id. It is safe for concurrent reads without synchronization.
type Model struct {
	nodes []LightNode
}

// NewModel builds a model from configuration. Nodes are sorted by channel id.
// Duplicate or out-of-range channel ids are rejected.
func NewModel(nodes []LightNode) (*Model, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("spatial model requires at least one node")
	}
	if len(nodes) > MaxChannel+1 {
		return nil, fmt.Errorf("spatial model supports at most %d nodes, got %d", MaxChannel+1, len(nodes))
	}

	sorted := make([]LightNode, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Channel < sorted[j].Channel })

	seen := make(map[uint8]bool, len(sorted))
	for _, n := range sorted {
		if n.Channel > MaxChannel {
			return nil, fmt.Errorf("channel id %d out of range (0-%d)", n.Channel, MaxChannel)
		}
		if seen[n.Channel] {
			return nil, fmt.Errorf("duplicate channel id %d", n.Channel)
		}
		seen[n.Channel] = true
	}

	return &Model{nodes: sorted}, nil
}

// Nodes returns the ordered node list. Callers must not modify it.
func (m *Model) Nodes() []LightNode {
	return m.nodes
}

// Len returns the number of nodes.
func (m *Model) Len() int {
	return len(m.nodes)
}

// HasChannel reports whether a channel id belongs to the model.
func (m *Model) HasChannel(ch uint8) bool {
	for _, n := range m.nodes {
		if n.Channel == ch {
			return true
		}
	}
	return false
}
