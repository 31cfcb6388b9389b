package spatial

import "testing"

func TestNewModel_SortsByChannel(t *testing.T) {
	m, err := NewModel([]LightNode{
		{Channel: 3, X: 0.5},
		{Channel: 0, X: -1},
		{Channel: 1, X: 1},
	})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	nodes := m.Nodes()
	if nodes[0].Channel != 0 || nodes[1].Channel != 1 || nodes[2].Channel != 3 {
		t.Errorf("nodes not sorted by channel: %+v", nodes)
	}
}

func TestNewModel_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		nodes []LightNode
	}{
		{name: "empty", nodes: nil},
		{name: "duplicate_channel", nodes: []LightNode{{Channel: 1}, {Channel: 1}}},
		{name: "channel_out_of_range", nodes: []LightNode{{Channel: 20}}},
		{name: "too_many", nodes: make21()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewModel(tt.nodes); err == nil {
				t.Error("NewModel should fail")
			}
		})
	}
}

func make21() []LightNode {
	nodes := make([]LightNode, 21)
	for i := range nodes {
		nodes[i].Channel = uint8(i)
	}
	return nodes
}

func TestHasChannel(t *testing.T) {
	m, err := NewModel([]LightNode{{Channel: 0}, {Channel: 7}})
	if err != nil {
		t.Fatal(err)
	}
	if !m.HasChannel(7) {
		t.Error("HasChannel(7) = false")
	}
	if m.HasChannel(3) {
		t.Error("HasChannel(3) = true")
	}
}
