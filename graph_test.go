package flipbook

import "testing"

func TestCloneIsDeep(t *testing.T) {
	g := NewGraphState()
	g.Nodes[1] = &GraphNode{X: 10, Y: 20, Radius: 5}
	g.Edges = append(g.Edges, GraphEdge{From: 1, To: 1, Color: ColorWhite, Weight: 2})
	g.ZigzagSpacing = 8
	g.ZigzagLength = 3
	g.ZigzagEndLength = 12

	c := g.Clone()
	c.Nodes[1].X = 99
	c.Edges[0].Weight = 7
	c.Nodes[2] = &GraphNode{}

	if g.Nodes[1].X != 10 {
		t.Errorf("clone node mutation leaked: X = %f, want 10", g.Nodes[1].X)
	}
	if g.Edges[0].Weight != 2 {
		t.Errorf("clone edge mutation leaked: weight = %f, want 2", g.Edges[0].Weight)
	}
	if len(g.Nodes) != 1 {
		t.Errorf("clone insertion leaked: %d nodes, want 1", len(g.Nodes))
	}
	if c.ZigzagSpacing != 8 || c.ZigzagLength != 3 || c.ZigzagEndLength != 12 {
		t.Errorf("zigzag style not cloned: %f %f %f", c.ZigzagSpacing, c.ZigzagLength, c.ZigzagEndLength)
	}
}

func TestAdoptNodesReseedsWorkingGraph(t *testing.T) {
	src := NewGraphState()
	src.Nodes[1] = &GraphNode{X: 10}
	src.Nodes[2] = &GraphNode{X: 20}
	src.ZigzagSpacing = 8

	working := NewGraphState()
	working.Nodes[1] = &GraphNode{X: 999}
	working.Nodes[9] = &GraphNode{} // stale, must go
	working.Edges = append(working.Edges, GraphEdge{From: 1, To: 9})

	working.adoptNodes(src)

	if len(working.Nodes) != 2 {
		t.Fatalf("nodes after adopt = %d, want 2", len(working.Nodes))
	}
	if _, ok := working.Nodes[9]; ok {
		t.Error("stale node 9 survived adopt")
	}
	if working.Nodes[1].X != 10 {
		t.Errorf("node 1 X = %f, want re-seeded 10", working.Nodes[1].X)
	}
	if working.ZigzagSpacing != 8 {
		t.Errorf("zigzag spacing = %f, want adopted 8", working.ZigzagSpacing)
	}
	// Topology is the scene builder's business, not adopt's.
	if len(working.Edges) != 1 {
		t.Errorf("edges after adopt = %d, want untouched 1", len(working.Edges))
	}

	// Adopted nodes are copies: mutating the working graph must not write
	// back into the source snapshot.
	working.Nodes[2].X = 777
	if src.Nodes[2].X != 20 {
		t.Errorf("adopt aliased source node: X = %f, want 20", src.Nodes[2].X)
	}
}

func TestEdgeKeyUndirected(t *testing.T) {
	a := GraphEdge{From: 3, To: 7, Color: ColorWhite, Weight: 1}
	b := GraphEdge{From: 7, To: 3, Color: ColorWhite, Weight: 5}
	if a.key() != b.key() {
		t.Error("reversed edge keys differ, want equal")
	}
	c := GraphEdge{From: 3, To: 7, Color: ColorBlack}
	if a.key() == c.key() {
		t.Error("recolored edge keys equal, want distinct")
	}
}

func TestArrowKeyDirected(t *testing.T) {
	a := GraphArrow{From: 3, To: 7, Color: ColorWhite}
	b := GraphArrow{From: 7, To: 3, Color: ColorWhite}
	if a.key() == b.key() {
		t.Error("reversed arrow keys equal, want distinct")
	}
	// Head flags are presentation, not identity.
	c := GraphArrow{From: 3, To: 7, Color: ColorWhite, HeadAtEnd: true}
	if a.key() != c.key() {
		t.Error("head flag changed arrow identity")
	}
}
