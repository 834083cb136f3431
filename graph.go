package flipbook

// NodeID identifies a graph node. IDs are assigned by the host and must be
// unique within one GraphState.
type NodeID int

// GraphNode is one node of a polymer graph snapshot.
type GraphNode struct {
	X, Y        float64
	Radius      float64
	StrokeWidth float64
	Fill        Color
	Stroke      Color
}

// Pos returns the node position as a Vec2.
func (n *GraphNode) Pos() Vec2 {
	return Vec2{n.X, n.Y}
}

// GraphEdge is an undirected bond between two nodes. Identity for diffing is
// (min(From,To), max(From,To), Color); Weight changes alone are not detected
// as structural changes.
type GraphEdge struct {
	From, To NodeID
	Color    Color
	Weight   float64
}

// GraphArrow is a directed annotation between two nodes. Identity for diffing
// is (From, To, Color).
type GraphArrow struct {
	From, To    NodeID
	Color       Color
	Width       float64
	HeadAtStart bool
	HeadAtEnd   bool
}

// GraphState is an immutable-at-a-point-in-time snapshot of the diagram.
// Every edge and arrow endpoint must exist in Nodes by render time; violating
// that is a caller error.
//
// The zigzag fields are rendering-style parameters captured with the
// snapshot, so historical cels render with the style that was active when
// they were taken. A zero ZigzagSpacing means edges draw as straight lines.
type GraphState struct {
	Nodes  map[NodeID]*GraphNode
	Edges  []GraphEdge
	Arrows []GraphArrow

	ZigzagSpacing   float64
	ZigzagLength    float64
	ZigzagEndLength float64
}

// NewGraphState returns an empty snapshot ready for node insertion.
func NewGraphState() *GraphState {
	return &GraphState{Nodes: make(map[NodeID]*GraphNode)}
}

// Clone deep-copies the snapshot. Session capture and encode both clone, so
// the host may keep mutating its live graph freely.
func (g *GraphState) Clone() *GraphState {
	c := &GraphState{
		Nodes:           make(map[NodeID]*GraphNode, len(g.Nodes)),
		Edges:           append([]GraphEdge(nil), g.Edges...),
		Arrows:          append([]GraphArrow(nil), g.Arrows...),
		ZigzagSpacing:   g.ZigzagSpacing,
		ZigzagLength:    g.ZigzagLength,
		ZigzagEndLength: g.ZigzagEndLength,
	}
	for id, n := range g.Nodes {
		cn := *n
		c.Nodes[id] = &cn
	}
	return c
}

// adoptNodes resets the graph's node set to a deep copy of src's nodes and
// takes over src's zigzag style. Edges and arrows are left for the transition
// scene to restrict. Used by encode to re-seed the working graph each frame.
func (g *GraphState) adoptNodes(src *GraphState) {
	if g.Nodes == nil {
		g.Nodes = make(map[NodeID]*GraphNode, len(src.Nodes))
	}
	for id := range g.Nodes {
		if _, ok := src.Nodes[id]; !ok {
			delete(g.Nodes, id)
		}
	}
	for id, n := range src.Nodes {
		cn := *n
		g.Nodes[id] = &cn
	}
	g.ZigzagSpacing = src.ZigzagSpacing
	g.ZigzagLength = src.ZigzagLength
	g.ZigzagEndLength = src.ZigzagEndLength
}

// edgeKey is the structural identity of an undirected edge.
type edgeKey struct {
	lo, hi NodeID
	color  Color
}

// arrowKey is the structural identity of a directed arrow.
type arrowKey struct {
	from, to NodeID
	color    Color
}

func (e GraphEdge) key() edgeKey {
	lo, hi := e.From, e.To
	if lo > hi {
		lo, hi = hi, lo
	}
	return edgeKey{lo: lo, hi: hi, color: e.Color}
}

func (a GraphArrow) key() arrowKey {
	return arrowKey{from: a.From, to: a.To, color: a.Color}
}
