package flipbook

// TransitionStyle holds the perceptual thresholds for partial drawables.
// The defaults guarantee new elements are instantly visible and old elements'
// directionality stays legible until nearly gone; hosts may tune them.
type TransitionStyle struct {
	// PartialFloor is the minimum displayed progress for an appearing
	// element, so it never renders fully invisible for a frame.
	PartialFloor float64
	// HeadAppear is the progress above which an appearing arrow draws its
	// heads.
	HeadAppear float64
	// HeadVanish is the remaining progress below which a disappearing
	// arrow hides its heads.
	HeadVanish float64
}

// DefaultTransitionStyle returns the stock thresholds.
func DefaultTransitionStyle() TransitionStyle {
	return TransitionStyle{PartialFloor: 0.01, HeadAppear: 0.9, HeadVanish: 0.1}
}

// PartialEdge is an edge drawn at less than full length to depict appearance
// or disappearance.
type PartialEdge struct {
	Edge GraphEdge
	// Progress is the displayed fraction of the edge's length, in (0, 1].
	Progress float64
}

// PartialArrow is an arrow drawn at less than full length. Heads render only
// while HeadsVisible.
type PartialArrow struct {
	Arrow        GraphArrow
	Progress     float64
	HeadsVisible bool
}

// TransitionScene is the renderable extra state for one instant between two
// cels: the partial drawables that accompany the working graph's persistent
// elements. Nodes referenced by a partial element may live in either the
// start or end snapshot, so the scene carries an endpoint lookup.
type TransitionScene struct {
	Edges  []PartialEdge
	Arrows []PartialArrow

	// nodesByID resolves partial element endpoints that are not in the
	// working graph (e.g. an added edge to an added node).
	extraNodes map[NodeID]*GraphNode
}

// NodeAt resolves a node id against the scene's extra endpoints. Returns nil
// when the scene has no record of the id; callers fall back to the working
// graph first.
func (sc *TransitionScene) NodeAt(id NodeID) *GraphNode {
	if sc == nil || sc.extraNodes == nil {
		return nil
	}
	return sc.extraNodes[id]
}

// BuildScene applies the hybrid mid-transition state to the working graph and
// returns the partial drawables for progress t in [0, 1].
//
// The working graph keeps the start snapshot's nodes (interpolated elsewhere)
// while its edges and arrows are restricted to those present in both start
// and end — elements mid-transition leave the persistent set and come back as
// partials: added ones grow at max(style.PartialFloor, t), removed ones
// shrink at 1-t.
func BuildScene(working *GraphState, diff *GraphDiff, start, end *GraphState, t float64, style TransitionStyle) *TransitionScene {
	applyHybridElements(working, start, diff)

	sc := &TransitionScene{extraNodes: make(map[NodeID]*GraphNode)}

	grow := t
	if grow < style.PartialFloor {
		grow = style.PartialFloor
	}
	shrink := 1 - t

	for _, e := range diff.AddedEdges {
		sc.Edges = append(sc.Edges, PartialEdge{Edge: e, Progress: grow})
		sc.adoptEndpoints(e.From, e.To, end, start)
	}
	for _, e := range diff.RemovedEdges {
		if shrink <= 0 {
			continue
		}
		sc.Edges = append(sc.Edges, PartialEdge{Edge: e, Progress: shrink})
		sc.adoptEndpoints(e.From, e.To, start, end)
	}
	for _, a := range diff.AddedArrows {
		sc.Arrows = append(sc.Arrows, PartialArrow{
			Arrow:        a,
			Progress:     grow,
			HeadsVisible: t > style.HeadAppear,
		})
		sc.adoptEndpoints(a.From, a.To, end, start)
	}
	for _, a := range diff.RemovedArrows {
		if shrink <= 0 {
			continue
		}
		sc.Arrows = append(sc.Arrows, PartialArrow{
			Arrow:        a,
			Progress:     shrink,
			HeadsVisible: shrink > style.HeadVanish,
		})
		sc.adoptEndpoints(a.From, a.To, start, end)
	}

	return sc
}

// FinalScene applies the end snapshot's full element set to the working graph
// and returns an empty scene. The held frame after the last cel renders
// through the same code path as interpolated frames for visual consistency.
func FinalScene(working, end *GraphState) *TransitionScene {
	working.Edges = append(working.Edges[:0], end.Edges...)
	working.Arrows = append(working.Arrows[:0], end.Arrows...)
	working.ZigzagSpacing = end.ZigzagSpacing
	working.ZigzagLength = end.ZigzagLength
	working.ZigzagEndLength = end.ZigzagEndLength
	return &TransitionScene{}
}

// applyHybridElements restricts the working graph's edges and arrows to the
// intersection of start and end, per the diff.
func applyHybridElements(working, start *GraphState, diff *GraphDiff) {
	removedE := make(map[edgeKey]struct{}, len(diff.RemovedEdges))
	for _, e := range diff.RemovedEdges {
		removedE[e.key()] = struct{}{}
	}
	working.Edges = working.Edges[:0]
	for _, e := range start.Edges {
		if _, gone := removedE[e.key()]; !gone {
			working.Edges = append(working.Edges, e)
		}
	}

	removedA := make(map[arrowKey]struct{}, len(diff.RemovedArrows))
	for _, a := range diff.RemovedArrows {
		removedA[a.key()] = struct{}{}
	}
	working.Arrows = working.Arrows[:0]
	for _, a := range start.Arrows {
		if _, gone := removedA[a.key()]; !gone {
			working.Arrows = append(working.Arrows, a)
		}
	}
}

// adoptEndpoints records endpoint nodes for a partial element, preferring the
// primary snapshot and falling back to the secondary.
func (sc *TransitionScene) adoptEndpoints(from, to NodeID, primary, secondary *GraphState) {
	for _, id := range [2]NodeID{from, to} {
		if _, ok := sc.extraNodes[id]; ok {
			continue
		}
		if n, ok := primary.Nodes[id]; ok {
			sc.extraNodes[id] = n
		} else if n, ok := secondary.Nodes[id]; ok {
			sc.extraNodes[id] = n
		}
	}
}
