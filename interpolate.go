package flipbook

// Interpolator produces intermediate node layouts between two cels. All
// configuration is explicit — there is no ambient global canvas size or mode,
// so interpolation is testable in isolation.
type Interpolator struct {
	Space Space
	Mode  InterpolationMode
}

// Apply writes the layout for progress t in [0, 1] between start and end into
// the working graph's node objects, for every id in common. prev and next are
// the neighbor cels used by the cubic and Catmull-Rom modes; either may be
// nil at sequence boundaries, in which case those modes degrade to linear for
// the affected node.
//
// Positions travel through the periodic space. Radius and stroke width
// interpolate linearly. Colors hard-switch at t == 0.5 — no color blending.
// Apply only mutates nodes already present in the working graph; adding and
// removing elements is the transition scene's job.
func (ip Interpolator) Apply(working *GraphState, prev, start, end, next *GraphState, t float64, common []NodeID) {
	for _, id := range common {
		w := working.Nodes[id]
		a := start.Nodes[id]
		b := end.Nodes[id]
		if w == nil || a == nil || b == nil {
			continue
		}

		pos := ip.position(prev, a.Pos(), b.Pos(), next, id, t)
		w.X = pos.X
		w.Y = pos.Y

		w.Radius = a.Radius + (b.Radius-a.Radius)*t
		w.StrokeWidth = a.StrokeWidth + (b.StrokeWidth-a.StrokeWidth)*t

		if t < 0.5 {
			w.Fill = a.Fill
			w.Stroke = a.Stroke
		} else {
			w.Fill = b.Fill
			w.Stroke = b.Stroke
		}
	}
}

// position picks the configured path through the periodic space. The neighbor
// positions are only consulted when the node exists in the neighbor cel.
func (ip Interpolator) position(prev *GraphState, a, b Vec2, next *GraphState, id NodeID, t float64) Vec2 {
	switch ip.Mode {
	case ModeCubic:
		p0, p1 := neighborPos(prev, id), neighborPos(next, id)
		return ip.Space.Cubic(p0, a, b, p1, t)
	case ModeCatmullRom:
		p0, p1 := neighborPos(prev, id), neighborPos(next, id)
		return ip.Space.CatmullRom(p0, a, b, p1, t)
	default:
		return ip.Space.Lerp(a, b, t)
	}
}

// neighborPos returns the node's position in a neighbor cel, or nil when the
// cel is absent (sequence boundary) or does not contain the node.
func neighborPos(g *GraphState, id NodeID) *Vec2 {
	if g == nil {
		return nil
	}
	n, ok := g.Nodes[id]
	if !ok {
		return nil
	}
	p := n.Pos()
	return &p
}
