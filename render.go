package flipbook

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// RenderFunc draws one instant of the animation onto a target surface: the
// working graph's persistent elements plus the scene's partial drawables
// (nil scene means a plain snapshot render). The host usually supplies its
// own so the video reuses its full visual styling pipeline; DrawGraph is the
// built-in fallback.
type RenderFunc func(target *ebiten.Image, g *GraphState, scene *TransitionScene)

// RenderStyle configures the built-in graph renderer.
type RenderStyle struct {
	Background Color
	// ArrowHeadScale sizes arrow head barbs as a multiple of arrow width.
	ArrowHeadScale float64
}

// DefaultRenderStyle returns the stock dark background style.
func DefaultRenderStyle() RenderStyle {
	return RenderStyle{
		Background:     Color{R: 0.098, G: 0.098, B: 0.137, A: 1},
		ArrowHeadScale: 4,
	}
}

// DrawGraph renders a graph and transition scene with the default style.
// Suitable as a Session's Render callback when the host has no styling
// pipeline of its own.
func DrawGraph(target *ebiten.Image, g *GraphState, scene *TransitionScene) {
	DefaultRenderStyle().Draw(target, g, scene)
}

// Draw renders the graph onto target. Edges draw below arrows, arrows below
// nodes. Segment paths take the shortest toroidal route through a box sized
// to the target, so boundary-crossing bonds animate the short way around.
func (st RenderStyle) Draw(target *ebiten.Image, g *GraphState, scene *TransitionScene) {
	target.Fill(st.Background.toRGBA())

	b := target.Bounds()
	space := Space{Width: float64(b.Dx()), Height: float64(b.Dy())}

	lookup := func(id NodeID) *GraphNode {
		if n, ok := g.Nodes[id]; ok {
			return n
		}
		return scene.NodeAt(id)
	}

	for _, e := range g.Edges {
		st.drawEdge(target, space, g, lookup, e, 1)
	}
	if scene != nil {
		for _, pe := range scene.Edges {
			st.drawEdge(target, space, g, lookup, pe.Edge, pe.Progress)
		}
	}

	for _, a := range g.Arrows {
		st.drawArrow(target, space, lookup, a, 1, true)
	}
	if scene != nil {
		for _, pa := range scene.Arrows {
			st.drawArrow(target, space, lookup, pa.Arrow, pa.Progress, pa.HeadsVisible)
		}
	}

	for _, n := range g.Nodes {
		p := space.Wrap(n.Pos())
		vector.DrawFilledCircle(target, float32(p.X), float32(p.Y), float32(n.Radius), n.Fill.toRGBA(), true)
		if n.StrokeWidth > 0 {
			vector.StrokeCircle(target, float32(p.X), float32(p.Y), float32(n.Radius), float32(n.StrokeWidth), n.Stroke.toRGBA(), true)
		}
	}
}

// drawEdge strokes an edge polyline up to the given fraction of its length.
// With zigzag spacing configured the bond renders as a polymer spring;
// otherwise a straight line.
func (st RenderStyle) drawEdge(target *ebiten.Image, space Space, g *GraphState, lookup func(NodeID) *GraphNode, e GraphEdge, progress float64) {
	from := lookup(e.From)
	to := lookup(e.To)
	if from == nil || to == nil || progress <= 0 {
		return
	}

	a := space.Wrap(from.Pos())
	bp := a.Add(space.WrapDelta(a, space.Wrap(to.Pos())))

	pts := edgePath(a, bp, g.ZigzagSpacing, g.ZigzagLength, g.ZigzagEndLength)
	strokePolyline(target, pts, progress, float32(e.Weight), e.Color)
}

// drawArrow strokes an arrow shaft up to the given fraction of its length,
// with head barbs at the visible endpoints when heads are shown.
func (st RenderStyle) drawArrow(target *ebiten.Image, space Space, lookup func(NodeID) *GraphNode, a GraphArrow, progress float64, heads bool) {
	from := lookup(a.From)
	to := lookup(a.To)
	if from == nil || to == nil || progress <= 0 {
		return
	}
	if progress > 1 {
		progress = 1
	}

	p0 := space.Wrap(from.Pos())
	d := space.WrapDelta(p0, space.Wrap(to.Pos()))
	tip := p0.Add(d.Scale(progress))

	w := float32(a.Width)
	if w <= 0 {
		w = 1
	}
	clr := a.Color.toRGBA()
	vector.StrokeLine(target, float32(p0.X), float32(p0.Y), float32(tip.X), float32(tip.Y), w, clr, true)

	if !heads {
		return
	}
	barb := a.Width * st.ArrowHeadScale
	angle := math.Atan2(d.Y, d.X)
	if a.HeadAtEnd {
		drawHead(target, tip, angle, barb, w, clr)
	}
	if a.HeadAtStart {
		drawHead(target, p0, angle+math.Pi, barb, w, clr)
	}
}

// drawHead strokes the two barbs of an arrow head at p. The barbs point back
// against the travel direction given by angle.
func drawHead(target *ebiten.Image, p Vec2, angle, barb float64, width float32, clr color.RGBA) {
	const spread = 2.6 // ~150 degrees off the shaft direction
	for _, side := range [2]float64{spread, -spread} {
		q := Vec2{
			X: p.X + barb*math.Cos(angle+side),
			Y: p.Y + barb*math.Sin(angle+side),
		}
		vector.StrokeLine(target, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), width, clr, true)
	}
}

// edgePath returns the polyline for a bond from a to b (b already unwrapped
// into a's frame). spacing is the half-period of the zigzag, length its
// amplitude, endLength the straight lead-in/out. spacing <= 0 yields a
// straight segment.
func edgePath(a, b Vec2, spacing, length, endLength float64) []Vec2 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	total := math.Hypot(dx, dy)
	if spacing <= 0 || total <= 2*endLength+spacing {
		return []Vec2{a, b}
	}

	ux, uy := dx/total, dy/total
	nx, ny := -uy, ux

	zigSpan := total - 2*endLength
	n := int(zigSpan / spacing)
	if n < 2 {
		return []Vec2{a, b}
	}
	step := zigSpan / float64(n)

	pts := make([]Vec2, 0, n+3)
	pts = append(pts, a)
	pts = append(pts, Vec2{a.X + ux*endLength, a.Y + uy*endLength})
	for i := 1; i < n; i++ {
		along := endLength + float64(i)*step
		side := length
		if i%2 == 0 {
			side = -length
		}
		pts = append(pts, Vec2{
			X: a.X + ux*along + nx*side,
			Y: a.Y + uy*along + ny*side,
		})
	}
	pts = append(pts, Vec2{a.X + ux*(total-endLength), a.Y + uy*(total-endLength)})
	pts = append(pts, b)
	return pts
}

// strokePolyline strokes the first progress fraction of a polyline's total
// arc length, splitting the final segment at the cutoff point.
func strokePolyline(target *ebiten.Image, pts []Vec2, progress float64, width float32, c Color) {
	if len(pts) < 2 {
		return
	}
	if width <= 0 {
		width = 1
	}
	if progress > 1 {
		progress = 1
	}

	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
	}
	budget := total * progress
	clr := c.toRGBA()

	for i := 1; i < len(pts) && budget > 0; i++ {
		p, q := pts[i-1], pts[i]
		seg := math.Hypot(q.X-p.X, q.Y-p.Y)
		if seg > budget {
			f := budget / seg
			q = Vec2{p.X + (q.X-p.X)*f, p.Y + (q.Y-p.Y)*f}
		}
		vector.StrokeLine(target, float32(p.X), float32(p.Y), float32(q.X), float32(q.Y), width, clr, true)
		budget -= seg
	}
}
