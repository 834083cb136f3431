package flipbook

import "math"

// Space is a 2D toroidal coordinate space of the given box size. Positions
// wrap at the box boundary; displacements are measured along the shortest
// wrapped path. A non-positive size on an axis disables wrapping for that
// axis, so a zero Space behaves like the ordinary plane.
type Space struct {
	Width, Height float64
}

// wrapDelta1 returns the shortest signed displacement from a to b on one
// axis. The magnitude is always <= size/2 for positive size.
func wrapDelta1(a, b, size float64) float64 {
	d := b - a
	if size <= 0 {
		return d
	}
	return d - size*math.Round(d/size)
}

// wrap1 normalizes p into [0, size) for positive size.
func wrap1(p, size float64) float64 {
	if size <= 0 {
		return p
	}
	p = math.Mod(p, size)
	if p < 0 {
		p += size
	}
	return p
}

// WrapDelta returns the shortest signed displacement from a to b per axis.
func (s Space) WrapDelta(a, b Vec2) Vec2 {
	return Vec2{
		X: wrapDelta1(a.X, b.X, s.Width),
		Y: wrapDelta1(a.Y, b.Y, s.Height),
	}
}

// Wrap normalizes p into [0, Width) x [0, Height).
func (s Space) Wrap(p Vec2) Vec2 {
	return Vec2{
		X: wrap1(p.X, s.Width),
		Y: wrap1(p.Y, s.Height),
	}
}

// Lerp interpolates from a toward b along the shortest wrapped path and
// returns the result wrapped back into the box. t=0 yields a, t=1 yields b
// (modulo wrapping).
func (s Space) Lerp(a, b Vec2, t float64) Vec2 {
	d := s.WrapDelta(a, b)
	return s.Wrap(a.Add(d.Scale(t)))
}

// Cubic interpolates from a to b using the 4-point cubic polynomial through
// the neighbor positions p0 (before a) and p1 (after b). Neighbors are
// unwrapped into a's local frame before blending, and the result is wrapped
// back into the box. Nil p0 or p1 (boundary cels) degrades to Lerp.
func (s Space) Cubic(p0 *Vec2, a, b Vec2, p1 *Vec2, t float64) Vec2 {
	if p0 == nil || p1 == nil {
		return s.Lerp(a, b, t)
	}
	y0 := a.Add(s.WrapDelta(a, *p0))
	y2 := a.Add(s.WrapDelta(a, b))
	y3 := a.Add(s.WrapDelta(a, *p1))
	return s.Wrap(Vec2{
		X: cubic1(y0.X, a.X, y2.X, y3.X, t),
		Y: cubic1(y0.Y, a.Y, y2.Y, y3.Y, t),
	})
}

// CatmullRom interpolates from a to b along a Catmull-Rom spline through the
// neighbor positions p0 and p1, with the same unwrap/re-wrap treatment as
// Cubic. Nil p0 or p1 degrades to Lerp.
func (s Space) CatmullRom(p0 *Vec2, a, b Vec2, p1 *Vec2, t float64) Vec2 {
	if p0 == nil || p1 == nil {
		return s.Lerp(a, b, t)
	}
	y0 := a.Add(s.WrapDelta(a, *p0))
	y2 := a.Add(s.WrapDelta(a, b))
	y3 := a.Add(s.WrapDelta(a, *p1))
	return s.Wrap(Vec2{
		X: catmullRom1(y0.X, a.X, y2.X, y3.X, t),
		Y: catmullRom1(y0.Y, a.Y, y2.Y, y3.Y, t),
	})
}

// cubic1 is the standard 4-point cubic interpolation polynomial. Passes
// through y1 at t=0 and y2 at t=1.
func cubic1(y0, y1, y2, y3, t float64) float64 {
	a0 := y3 - y2 - y0 + y1
	a1 := y0 - y1 - a0
	a2 := y2 - y0
	t2 := t * t
	return a0*t*t2 + a1*t2 + a2*t + y1
}

// catmullRom1 is the uniform Catmull-Rom basis. Passes through y1 at t=0 and
// y2 at t=1 with C1 continuity across segments.
func catmullRom1(y0, y1, y2, y3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*y1 +
		(y2-y0)*t +
		(2*y0-5*y1+4*y2-y3)*t2 +
		(3*y1-y0-3*y2+y3)*t3)
}
