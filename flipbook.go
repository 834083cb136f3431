package flipbook

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Comparable, so it participates in edge and arrow identity keys.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default stroke color.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is the default fill color.
var ColorBlack = Color{0, 0, 0, 1}

// toRGBA converts a Color to a premultiplied color.RGBA for ebiten drawing.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}

// Vec2 is a 2D vector used for positions and displacements throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + w.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// InterpolationMode selects how node positions travel between cels.
type InterpolationMode uint8

const (
	ModeLinear     InterpolationMode = iota // straight path between cels
	ModeCubic                               // 4-point cubic polynomial through neighbor cels
	ModeCatmullRom                          // Catmull-Rom spline through neighbor cels
)

// String returns the config-file spelling of the mode.
func (m InterpolationMode) String() string {
	switch m {
	case ModeCubic:
		return "cubic"
	case ModeCatmullRom:
		return "catmull-rom"
	default:
		return "linear"
	}
}
