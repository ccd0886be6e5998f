package lumen

import "math"

// Color represents an RGB radiance value with non-negative components.
// Values are HDR: 1 is nominal full brightness but emitters may exceed it.
// There is no alpha; the engine tracks occlusion separately as opacity.
type Color struct {
	R, G, B float64
}

// ColorWhite is nominal full-brightness white.
var ColorWhite = Color{1, 1, 1}

// ColorBlack is zero radiance (no light).
var ColorBlack = Color{}

// Add returns the component-wise sum of c and other.
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Scale returns c with every component multiplied by s.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Luminance returns the Rec. 601 luma of c.
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// Vec2 is a 2D vector used for positions, offsets, and directions.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Shape is an opaque, emissive axis-aligned rectangle supplied by the host.
// Shapes are read fresh every frame and never retained; mutate the slice
// passed to [Engine.SetShapes] between frames as needed.
type Shape struct {
	Left, Top, Right, Bottom float64
	// Color is the emissive radiance of the shape. The zero value defers to
	// the engine's [ColorFunc].
	Color Color
}

// Line is an opaque, emissive thick segment, typically a free-form stroke
// drawn by the user. Managed through [Engine.AddLine], [Engine.ClearLines],
// and [Engine.EraseAt].
type Line struct {
	X1, Y1, X2, Y2 float64
	Thickness      float64
	Color          Color
}

// ColorFunc assigns an emissive color to a shape. Per-shape color assignment
// is a presentation policy owned by the host: the engine calls the configured
// ColorFunc for every shape whose own Color is zero.
type ColorFunc func(shape Shape, index int) Color

// HueRotate returns a ColorFunc that assigns fully saturated colors by
// rotating the hue wheel step degrees per shape index.
func HueRotate(step float64) ColorFunc {
	return func(_ Shape, index int) Color {
		h := math.Mod(float64(index)*step, 360)
		if h < 0 {
			h += 360
		}
		return hueToRGB(h)
	}
}

// Palette returns a ColorFunc that cycles through the given colors by shape
// index. An empty palette yields white.
func Palette(colors ...Color) ColorFunc {
	return func(_ Shape, index int) Color {
		if len(colors) == 0 {
			return ColorWhite
		}
		return colors[index%len(colors)]
	}
}

// hueToRGB converts a hue in degrees (saturation and value fixed at 1) to RGB.
func hueToRGB(h float64) Color {
	hp := h / 60
	x := 1 - math.Abs(math.Mod(hp, 2)-1)
	switch {
	case hp < 1:
		return Color{1, x, 0}
	case hp < 2:
		return Color{x, 1, 0}
	case hp < 3:
		return Color{0, 1, x}
	case hp < 4:
		return Color{0, x, 1}
	case hp < 5:
		return Color{x, 0, 1}
	default:
		return Color{1, 0, x}
	}
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clamp01f clamps v to [0, 1] as float32.
func clamp01f(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
