package lumen

import "math"

// texelStride is the float32 count per world field texel: emissive R, G, B
// plus opacity.
const texelStride = 4

// WorldField is the rasterized scene: a 2D grid of (emissive RGB, opacity)
// texels at field resolution plus a box-filtered mip chain. Mip 0 exactly
// reflects the current frame's shapes; each coarser texel is the edge-clamped
// average of a 2x2 block of the finer level.
//
// A WorldField belongs to exactly one Engine and is rebuilt every frame.
type WorldField struct {
	Width, Height int

	// mips[0] is the full-resolution field; mips[k+1] halves each dimension
	// (rounding up) until 1x1. Each level is Width*Height*texelStride floats.
	mips   [][]float32
	mipW   []int
	mipH   []int
}

// newWorldField allocates a field and its full mip chain for the given size.
// A non-positive dimension yields an empty field with no mips.
func newWorldField(w, h int) *WorldField {
	f := &WorldField{Width: w, Height: h}
	if w <= 0 || h <= 0 {
		return f
	}
	mw, mh := w, h
	for {
		f.mips = append(f.mips, make([]float32, mw*mh*texelStride))
		f.mipW = append(f.mipW, mw)
		f.mipH = append(f.mipH, mh)
		if mw == 1 && mh == 1 {
			break
		}
		mw = (mw + 1) / 2
		mh = (mh + 1) / 2
	}
	return f
}

// Empty reports whether the field has zero area.
func (f *WorldField) Empty() bool {
	return f.Width <= 0 || f.Height <= 0
}

// MipCount returns the number of mip levels, including mip 0.
func (f *WorldField) MipCount() int {
	return len(f.mips)
}

// Clear zeroes mip 0. Coarser mips are stale until BuildMips runs.
func (f *WorldField) Clear() {
	if f.Empty() {
		return
	}
	base := f.mips[0]
	for i := range base {
		base[i] = 0
	}
}

// setTexel overwrites one mip-0 texel: last write wins, draw order decides.
func (f *WorldField) setTexel(x, y int, c Color, opacity float32) {
	i := (y*f.Width + x) * texelStride
	base := f.mips[0]
	base[i+0] = float32(c.R)
	base[i+1] = float32(c.G)
	base[i+2] = float32(c.B)
	base[i+3] = opacity
}

// FillRect rasterizes an opaque emissive rectangle into mip 0, overwriting
// color and opacity at every covered pixel.
func (f *WorldField) FillRect(left, top, right, bottom float64, c Color) {
	if f.Empty() {
		return
	}
	x0 := clampInt(int(math.Floor(left)), 0, f.Width)
	y0 := clampInt(int(math.Floor(top)), 0, f.Height)
	x1 := clampInt(int(math.Ceil(right)), 0, f.Width)
	y1 := clampInt(int(math.Ceil(bottom)), 0, f.Height)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			f.setTexel(x, y, c, 1)
		}
	}
}

// FillSegment rasterizes an opaque emissive thick segment into mip 0.
// Pixels whose centers lie within thickness/2 of the segment are overwritten.
func (f *WorldField) FillSegment(l Line) {
	if f.Empty() || l.Thickness <= 0 {
		return
	}
	r := l.Thickness / 2
	x0 := clampInt(int(math.Floor(math.Min(l.X1, l.X2)-r)), 0, f.Width)
	y0 := clampInt(int(math.Floor(math.Min(l.Y1, l.Y2)-r)), 0, f.Height)
	x1 := clampInt(int(math.Ceil(math.Max(l.X1, l.X2)+r)), 0, f.Width)
	y1 := clampInt(int(math.Ceil(math.Max(l.Y1, l.Y2)+r)), 0, f.Height)
	r2 := r * r
	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			if pointSegmentDistSq(px, py, l.X1, l.Y1, l.X2, l.Y2) <= r2 {
				f.setTexel(x, y, l.Color, 1)
			}
		}
	}
}

// FillCircle rasterizes an opaque emissive disc into mip 0. Used for the
// pointer-following point light.
func (f *WorldField) FillCircle(cx, cy, radius float64, c Color) {
	if f.Empty() || radius <= 0 {
		return
	}
	x0 := clampInt(int(math.Floor(cx-radius)), 0, f.Width)
	y0 := clampInt(int(math.Floor(cy-radius)), 0, f.Height)
	x1 := clampInt(int(math.Ceil(cx+radius)), 0, f.Width)
	y1 := clampInt(int(math.Ceil(cy+radius)), 0, f.Height)
	r2 := radius * radius
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= r2 {
				f.setTexel(x, y, c, 1)
			}
		}
	}
}

// BuildMips regenerates the coarse mip chain from mip 0. Each coarse texel
// averages the 2x2 block below it; blocks that extend past an odd edge clamp
// to the last row/column.
func (f *WorldField) BuildMips() {
	for k := 1; k < len(f.mips); k++ {
		srcW, srcH := f.mipW[k-1], f.mipH[k-1]
		dstW, dstH := f.mipW[k], f.mipH[k]
		src, dst := f.mips[k-1], f.mips[k]
		for y := 0; y < dstH; y++ {
			sy0 := y * 2
			sy1 := min(sy0+1, srcH-1)
			for x := 0; x < dstW; x++ {
				sx0 := x * 2
				sx1 := min(sx0+1, srcW-1)
				i00 := (sy0*srcW + sx0) * texelStride
				i10 := (sy0*srcW + sx1) * texelStride
				i01 := (sy1*srcW + sx0) * texelStride
				i11 := (sy1*srcW + sx1) * texelStride
				di := (y*dstW + x) * texelStride
				for c := 0; c < texelStride; c++ {
					dst[di+c] = (src[i00+c] + src[i10+c] + src[i01+c] + src[i11+c]) * 0.25
				}
			}
		}
	}
}

// Sample returns the texel at field-pixel position (x, y) from the given mip
// level. Positions outside the field are empty space (zero emission, zero
// opacity) rather than clamped, so rays leaving the canvas stop gathering.
func (f *WorldField) Sample(mip int, x, y float64) (r, g, b, opacity float32) {
	if f.Empty() {
		return 0, 0, 0, 0
	}
	if x < 0 || y < 0 || x >= float64(f.Width) || y >= float64(f.Height) {
		return 0, 0, 0, 0
	}
	mip = clampInt(mip, 0, len(f.mips)-1)
	scale := float64(int(1) << mip)
	mx := clampInt(int(x/scale), 0, f.mipW[mip]-1)
	my := clampInt(int(y/scale), 0, f.mipH[mip]-1)
	i := (my*f.mipW[mip] + mx) * texelStride
	m := f.mips[mip]
	return m[i], m[i+1], m[i+2], m[i+3]
}

// TexelAt returns the mip-0 texel at integer coordinates, for inspection.
func (f *WorldField) TexelAt(x, y int) (c Color, opacity float64) {
	if f.Empty() || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Color{}, 0
	}
	i := (y*f.Width + x) * texelStride
	base := f.mips[0]
	return Color{float64(base[i]), float64(base[i+1]), float64(base[i+2])}, float64(base[i+3])
}

// pointSegmentDistSq returns the squared distance from point (px, py) to the
// segment (x1, y1)-(x2, y2). Degenerate segments collapse to a point.
func pointSegmentDistSq(px, py, x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = clamp01(((px-x1)*dx + (py-y1)*dy) / lenSq)
	}
	cx := x1 + t*dx
	cy := y1 + t*dy
	ex := px - cx
	ey := py - cy
	return ex*ex + ey*ey
}
