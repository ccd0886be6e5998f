package lumen

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// FluenceField is the reconstructed per-pixel incoming-light estimate, one
// HDR radiance triple per output pixel, derived purely from level-0 probe
// samples. It is the engine's hand-off to the compositor.
type FluenceField struct {
	Width, Height int

	data     []float32 // 3 floats per pixel
	probeAvg []float32 // scratch: 3 floats per level-0 probe
}

// newFluenceField allocates a field for the given size.
func newFluenceField(w, h int) *FluenceField {
	f := &FluenceField{Width: w, Height: h}
	if w > 0 && h > 0 {
		f.data = make([]float32, w*h*3)
	}
	return f
}

// At returns the radiance at pixel (x, y). Out-of-bounds pixels are black.
func (f *FluenceField) At(x, y int) Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Color{}
	}
	i := (y*f.Width + x) * 3
	return Color{float64(f.data[i]), float64(f.data[i+1]), float64(f.data[i+2])}
}

// Luminance returns the luma of the radiance at pixel (x, y).
func (f *FluenceField) Luminance(x, y int) float64 {
	return f.At(x, y).Luminance()
}

// reconstruct fills the field from level-0 probe samples: each probe's
// direction groups are averaged uniformly to one radiance, then every pixel
// bilinearly interpolates the four enclosing probes by its fractional
// probe-grid position. The result is continuous, with no probe-grid facets.
func (f *FluenceField) reconstruct(store *cascadeStore, l0 *Level, workers int) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}

	// Pass 1: collapse each probe's direction groups to one averaged radiance.
	probes := l0.ProbesX * l0.ProbesY
	if cap(f.probeAvg) < probes*3 {
		f.probeAvg = make([]float32, probes*3)
	}
	f.probeAvg = f.probeAvg[:probes*3]

	var eg errgroup.Group
	eg.SetLimit(workers)
	for row := 0; row < l0.ProbesY; row++ {
		eg.Go(func() error {
			inv := 1 / float32(l0.Dirs)
			for col := 0; col < l0.ProbesX; col++ {
				probe := row*l0.ProbesX + col
				var r, g, b float32
				for d := 0; d < l0.Dirs; d++ {
					s := store.at(l0, probe, d)
					r += s.r
					g += s.g
					b += s.b
				}
				i := probe * 3
				f.probeAvg[i+0] = r * inv
				f.probeAvg[i+1] = g * inv
				f.probeAvg[i+2] = b * inv
			}
			return nil
		})
	}
	_ = eg.Wait()

	// Pass 2: bilinear interpolation per pixel, probe lookups edge-clamped.
	d := float64(l0.Diameter)
	for row := 0; row < f.Height; row++ {
		eg.Go(func() error {
			gy := (float64(row)+0.5)/d - 0.5
			y0 := int(math.Floor(gy))
			fy := float32(gy - float64(y0))
			cy0 := clampInt(y0, 0, l0.ProbesY-1)
			cy1 := clampInt(y0+1, 0, l0.ProbesY-1)

			out := f.data[row*f.Width*3 : (row+1)*f.Width*3]
			for x := 0; x < f.Width; x++ {
				gx := (float64(x)+0.5)/d - 0.5
				x0 := int(math.Floor(gx))
				fx := float32(gx - float64(x0))
				cx0 := clampInt(x0, 0, l0.ProbesX-1)
				cx1 := clampInt(x0+1, 0, l0.ProbesX-1)

				i00 := (cy0*l0.ProbesX + cx0) * 3
				i10 := (cy0*l0.ProbesX + cx1) * 3
				i01 := (cy1*l0.ProbesX + cx0) * 3
				i11 := (cy1*l0.ProbesX + cx1) * 3

				w00 := (1 - fx) * (1 - fy)
				w10 := fx * (1 - fy)
				w01 := (1 - fx) * fy
				w11 := fx * fy

				pa := f.probeAvg
				oi := x * 3
				out[oi+0] = pa[i00]*w00 + pa[i10]*w10 + pa[i01]*w01 + pa[i11]*w11
				out[oi+1] = pa[i00+1]*w00 + pa[i10+1]*w10 + pa[i01+1]*w01 + pa[i11+1]*w11
				out[oi+2] = pa[i00+2]*w00 + pa[i10+2]*w10 + pa[i01+2]*w01 + pa[i11+2]*w11
			}
			return nil
		})
	}
	_ = eg.Wait()
}
