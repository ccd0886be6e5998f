package lumen

import (
	"image"
	"math"
)

// CompositeConfig controls how the compositor blends the fluence field with
// the world field and which presentational touches it applies.
type CompositeConfig struct {
	// Exposure scales fluence radiance before tone mapping. Default 1.
	Exposure float64
	// Gamma is the display gamma applied after tone mapping. Default 2.2.
	Gamma float64
	// Vignette darkens toward the corners, [0, 1]. 0 disables it.
	Vignette float64
	// Background is the base radiance shown where neither world geometry nor
	// fluence contributes.
	Background Color
}

// DefaultCompositeConfig returns neutral composite settings.
func DefaultCompositeConfig() CompositeConfig {
	return CompositeConfig{
		Exposure: 1,
		Gamma:    2.2,
	}
}

// Compositor turns a frame's fluence and world fields into a displayable
// image. The engine treats it as a boundary: implementations may apply any
// stylistic post-processing as long as dst is fully written.
type Compositor interface {
	// Composite writes the final frame into dst, which matches the field
	// resolution. dst is reused across frames; every pixel must be written.
	Composite(fluence *FluenceField, world *WorldField, cfg CompositeConfig, dst *image.RGBA)
}

// ScreenCompositor is the default compositor: opaque world pixels show their
// own emissive color blended over the gathered light, everything else shows
// tone-mapped fluence over the background, with an optional vignette.
type ScreenCompositor struct{}

// Composite implements [Compositor].
func (ScreenCompositor) Composite(fluence *FluenceField, world *WorldField, cfg CompositeConfig, dst *image.RGBA) {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	invGamma := 1.0
	if cfg.Gamma > 0 {
		invGamma = 1 / cfg.Gamma
	}
	cx := float64(w) / 2
	cy := float64(h) / 2
	// Normalize corner distance so the vignette term is resolution-independent.
	invCorner := 1 / math.Hypot(cx, cy)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f := fluence.At(x, y).Scale(cfg.Exposure)
			r := cfg.Background.R + f.R
			g := cfg.Background.G + f.G
			bl := cfg.Background.B + f.B

			wc, opacity := world.TexelAt(x, y)
			if opacity > 0 {
				r = wc.R*opacity + r*(1-opacity)
				g = wc.G*opacity + g*(1-opacity)
				bl = wc.B*opacity + bl*(1-opacity)
			}

			if cfg.Vignette > 0 {
				d := math.Hypot(float64(x)-cx, float64(y)-cy) * invCorner
				v := 1 - cfg.Vignette*d*d
				if v < 0 {
					v = 0
				}
				r *= v
				g *= v
				bl *= v
			}

			// Reinhard tone map keeps HDR highlights from clipping hard.
			r = math.Pow(r/(1+r), invGamma)
			g = math.Pow(g/(1+g), invGamma)
			bl = math.Pow(bl/(1+bl), invGamma)

			i := dst.PixOffset(x+b.Min.X, y+b.Min.Y)
			dst.Pix[i+0] = uint8(clamp01(r)*255 + 0.5)
			dst.Pix[i+1] = uint8(clamp01(g)*255 + 0.5)
			dst.Pix[i+2] = uint8(clamp01(bl)*255 + 0.5)
			dst.Pix[i+3] = 255
		}
	}
}
