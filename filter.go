package lumen

import "github.com/hajimehoshi/ebiten/v2"

// Filter is the interface for presentational effects applied to the
// composited frame during [Engine.Draw]. Filters run on the GPU via Kage
// shaders and never feed back into the light transport.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
	// Padding returns the extra pixels needed around the source to
	// accommodate the effect. Zero means no padding.
	Padding() int
}

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine. The composited
// frame is opaque, so the shaders skip premultiplied-alpha bookkeeping and
// carry the source alpha through unchanged.

const vignetteShaderSrc = `//kage:unit pixels
package main

var Strength float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	uv := (src - imageSrc0Origin()) / imageSrc0Size()
	d := uv - vec2(0.5)
	// dot(d,d) reaches 0.5 in the corners; the factor 2 normalizes to [0,1].
	v := clamp(1.0-Strength*2.0*dot(d, d), 0.0, 1.0)
	return vec4(c.rgb*v, c.a)
}
`

const distortionShaderSrc = `//kage:unit pixels
package main

var Amplitude float
var Frequency float
var Time float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	uv := (src - imageSrc0Origin()) / imageSrc0Size()
	off := vec2(
		sin(uv.y*Frequency+Time),
		cos(uv.x*Frequency+Time*1.3),
	) * Amplitude
	return imageSrc0At(src + off)
}
`

const embossShaderSrc = `//kage:unit pixels
package main

var Strength float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	tl := imageSrc0At(src + vec2(-1, -1))
	br := imageSrc0At(src + vec2(1, 1))
	relief := (br.rgb - tl.rgb) * Strength
	return vec4(clamp(c.rgb+relief, vec3(0.0), vec3(1.0)), c.a)
}
`

const iridescenceShaderSrc = `//kage:unit pixels
package main

var Shift float
var Strength float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := imageSrc0At(src)
	lum := dot(c.rgb, vec3(0.299, 0.587, 0.114))
	// Thin-film style palette: phase-offset cosines over luminance.
	rainbow := 0.5 + 0.5*cos(6.28318*(lum+Shift)+vec3(0.0, 2.094, 4.188))
	return vec4(mix(c.rgb, rainbow*lum, Strength), c.a)
}
`

// --- Lazy shader compilation (no sync.Once — filters run on the render goroutine) ---

var (
	vignetteShader    *ebiten.Shader
	distortionShader  *ebiten.Shader
	embossShader      *ebiten.Shader
	iridescenceShader *ebiten.Shader
)

func ensureVignetteShader() *ebiten.Shader {
	if vignetteShader == nil {
		s, err := ebiten.NewShader([]byte(vignetteShaderSrc))
		if err != nil {
			panic("lumen: failed to compile vignette shader: " + err.Error())
		}
		vignetteShader = s
	}
	return vignetteShader
}

func ensureDistortionShader() *ebiten.Shader {
	if distortionShader == nil {
		s, err := ebiten.NewShader([]byte(distortionShaderSrc))
		if err != nil {
			panic("lumen: failed to compile distortion shader: " + err.Error())
		}
		distortionShader = s
	}
	return distortionShader
}

func ensureEmbossShader() *ebiten.Shader {
	if embossShader == nil {
		s, err := ebiten.NewShader([]byte(embossShaderSrc))
		if err != nil {
			panic("lumen: failed to compile emboss shader: " + err.Error())
		}
		embossShader = s
	}
	return embossShader
}

func ensureIridescenceShader() *ebiten.Shader {
	if iridescenceShader == nil {
		s, err := ebiten.NewShader([]byte(iridescenceShaderSrc))
		if err != nil {
			panic("lumen: failed to compile iridescence shader: " + err.Error())
		}
		iridescenceShader = s
	}
	return iridescenceShader
}

// --- VignetteFilter ---

// VignetteFilter darkens the frame toward its corners.
type VignetteFilter struct {
	// Strength in [0, 1]: 0 is no darkening, 1 fully black corners.
	Strength float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewVignetteFilter creates a vignette filter with the given strength.
func NewVignetteFilter(strength float64) *VignetteFilter {
	return &VignetteFilter{
		Strength: strength,
		uniforms: make(map[string]any, 1),
	}
}

// Apply renders the vignette from src into dst.
func (f *VignetteFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureVignetteShader()
	// Scalar float32 boxing is unavoidable with Ebitengine's uniform API.
	f.uniforms["Strength"] = float32(f.Strength)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; vignetting doesn't expand the image bounds.
func (f *VignetteFilter) Padding() int { return 0 }

// --- DistortionFilter ---

// DistortionFilter displaces sample positions with crossed sine waves,
// producing a heat-haze/watery wobble. Advance Time each frame to animate.
type DistortionFilter struct {
	// Amplitude is the maximum displacement in pixels.
	Amplitude float64
	// Frequency is the wave count across the frame.
	Frequency float64
	// Time is the animation phase in radians.
	Time     float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewDistortionFilter creates a distortion filter.
func NewDistortionFilter(amplitude, frequency float64) *DistortionFilter {
	return &DistortionFilter{
		Amplitude: amplitude,
		Frequency: frequency,
		uniforms:  make(map[string]any, 3),
	}
}

// Apply renders the distorted frame from src into dst.
func (f *DistortionFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureDistortionShader()
	f.uniforms["Amplitude"] = float32(f.Amplitude)
	f.uniforms["Frequency"] = float32(f.Frequency)
	f.uniforms["Time"] = float32(f.Time)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns the amplitude rounded up; displaced samples must stay
// inside the offscreen buffer.
func (f *DistortionFilter) Padding() int {
	return int(f.Amplitude + 1)
}

// --- EmbossFilter ---

// EmbossFilter adds a diagonal relief from the luminance gradient, giving the
// lit scene a stamped-paper look.
type EmbossFilter struct {
	// Strength scales the relief contribution.
	Strength float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewEmbossFilter creates an emboss filter.
func NewEmbossFilter(strength float64) *EmbossFilter {
	return &EmbossFilter{
		Strength: strength,
		uniforms: make(map[string]any, 1),
	}
}

// Apply renders the embossed frame from src into dst.
func (f *EmbossFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureEmbossShader()
	f.uniforms["Strength"] = float32(f.Strength)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 1 for the neighbor taps.
func (f *EmbossFilter) Padding() int { return 1 }

// --- IridescenceFilter ---

// IridescenceFilter remaps luminance through a phase-offset cosine palette,
// tinting bright regions with shifting rainbow hues. Advance Shift each frame
// to animate the hue drift.
type IridescenceFilter struct {
	// Shift is the palette phase, one full cycle per unit.
	Shift float64
	// Strength in [0, 1] mixes between the original color and the palette.
	Strength float64
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewIridescenceFilter creates an iridescence filter.
func NewIridescenceFilter(strength float64) *IridescenceFilter {
	return &IridescenceFilter{
		Strength: strength,
		uniforms: make(map[string]any, 2),
	}
}

// Apply renders the iridescent frame from src into dst.
func (f *IridescenceFilter) Apply(src, dst *ebiten.Image) {
	shader := ensureIridescenceShader()
	f.uniforms["Shift"] = float32(f.Shift)
	f.uniforms["Strength"] = float32(f.Strength)
	bounds := src.Bounds()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}

// Padding returns 0; the remap is purely per-pixel.
func (f *IridescenceFilter) Padding() int { return 0 }

// --- Offscreen texture pool ---

// texturePool reuses offscreen images across frames so the filter chain
// allocates nothing at steady state.
type texturePool struct {
	free []*ebiten.Image
}

// Acquire returns a cleared image of exactly (w, h), reusing a pooled one
// when available.
func (p *texturePool) Acquire(w, h int) *ebiten.Image {
	for i, img := range p.free {
		b := img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			p.free = append(p.free[:i], p.free[i+1:]...)
			img.Clear()
			return img
		}
	}
	return ebiten.NewImage(w, h)
}

// Release returns an image to the pool.
func (p *texturePool) Release(img *ebiten.Image) {
	p.free = append(p.free, img)
}

// Dispose deallocates all pooled images.
func (p *texturePool) Dispose() {
	for _, img := range p.free {
		img.Deallocate()
	}
	p.free = nil
}

// applyFilters runs a filter chain on src, ping-ponging between src and a
// pooled scratch image. Returns the image holding the final result; the
// caller releases the scratch image if it differs from src.
func applyFilters(filters []Filter, src *ebiten.Image, pool *texturePool) *ebiten.Image {
	if len(filters) == 0 {
		return src
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	current := src
	var scratch *ebiten.Image

	for _, f := range filters {
		if scratch == nil {
			scratch = pool.Acquire(w, h)
		} else {
			scratch.Clear()
		}
		f.Apply(current, scratch)
		current, scratch = scratch, current
	}

	return current
}
