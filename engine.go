package lumen

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

// PointerLight is the optional mouse-following point light. Enable it with
// [Engine.SetPointerLight]; adjust Radius and Color through [Engine.Pointer].
type PointerLight struct {
	X, Y    float64
	Radius  float64
	Color   Color
	Enabled bool
}

// Engine is a radiance-cascade global illumination engine bound to one
// canvas. It owns a WorldField, cascade store, and FluenceField, all rebuilt
// from the current shape and stroke lists on every [Engine.Step].
//
// An Engine is not safe for concurrent use: call its methods from the game
// loop goroutine. Step itself fans work out across CPU cores internally.
type Engine struct {
	cfg          Config
	compositor   Compositor
	compositeCfg CompositeConfig
	colorOf      ColorFunc

	// Filters is the post-effect chain applied during Draw, in order.
	// Purely presentational; it never feeds back into the light transport.
	Filters []Filter

	width, height      int // canvas size in output pixels
	fieldW, fieldH     int // compute resolution after ResolutionScale
	fieldScale         float64
	pendingW, pendingH int
	resizePending      bool

	shapes  []Shape
	lines   []Line
	pointer PointerLight

	world   *WorldField
	levels  []Level
	store   *cascadeStore
	fluence *FluenceField
	frame   *image.RGBA // composited frame at field resolution
	output  *image.RGBA // canvas-resolution copy, used when ResolutionScale < 1

	frameImg *ebiten.Image
	pool     texturePool

	workers int
	debug   bool
	stats   frameStats
}

// NewEngine creates an engine for a canvas of the given size. The config is
// validated once here; a config that passes never fails later. Zero-size
// canvases are allowed and render nothing until a Resize.
func NewEngine(width, height int, cfg Config) (*Engine, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("lumen: canvas size must be non-negative, got %dx%d", width, height)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:          cfg,
		compositor:   ScreenCompositor{},
		compositeCfg: DefaultCompositeConfig(),
		colorOf:      HueRotate(47),
		pointer: PointerLight{
			Radius: 6,
			Color:  ColorWhite,
		},
		workers: runtime.GOMAXPROCS(0),
	}
	e.resize(width, height)
	return e, nil
}

// Config returns the engine's tuning constants.
func (e *Engine) Config() Config {
	return e.cfg
}

// Levels returns the current cascade level plan, finest first. The returned
// slice MUST NOT be mutated.
func (e *Engine) Levels() []Level {
	return e.levels
}

// SetShapes replaces the shape list. The engine reads the slice during Step
// and never mutates it; refresh it whenever the host's layout changes.
func (e *Engine) SetShapes(shapes []Shape) {
	e.shapes = shapes
}

// SetColorFunc sets the per-shape color strategy used for shapes whose own
// Color is zero. The default rotates the hue wheel by shape index.
func (e *Engine) SetColorFunc(fn ColorFunc) {
	if fn == nil {
		fn = HueRotate(47)
	}
	e.colorOf = fn
}

// SetCompositor replaces the compositor. Passing nil restores the default
// [ScreenCompositor].
func (e *Engine) SetCompositor(c Compositor) {
	if c == nil {
		c = ScreenCompositor{}
	}
	e.compositor = c
}

// SetCompositeConfig sets the compositor settings used each frame.
func (e *Engine) SetCompositeConfig(cfg CompositeConfig) {
	e.compositeCfg = cfg
}

// CompositeConfig returns the current compositor settings.
func (e *Engine) CompositeConfig() CompositeConfig {
	return e.compositeCfg
}

// SetPointerLight enables the pointer light and moves it to (x, y) in canvas
// coordinates.
func (e *Engine) SetPointerLight(x, y float64) {
	e.pointer.X = x
	e.pointer.Y = y
	e.pointer.Enabled = true
}

// DisablePointerLight turns the pointer light off.
func (e *Engine) DisablePointerLight() {
	e.pointer.Enabled = false
}

// Pointer returns the pointer light for radius/color adjustments.
func (e *Engine) Pointer() *PointerLight {
	return &e.pointer
}

// SetDebugMode enables per-frame stage timings logged to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Resize requests a new canvas size. The change is deferred to the next
// frame boundary: buffers are reallocated at the start of the next Step, so
// a resize observed mid-frame never tears the current one.
func (e *Engine) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	e.pendingW = width
	e.pendingH = height
	e.resizePending = true
}

// resize reallocates every size-dependent buffer. No incremental path: the
// world field and cascade store are rebuilt from scratch at the new size.
func (e *Engine) resize(width, height int) {
	e.width = width
	e.height = height

	if width <= 0 || height <= 0 {
		e.fieldW, e.fieldH = 0, 0
		e.fieldScale = 1
		e.world = newWorldField(0, 0)
		e.levels = nil
		e.store = newCascadeStore(nil)
		e.fluence = newFluenceField(0, 0)
		e.frame = nil
		e.output = nil
	} else {
		e.fieldW = max(1, int(math.Round(float64(width)*e.cfg.ResolutionScale)))
		e.fieldH = max(1, int(math.Round(float64(height)*e.cfg.ResolutionScale)))
		e.fieldScale = float64(e.fieldW) / float64(width)
		e.world = newWorldField(e.fieldW, e.fieldH)
		e.levels = planLevels(e.fieldW, e.fieldH, e.cfg)
		e.store = newCascadeStore(e.levels)
		e.fluence = newFluenceField(e.fieldW, e.fieldH)
		e.frame = image.NewRGBA(image.Rect(0, 0, e.fieldW, e.fieldH))
		e.output = nil
	}

	if e.frameImg != nil {
		e.frameImg.Deallocate()
		e.frameImg = nil
	}
}

// Step runs the whole per-frame pipeline: apply a pending resize, rasterize
// shapes and strokes into the world field, sweep the cascade levels from
// coarsest to finest, reconstruct the fluence field, and composite the frame.
// Each stage completes fully before the next begins.
//
// A zero-area canvas or an empty scene is not an error; the frame simply
// renders the background.
func (e *Engine) Step() {
	if e.resizePending {
		e.resizePending = false
		e.resize(e.pendingW, e.pendingH)
	}
	if e.width <= 0 || e.height <= 0 {
		return
	}

	var t0 time.Time
	if e.debug {
		e.stats = frameStats{levelCount: len(e.levels)}
		t0 = time.Now()
	}

	e.rasterize()

	if e.debug {
		e.stats.rasterizeTime = time.Since(t0)
		t0 = time.Now()
	}

	for it := 0; it < e.cfg.IterationsPerFrame; it++ {
		for li := len(e.levels) - 1; li >= 0; li-- {
			marchLevel(e.world, e.levels, li, e.store, e.cfg, e.workers)
		}

		if e.debug {
			e.stats.sweepTime += time.Since(t0)
			t0 = time.Now()
		}

		e.fluence.reconstruct(e.store, &e.levels[0], e.workers)

		if e.debug {
			e.stats.reconstructTime += time.Since(t0)
			t0 = time.Now()
		}
	}

	e.compositor.Composite(e.fluence, e.world, e.compositeCfg, e.frame)

	if e.debug {
		e.stats.compositeTime = time.Since(t0)
		e.debugLog()
	}
}

// rasterize rebuilds world field mip 0 from the current shape, stroke, and
// pointer-light lists, then regenerates the mip chain. Input order is draw
// order: later entries overwrite earlier ones on overlap.
func (e *Engine) rasterize() {
	e.world.Clear()
	s := e.fieldScale

	for i, shape := range e.shapes {
		c := shape.Color
		if c == (Color{}) {
			c = e.colorOf(shape, i)
		}
		e.world.FillRect(shape.Left*s, shape.Top*s, shape.Right*s, shape.Bottom*s, c)
	}
	for _, l := range e.lines {
		e.world.FillSegment(Line{
			X1: l.X1 * s, Y1: l.Y1 * s,
			X2: l.X2 * s, Y2: l.Y2 * s,
			Thickness: l.Thickness * s,
			Color:     l.Color,
		})
	}
	if e.pointer.Enabled {
		e.world.FillCircle(e.pointer.X*s, e.pointer.Y*s, e.pointer.Radius*s, e.pointer.Color)
	}

	e.world.BuildMips()
}

// Fluence returns the most recently reconstructed fluence field.
func (e *Engine) Fluence() *FluenceField {
	return e.fluence
}

// World returns the most recently rasterized world field.
func (e *Engine) World() *WorldField {
	return e.world
}

// Image returns the composited frame at canvas resolution. When
// ResolutionScale < 1, the field-resolution frame is upscaled bilinearly on
// the CPU. Returns nil while the canvas has zero area.
func (e *Engine) Image() *image.RGBA {
	if e.frame == nil {
		return nil
	}
	if e.fieldW == e.width && e.fieldH == e.height {
		return e.frame
	}
	if e.output == nil || e.output.Bounds().Dx() != e.width || e.output.Bounds().Dy() != e.height {
		e.output = image.NewRGBA(image.Rect(0, 0, e.width, e.height))
	}
	xdraw.ApproxBiLinear.Scale(e.output, e.output.Bounds(), e.frame, e.frame.Bounds(), xdraw.Src, nil)
	return e.output
}

// Draw uploads the composited frame, runs the post-effect filter chain, and
// draws the result onto screen scaled to the canvas size.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.frame == nil {
		return
	}
	if e.frameImg == nil {
		e.frameImg = ebiten.NewImage(e.fieldW, e.fieldH)
	}
	e.frameImg.WritePixels(e.frame.Pix)

	result := applyFilters(e.Filters, e.frameImg, &e.pool)

	var op ebiten.DrawImageOptions
	if e.fieldW != e.width || e.fieldH != e.height {
		op.GeoM.Scale(float64(e.width)/float64(e.fieldW), float64(e.height)/float64(e.fieldH))
		op.Filter = ebiten.FilterLinear
	}
	screen.DrawImage(result, &op)

	if result != e.frameImg {
		e.pool.Release(result)
	}
}

// Dispose releases GPU resources owned by the engine. The engine must not be
// used afterwards.
func (e *Engine) Dispose() {
	if e.frameImg != nil {
		e.frameImg.Deallocate()
		e.frameImg = nil
	}
	e.pool.Dispose()
}
