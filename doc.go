// Package lumen is a real-time 2D global illumination engine for [Ebitengine].
//
// Lumen approximates soft shadows, emissive glow, and color bleed from a 2D
// scene of opaque/emissive rectangles and free-form strokes using radiance
// cascades: a hierarchical probe-and-raymarch scheme that runs entirely on
// the CPU at interactive frame rates. It is a screen-space approximation, not
// a physically exact ray tracer.
//
// # Quick start
//
// Create an [Engine], feed it shapes and strokes, and call [Engine.Step] once
// per frame before drawing:
//
//	engine, err := lumen.NewEngine(640, 480, lumen.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.SetShapes([]lumen.Shape{
//		{Left: 100, Top: 100, Right: 180, Bottom: 160},
//	})
//	engine.AddLine(300, 200, 420, 260, 6, lumen.Color{R: 1, G: 0.7, B: 0.2})
//
//	// Each frame:
//	engine.Step()
//	engine.Draw(screen)
//
// # Pipeline
//
// Every frame the engine rebuilds its state from the current shape and stroke
// lists: shapes are rasterized into a world field (emissive RGB + opacity)
// with a box-filtered mip pyramid, a planner derives the cascade level
// geometry from the canvas size, the raymarcher sweeps the levels from
// coarsest to finest writing pre-averaged direction-group samples into a
// double-buffered store, the fluence reconstructor turns level-0 probes into
// a dense per-pixel radiance image, and a [Compositor] blends the result with
// the world field. Frames are independent; a skipped frame self-corrects on
// the next one.
//
// # Key features
//
// Lumen includes a pluggable per-shape color strategy ([ColorFunc]), a
// mouse-following point light, stroke erasing ([Engine.EraseAt]), Kage shader
// post-effect filters (distortion, emboss, iridescence, vignette), tweened
// light animation (via [gween]), reduced-resolution rendering, and per-stage
// debug timings.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package lumen
