package lumen

import "testing"

func benchEngine(b *testing.B, size int) *Engine {
	b.Helper()
	e, err := NewEngine(size, size, DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	e.SetShapes([]Shape{
		{Left: 40, Top: 40, Right: 90, Bottom: 70, Color: Color{1, 0.6, 0.2}},
		{Left: 150, Top: 100, Right: 170, Bottom: 200},
	})
	e.AddLine(30, 180, 220, 140, 5, Color{0.2, 0.5, 1})
	return e
}

func BenchmarkStep256(b *testing.B) {
	e := benchEngine(b, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step()
	}
}

func BenchmarkStep512(b *testing.B) {
	e := benchEngine(b, 512)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Step()
	}
}

func BenchmarkSweep256(b *testing.B) {
	e := benchEngine(b, 256)
	e.Step() // warm rasterization
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for li := len(e.levels) - 1; li >= 0; li-- {
			marchLevel(e.world, e.levels, li, e.store, e.cfg, e.workers)
		}
	}
}

func BenchmarkReconstruct256(b *testing.B) {
	e := benchEngine(b, 256)
	e.Step()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.fluence.reconstruct(e.store, &e.levels[0], e.workers)
	}
}

func BenchmarkRasterize256(b *testing.B) {
	e := benchEngine(b, 256)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.rasterize()
	}
}
