package lumen

import (
	"math"
	"testing"
)

func TestFluenceMonotonicFalloff(t *testing.T) {
	// One emissive vertical segment, no other shapes: level-0 fluence must
	// strictly decrease with distance from the segment within the raymarch
	// range.
	engine, err := NewEngine(128, 128, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	engine.AddLine(40, 24, 40, 104, 4, Color{1, 1, 1})
	engine.Step()

	fl := engine.Fluence()
	d := engine.Levels()[0].Diameter
	prev := -1.0
	// Walk away from the segment along y=64, sampling at probe spacing.
	for x := 46; x <= 110; x += d {
		lum := fl.Luminance(x, 64)
		if prev >= 0 && lum >= prev {
			t.Errorf("fluence at x=%d (%v) did not fall below previous sample (%v)", x, lum, prev)
		}
		if x == 46 && lum <= 0 {
			t.Fatal("no light next to the emitter")
		}
		prev = lum
	}
}

func TestFluenceOneByOneCanvas(t *testing.T) {
	engine, err := NewEngine(1, 1, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if n := len(engine.Levels()); n != 1 {
		t.Fatalf("level count = %d, want 1", n)
	}
	l0 := engine.Levels()[0]
	if l0.ProbesX*l0.ProbesY != 1 {
		t.Fatalf("probe count = %d, want 1", l0.ProbesX*l0.ProbesY)
	}

	engine.Step() // must not panic

	fl := engine.Fluence()
	if fl.Width != 1 || fl.Height != 1 {
		t.Fatalf("fluence size = %dx%d, want 1x1", fl.Width, fl.Height)
	}
	// The single pixel is defined (black, since nothing emits).
	if c := fl.At(0, 0); c != (Color{}) {
		t.Errorf("fluence = %+v, want black", c)
	}
}

func TestFluenceAtOutOfBounds(t *testing.T) {
	fl := newFluenceField(4, 4)
	if c := fl.At(-1, 0); c != (Color{}) {
		t.Errorf("out-of-bounds fluence = %+v, want black", c)
	}
	if c := fl.At(0, 4); c != (Color{}) {
		t.Errorf("out-of-bounds fluence = %+v, want black", c)
	}
}

func TestFluenceContinuity(t *testing.T) {
	// Bilinear reconstruction must not produce probe-grid facets: adjacent
	// pixels differ by far less than the probe spacing would suggest.
	engine, err := NewEngine(128, 128, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	engine.AddLine(64, 30, 64, 98, 6, Color{1, 0.8, 0.5})
	engine.Step()

	fl := engine.Fluence()
	for x := 70; x < 110; x++ {
		a := fl.Luminance(x, 64)
		b := fl.Luminance(x+1, 64)
		if diff := math.Abs(a - b); diff > 0.35*a+1e-3 {
			t.Errorf("fluence jump at x=%d: %v -> %v", x, a, b)
		}
	}
}
