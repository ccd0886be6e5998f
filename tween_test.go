package lumen

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestTweenLightPosition(t *testing.T) {
	l := &PointerLight{X: 0, Y: 0}
	g := TweenLightPosition(l, 100, 50, 1, ease.Linear)

	g.Update(0.5)
	assertNear(t, "mid X", l.X, 50)
	assertNear(t, "mid Y", l.Y, 25)
	if g.Done {
		t.Error("tween done at half duration")
	}

	g.Update(0.5)
	assertNear(t, "final X", l.X, 100)
	assertNear(t, "final Y", l.Y, 50)
	if !g.Done {
		t.Error("tween not done after full duration")
	}
}

func TestTweenColor(t *testing.T) {
	c := &Color{0, 0, 0}
	g := TweenColor(c, Color{1, 0.5, 0.25}, 2, ease.Linear)
	g.Update(2)
	assertNear(t, "R", c.R, 1)
	assertNear(t, "G", c.G, 0.5)
	assertNear(t, "B", c.B, 0.25)
	if !g.Done {
		t.Error("tween not done")
	}
}

func TestTweenDoneIsIdempotent(t *testing.T) {
	v := 0.0
	g := TweenValue(&v, 10, 1, ease.Linear)
	g.Update(2)
	if !g.Done {
		t.Fatal("tween not done")
	}
	v = 42 // external write must survive further Update calls
	g.Update(1)
	assertNear(t, "value after done", v, 42)
}
