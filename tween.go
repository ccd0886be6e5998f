package lumen

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenLightPosition, TweenColor, TweenValue)
// and call Update(dt) each frame.
//
// There is no global animation manager — callers drive Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. Once every tween finishes, Done is set and further calls no-op.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenLightPosition creates a TweenGroup that moves a pointer light to the
// given canvas coordinates over the specified duration using the easing
// function.
func TweenLightPosition(l *PointerLight, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 2}
	g.tweens[0] = gween.New(float32(l.X), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(l.Y), float32(toY), duration, fn)
	g.fields[0] = &l.X
	g.fields[1] = &l.Y
	return g
}

// TweenColor creates a TweenGroup that animates all three components of a
// color to the target over the specified duration.
func TweenColor(c *Color, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	g.tweens[0] = gween.New(float32(c.R), float32(to.R), duration, fn)
	g.tweens[1] = gween.New(float32(c.G), float32(to.G), duration, fn)
	g.tweens[2] = gween.New(float32(c.B), float32(to.B), duration, fn)
	g.fields[0] = &c.R
	g.fields[1] = &c.G
	g.fields[2] = &c.B
	return g
}

// TweenValue creates a TweenGroup that animates a single float64 field to the
// target value over the specified duration.
func TweenValue(f *float64, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(*f), float32(to), duration, fn)
	g.fields[0] = f
	return g
}
