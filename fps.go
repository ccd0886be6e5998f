package lumen

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FPSOverlay is a small widget that displays the current FPS and TPS.
// The text is refreshed roughly twice per second.
type FPSOverlay struct {
	img    *ebiten.Image
	frames int
}

// NewFPSOverlay creates the overlay.
func NewFPSOverlay() *FPSOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &FPSOverlay{img: ebiten.NewImage(100, 32)}
}

// Draw renders the overlay onto screen at (x, y).
func (o *FPSOverlay) Draw(screen *ebiten.Image, x, y float64) {
	if o.frames%30 == 0 {
		o.img.Clear()
		// Semi-transparent background for readability
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f",
			ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
	o.frames++

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	screen.DrawImage(o.img, &op)
}

// Dispose releases the overlay's image.
func (o *FPSOverlay) Dispose() {
	if o.img != nil {
		o.img.Deallocate()
		o.img = nil
	}
}
