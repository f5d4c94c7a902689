// Package ebitenwin adapts an ebiten image into a present target for
// window-backed surfaces. The engine pushes pixels here at the end of a
// flush; the ebiten game loop draws the retained frame every display
// refresh.
package ebitenwin

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Target buffers the most recently presented frame.
type Target struct {
	frame *ebiten.Image
}

// New creates an empty target. The backing image is allocated lazily at
// the first presented frame and reallocated on resize.
func New() *Target {
	return &Target{}
}

// WritePixels stores the presented frame. pix is RGBA, straight alpha,
// row major.
func (t *Target) WritePixels(pix []byte, width, height int) {
	if t.frame == nil || t.frame.Bounds().Dx() != width || t.frame.Bounds().Dy() != height {
		t.frame = ebiten.NewImage(width, height)
	}
	t.frame.WritePixels(pix)
}

// Draw copies the last presented frame onto screen. Before the first
// flush there is no frame and the screen is left untouched.
func (t *Target) Draw(screen *ebiten.Image) {
	if t.frame != nil {
		screen.DrawImage(t.frame, nil)
	}
}
