package engine

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Pixmap is a rectangular RGBA pixel buffer, 4 bytes per pixel,
// straight (non-premultiplied) alpha.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a transparent pixmap with the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

func (p *Pixmap) Width() int  { return p.width }
func (p *Pixmap) Height() int { return p.height }

// Data returns the raw pixel data.
func (p *Pixmap) Data() []uint8 { return p.data }

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SetPixel overwrites a single pixel. Out-of-bounds writes are dropped.
func (p *Pixmap) SetPixel(x, y int, c mgl32.Vec4) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(clampUnit(c.X())*255 + 0.5)
	p.data[i+1] = uint8(clampUnit(c.Y())*255 + 0.5)
	p.data[i+2] = uint8(clampUnit(c.Z())*255 + 0.5)
	p.data[i+3] = uint8(clampUnit(c.W())*255 + 0.5)
}

// BlendPixel source-over blends c onto the pixel at (x, y).
func (p *Pixmap) BlendPixel(x, y int, c mgl32.Vec4) {
	a := clampUnit(c.W())
	if a <= 0 {
		return
	}
	if a >= 1 {
		p.SetPixel(x, y, c)
		return
	}
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	inv := 1 - a
	p.data[i+0] = uint8(clampUnit(c.X())*a*255 + float32(p.data[i+0])*inv + 0.5)
	p.data[i+1] = uint8(clampUnit(c.Y())*a*255 + float32(p.data[i+1])*inv + 0.5)
	p.data[i+2] = uint8(clampUnit(c.Z())*a*255 + float32(p.data[i+2])*inv + 0.5)
	p.data[i+3] = uint8(a*255 + float32(p.data[i+3])*inv + 0.5)
}

// GetPixel returns the color of a single pixel, or transparent black
// outside the bounds.
func (p *Pixmap) GetPixel(x, y int) mgl32.Vec4 {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return mgl32.Vec4{}
	}
	i := (y*p.width + x) * 4
	return mgl32.Vec4{
		float32(p.data[i+0]) / 255,
		float32(p.data[i+1]) / 255,
		float32(p.data[i+2]) / 255,
		float32(p.data[i+3]) / 255,
	}
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c mgl32.Vec4) {
	r := uint8(clampUnit(c.X())*255 + 0.5)
	g := uint8(clampUnit(c.Y())*255 + 0.5)
	b := uint8(clampUnit(c.Z())*255 + 0.5)
	a := uint8(clampUnit(c.W())*255 + 0.5)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// CopyFrom copies the overlapping region of src into p.
func (p *Pixmap) CopyFrom(src *Pixmap) {
	w := p.width
	if src.width < w {
		w = src.width
	}
	h := p.height
	if src.height < h {
		h = src.height
	}
	for y := 0; y < h; y++ {
		copy(p.data[y*p.width*4:y*p.width*4+w*4], src.data[y*src.width*4:y*src.width*4+w*4])
	}
}

// WriteRegion overwrites the rectangle at (x, y) with raw RGBA rows of the
// given width and height. The caller validates bounds.
func (p *Pixmap) WriteRegion(x, y, width, height int, rgba []uint8) {
	for row := 0; row < height; row++ {
		dst := ((y+row)*p.width + x) * 4
		src := row * width * 4
		copy(p.data[dst:dst+width*4], rgba[src:src+width*4])
	}
}

// ToImage converts the pixmap to an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}
