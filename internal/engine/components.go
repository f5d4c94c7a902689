package engine

import "github.com/go-gl/mathgl/mgl32"

// Transform positions a mesh on its surface. Z orders meshes spawned in
// the same flush is not needed: entity ids are monotonically increasing
// and the renderer processes them in id order (painter's algorithm).
type Transform struct {
	Matrix mgl32.Mat3
}

// IdentityTransform returns a transform with the identity matrix.
func IdentityTransform() Transform {
	return Transform{Matrix: mgl32.Ident3()}
}

// Vertex is one corner of a triangle: position, straight-alpha color, and
// texture coordinate (ignored unless the mesh carries a texture).
type Vertex struct {
	Pos   mgl32.Vec2
	Color mgl32.Vec4
	UV    mgl32.Vec2
}

// Mesh is a triangle list. Vertices are consumed three at a time; a
// trailing partial triangle is ignored.
type Mesh struct {
	Vertices []Vertex
	Texture  *Pixmap
}

// Triangle appends one triangle.
func (m *Mesh) Triangle(a, b, c Vertex) {
	m.Vertices = append(m.Vertices, a, b, c)
}

// Quad appends the two triangles covering the quad a-b-c-d (in winding
// order), all with color col.
func (m *Mesh) Quad(a, b, c, d mgl32.Vec2, col mgl32.Vec4) {
	m.Triangle(Vertex{Pos: a, Color: col}, Vertex{Pos: b, Color: col}, Vertex{Pos: c, Color: col})
	m.Triangle(Vertex{Pos: a, Color: col}, Vertex{Pos: c, Color: col}, Vertex{Pos: d, Color: col})
}

// Camera renders one layer onto one surface. Cameras are deactivated at
// the start of every tick and reactivated only for surfaces whose flush is
// in progress, so a bookkeeping tick never produces a visible frame.
type Camera struct {
	Target EntityID // surface entity
	Layer  int
	Active bool
}

// PresentTarget receives the final pixels of a window-backed surface.
// Offscreen surfaces have no present target; their pixmap is the output.
type PresentTarget interface {
	// WritePixels is called with the surface's RGBA pixels after a
	// flush that reached the present step.
	WritePixels(pix []byte, width, height int)
}

// Surface is a render target: retained pixel content plus the flags the
// lifecycle manager drives around each flush.
type Surface struct {
	Width, Height int
	Pixmap        *Pixmap
	Present       PresentTarget

	// RenderEnabled gates the whole render path for this surface.
	// Surfaces start disabled.
	RenderEnabled bool
	// Dirty is true exactly while a flush targeting this surface is in
	// progress.
	Dirty bool
	// OutputEnabled gates the final present/copy step. Set only after a
	// flush has fully materialized its commands, so a half-drawn
	// intermediate state never reaches the displayed surface.
	OutputEnabled bool
}

// NewSurface creates a surface cleared to the given color, with the render
// path disabled.
func NewSurface(width, height int, clear mgl32.Vec4, present PresentTarget) *Surface {
	pm := NewPixmap(width, height)
	pm.Clear(clear)
	return &Surface{
		Width:   width,
		Height:  height,
		Pixmap:  pm,
		Present: present,
	}
}

// Resize reallocates the surface's pixel storage, preserving the
// overlapping region.
func (s *Surface) Resize(width, height int) {
	next := NewPixmap(width, height)
	next.CopyFrom(s.Pixmap)
	s.Pixmap = next
	s.Width = width
	s.Height = height
}
