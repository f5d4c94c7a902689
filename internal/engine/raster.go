package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DrawMesh rasterizes a triangle-list mesh into dst, applying the affine
// transform to every vertex. Triangles are filled with barycentric color
// interpolation; when the mesh carries a texture, the interpolated UV is
// sampled (nearest) and modulated by the vertex color.
func DrawMesh(dst *Pixmap, tr Transform, mesh *Mesh) {
	n := len(mesh.Vertices) - len(mesh.Vertices)%3
	for i := 0; i < n; i += 3 {
		a := transformVertex(tr.Matrix, mesh.Vertices[i])
		b := transformVertex(tr.Matrix, mesh.Vertices[i+1])
		c := transformVertex(tr.Matrix, mesh.Vertices[i+2])
		fillTriangle(dst, a, b, c, mesh.Texture)
	}
}

func transformVertex(m mgl32.Mat3, v Vertex) Vertex {
	p := m.Mul3x1(mgl32.Vec3{v.Pos.X(), v.Pos.Y(), 1})
	v.Pos = mgl32.Vec2{p.X(), p.Y()}
	return v
}

// edge returns twice the signed area of the triangle (a, b, p).
func edge(a, b, p mgl32.Vec2) float32 {
	return (b.X()-a.X())*(p.Y()-a.Y()) - (b.Y()-a.Y())*(p.X()-a.X())
}

func fillTriangle(dst *Pixmap, a, b, c Vertex, tex *Pixmap) {
	area := edge(a.Pos, b.Pos, c.Pos)
	if area == 0 {
		return
	}
	// Accept either winding.
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := int(math.Floor(float64(min3(a.Pos.X(), b.Pos.X(), c.Pos.X()))))
	maxX := int(math.Ceil(float64(max3(a.Pos.X(), b.Pos.X(), c.Pos.X()))))
	minY := int(math.Floor(float64(min3(a.Pos.Y(), b.Pos.Y(), c.Pos.Y()))))
	maxY := int(math.Ceil(float64(max3(a.Pos.Y(), b.Pos.Y(), c.Pos.Y()))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > dst.Width() {
		maxX = dst.Width()
	}
	if maxY > dst.Height() {
		maxY = dst.Height()
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			// Sample at the pixel center.
			p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(b.Pos, c.Pos, p)
			w1 := edge(c.Pos, a.Pos, p)
			w2 := edge(a.Pos, b.Pos, p)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			w0 /= area
			w1 /= area
			w2 /= area

			col := mgl32.Vec4{
				w0*a.Color.X() + w1*b.Color.X() + w2*c.Color.X(),
				w0*a.Color.Y() + w1*b.Color.Y() + w2*c.Color.Y(),
				w0*a.Color.Z() + w1*b.Color.Z() + w2*c.Color.Z(),
				w0*a.Color.W() + w1*b.Color.W() + w2*c.Color.W(),
			}
			if tex != nil {
				u := w0*a.UV.X() + w1*b.UV.X() + w2*c.UV.X()
				v := w0*a.UV.Y() + w1*b.UV.Y() + w2*c.UV.Y()
				s := sampleNearest(tex, u, v)
				col = mgl32.Vec4{
					col.X() * s.X(),
					col.Y() * s.Y(),
					col.Z() * s.Z(),
					col.W() * s.W(),
				}
			}
			dst.BlendPixel(x, y, col)
		}
	}
}

func sampleNearest(tex *Pixmap, u, v float32) mgl32.Vec4 {
	x := int(u * float32(tex.Width()))
	y := int(v * float32(tex.Height()))
	if x < 0 {
		x = 0
	} else if x >= tex.Width() {
		x = tex.Width() - 1
	}
	if y < 0 {
		y = 0
	} else if y >= tex.Height() {
		y = tex.Height() - 1
	}
	return tex.GetPixel(x, y)
}

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}

// RectFillMesh builds the fill geometry for a sharp-cornered
// axis-aligned rectangle.
func RectFillMesh(x, y, w, h float32, col mgl32.Vec4) *Mesh {
	m := &Mesh{}
	m.Quad(
		mgl32.Vec2{x, y},
		mgl32.Vec2{x + w, y},
		mgl32.Vec2{x + w, y + h},
		mgl32.Vec2{x, y + h},
		col,
	)
	return m
}

// RectStrokeMesh builds the stroke geometry for a rectangle outline:
// four edge quads of the given weight, centered on the edges.
func RectStrokeMesh(x, y, w, h, weight float32, col mgl32.Vec4) *Mesh {
	if weight <= 0 {
		return &Mesh{}
	}
	hw := weight / 2
	m := &Mesh{}
	// top
	m.Quad(
		mgl32.Vec2{x - hw, y - hw},
		mgl32.Vec2{x + w + hw, y - hw},
		mgl32.Vec2{x + w + hw, y + hw},
		mgl32.Vec2{x - hw, y + hw},
		col,
	)
	// bottom
	m.Quad(
		mgl32.Vec2{x - hw, y + h - hw},
		mgl32.Vec2{x + w + hw, y + h - hw},
		mgl32.Vec2{x + w + hw, y + h + hw},
		mgl32.Vec2{x - hw, y + h + hw},
		col,
	)
	// left
	m.Quad(
		mgl32.Vec2{x - hw, y + hw},
		mgl32.Vec2{x + hw, y + hw},
		mgl32.Vec2{x + hw, y + h - hw},
		mgl32.Vec2{x - hw, y + h - hw},
		col,
	)
	// right
	m.Quad(
		mgl32.Vec2{x + w - hw, y + hw},
		mgl32.Vec2{x + w + hw, y + hw},
		mgl32.Vec2{x + w + hw, y + h - hw},
		mgl32.Vec2{x + w - hw, y + h - hw},
		col,
	)
	return m
}

// arcSegments is the tessellation density of a quarter-circle corner.
const arcSegments = 8

// roundedRectOutline returns the closed clockwise outline of a rounded
// rectangle. Radii are ordered clockwise from top-left and clamped to
// the half-extents; a zero radius degenerates to the sharp corner point.
func roundedRectOutline(x, y, w, h float32, radii [4]float32) []mgl32.Vec2 {
	maxR := w / 2
	if h/2 < maxR {
		maxR = h / 2
	}
	for i := range radii {
		if radii[i] < 0 {
			radii[i] = 0
		}
		if radii[i] > maxR {
			radii[i] = maxR
		}
	}
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]

	var pts []mgl32.Vec2
	corner := func(cx, cy, radius float32, start float64) {
		if radius <= 0 {
			pts = append(pts, mgl32.Vec2{cx, cy})
			return
		}
		for i := 0; i <= arcSegments; i++ {
			a := start + float64(i)/arcSegments*math.Pi/2
			pts = append(pts, mgl32.Vec2{
				cx + radius*float32(math.Cos(a)),
				cy + radius*float32(math.Sin(a)),
			})
		}
	}
	// Clockwise in screen space (y down).
	corner(x+w-tr, y+tr, tr, -math.Pi/2)
	corner(x+w-br, y+h-br, br, 0)
	corner(x+bl, y+h-bl, bl, math.Pi/2)
	corner(x+tl, y+tl, tl, math.Pi)
	return pts
}

// RoundedRectFillMesh builds the fill geometry for a rectangle with
// per-corner radii, tessellated as a fan around the center. The outline
// is convex, so the fan covers it exactly.
func RoundedRectFillMesh(x, y, w, h float32, radii [4]float32, col mgl32.Vec4) *Mesh {
	pts := roundedRectOutline(x, y, w, h, radii)
	center := Vertex{Pos: mgl32.Vec2{x + w/2, y + h/2}, Color: col}
	m := &Mesh{}
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		m.Triangle(center, Vertex{Pos: a, Color: col}, Vertex{Pos: b, Color: col})
	}
	return m
}

// RoundedRectStrokeMesh builds the outline geometry for a rectangle with
// per-corner radii: one quad of the given weight per outline segment,
// centered on the path.
func RoundedRectStrokeMesh(x, y, w, h, weight float32, radii [4]float32, col mgl32.Vec4) *Mesh {
	if weight <= 0 {
		return &Mesh{}
	}
	pts := roundedRectOutline(x, y, w, h, radii)
	hw := weight / 2
	m := &Mesh{}
	for i := range pts {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		d := b.Sub(a)
		length := d.Len()
		if length == 0 {
			continue
		}
		n := mgl32.Vec2{-d.Y() / length, d.X() / length}.Mul(hw)
		m.Quad(a.Add(n), b.Add(n), b.Sub(n), a.Sub(n), col)
	}
	return m
}

// TexturedQuadMesh builds a full-target quad textured with tex.
func TexturedQuadMesh(w, h float32, tex *Pixmap) *Mesh {
	white := mgl32.Vec4{1, 1, 1, 1}
	m := &Mesh{Texture: tex}
	m.Triangle(
		Vertex{Pos: mgl32.Vec2{0, 0}, Color: white, UV: mgl32.Vec2{0, 0}},
		Vertex{Pos: mgl32.Vec2{w, 0}, Color: white, UV: mgl32.Vec2{1, 0}},
		Vertex{Pos: mgl32.Vec2{w, h}, Color: white, UV: mgl32.Vec2{1, 1}},
	)
	m.Triangle(
		Vertex{Pos: mgl32.Vec2{0, 0}, Color: white, UV: mgl32.Vec2{0, 0}},
		Vertex{Pos: mgl32.Vec2{w, h}, Color: white, UV: mgl32.Vec2{1, 1}},
		Vertex{Pos: mgl32.Vec2{0, h}, Color: white, UV: mgl32.Vec2{0, 1}},
	)
	return m
}
