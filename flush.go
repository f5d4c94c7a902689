package gocessing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gocessing/gocessing/internal/command"
	"github.com/gocessing/gocessing/internal/engine"
)

// Flush converts the context's recorded commands into transient engine
// entities, drives exactly one synchronous engine tick, and despawns the
// transients again before returning. After a flush the surface pixmap
// reflects every recorded command in script order and the command buffer
// is empty. Cleanup is unconditional: whether the tick succeeds, fails,
// or panics, no transient entities survive and the surface is back in
// its quiescent gated state.
func Flush(h Handle) error {
	return entry("flush", func(st *state) error {
		return st.flush(h)
	})
}

// BeginDraw resets the context's style state to the defaults: white
// fill, black stroke, weight 1, identity transform, empty matrix stack.
// Recorded commands are unaffected.
func BeginDraw(h Handle) error {
	return entry("begin-draw", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		g.buffer.ResetStyle()
		return nil
	})
}

// EndDraw flushes any remaining commands and presents the frame. Unlike
// a plain Flush it is the conventional end of a begin/end drawing pair;
// an empty buffer still produces a present so the surface shows its
// retained content.
func EndDraw(h Handle) error {
	return entry("end-draw", func(st *state) error {
		return st.flush(h)
	})
}

func (st *state) flush(h Handle) error {
	g, err := st.graphicsObj(h)
	if err != nil {
		return err
	}
	so, err := st.surfaceObj(Handle(g.surface))
	if err != nil {
		return fmt.Errorf("%w: graphics target surface destroyed", ErrInvalidHandle)
	}

	if err := st.enableForFlush(so); err != nil {
		return err
	}
	defer func() {
		if n := st.app.World().DespawnOwned(g.camera); n > 0 {
			st.logger.Debug("transients despawned", "count", n)
		}
		st.disableAfterFlush(so)
	}()

	cmds, _ := g.buffer.Take()
	if err := st.materialize(g, so, cmds); err != nil {
		return fmt.Errorf("%w: materialization: %v", ErrRenderFailure, err)
	}
	// Commands fully materialized: allow the present step this tick.
	so.surface.OutputEnabled = true

	if err := st.app.Update(); err != nil {
		return fmt.Errorf("%w: engine tick: %v", ErrRenderFailure, err)
	}
	return nil
}

// materialize spawns one or two transient mesh entities per recorded
// command, owned by the context's camera and confined to its render
// layer. Spawn order equals record order; the renderer draws meshes in
// id order, which preserves the painter's algorithm across the flush.
func (st *state) materialize(g *graphicsObject, so *surfaceObject, cmds []command.Command) error {
	w := st.app.World()
	for _, cmd := range cmds {
		tr := engine.Transform{Matrix: cmd.Style.Transform}
		switch cmd.Op {
		case command.OpRect:
			rounded := cmd.Radii != [4]float32{}
			if cmd.Style.Fill != nil {
				var mesh *engine.Mesh
				if rounded {
					mesh = engine.RoundedRectFillMesh(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Radii, *cmd.Style.Fill)
				} else {
					mesh = engine.RectFillMesh(cmd.X, cmd.Y, cmd.W, cmd.H, *cmd.Style.Fill)
				}
				w.SpawnMesh(g.camera, g.layer, mesh, tr)
			}
			if cmd.Style.Stroke != nil && cmd.Style.StrokeWeight > 0 {
				var mesh *engine.Mesh
				if rounded {
					mesh = engine.RoundedRectStrokeMesh(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Style.StrokeWeight, cmd.Radii, *cmd.Style.Stroke)
				} else {
					mesh = engine.RectStrokeMesh(cmd.X, cmd.Y, cmd.W, cmd.H, cmd.Style.StrokeWeight, *cmd.Style.Stroke)
				}
				w.SpawnMesh(g.camera, g.layer, mesh, tr)
			}
		case command.OpBackground:
			mesh := engine.RectFillMesh(0, 0, float32(so.surface.Width), float32(so.surface.Height), cmd.Color)
			w.SpawnMesh(g.camera, g.layer, mesh, engine.IdentityTransform())
		case command.OpBackgroundImage:
			img, err := st.imageObj(Handle(cmd.Image))
			if err != nil {
				// The image was destroyed between record and flush. Skip
				// the command rather than failing the whole frame.
				st.logger.Warn("background image no longer exists, skipping", "image", cmd.Image)
				continue
			}
			mesh := engine.TexturedQuadMesh(float32(so.surface.Width), float32(so.surface.Height), img.pixmap)
			w.SpawnMesh(g.camera, g.layer, mesh, engine.IdentityTransform())
		case command.OpGeometry:
			geo, err := st.geometryObj(Handle(cmd.Geometry))
			if err != nil {
				st.logger.Warn("geometry no longer exists, skipping", "geometry", cmd.Geometry)
				continue
			}
			var mat *materialObject
			if cmd.Material != 0 {
				if mat, err = st.materialObj(Handle(cmd.Material)); err != nil {
					st.logger.Warn("material no longer exists, drawing unlit", "material", cmd.Material)
					mat = nil
				}
			}
			mesh := geometryMesh(geo, mat, cmd.Style)
			if len(mesh.Vertices) > 0 {
				w.SpawnMesh(g.camera, g.layer, mesh, tr)
			}
		default:
			return fmt.Errorf("unknown command op %d", cmd.Op)
		}
	}
	return nil
}

// geometryMesh converts a geometry object into a renderable triangle
// list. An unlit material paints every vertex with its base color;
// otherwise the material's base color modulates vertex colors, and
// without a material the style's fill is the modulator.
func geometryMesh(geo *geometryObject, mat *materialObject, style command.Snapshot) *engine.Mesh {
	tint := mgl32.Vec4{1, 1, 1, 1}
	flat := false
	if mat != nil {
		tint = mat.baseColor.vec4()
		flat = mat.unlit
	} else if style.Fill != nil {
		tint = *style.Fill
	}

	vertex := func(i uint32) engine.Vertex {
		p := geo.positions[i]
		col := tint
		if !flat {
			c := geo.colors[i].vec4()
			col = mgl32.Vec4{
				c.X() * tint.X(),
				c.Y() * tint.Y(),
				c.Z() * tint.Z(),
				c.W() * tint.W(),
			}
		}
		return engine.Vertex{
			Pos:   mgl32.Vec2{p[0], p[1]},
			Color: col,
			UV:    mgl32.Vec2{geo.uvs[i][0], geo.uvs[i][1]},
		}
	}

	mesh := &engine.Mesh{}
	n := uint32(len(geo.positions))
	if len(geo.indices) > 0 {
		for i := 0; i+2 < len(geo.indices); i += 3 {
			a, b, c := geo.indices[i], geo.indices[i+1], geo.indices[i+2]
			if a >= n || b >= n || c >= n {
				continue
			}
			mesh.Triangle(vertex(a), vertex(b), vertex(c))
		}
		return mesh
	}
	switch geo.topology {
	case TriangleStrip:
		for i := uint32(2); i < n; i++ {
			if i%2 == 0 {
				mesh.Triangle(vertex(i-2), vertex(i-1), vertex(i))
			} else {
				mesh.Triangle(vertex(i-1), vertex(i-2), vertex(i))
			}
		}
	default:
		for i := uint32(0); i+2 < n; i += 3 {
			mesh.Triangle(vertex(i), vertex(i+1), vertex(i+2))
		}
	}
	return mesh
}

// GraphicsReadback flushes pending commands, then returns the surface's
// pixels row-major from the top-left.
func GraphicsReadback(h Handle) ([]Color, error) {
	var out []Color
	err := entry("graphics-readback", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		if g.buffer.Len() > 0 {
			if err := st.flush(h); err != nil {
				return err
			}
		}
		so, err := st.surfaceObj(Handle(g.surface))
		if err != nil {
			return err
		}
		out = readPixels(so.surface.Pixmap)
		return nil
	})
	return out, err
}

// GraphicsUpdatePixels overwrites the whole surface with the given
// pixels, which must cover it exactly.
func GraphicsUpdatePixels(h Handle, pixels []Color) error {
	return entry("graphics-update-pixels", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		so, err := st.surfaceObj(Handle(g.surface))
		if err != nil {
			return err
		}
		return writeRegion(so.surface.Pixmap, 0, 0, so.surface.Width, so.surface.Height, pixels)
	})
}

// GraphicsUpdateRegion overwrites the rectangle at (x, y) on the
// surface. The region must lie fully inside the surface and pixels must
// cover it exactly.
func GraphicsUpdateRegion(h Handle, x, y, width, height int, pixels []Color) error {
	return entry("graphics-update-region", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		so, err := st.surfaceObj(Handle(g.surface))
		if err != nil {
			return err
		}
		return writeRegion(so.surface.Pixmap, x, y, width, height, pixels)
	})
}

func readPixels(pm *engine.Pixmap) []Color {
	data := pm.Data()
	out := make([]Color, len(data)/4)
	for i := range out {
		out[i] = Color{
			R: float32(data[i*4+0]) / 255,
			G: float32(data[i*4+1]) / 255,
			B: float32(data[i*4+2]) / 255,
			A: float32(data[i*4+3]) / 255,
		}
	}
	return out
}

func writeRegion(pm *engine.Pixmap, x, y, width, height int, pixels []Color) error {
	if x < 0 || y < 0 || width <= 0 || height <= 0 ||
		x+width > pm.Width() || y+height > pm.Height() {
		return fmt.Errorf("region %dx%d at (%d, %d) out of bounds for %dx%d target",
			width, height, x, y, pm.Width(), pm.Height())
	}
	if len(pixels) != width*height {
		return fmt.Errorf("expected %d pixels for a %dx%d region, got %d",
			width*height, width, height, len(pixels))
	}
	pm.WriteRegion(x, y, width, height, pixelBytes(pixels))
	return nil
}

func pixelBytes(pixels []Color) []uint8 {
	data := make([]uint8, len(pixels)*4)
	for i, c := range pixels {
		data[i*4+0] = channelByte(c.R)
		data[i*4+1] = channelByte(c.G)
		data[i*4+2] = channelByte(c.B)
		data[i*4+3] = channelByte(c.A)
	}
	return data
}

func channelByte(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
