package gocessing

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gocessing/gocessing/internal/command"
	"github.com/gocessing/gocessing/internal/engine"
	"github.com/gocessing/gocessing/internal/registry"
)

// graphicsObject is one recording context: a command buffer plus the
// camera and render layer that isolate its output from every other
// context during a flush.
type graphicsObject struct {
	surface registry.Handle
	camera  engine.EntityID
	layer   int
	buffer  *command.Buffer
}

// Style is the introspectable drawing state of a graphics context. Fill
// and Stroke are nil when disabled.
type Style struct {
	Fill         *Color
	Stroke       *Color
	StrokeWeight float32
	Transform    mgl32.Mat3
}

// CreateGraphics attaches a new recording context to the surface. A
// surface accepts at most one active context at a time; destroy the old
// context before attaching another.
func CreateGraphics(surface Handle) (Handle, error) {
	var h Handle
	err := entry("create-graphics", func(st *state) error {
		so, err := st.surfaceObj(surface)
		if err != nil {
			return err
		}
		if so.graphics != 0 {
			return fmt.Errorf("%w: surface already targeted by an active graphics context", ErrInvalidHandle)
		}
		w := st.app.World()
		layer := w.AllocateLayer()
		camera := w.SpawnCamera(so.entity, layer)
		rh, err := st.objects.Create(registry.KindGraphics, &graphicsObject{
			surface: registry.Handle(surface),
			camera:  camera,
			layer:   layer,
			buffer:  command.NewBuffer(),
		})
		if err != nil {
			w.DestroyEntity(camera)
			w.FreeLayer(layer)
			return err
		}
		so.graphics = rh
		st.logger.Debug("graphics created", "handle", rh, "surface", surface, "layer", layer)
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroyGraphics releases the context, its camera, and its render
// layer. Unflushed commands are discarded. The surface becomes free to
// accept a new context.
func DestroyGraphics(h Handle) error {
	return entry("destroy-graphics", func(st *state) error {
		if _, err := st.graphicsObj(h); err != nil {
			return err
		}
		payload, err := st.objects.Destroy(registry.Handle(h))
		if err != nil {
			return err
		}
		g := payload.(*graphicsObject)
		w := st.app.World()
		w.DespawnOwned(g.camera)
		w.DestroyEntity(g.camera)
		w.FreeLayer(g.layer)
		if so, err := st.surfaceObj(Handle(g.surface)); err == nil && so.graphics == registry.Handle(h) {
			so.graphics = 0
		}
		st.logger.Debug("graphics destroyed", "handle", h, "discarded_commands", g.buffer.Len())
		return nil
	})
}

// CurrentStyle returns a copy of the context's drawing state as it will
// be captured by the next draw call.
func CurrentStyle(h Handle) (Style, error) {
	var out Style
	err := entry("current-style", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		snap := g.buffer.Style().Snapshot()
		out = Style{
			StrokeWeight: snap.StrokeWeight,
			Transform:    snap.Transform,
		}
		if snap.Fill != nil {
			c := colorOf(*snap.Fill)
			out.Fill = &c
		}
		if snap.Stroke != nil {
			c := colorOf(*snap.Stroke)
			out.Stroke = &c
		}
		return nil
	})
	return out, err
}

// PendingCommands returns the number of recorded, not-yet-flushed draw
// commands.
func PendingCommands(h Handle) (int, error) {
	var n int
	err := entry("pending-commands", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		n = g.buffer.Len()
		return nil
	})
	return n, err
}

// withStyle runs fn against the context's mutable style state. Style
// calls are not commands; they take effect on subsequent draw calls only.
func withStyle(op string, h Handle, fn func(s *command.Style)) error {
	return entry(op, func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		fn(g.buffer.Style())
		return nil
	})
}

// Fill sets the fill color for subsequent shapes.
func Fill(h Handle, c Color) error {
	return withStyle("fill", h, func(s *command.Style) { s.SetFill(c.vec4()) })
}

// NoFill disables filling for subsequent shapes.
func NoFill(h Handle) error {
	return withStyle("no-fill", h, func(s *command.Style) { s.ClearFill() })
}

// Stroke sets the outline color for subsequent shapes.
func Stroke(h Handle, c Color) error {
	return withStyle("stroke", h, func(s *command.Style) { s.SetStroke(c.vec4()) })
}

// NoStroke disables outlines for subsequent shapes.
func NoStroke(h Handle) error {
	return withStyle("no-stroke", h, func(s *command.Style) { s.ClearStroke() })
}

// StrokeWeight sets the outline thickness in pixels. Negative weights
// clamp to zero.
func StrokeWeight(h Handle, weight float32) error {
	return withStyle("stroke-weight", h, func(s *command.Style) { s.SetStrokeWeight(weight) })
}

// PushMatrix saves the current transform.
func PushMatrix(h Handle) error {
	return withStyle("push-matrix", h, func(s *command.Style) { s.PushMatrix() })
}

// PopMatrix restores the most recently pushed transform. Popping an
// empty stack is a no-op.
func PopMatrix(h Handle) error {
	return withStyle("pop-matrix", h, func(s *command.Style) { s.PopMatrix() })
}

// ResetMatrix sets the transform back to identity.
func ResetMatrix(h Handle) error {
	return withStyle("reset-matrix", h, func(s *command.Style) { s.ResetMatrix() })
}

// Translate moves the origin of subsequent shapes.
func Translate(h Handle, x, y float32) error {
	return withStyle("translate", h, func(s *command.Style) { s.Translate(x, y) })
}

// Rotate rotates subsequent shapes by an angle in radians.
func Rotate(h Handle, angle float32) error {
	return withStyle("rotate", h, func(s *command.Style) { s.Rotate(angle) })
}

// Scale scales subsequent shapes around the current origin.
func Scale(h Handle, x, y float32) error {
	return withStyle("scale", h, func(s *command.Style) { s.Scale(x, y) })
}

// ShearX shears subsequent shapes along the x axis by an angle in
// radians.
func ShearX(h Handle, angle float32) error {
	return withStyle("shear-x", h, func(s *command.Style) { s.ShearX(angle) })
}

// ShearY shears subsequent shapes along the y axis by an angle in
// radians.
func ShearY(h Handle, angle float32) error {
	return withStyle("shear-y", h, func(s *command.Style) { s.ShearY(angle) })
}

// Rect records a rectangle with the current fill, stroke, and transform.
// Recording never touches the renderer; the shape appears on the surface
// at the next flush.
func Rect(h Handle, x, y, w, hgt float32) error {
	return RectRounded(h, x, y, w, hgt, 0, 0, 0, 0)
}

// RectRounded records a rectangle with per-corner radii, clockwise from
// top-left.
func RectRounded(h Handle, x, y, w, hgt, tl, tr, br, bl float32) error {
	return entry("rect", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		g.buffer.Record(command.Command{
			Op: command.OpRect,
			X:  x, Y: y, W: w, H: hgt,
			Radii: [4]float32{tl, tr, br, bl},
		})
		return nil
	})
}

// Background records a full-surface color fill. It layers over earlier
// commands in the same flush rather than erasing them; script order is
// preserved exactly.
func Background(h Handle, c Color) error {
	return entry("background", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		g.buffer.Record(command.Command{
			Op:    command.OpBackground,
			Color: c.vec4(),
		})
		return nil
	})
}

// BackgroundImage records an image stretched over the whole surface. The
// image handle is validated now and dereferenced again at flush time;
// destroying the image in between skips the command with a warning.
func BackgroundImage(h Handle, img Handle) error {
	return entry("background-image", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		if _, err := st.imageObj(img); err != nil {
			return err
		}
		g.buffer.Record(command.Command{
			Op:    command.OpBackgroundImage,
			Image: uint64(img),
		})
		return nil
	})
}

// DrawGeometry records a user geometry object with an optional material.
// Pass a zero material handle to draw with vertex colors and the current
// fill only.
func DrawGeometry(h Handle, geom Handle, mat Handle) error {
	return entry("draw-geometry", func(st *state) error {
		g, err := st.graphicsObj(h)
		if err != nil {
			return err
		}
		if _, err := st.geometryObj(geom); err != nil {
			return err
		}
		if mat != 0 {
			if _, err := st.materialObj(mat); err != nil {
				return err
			}
		}
		g.buffer.Record(command.Command{
			Op:       command.OpGeometry,
			Geometry: uint64(geom),
			Material: uint64(mat),
		})
		return nil
	})
}
