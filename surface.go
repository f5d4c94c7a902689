package gocessing

import (
	"fmt"

	"github.com/gocessing/gocessing/internal/engine"
	"github.com/gocessing/gocessing/internal/registry"
)

// PresentTarget receives the final pixels of a window-backed surface
// after each flush. Implementations copy pix (RGBA, straight alpha, row
// major) to the display; they must not retain the slice.
type PresentTarget interface {
	WritePixels(pix []byte, width, height int)
}

// surfaceObject ties a registry handle to the surface entity in the
// engine world. graphics holds the handle of the one graphics context
// currently targeting this surface, zero when unbound.
type surfaceObject struct {
	entity   engine.EntityID
	surface  *engine.Surface
	graphics registry.Handle
}

// CreateSurface creates a window-backed surface presenting to target.
// The surface starts with its render path disabled; nothing is drawn or
// presented until a flush targets it.
func CreateSurface(target PresentTarget, width, height int) (Handle, error) {
	return createSurface(target, width, height)
}

// CreateSurfaceOffscreen creates a surface with no present target. Its
// pixmap is the output; read it back through the graphics context.
func CreateSurfaceOffscreen(width, height int) (Handle, error) {
	return createSurface(nil, width, height)
}

func createSurface(target PresentTarget, width, height int) (Handle, error) {
	var h Handle
	err := entry("create-surface", func(st *state) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("surface dimensions must be positive, got %dx%d", width, height)
		}
		var present engine.PresentTarget
		if target != nil {
			present = target
		}
		surf := engine.NewSurface(width, height, st.cfg.ClearColor.vec4(), present)
		entity := st.app.World().SpawnSurface(surf)
		rh, err := st.objects.Create(registry.KindSurface, &surfaceObject{
			entity:  entity,
			surface: surf,
		})
		if err != nil {
			st.app.World().DestroyEntity(entity)
			return err
		}
		st.logger.Debug("surface created", "handle", rh, "size", fmt.Sprintf("%dx%d", width, height))
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroySurface releases the surface and its engine entity. A graphics
// context still targeting it becomes unusable: its next flush fails with
// an invalid-handle error. Destroying the same handle twice is an error.
func DestroySurface(h Handle) error {
	return entry("destroy-surface", func(st *state) error {
		// Validate the kind before destroying so a mistyped handle fails
		// without side effects.
		if _, err := st.surfaceObj(h); err != nil {
			return err
		}
		payload, err := st.objects.Destroy(registry.Handle(h))
		if err != nil {
			return err
		}
		so := payload.(*surfaceObject)
		st.app.World().DestroyEntity(so.entity)
		st.logger.Debug("surface destroyed", "handle", h)
		return nil
	})
}

// SurfaceResize reallocates the surface's pixel storage to the new
// dimensions, preserving the overlapping region of the old content.
func SurfaceResize(h Handle, width, height int) error {
	return entry("surface-resize", func(st *state) error {
		so, err := st.surfaceObj(h)
		if err != nil {
			return err
		}
		if width <= 0 || height <= 0 {
			return fmt.Errorf("surface dimensions must be positive, got %dx%d", width, height)
		}
		so.surface.Resize(width, height)
		return nil
	})
}

// SurfaceSize returns the surface's current dimensions.
func SurfaceSize(h Handle) (width, height int, err error) {
	err = entry("surface-size", func(st *state) error {
		so, e := st.surfaceObj(h)
		if e != nil {
			return e
		}
		width, height = so.surface.Width, so.surface.Height
		return nil
	})
	return width, height, err
}

// enableForFlush flips the surface into its rendering-enabled, dirty
// state for the duration of one flush. Exactly one flush may be in
// progress per process; reentry is rejected before any flag changes.
func (st *state) enableForFlush(so *surfaceObject) error {
	if st.flushing {
		return fmt.Errorf("%w: reentrant flush rejected", ErrFlushInProgress)
	}
	st.flushing = true
	so.surface.RenderEnabled = true
	so.surface.Dirty = true
	return nil
}

// disableAfterFlush restores the surface's quiescent state. Runs
// unconditionally, on success, failure, and panic alike.
func (st *state) disableAfterFlush(so *surfaceObject) {
	so.surface.RenderEnabled = false
	so.surface.Dirty = false
	so.surface.OutputEnabled = false
	st.flushing = false
}
