package gocessing

import (
	"fmt"

	"github.com/gocessing/gocessing/internal/registry"
)

// materialObject is a property bag consulted when a geometry command
// materializes. The base color modulates vertex colors; an unlit
// material replaces them with the base color outright. Float properties
// are free-form metadata for callers layering their own conventions on
// top.
type materialObject struct {
	baseColor Color
	unlit     bool
	floats    map[string]float32
}

// CreateMaterial allocates a material with a white base color that
// modulates vertex colors.
func CreateMaterial() (Handle, error) {
	var h Handle
	err := entry("create-material", func(st *state) error {
		rh, err := st.objects.Create(registry.KindMaterial, &materialObject{
			baseColor: Color{1, 1, 1, 1},
			floats:    make(map[string]float32),
		})
		if err != nil {
			return err
		}
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroyMaterial releases the material. Commands recorded against it
// fall back to unlit vertex colors at flush time.
func DestroyMaterial(h Handle) error {
	return entry("destroy-material", func(st *state) error {
		if _, err := st.materialObj(h); err != nil {
			return err
		}
		_, err := st.objects.Destroy(registry.Handle(h))
		return err
	})
}

// MaterialSetColor sets the material's base color.
func MaterialSetColor(h Handle, c Color) error {
	return entry("material-set-color", func(st *state) error {
		m, err := st.materialObj(h)
		if err != nil {
			return err
		}
		m.baseColor = c
		return nil
	})
}

// MaterialColor returns the material's base color.
func MaterialColor(h Handle) (Color, error) {
	var out Color
	err := entry("material-color", func(st *state) error {
		m, e := st.materialObj(h)
		if e != nil {
			return e
		}
		out = m.baseColor
		return nil
	})
	return out, err
}

// MaterialSetUnlit selects how the material colors geometry: an unlit
// material paints every vertex with its base color, ignoring vertex
// colors; otherwise the base color modulates them.
func MaterialSetUnlit(h Handle, unlit bool) error {
	return entry("material-set-unlit", func(st *state) error {
		m, err := st.materialObj(h)
		if err != nil {
			return err
		}
		m.unlit = unlit
		return nil
	})
}

// MaterialUnlit reports whether the material is unlit.
func MaterialUnlit(h Handle) (bool, error) {
	var out bool
	err := entry("material-unlit", func(st *state) error {
		m, e := st.materialObj(h)
		if e != nil {
			return e
		}
		out = m.unlit
		return nil
	})
	return out, err
}

// MaterialSetFloat stores a named float property.
func MaterialSetFloat(h Handle, name string, value float32) error {
	return entry("material-set-float", func(st *state) error {
		m, err := st.materialObj(h)
		if err != nil {
			return err
		}
		m.floats[name] = value
		return nil
	})
}

// MaterialFloat returns a named float property; unknown names are an
// error.
func MaterialFloat(h Handle, name string) (float32, error) {
	var out float32
	err := entry("material-float", func(st *state) error {
		m, e := st.materialObj(h)
		if e != nil {
			return e
		}
		v, ok := m.floats[name]
		if !ok {
			return fmt.Errorf("unknown material property %q", name)
		}
		out = v
		return nil
	})
	return out, err
}

// fontObject is registry-managed font metadata. Glyph rasterization is
// the caller's concern; the engine tracks identity and sizing only.
type fontObject struct {
	family string
	size   float32
}

// CreateFont registers a font by family name and point size.
func CreateFont(family string, size float32) (Handle, error) {
	var h Handle
	err := entry("create-font", func(st *state) error {
		if family == "" {
			return fmt.Errorf("font family must not be empty")
		}
		if size <= 0 {
			return fmt.Errorf("font size must be positive, got %g", size)
		}
		rh, err := st.objects.Create(registry.KindFont, &fontObject{family: family, size: size})
		if err != nil {
			return err
		}
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroyFont releases the font.
func DestroyFont(h Handle) error {
	return entry("destroy-font", func(st *state) error {
		if _, err := st.fontObj(h); err != nil {
			return err
		}
		_, err := st.objects.Destroy(registry.Handle(h))
		return err
	})
}

// FontInfo returns the font's family and size.
func FontInfo(h Handle) (family string, size float32, err error) {
	err = entry("font-info", func(st *state) error {
		f, e := st.fontObj(h)
		if e != nil {
			return e
		}
		family, size = f.family, f.size
		return nil
	})
	return family, size, err
}
