package gocessing

import (
	"fmt"

	"github.com/gocessing/gocessing/internal/engine"
	"github.com/gocessing/gocessing/internal/registry"
)

// imageObject is a CPU-side texture: a pixmap sampled by the rasterizer
// when a BackgroundImage command materializes.
type imageObject struct {
	pixmap *engine.Pixmap
}

// CreateImage allocates an image. pixels must cover it exactly, or be
// nil for a transparent image.
func CreateImage(width, height int, pixels []Color) (Handle, error) {
	var h Handle
	err := entry("create-image", func(st *state) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
		}
		if pixels != nil && len(pixels) != width*height {
			return fmt.Errorf("expected %d pixels for a %dx%d image, got %d",
				width*height, width, height, len(pixels))
		}
		pm := engine.NewPixmap(width, height)
		if pixels != nil {
			pm.WriteRegion(0, 0, width, height, pixelBytes(pixels))
		}
		rh, err := st.objects.Create(registry.KindImage, &imageObject{pixmap: pm})
		if err != nil {
			return err
		}
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroyImage releases the image. Commands recorded against it before
// the destroy are skipped at flush time with a warning.
func DestroyImage(h Handle) error {
	return entry("destroy-image", func(st *state) error {
		if _, err := st.imageObj(h); err != nil {
			return err
		}
		_, err := st.objects.Destroy(registry.Handle(h))
		return err
	})
}

// ImageSize returns the image's dimensions.
func ImageSize(h Handle) (width, height int, err error) {
	err = entry("image-size", func(st *state) error {
		img, e := st.imageObj(h)
		if e != nil {
			return e
		}
		width, height = img.pixmap.Width(), img.pixmap.Height()
		return nil
	})
	return width, height, err
}

// ImageUpdatePixels overwrites the whole image.
func ImageUpdatePixels(h Handle, pixels []Color) error {
	return entry("image-update-pixels", func(st *state) error {
		img, err := st.imageObj(h)
		if err != nil {
			return err
		}
		return writeRegion(img.pixmap, 0, 0, img.pixmap.Width(), img.pixmap.Height(), pixels)
	})
}

// ImageUpdateRegion overwrites the rectangle at (x, y). The region must
// lie fully inside the image and pixels must cover it exactly.
func ImageUpdateRegion(h Handle, x, y, width, height int, pixels []Color) error {
	return entry("image-update-region", func(st *state) error {
		img, err := st.imageObj(h)
		if err != nil {
			return err
		}
		return writeRegion(img.pixmap, x, y, width, height, pixels)
	})
}

// ImageReadback returns the image's pixels row-major from the top-left.
func ImageReadback(h Handle) ([]Color, error) {
	var out []Color
	err := entry("image-readback", func(st *state) error {
		img, e := st.imageObj(h)
		if e != nil {
			return e
		}
		out = readPixels(img.pixmap)
		return nil
	})
	return out, err
}

// ImageResize reallocates the image's storage, preserving the
// overlapping region of the old content.
func ImageResize(h Handle, width, height int) error {
	return entry("image-resize", func(st *state) error {
		img, err := st.imageObj(h)
		if err != nil {
			return err
		}
		if width <= 0 || height <= 0 {
			return fmt.Errorf("image dimensions must be positive, got %dx%d", width, height)
		}
		next := engine.NewPixmap(width, height)
		next.CopyFrom(img.pixmap)
		img.pixmap = next
		return nil
	})
}
