package gocessing

import (
	"fmt"

	"github.com/gocessing/gocessing/internal/registry"
)

// Topology selects how a geometry's vertices form triangles when no
// index list is given.
type Topology uint8

const (
	// TriangleList consumes vertices three at a time.
	TriangleList Topology = iota
	// TriangleStrip forms a triangle from every vertex and its two
	// predecessors, alternating winding.
	TriangleStrip
)

// geometryObject is user-built mesh data. positions, colors, and uvs are
// parallel slices; the pending color and uv are stamped onto each vertex
// as it is appended, Processing's fill-then-vertex pattern.
type geometryObject struct {
	topology  Topology
	positions [][3]float32
	colors    []Color
	uvs       [][2]float32
	indices   []uint32

	pendingColor Color
	pendingUV    [2]float32
}

// CreateGeometry allocates an empty geometry with the given topology.
// Vertices appended before any GeometryColor call are white.
func CreateGeometry(topology Topology) (Handle, error) {
	var h Handle
	err := entry("create-geometry", func(st *state) error {
		rh, err := st.objects.Create(registry.KindGeometry, &geometryObject{
			topology:     topology,
			pendingColor: Color{1, 1, 1, 1},
		})
		if err != nil {
			return err
		}
		h = Handle(rh)
		return nil
	})
	return h, err
}

// DestroyGeometry releases the geometry. Commands recorded against it
// before the destroy are skipped at flush time with a warning.
func DestroyGeometry(h Handle) error {
	return entry("destroy-geometry", func(st *state) error {
		if _, err := st.geometryObj(h); err != nil {
			return err
		}
		_, err := st.objects.Destroy(registry.Handle(h))
		return err
	})
}

// GeometryVertex appends a vertex carrying the pending color and uv. The
// z coordinate is stored but the rasterizer projects onto the surface
// plane.
func GeometryVertex(h Handle, x, y, z float32) error {
	return entry("geometry-vertex", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		geo.positions = append(geo.positions, [3]float32{x, y, z})
		geo.colors = append(geo.colors, geo.pendingColor)
		geo.uvs = append(geo.uvs, geo.pendingUV)
		return nil
	})
}

// GeometryColor sets the color stamped onto subsequently appended
// vertices.
func GeometryColor(h Handle, c Color) error {
	return entry("geometry-color", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		geo.pendingColor = c
		return nil
	})
}

// GeometryUV sets the texture coordinate stamped onto subsequently
// appended vertices.
func GeometryUV(h Handle, u, v float32) error {
	return entry("geometry-uv", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		geo.pendingUV = [2]float32{u, v}
		return nil
	})
}

// GeometryIndex appends an index. The index must refer to an existing
// vertex.
func GeometryIndex(h Handle, index uint32) error {
	return entry("geometry-index", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		if int(index) >= len(geo.positions) {
			return fmt.Errorf("index %d out of range for %d vertices", index, len(geo.positions))
		}
		geo.indices = append(geo.indices, index)
		return nil
	})
}

// GeometryVertexCount returns the number of appended vertices.
func GeometryVertexCount(h Handle) (int, error) {
	var n int
	err := entry("geometry-vertex-count", func(st *state) error {
		geo, e := st.geometryObj(h)
		if e != nil {
			return e
		}
		n = len(geo.positions)
		return nil
	})
	return n, err
}

// GeometryIndexCount returns the number of appended indices.
func GeometryIndexCount(h Handle) (int, error) {
	var n int
	err := entry("geometry-index-count", func(st *state) error {
		geo, e := st.geometryObj(h)
		if e != nil {
			return e
		}
		n = len(geo.indices)
		return nil
	})
	return n, err
}

// GeometryPositions returns a copy of the vertex positions in
// [start, end). The range must lie within the vertex count.
func GeometryPositions(h Handle, start, end int) ([][3]float32, error) {
	var out [][3]float32
	err := entry("geometry-positions", func(st *state) error {
		geo, e := st.geometryObj(h)
		if e != nil {
			return e
		}
		if start < 0 || end < start || end > len(geo.positions) {
			return fmt.Errorf("range [%d, %d) out of bounds for %d vertices", start, end, len(geo.positions))
		}
		out = make([][3]float32, end-start)
		copy(out, geo.positions[start:end])
		return nil
	})
	return out, err
}

// GeometryColors returns a copy of the vertex colors in [start, end).
func GeometryColors(h Handle, start, end int) ([]Color, error) {
	var out []Color
	err := entry("geometry-colors", func(st *state) error {
		geo, e := st.geometryObj(h)
		if e != nil {
			return e
		}
		if start < 0 || end < start || end > len(geo.colors) {
			return fmt.Errorf("range [%d, %d) out of bounds for %d vertices", start, end, len(geo.colors))
		}
		out = make([]Color, end-start)
		copy(out, geo.colors[start:end])
		return nil
	})
	return out, err
}

// GeometrySetVertex overwrites the position of an existing vertex.
func GeometrySetVertex(h Handle, index int, x, y, z float32) error {
	return entry("geometry-set-vertex", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(geo.positions) {
			return fmt.Errorf("index %d out of range for %d vertices", index, len(geo.positions))
		}
		geo.positions[index] = [3]float32{x, y, z}
		return nil
	})
}

// GeometrySetColor overwrites the color of an existing vertex.
func GeometrySetColor(h Handle, index int, c Color) error {
	return entry("geometry-set-color", func(st *state) error {
		geo, err := st.geometryObj(h)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(geo.colors) {
			return fmt.Errorf("index %d out of range for %d vertices", index, len(geo.colors))
		}
		geo.colors[index] = c
		return nil
	})
}
