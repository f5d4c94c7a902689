// Package engine is the retained-mode rendering engine behind the
// immediate-mode API: an entity-component world, a fixed system pipeline,
// and a software rasterizer. The bridging layer spawns transient mesh
// entities into the world, drives one synchronous tick, and despawns them
// again; the engine itself never decides when to render.
package engine

import "sort"

// EntityID is a unique identifier for an engine entity (never recycled).
type EntityID uint64

// World holds all component maps and the next entity ID.
type World struct {
	nextID EntityID

	// Components
	Transform map[EntityID]Transform
	Mesh      map[EntityID]*Mesh
	Layer     map[EntityID]int
	BelongsTo map[EntityID]EntityID
	Camera    map[EntityID]*Camera
	Surface   map[EntityID]*Surface

	// Render layer allocator: freed layers are reissued lowest-first.
	usedLayers map[int]struct{}
	nextLayer  int
}

// NewWorld creates a new empty world.
func NewWorld() *World {
	return &World{
		nextID:     1, // 0 is "nil"
		Transform:  make(map[EntityID]Transform),
		Mesh:       make(map[EntityID]*Mesh),
		Layer:      make(map[EntityID]int),
		BelongsTo:  make(map[EntityID]EntityID),
		Camera:     make(map[EntityID]*Camera),
		Surface:    make(map[EntityID]*Surface),
		usedLayers: make(map[int]struct{}),
		nextLayer:  1,
	}
}

// NewEntity returns a new unique entity ID.
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// DestroyEntity removes all components for an entity.
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Transform, id)
	delete(w.Mesh, id)
	delete(w.Layer, id)
	delete(w.BelongsTo, id)
	delete(w.Camera, id)
	delete(w.Surface, id)
}

// SpawnSurface adds a surface entity.
func (w *World) SpawnSurface(s *Surface) EntityID {
	id := w.NewEntity()
	w.Surface[id] = s
	return id
}

// SpawnCamera adds a camera entity rendering layer onto the surface.
func (w *World) SpawnCamera(surface EntityID, layer int) EntityID {
	id := w.NewEntity()
	w.Camera[id] = &Camera{Target: surface, Layer: layer}
	return id
}

// SpawnMesh adds a transient mesh entity owned by the given camera.
func (w *World) SpawnMesh(owner EntityID, layer int, mesh *Mesh, tr Transform) EntityID {
	id := w.NewEntity()
	w.Mesh[id] = mesh
	w.Transform[id] = tr
	w.Layer[id] = layer
	w.BelongsTo[id] = owner
	return id
}

// OwnedBy returns the mesh entities owned by owner, in spawn order.
func (w *World) OwnedBy(owner EntityID) []EntityID {
	var ids []EntityID
	for id, o := range w.BelongsTo {
		if o == owner {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// DespawnOwned destroys every mesh entity owned by owner and returns how
// many were removed.
func (w *World) DespawnOwned(owner EntityID) int {
	ids := w.OwnedBy(owner)
	for _, id := range ids {
		w.DestroyEntity(id)
	}
	return len(ids)
}

// MeshesInLayer returns the mesh entities on the given layer, in spawn
// order. Spawn order equals record order, which is what preserves the
// painter's algorithm across the flush.
func (w *World) MeshesInLayer(layer int) []EntityID {
	var ids []EntityID
	for id, l := range w.Layer {
		if l == layer {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AllocateLayer reserves a render layer so one graphics context's meshes
// are only ever visible to its own camera.
func (w *World) AllocateLayer() int {
	layer := w.nextLayer
	w.usedLayers[layer] = struct{}{}
	for {
		w.nextLayer++
		if _, used := w.usedLayers[w.nextLayer]; !used {
			break
		}
	}
	return layer
}

// FreeLayer releases a layer for reuse.
func (w *World) FreeLayer(layer int) {
	delete(w.usedLayers, layer)
	if layer < w.nextLayer {
		w.nextLayer = layer
	}
}

// Cameras returns all camera entities in id order.
func (w *World) Cameras() []EntityID {
	ids := make([]EntityID, 0, len(w.Camera))
	for id := range w.Camera {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
