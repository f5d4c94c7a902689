package engine

// The per-tick system pipeline. Order matters and mirrors the engine's
// scheduling contract: cameras are (re)activated from surface state first,
// then active cameras rasterize their layers, then dirty surfaces present.

// activateCameras deactivates every camera, then reactivates exactly those
// whose target surface has a flush in progress. A tick run for bookkeeping
// only (no dirty surface) therefore renders nothing.
func activateCameras(w *World) {
	for _, cam := range w.Camera {
		cam.Active = false
	}
	for _, cam := range w.Camera {
		surf, ok := w.Surface[cam.Target]
		if !ok {
			continue
		}
		if surf.Dirty && surf.RenderEnabled {
			cam.Active = true
		}
	}
}

// renderScene rasterizes, for each active camera, the meshes on its layer
// into its surface's pixmap, in spawn order.
func renderScene(w *World) {
	for _, camID := range w.Cameras() {
		cam := w.Camera[camID]
		if !cam.Active {
			continue
		}
		surf, ok := w.Surface[cam.Target]
		if !ok {
			continue
		}
		for _, meshID := range w.MeshesInLayer(cam.Layer) {
			mesh := w.Mesh[meshID]
			tr, ok := w.Transform[meshID]
			if !ok {
				tr = IdentityTransform()
			}
			DrawMesh(surf.Pixmap, tr, mesh)
		}
	}
}

// presentSurfaces runs the output-write step for every surface that is
// dirty AND output-enabled. Output stays gated until the flush scheduler
// has fully materialized its commands, so a half-drawn frame is never
// shown.
func presentSurfaces(w *World) {
	for _, surf := range w.Surface {
		if !surf.Dirty || !surf.OutputEnabled {
			continue
		}
		if surf.Present != nil {
			surf.Present.WritePixels(surf.Pixmap.Data(), surf.Width, surf.Height)
		}
	}
}
