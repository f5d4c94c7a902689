package engine

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	writes int
	lastW  int
	lastH  int
}

func (r *recordingTarget) WritePixels(pix []byte, w, h int) {
	r.writes++
	r.lastW = w
	r.lastH = h
}

func TestTickRendersOnlyDirtySurfaces(t *testing.T) {
	a := NewApp(nil)
	w := a.World()

	surf := NewSurface(10, 10, mgl32.Vec4{0, 0, 0, 1}, nil)
	surfID := w.SpawnSurface(surf)
	layer := w.AllocateLayer()
	cam := w.SpawnCamera(surfID, layer)

	w.SpawnMesh(cam, layer, RectFillMesh(0, 0, 10, 10, mgl32.Vec4{1, 0, 0, 1}), IdentityTransform())

	// Surface not dirty: nothing renders, camera stays inactive.
	require.NoError(t, a.Update())
	assert.False(t, w.Camera[cam].Active)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, surf.Pixmap.GetPixel(5, 5))

	// Enabled and dirty: the mesh lands in the pixmap.
	surf.RenderEnabled = true
	surf.Dirty = true
	require.NoError(t, a.Update())
	assert.True(t, w.Camera[cam].Active)
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, surf.Pixmap.GetPixel(5, 5))

	// Cleared again: the next tick deactivates the camera.
	surf.Dirty = false
	surf.RenderEnabled = false
	require.NoError(t, a.Update())
	assert.False(t, w.Camera[cam].Active)
}

func TestPresentGatedOnOutputEnabled(t *testing.T) {
	a := NewApp(nil)
	w := a.World()

	target := &recordingTarget{}
	surf := NewSurface(8, 6, mgl32.Vec4{}, target)
	w.SpawnSurface(surf)

	surf.RenderEnabled = true
	surf.Dirty = true
	require.NoError(t, a.Update())
	assert.Equal(t, 0, target.writes, "present must stay gated until output is enabled")

	surf.OutputEnabled = true
	require.NoError(t, a.Update())
	assert.Equal(t, 1, target.writes)
	assert.Equal(t, 8, target.lastW)
	assert.Equal(t, 6, target.lastH)
}

func TestTickCounterAdvancesOnEmptyWorld(t *testing.T) {
	a := NewApp(nil)
	require.NoError(t, a.Update())
	require.NoError(t, a.Update())
	assert.Equal(t, uint64(2), a.Ticks())
}

func TestPostTickHookFailsTick(t *testing.T) {
	a := NewApp(nil)
	boom := errors.New("hook failed")
	a.AddPostTickHook(func() error { return boom })

	err := a.Update()
	assert.ErrorIs(t, err, boom)

	a.ClearPostTickHooks()
	assert.NoError(t, a.Update())
}

func TestAssertOwnerPanicsOffGoroutine(t *testing.T) {
	a := NewApp(nil)

	done := make(chan any, 1)
	go func() {
		defer func() { done <- recover() }()
		a.AssertOwner()
	}()
	assert.NotNil(t, <-done, "access from a foreign goroutine must fail fast")
}
