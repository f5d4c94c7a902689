package gocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type presentRecorder struct {
	writes int
	lastW  int
	lastH  int
}

func (p *presentRecorder) WritePixels(pix []byte, w, h int) {
	p.writes++
	p.lastW = w
	p.lastH = h
}

func transientCount(t *testing.T, graphics Handle) int {
	t.Helper()
	g, err := proc.graphicsObj(graphics)
	require.NoError(t, err)
	return len(proc.app.World().OwnedBy(g.camera))
}

func surfaceFlags(t *testing.T, surface Handle) (renderEnabled, dirty, outputEnabled bool) {
	t.Helper()
	so, err := proc.surfaceObj(surface)
	require.NoError(t, err)
	return so.surface.RenderEnabled, so.surface.Dirty, so.surface.OutputEnabled
}

func TestFlushRendersScriptInOrder(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 100, 100)

	bg := Color{0.2, 0.2, 0.2, 1}
	require.NoError(t, Background(graphics, bg))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Rect(graphics, 20, 20, 40, 40))

	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 100, 30, 30))
	assertColor(t, bg, pixelAt(pixels, 100, 90, 90))
}

func TestLaterCommandsPaintOverEarlier(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 100, 100)

	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, Rect(graphics, 10, 10, 40, 40))
	require.NoError(t, Fill(graphics, Color{0, 0, 1, 1}))
	require.NoError(t, Rect(graphics, 30, 30, 40, 40))

	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 0, 1, 1}, pixelAt(pixels, 100, 35, 35), "overlap belongs to the later rect")
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 100, 15, 15))
}

func TestFlushLeavesNoTransients(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 32, 32)

	require.NoError(t, Rect(graphics, 0, 0, 10, 10))
	require.NoError(t, Background(graphics, Color{0, 0, 0, 1}))
	require.NoError(t, Flush(graphics))

	assert.Equal(t, 0, transientCount(t, graphics))
	n, err := PendingCommands(graphics)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	re, dirty, out := surfaceFlags(t, surface)
	assert.False(t, re)
	assert.False(t, dirty)
	assert.False(t, out)
	assert.False(t, proc.flushing)
}

func TestEmptyFlushTicksOnce(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)

	before := Ticks()
	require.NoError(t, Flush(graphics))
	assert.Equal(t, before+1, Ticks())

	assert.Equal(t, 0, transientCount(t, graphics))
	re, dirty, out := surfaceFlags(t, surface)
	assert.False(t, re)
	assert.False(t, dirty)
	assert.False(t, out)
}

func TestDirtyExactlyDuringFlush(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)

	var duringRender, duringDirty, duringOutput bool
	proc.app.AddPostTickHook(func() error {
		duringRender, duringDirty, duringOutput = surfaceFlags(t, surface)
		return nil
	})
	defer proc.app.ClearPostTickHooks()

	re, dirty, _ := surfaceFlags(t, surface)
	assert.False(t, re, "surfaces start with the render path disabled")
	assert.False(t, dirty)

	require.NoError(t, Flush(graphics))
	assert.True(t, duringRender)
	assert.True(t, duringDirty)
	assert.True(t, duringOutput, "output is enabled once commands are fully materialized")

	re, dirty, out := surfaceFlags(t, surface)
	assert.False(t, re)
	assert.False(t, dirty)
	assert.False(t, out)
}

func TestFailedTickStillCleansUp(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)

	proc.app.AddPostTickHook(func() error {
		return assert.AnError
	})
	defer proc.app.ClearPostTickHooks()

	require.NoError(t, Rect(graphics, 0, 0, 4, 4))
	err := Flush(graphics)
	assert.ErrorIs(t, err, ErrRenderFailure)

	assert.Equal(t, 0, transientCount(t, graphics), "transients must not survive a failed flush")
	re, dirty, out := surfaceFlags(t, surface)
	assert.False(t, re)
	assert.False(t, dirty)
	assert.False(t, out)
	assert.False(t, proc.flushing)
}

func TestPanicDuringTickBecomesRenderFailure(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)

	proc.app.AddPostTickHook(func() error {
		panic("renderer exploded")
	})
	defer proc.app.ClearPostTickHooks()

	err := Flush(graphics)
	assert.ErrorIs(t, err, ErrRenderFailure)
	assert.Contains(t, err.Error(), "renderer exploded")

	assert.Equal(t, 0, transientCount(t, graphics))
	_, dirty, _ := surfaceFlags(t, surface)
	assert.False(t, dirty)
	assert.False(t, proc.flushing)
}

func TestReentrantFlushRejected(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 16, 16)

	var inner error
	proc.app.AddPostTickHook(func() error {
		inner = Flush(graphics)
		return inner
	})

	outer := Flush(graphics)
	proc.app.ClearPostTickHooks()
	assert.ErrorIs(t, inner, ErrFlushInProgress)
	assert.ErrorIs(t, outer, ErrRenderFailure)

	// Keep-first: the pending slot holds the root cause, not the
	// wrapping failure recorded afterwards.
	msg, ok := CheckError()
	require.True(t, ok)
	assert.Contains(t, msg, "flush already in progress")

	assert.False(t, proc.flushing)
	assert.NoError(t, Flush(graphics), "the engine recovers for the next flush")
}

func TestFlushOnDestroyedGraphics(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)
	require.NoError(t, DestroyGraphics(graphics))

	err := Flush(graphics)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	re, dirty, out := surfaceFlags(t, surface)
	assert.False(t, re, "a failed resolve must not disturb surface state")
	assert.False(t, dirty)
	assert.False(t, out)
}

func TestFlushOnDestroyedSurface(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 16, 16)
	require.NoError(t, DestroySurface(surface))

	err := Flush(graphics)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.False(t, proc.flushing)
}

func TestStyleCapturedAtRecordTime(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 32, 32)

	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, Rect(graphics, 0, 0, 32, 32))
	require.NoError(t, Fill(graphics, Color{0, 0, 1, 1}))

	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 32, 16, 16),
		"a style change after recording must not alter the recorded command")
}

func TestTransformAppliesToRecordedShapes(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 32, 32)

	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, PushMatrix(graphics))
	require.NoError(t, Translate(graphics, 10, 10))
	require.NoError(t, Rect(graphics, 0, 0, 5, 5))
	require.NoError(t, PopMatrix(graphics))
	require.NoError(t, Rect(graphics, 20, 20, 5, 5))

	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 32, 12, 12))
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 32, 2, 2), "untranslated origin stays clear")
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 32, 22, 22), "pop-matrix restores the origin")
}

func TestRoundedRectCutsCorners(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 100, 100)

	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, RectRounded(graphics, 10, 10, 50, 50, 25, 25, 25, 25))
	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 100, 11, 11),
		"the corner outside the arc stays background")
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 100, 35, 35))
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 100, 35, 12), "edge midpoints are inside")
}

func TestRoundedRectStrokeFollowsArc(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 100, 100)

	require.NoError(t, NoFill(graphics))
	require.NoError(t, Stroke(graphics, Color{0, 0, 1, 1}))
	require.NoError(t, StrokeWeight(graphics, 2))
	require.NoError(t, RectRounded(graphics, 10, 10, 40, 40, 10, 10, 10, 10))
	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 0, 1, 1}, pixelAt(pixels, 100, 30, 10), "top edge stroked")
	assertColor(t, Color{0, 0, 1, 1}, pixelAt(pixels, 100, 13, 13), "arc stroked")
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 100, 11, 11), "sharp corner not painted")
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 100, 30, 30), "interior not filled")
}

func TestStrokeOutline(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 40, 40)

	require.NoError(t, NoFill(graphics))
	require.NoError(t, Stroke(graphics, Color{0, 0, 1, 1}))
	require.NoError(t, StrokeWeight(graphics, 2))
	require.NoError(t, Rect(graphics, 10, 10, 20, 20))

	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 0, 1, 1}, pixelAt(pixels, 40, 20, 10), "top edge stroked")
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 40, 20, 20), "interior not filled")
}

func TestBackgroundImageStretched(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 8, 8)

	img, err := CreateImage(2, 2, []Color{
		{1, 0, 0, 1}, {0, 1, 0, 1},
		{0, 0, 1, 1}, {1, 1, 1, 1},
	})
	require.NoError(t, err)

	require.NoError(t, BackgroundImage(graphics, img))
	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 8, 1, 1))
	assertColor(t, Color{1, 1, 1, 1}, pixelAt(pixels, 8, 6, 6))
}

func TestDestroyedImageSkippedAtFlush(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 8, 8)

	img, err := CreateImage(2, 2, nil)
	require.NoError(t, err)
	require.NoError(t, BackgroundImage(graphics, img))
	require.NoError(t, DestroyImage(img))

	require.NoError(t, Flush(graphics), "a vanished image skips the command, not the frame")

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 8, 4, 4))
}

func TestGeometryDrawWithMaterialTint(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 32, 32)

	geo, err := CreateGeometry(TriangleList)
	require.NoError(t, err)
	require.NoError(t, GeometryVertex(geo, 0, 0, 0))
	require.NoError(t, GeometryVertex(geo, 32, 0, 0))
	require.NoError(t, GeometryVertex(geo, 0, 32, 0))

	mat, err := CreateMaterial()
	require.NoError(t, err)
	require.NoError(t, MaterialSetColor(mat, Color{0, 1, 0, 1}))

	require.NoError(t, DrawGeometry(graphics, geo, mat))
	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 1, 0, 1}, pixelAt(pixels, 32, 5, 5))
	assertColor(t, Color{0.8, 0.8, 0.8, 1}, pixelAt(pixels, 32, 30, 30), "outside the triangle")
}

func TestUnlitMaterialReplacesVertexColors(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 32, 32)

	geo, err := CreateGeometry(TriangleList)
	require.NoError(t, err)
	require.NoError(t, GeometryColor(geo, Color{0, 0, 1, 1}))
	require.NoError(t, GeometryVertex(geo, 0, 0, 0))
	require.NoError(t, GeometryVertex(geo, 32, 0, 0))
	require.NoError(t, GeometryVertex(geo, 0, 32, 0))

	mat, err := CreateMaterial()
	require.NoError(t, err)
	require.NoError(t, MaterialSetColor(mat, Color{1, 0, 0, 1}))

	// Lit: blue vertices modulated by the red base go to black.
	require.NoError(t, DrawGeometry(graphics, geo, mat))
	require.NoError(t, Flush(graphics))
	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 0, 0, 1}, pixelAt(pixels, 32, 5, 5))

	// Unlit: the base color wins outright.
	require.NoError(t, MaterialSetUnlit(mat, true))
	require.NoError(t, DrawGeometry(graphics, geo, mat))
	require.NoError(t, Flush(graphics))
	pixels, err = GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 32, 5, 5))
}

func TestGeometryDrawWithoutMaterialUsesFill(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 32, 32)

	geo, err := CreateGeometry(TriangleStrip)
	require.NoError(t, err)
	require.NoError(t, GeometryVertex(geo, 0, 0, 0))
	require.NoError(t, GeometryVertex(geo, 32, 0, 0))
	require.NoError(t, GeometryVertex(geo, 0, 32, 0))
	require.NoError(t, GeometryVertex(geo, 32, 32, 0))

	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, DrawGeometry(graphics, geo, 0))
	require.NoError(t, Flush(graphics))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 32, 16, 16), "strip covers the whole square")
}

func TestEndDrawPresentsRetainedContent(t *testing.T) {
	resetEngine(t)

	target := &presentRecorder{}
	surface, err := CreateSurface(target, 16, 12)
	require.NoError(t, err)
	graphics, err := CreateGraphics(surface)
	require.NoError(t, err)

	require.NoError(t, BeginDraw(graphics))
	require.NoError(t, EndDraw(graphics))
	assert.Equal(t, 1, target.writes, "an empty frame still presents the retained pixels")
	assert.Equal(t, 16, target.lastW)
	assert.Equal(t, 12, target.lastH)

	require.NoError(t, Rect(graphics, 0, 0, 4, 4))
	require.NoError(t, EndDraw(graphics))
	assert.Equal(t, 2, target.writes)
}

func TestReadbackFlushesPendingCommands(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 16, 16)

	require.NoError(t, NoStroke(graphics))
	require.NoError(t, Fill(graphics, Color{1, 0, 0, 1}))
	require.NoError(t, Rect(graphics, 0, 0, 16, 16))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 16, 8, 8))

	n, err := PendingCommands(graphics)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGraphicsUpdateRegion(t *testing.T) {
	resetEngine(t)
	_, graphics := newCanvas(t, 8, 8)

	require.NoError(t, GraphicsUpdateRegion(graphics, 2, 3, 1, 1, []Color{{0, 0, 1, 1}}))
	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	assertColor(t, Color{0, 0, 1, 1}, pixelAt(pixels, 8, 2, 3))

	err = GraphicsUpdateRegion(graphics, 7, 7, 2, 2, make([]Color, 4))
	assert.Error(t, err, "region extends past the surface")

	err = GraphicsUpdatePixels(graphics, make([]Color, 5))
	assert.Error(t, err, "pixel count mismatch")
}

func TestSurfaceResizePreservesContent(t *testing.T) {
	resetEngine(t)
	surface, graphics := newCanvas(t, 4, 4)

	require.NoError(t, GraphicsUpdateRegion(graphics, 0, 0, 1, 1, []Color{{1, 0, 0, 1}}))
	require.NoError(t, SurfaceResize(surface, 6, 6))

	pixels, err := GraphicsReadback(graphics)
	require.NoError(t, err)
	require.Len(t, pixels, 36)
	assertColor(t, Color{1, 0, 0, 1}, pixelAt(pixels, 6, 0, 0))
	assertColor(t, Color{}, pixelAt(pixels, 6, 5, 5), "grown region starts transparent")
}
