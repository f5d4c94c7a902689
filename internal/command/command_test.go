package command

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPreservesOrder(t *testing.T) {
	b := NewBuffer()

	b.Record(Command{Op: OpBackground, Color: mgl32.Vec4{0, 0, 0, 1}})
	b.Record(Command{Op: OpRect, X: 1})
	b.Record(Command{Op: OpRect, X: 2})
	b.Record(Command{Op: OpRect, X: 3})

	cmds, _ := b.Take()
	require.Len(t, cmds, 4)
	assert.Equal(t, OpBackground, cmds[0].Op)
	for i, want := range []float32{1, 2, 3} {
		assert.Equal(t, OpRect, cmds[i+1].Op)
		assert.Equal(t, want, cmds[i+1].X)
	}
}

func TestTakeLeavesEmptyBuffer(t *testing.T) {
	b := NewBuffer()
	b.Record(Command{Op: OpRect})

	cmds, _ := b.Take()
	assert.Len(t, cmds, 1)
	assert.Equal(t, 0, b.Len())

	cmds, _ = b.Take()
	assert.Empty(t, cmds)
}

func TestStyleCapturedAtRecordTime(t *testing.T) {
	b := NewBuffer()

	red := mgl32.Vec4{1, 0, 0, 1}
	blue := mgl32.Vec4{0, 0, 1, 1}

	b.Style().SetFill(red)
	b.Record(Command{Op: OpRect})

	// Mutating the style after recording must not alter the first command.
	b.Style().SetFill(blue)
	b.Record(Command{Op: OpRect})

	cmds, final := b.Take()
	require.Len(t, cmds, 2)
	require.NotNil(t, cmds[0].Style.Fill)
	assert.Equal(t, red, *cmds[0].Style.Fill)
	require.NotNil(t, cmds[1].Style.Fill)
	assert.Equal(t, blue, *cmds[1].Style.Fill)
	require.NotNil(t, final.Fill)
	assert.Equal(t, blue, *final.Fill)
}

func TestNoFillNoStroke(t *testing.T) {
	b := NewBuffer()
	b.Style().ClearFill()
	b.Style().ClearStroke()
	b.Record(Command{Op: OpRect})

	cmds, _ := b.Take()
	require.Len(t, cmds, 1)
	assert.Nil(t, cmds[0].Style.Fill)
	assert.Nil(t, cmds[0].Style.Stroke)
}

func TestMatrixStack(t *testing.T) {
	s := DefaultStyle()

	s.Translate(10, 20)
	moved := s.transform
	s.PushMatrix()
	s.Translate(5, 5)
	assert.NotEqual(t, moved, s.transform)

	s.PopMatrix()
	assert.Equal(t, moved, s.transform)

	// Popping an empty stack is a no-op.
	s.PopMatrix()
	assert.Equal(t, moved, s.transform)

	s.ResetMatrix()
	assert.Equal(t, mgl32.Ident3(), s.transform)
}

func TestTransformComposesInCallOrder(t *testing.T) {
	s := DefaultStyle()
	s.Translate(10, 0)
	s.Scale(2, 2)

	// translate-then-scale: local point (1,1) lands at (12,2)
	p := s.transform.Mul3x1(mgl32.Vec3{1, 1, 1})
	assert.InDelta(t, 12.0, p.X(), 1e-5)
	assert.InDelta(t, 2.0, p.Y(), 1e-5)
}

func TestStrokeWeightClamped(t *testing.T) {
	s := DefaultStyle()
	s.SetStrokeWeight(-3)
	assert.Equal(t, float32(0), s.strokeWeight)
}

func TestResetStyle(t *testing.T) {
	b := NewBuffer()
	b.Style().ClearFill()
	b.Style().PushMatrix()
	b.Style().Translate(1, 1)

	b.ResetStyle()

	snap := b.Style().Snapshot()
	require.NotNil(t, snap.Fill)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, *snap.Fill)
	assert.Equal(t, mgl32.Ident3(), snap.Transform)
	assert.Empty(t, b.Style().stack)
}
