// Package command implements the per-graphics ordered log of draw intents
// that preserves script order across the immediate/retained boundary.
//
// Style-setting calls are not commands: they mutate the buffer's style
// snapshot, and every draw command captures a copy of that snapshot at
// record time. Recorded commands are immutable and are never reordered or
// coalesced.
package command

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Op tags a draw command variant.
type Op uint8

const (
	// OpRect draws a rectangle with optional corner radii.
	OpRect Op = iota + 1
	// OpBackground fills the whole target with a color.
	OpBackground
	// OpBackgroundImage stretches an image over the whole target.
	OpBackgroundImage
	// OpGeometry draws a user geometry object with an optional material.
	OpGeometry
)

func (o Op) String() string {
	switch o {
	case OpRect:
		return "rect"
	case OpBackground:
		return "background"
	case OpBackgroundImage:
		return "background-image"
	case OpGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// Snapshot is the drawing state captured into a command at record time.
// Fill and Stroke are nil when disabled.
type Snapshot struct {
	Fill         *mgl32.Vec4
	Stroke       *mgl32.Vec4
	StrokeWeight float32
	Transform    mgl32.Mat3
}

// Command is one recorded draw intent. Which fields are meaningful depends
// on Op: Rect uses X/Y/W/H/Radii, Background uses Color, BackgroundImage
// and Geometry reference other objects by raw handle bits.
type Command struct {
	Op Op

	X, Y, W, H float32
	Radii      [4]float32 // tl, tr, br, bl

	Color mgl32.Vec4

	Image    uint64
	Geometry uint64
	Material uint64

	Style Snapshot
}

// Style is the mutable "current state" consulted by subsequent draw
// commands. It also carries the matrix stack for Push/Pop.
type Style struct {
	fill         *mgl32.Vec4
	stroke       *mgl32.Vec4
	strokeWeight float32
	transform    mgl32.Mat3
	stack        []mgl32.Mat3
}

// DefaultStyle matches the engine defaults: white fill, black stroke,
// weight 1, identity transform.
func DefaultStyle() Style {
	white := mgl32.Vec4{1, 1, 1, 1}
	black := mgl32.Vec4{0, 0, 0, 1}
	return Style{
		fill:         &white,
		stroke:       &black,
		strokeWeight: 1,
		transform:    mgl32.Ident3(),
	}
}

// Snapshot returns an immutable copy of the current state.
func (s *Style) Snapshot() Snapshot {
	snap := Snapshot{
		StrokeWeight: s.strokeWeight,
		Transform:    s.transform,
	}
	if s.fill != nil {
		c := *s.fill
		snap.Fill = &c
	}
	if s.stroke != nil {
		c := *s.stroke
		snap.Stroke = &c
	}
	return snap
}

func (s *Style) SetFill(c mgl32.Vec4)   { s.fill = &c }
func (s *Style) ClearFill()             { s.fill = nil }
func (s *Style) SetStroke(c mgl32.Vec4) { s.stroke = &c }
func (s *Style) ClearStroke()           { s.stroke = nil }

func (s *Style) SetStrokeWeight(w float32) {
	if w < 0 {
		w = 0
	}
	s.strokeWeight = w
}

// PushMatrix saves the current transform on the stack.
func (s *Style) PushMatrix() {
	s.stack = append(s.stack, s.transform)
}

// PopMatrix restores the most recently pushed transform. Popping an empty
// stack is a no-op.
func (s *Style) PopMatrix() {
	if n := len(s.stack); n > 0 {
		s.transform = s.stack[n-1]
		s.stack = s.stack[:n-1]
	}
}

// ResetMatrix sets the transform to identity without touching the stack.
func (s *Style) ResetMatrix() {
	s.transform = mgl32.Ident3()
}

func (s *Style) Translate(x, y float32) {
	s.transform = s.transform.Mul3(mgl32.Translate2D(x, y))
}

func (s *Style) Rotate(angle float32) {
	s.transform = s.transform.Mul3(mgl32.HomogRotate2D(angle))
}

func (s *Style) Scale(x, y float32) {
	s.transform = s.transform.Mul3(mgl32.Scale2D(x, y))
}

// ShearX shears along the x axis by an angle in radians, Processing style.
func (s *Style) ShearX(angle float32) {
	s.transform = s.transform.Mul3(mgl32.ShearX2D(float32(math.Tan(float64(angle)))))
}

// ShearY shears along the y axis by an angle in radians.
func (s *Style) ShearY(angle float32) {
	s.transform = s.transform.Mul3(mgl32.ShearY2D(float32(math.Tan(float64(angle)))))
}

// Buffer is the ordered command log owned by exactly one graphics context.
type Buffer struct {
	commands []Command
	style    Style
}

// NewBuffer creates an empty buffer with default style.
func NewBuffer() *Buffer {
	return &Buffer{style: DefaultStyle()}
}

// Record captures the current style into cmd and appends it. O(1)
// amortized; never touches the renderer.
func (b *Buffer) Record(cmd Command) {
	cmd.Style = b.style.Snapshot()
	b.commands = append(b.commands, cmd)
}

// Style returns the mutable style state for style-setting calls.
func (b *Buffer) Style() *Style {
	return &b.style
}

// Len returns the number of pending commands.
func (b *Buffer) Len() int {
	return len(b.commands)
}

// Take atomically removes and returns the buffered commands and the final
// style snapshot, leaving an empty buffer with the style state intact.
func (b *Buffer) Take() ([]Command, Snapshot) {
	cmds := b.commands
	b.commands = nil
	return cmds, b.style.Snapshot()
}

// ResetStyle restores the default style and clears the matrix stack.
// Recorded commands are unaffected.
func (b *Buffer) ResetStyle() {
	b.style = DefaultStyle()
}
