package main

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"golang.org/x/image/colornames"

	"github.com/gocessing/gocessing"
	"github.com/gocessing/gocessing/internal/platform/ebitenwin"
)

const (
	demoWidth  = 640
	demoHeight = 480
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Open a window and flush an animated sketch every frame",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := gocessing.DefaultConfig()
			if lvl, err := cmd.Flags().GetString("log-level"); err == nil {
				cfg.LogLevel = lvl
			}
			ebiten.SetWindowSize(demoWidth, demoHeight)
			ebiten.SetWindowTitle("gocessing demo")
			ebiten.SetWindowClosingHandled(true)
			return ebiten.RunGame(&demoGame{target: ebitenwin.New(), cfg: cfg})
		},
	}
}

// demoGame records one sketch frame per ebiten update and flushes it
// through the engine; ebiten's draw step just blits the presented frame.
//
// The engine initializes lazily inside the first Update, not in the
// cobra command: ebiten runs the game update on its own goroutine while
// the main goroutine is held by the OS event loop, and the engine binds
// to the goroutine that initializes it. Shutdown happens here too, for
// the same reason.
type demoGame struct {
	target   *ebitenwin.Target
	cfg      gocessing.Config
	surface  gocessing.Handle
	graphics gocessing.Handle
	frame    int
}

func (g *demoGame) Update() error {
	if g.surface == 0 {
		if err := gocessing.Init(g.cfg); err != nil {
			return err
		}
		var err error
		if g.surface, err = gocessing.CreateSurface(g.target, demoWidth, demoHeight); err != nil {
			return err
		}
		if g.graphics, err = gocessing.CreateGraphics(g.surface); err != nil {
			return err
		}
	}
	if ebiten.IsWindowBeingClosed() {
		if err := gocessing.Shutdown(0); err != nil {
			return err
		}
		return ebiten.Termination
	}
	g.frame++
	return g.sketch()
}

func (g *demoGame) sketch() error {
	h := g.graphics
	if err := gocessing.BeginDraw(h); err != nil {
		return err
	}
	if err := gocessing.Background(h, rgba(colornames.Midnightblue)); err != nil {
		return err
	}

	t := float32(g.frame) / 60

	// Orbiting squares.
	if err := gocessing.NoStroke(h); err != nil {
		return err
	}
	for i := 0; i < 8; i++ {
		angle := t + float32(i)*float32(math.Pi)/4
		x := demoWidth/2 + 150*float32(math.Cos(float64(angle)))
		y := demoHeight/2 + 150*float32(math.Sin(float64(angle)))
		if err := gocessing.Fill(h, rgba(colornames.Orange)); err != nil {
			return err
		}
		if err := gocessing.Rect(h, x-15, y-15, 30, 30); err != nil {
			return err
		}
	}

	// A spinning outlined square in the middle.
	if err := gocessing.PushMatrix(h); err != nil {
		return err
	}
	if err := gocessing.Translate(h, demoWidth/2, demoHeight/2); err != nil {
		return err
	}
	if err := gocessing.Rotate(h, t); err != nil {
		return err
	}
	if err := gocessing.NoFill(h); err != nil {
		return err
	}
	if err := gocessing.Stroke(h, rgba(colornames.Skyblue)); err != nil {
		return err
	}
	if err := gocessing.StrokeWeight(h, 4); err != nil {
		return err
	}
	if err := gocessing.Rect(h, -60, -60, 120, 120); err != nil {
		return err
	}
	if err := gocessing.PopMatrix(h); err != nil {
		return err
	}

	if err := gocessing.EndDraw(h); err != nil {
		return fmt.Errorf("flush frame %d: %w", g.frame, err)
	}
	return nil
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	g.target.Draw(screen)
}

func (g *demoGame) Layout(_, _ int) (int, int) {
	return demoWidth, demoHeight
}
