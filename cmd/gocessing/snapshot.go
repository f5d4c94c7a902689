package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/colornames"

	"github.com/gocessing/gocessing"
)

func newSnapshotCommand() *cobra.Command {
	var (
		out    string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a scripted sketch offscreen and write it as a PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := initEngine(cmd); err != nil {
				return err
			}
			defer gocessing.Shutdown(0)
			return snapshot(out, width, height)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "snapshot.png", "Output PNG path")
	cmd.Flags().IntVar(&width, "width", 400, "Canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 300, "Canvas height in pixels")
	return cmd
}

func snapshot(out string, width, height int) error {
	surface, err := gocessing.CreateSurfaceOffscreen(width, height)
	if err != nil {
		return err
	}
	graphics, err := gocessing.CreateGraphics(surface)
	if err != nil {
		return err
	}

	w := float32(width)
	h := float32(height)
	steps := []error{
		gocessing.Background(graphics, rgba(colornames.Whitesmoke)),
		gocessing.NoStroke(graphics),
		gocessing.Fill(graphics, rgba(colornames.Crimson)),
		gocessing.Rect(graphics, w*0.1, h*0.1, w*0.35, h*0.35),
		gocessing.Fill(graphics, rgba(colornames.Royalblue)),
		gocessing.Rect(graphics, w*0.3, h*0.3, w*0.35, h*0.35),
		gocessing.Stroke(graphics, rgba(colornames.Black)),
		gocessing.StrokeWeight(graphics, 3),
		gocessing.NoFill(graphics),
		gocessing.Rect(graphics, w*0.55, h*0.55, w*0.35, h*0.35),
		gocessing.Flush(graphics),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}

	pixels, err := gocessing.GraphicsReadback(graphics)
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, c := range pixels {
		img.Pix[i*4+0] = channel(c.R)
		img.Pix[i*4+1] = channel(c.G)
		img.Pix[i*4+2] = channel(c.B)
		img.Pix[i*4+3] = channel(c.A)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}
	return nil
}

func channel(v float32) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}
