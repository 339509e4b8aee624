package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/hwc"
	"github.com/gogpu/hwc/plane"
)

// previewWidth is the width the preview is scaled down to.
const previewWidth = 960

var (
	background = color.RGBA{0x20, 0x20, 0x24, 0xFF}
	clientFill = color.RGBA{0x70, 0x70, 0x70, 0xA0}
	outline    = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// zColors cycles through one color per z-position.
var zColors = []color.RGBA{
	{0x3B, 0x82, 0xF6, 0xA0},
	{0x10, 0xB9, 0x81, 0xA0},
	{0xF5, 0x9E, 0x0B, 0xA0},
	{0xEF, 0x44, 0x44, 0xA0},
	{0x8B, 0x5C, 0xF6, 0xA0},
	{0xEC, 0x48, 0x99, 0xA0},
}

// writePreview draws the frame's layers in paint order, colored by the
// z-position of their plane or gray when composited into the target, and
// saves a downscaled PNG.
func writePreview(path string, f *hwc.Frame, plan *hwc.Plan) error {
	w, h := f.Width, f.Height
	if w <= 0 || h <= 0 {
		w, h = 1920, 1080
	}
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for _, l := range f.Layers {
		r := image.Rect(l.Display.Left, l.Display.Top, l.Display.Right, l.Display.Bottom).Intersect(canvas.Bounds())
		if r.Empty() {
			continue
		}
		fill := clientFill
		label := fmt.Sprintf("#%d client", l.ID)
		if l.Composition == plane.CompositionDevice {
			fill = zColors[l.ZPos%len(zColors)]
			label = fmt.Sprintf("#%d z%d %s", l.ID, l.ZPos, l.Plane.Name)
		}
		draw.Draw(canvas, r, image.NewUniform(fill), image.Point{}, draw.Over)
		strokeRect(canvas, r, 2)
		drawLabel(canvas, r.Min.X+6, r.Min.Y+16, label)
	}
	if t := plan.Target; t != nil {
		drawLabel(canvas, 8, h-10, fmt.Sprintf("target %s %s compressed=%t", t.Span, t.Format, t.Compressed))
	}

	scale := min(1, float64(previewWidth)/float64(w))
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, dst); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func strokeRect(dst draw.Image, r image.Rectangle, width int) {
	src := image.NewUniform(outline)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width),
		image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+width, r.Max.Y),
		image.Rect(r.Max.X-width, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(r), src, image.Point{}, draw.Src)
	}
}

func drawLabel(dst draw.Image, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(outline),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
