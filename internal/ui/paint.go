package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/photoedit/internal/crop"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/scene"
	"github.com/example/photoedit/internal/theme"
)

const checkerSize = 8

type frame struct {
	width, height int
	zoom          int
	origin        geometry.Point
	theme         *theme.Theme

	scene *scene.Scene

	cropping     bool
	crop         geometry.Rect
	hasSelection bool
	selection    geometry.Rect

	status string
	kind   statusKind
	hints  string
}

// toScreen maps a viewport rectangle to window pixels.
func (f frame) toScreen(r geometry.Rect) image.Rectangle {
	lo := geometry.ViewportToScreen(r.Min(), f.origin, f.zoom)
	hi := geometry.ViewportToScreen(r.Max(), f.origin, f.zoom)
	return image.Rect(
		int(math.Round(lo.X)), int(math.Round(lo.Y)),
		int(math.Round(hi.X)), int(math.Round(hi.Y)),
	)
}

// drawFrame paints f into dst. It returns early with ctx's error when a
// newer frame supersedes this one.
func drawFrame(ctx context.Context, dst *image.RGBA, f frame) error {
	th := f.theme
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)

	if f.scene != nil {
		c := f.scene.Canvas()
		canvas := f.toScreen(geometry.R(0, 0, float64(c.Width), float64(c.Height)))
		drawCheckerboard(dst, canvas.Intersect(dst.Bounds()), checkerSize, th.CheckerLight, th.CheckerDark)
		if err := ctx.Err(); err != nil {
			return err
		}
		preview, err := render.Preview(f.scene)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		xdraw.ApproxBiLinear.Scale(dst, canvas, preview, preview.Bounds(), draw.Over, nil)

		if f.cropping {
			drawCropOverlay(dst, canvas, f.toScreen(f.crop.Canon()), th)
		} else if f.hasSelection {
			drawDashedRect(dst, f.toScreen(f.selection).Inset(-2), 4, 1, th.Selection, th.CheckerLight)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	drawStatus(dst, f)
	return nil
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colours. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.Set(x, y, light)
			} else {
				dst.Set(x, y, dark)
			}
		}
	}
}

// drawCropOverlay dims the canvas outside sel and outlines sel with its
// resize handles.
func drawCropOverlay(dst *image.RGBA, canvas, sel image.Rectangle, th *theme.Theme) {
	shade := image.NewUniform(th.CropShade)
	for _, r := range []image.Rectangle{
		image.Rect(canvas.Min.X, canvas.Min.Y, canvas.Max.X, sel.Min.Y),
		image.Rect(canvas.Min.X, sel.Max.Y, canvas.Max.X, canvas.Max.Y),
		image.Rect(canvas.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, canvas.Max.X, sel.Max.Y),
	} {
		r = r.Canon().Intersect(canvas)
		if !r.Empty() {
			draw.Draw(dst, r, shade, image.Point{}, draw.Over)
		}
	}
	drawDashedRect(dst, sel, 4, 2, th.CropOutline, th.CropOutline2)
	hs := crop.HandleSize / 2
	cx, cy := (sel.Min.X+sel.Max.X)/2, (sel.Min.Y+sel.Max.Y)/2
	for _, c := range []image.Point{
		sel.Min, image.Pt(cx, sel.Min.Y), image.Pt(sel.Max.X, sel.Min.Y), image.Pt(sel.Max.X, cy),
		sel.Max, image.Pt(cx, sel.Max.Y), image.Pt(sel.Min.X, sel.Max.Y), image.Pt(sel.Min.X, cy),
	} {
		hr := image.Rect(c.X-hs, c.Y-hs, c.X+hs, c.Y+hs)
		draw.Draw(dst, hr, image.NewUniform(th.HandleFill), image.Point{}, draw.Src)
		drawRect(dst, hr, th.HandleBorder)
	}
}

// drawDashedLine draws an axis aligned dashed line alternating c1 and c2.
func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length, step = -length, -1
	}
	for i := 0; i <= length; i++ {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		for t := 0; t < thickness; t++ {
			if horiz {
				img.Set(x0+i*step, y0+t, col)
			} else {
				img.Set(x0+t, y0+i*step, col)
			}
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thickness, c1, c2)
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	for x := rect.Min.X; x < rect.Max.X; x++ {
		img.Set(x, rect.Min.Y, col)
		img.Set(x, rect.Max.Y-1, col)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		img.Set(rect.Min.X, y, col)
		img.Set(rect.Max.X-1, y, col)
	}
}

func drawStatus(dst *image.RGBA, f frame) {
	th := f.theme
	bar := image.Rect(0, f.height-statusHeight, f.width, f.height)
	draw.Draw(dst, bar, image.NewUniform(th.StatusBackground), image.Point{}, draw.Src)

	msgCol := th.Foreground
	switch f.kind {
	case statusBusy:
		msgCol = th.StatusBusy
	case statusError:
		msgCol = th.StatusError
	}
	baseline := bar.Min.Y + 16
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(msgCol), Face: basicfont.Face7x13, Dot: fixed.P(margin, baseline)}
	d.DrawString(f.status)

	if f.hints == "" {
		return
	}
	d = &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13}
	w := d.MeasureString(f.hints).Ceil()
	x := f.width - margin - w
	statusEnd := margin + font.MeasureString(basicfont.Face7x13, f.status).Ceil() + 2*margin
	if x < statusEnd {
		return
	}
	d.Dot = fixed.P(x, baseline)
	d.DrawString(f.hints)
}
