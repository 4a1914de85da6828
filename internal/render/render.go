// Package render composites scenes into rasters: the full resolution
// flatten used for export and the viewport sized preview shown while
// editing.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/scene"
)

// ErrEmptyCanvas is returned when a scene has no usable canvas size.
var ErrEmptyCanvas = errors.New("render: empty canvas")

// Options controls encoding of an exported scene.
type Options struct {
	Format  raster.Format
	Quality int
}

// DefaultOptions encodes PNG.
func DefaultOptions() Options { return Options{Format: imaging.PNG, Quality: 95} }

// Flatten composites s at the native resolution of its background. The
// filter is recomputed from the full resolution source and every overlay
// is mapped from canvas space by the output/canvas ratio. s is not
// modified.
func Flatten(s *scene.Scene) (*image.NRGBA, error) {
	canvas := s.Canvas()
	if !canvas.Valid() {
		return nil, ErrEmptyCanvas
	}
	bg, err := s.FilteredBackground()
	if err != nil {
		return nil, err
	}
	out := imaging.Clone(bg)
	rx := float64(out.Bounds().Dx()) / float64(canvas.Width)
	ry := float64(out.Bounds().Dy()) / float64(canvas.Height)
	if err := drawOverlays(out, s.ZOrdered(), rx, ry); err != nil {
		return nil, err
	}
	return out, nil
}

// Export flattens s and encodes the result.
func Export(s *scene.Scene, opts Options) ([]byte, error) {
	img, err := Flatten(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := raster.Encode(&buf, img, opts.Format, opts.Quality); err != nil {
		return nil, fmt.Errorf("encode %v: %w", opts.Format, err)
	}
	return buf.Bytes(), nil
}

// Preview renders s at canvas size. The background is resampled into the
// canvas through its transform before the filter runs, and the result is
// cached on the scene so dragging an overlay only redraws the overlays.
func Preview(s *scene.Scene) (*image.RGBA, error) {
	canvas := s.Canvas()
	if !canvas.Valid() {
		return nil, ErrEmptyCanvas
	}
	bounds := image.Rect(0, 0, canvas.Width, canvas.Height)
	out := image.NewRGBA(bounds)
	if s.Background().Source != nil {
		bg, err := s.PreviewBackground(previewBackground)
		if err != nil {
			return nil, err
		}
		draw.Draw(out, bounds, bg, image.Point{}, draw.Src)
	}
	if err := drawOverlays(out, s.ZOrdered(), 1, 1); err != nil {
		return nil, err
	}
	return out, nil
}

func previewBackground(bg scene.Background, canvas geometry.Size) (*image.NRGBA, error) {
	src := bg.Source.Pixels()
	scaled := image.NewNRGBA(image.Rect(0, 0, canvas.Width, canvas.Height))
	r, err := geometry.RectToViewport(geometry.FromImageRect(src.Bounds()), bg.Transform)
	if err != nil {
		return nil, err
	}
	xdraw.BiLinear.Scale(scaled, geometry.PixelRect(r), src, src.Bounds(), draw.Src, nil)
	return filter.Apply(scaled, bg.Filter)
}

func drawOverlays(dst draw.Image, overlays []scene.Overlay, rx, ry float64) error {
	for _, o := range overlays {
		if err := drawOverlay(dst, o, rx, ry); err != nil {
			return fmt.Errorf("overlay %s: %w", o.ID, err)
		}
	}
	return nil
}

// drawOverlay renders o into dst. rx and ry map canvas units to dst
// pixels. Text is rendered at its final font size and any remaining
// non-uniform scale or rotation is applied while placing the sprite.
func drawOverlay(dst draw.Image, o scene.Overlay, rx, ry float64) error {
	sx, sy := o.ScaleX*rx, o.ScaleY*ry
	var (
		sprite *image.RGBA
		anchor image.Point
		kx, ky = 1.0, 1.0
	)
	switch o.Kind {
	case scene.KindText:
		if o.Text.Content == "" {
			return nil
		}
		var err error
		sprite, anchor, err = textSprite(o.Text.Content, o.Text.FontSize*sx, o.Text.Color, o.Text.Shadow)
		if err != nil {
			return err
		}
		ky = sy / sx
	case scene.KindShape:
		sprite = shapeSprite(o.Shape, o.Shape.Width*sx, o.Shape.Height*sy, o.Shape.StrokeWidth*math.Min(sx, sy))
	default:
		return fmt.Errorf("unknown overlay kind %v", o.Kind)
	}
	if sprite == nil {
		return nil
	}
	place(dst, sprite, anchor, geometry.Pt(o.Position.X*rx, o.Position.Y*ry), kx, ky, o.Rotation)
	return nil
}

// place draws sprite so that its anchor lands on pos, scaled by (kx, ky)
// and rotated clockwise by deg degrees around pos.
func place(dst draw.Image, sprite *image.RGBA, anchor image.Point, pos geometry.Point, kx, ky, deg float64) {
	if deg == 0 && kx == 1 && ky == 1 {
		at := image.Pt(int(math.Round(pos.X)), int(math.Round(pos.Y))).Sub(anchor)
		draw.Draw(dst, sprite.Bounds().Add(at), sprite, sprite.Bounds().Min, draw.Over)
		return
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	a, b := cos*kx, -sin*ky
	d, e := sin*kx, cos*ky
	ax, ay := float64(anchor.X), float64(anchor.Y)
	m := f64.Aff3{
		a, b, pos.X - (a*ax + b*ay),
		d, e, pos.Y - (d*ax + e*ay),
	}
	xdraw.BiLinear.Transform(dst, m, sprite, sprite.Bounds(), draw.Over, nil)
}
