package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ShadowOptions configures the drop shadow drawn behind an overlay.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
	Color   color.NRGBA
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the sprite composited over its blurred shadow.
	Image *image.RGBA
	// Offset is where the sprite's original top-left corner ended up inside
	// Image. Callers subtract it when placing the result.
	Offset image.Point
}

// TextShadowOptions returns the shadow used for text at the given font
// size: a soft black shadow two units down and right at 30pt, scaled
// linearly with the size so exported text keeps its on-screen look.
func TextShadowOptions(size float64) ShadowOptions {
	k := size / 30
	return ShadowOptions{
		Radius:  max(1, int(math.Round(4*k))),
		Offset:  image.Pt(int(math.Round(2*k)), int(math.Round(2*k))),
		Opacity: 0.5,
		Color:   color.NRGBA{A: 255},
	}
}

// ApplyShadow composites img over a blurred copy of its alpha mask. The
// result always has a zero origin.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := math.Min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	composite := src.Union(shadow)

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		row := img.PixOffset(src.Min.X, y)
		mrow := mask.PixOffset(src.Min.X-padded.Min.X, y-padded.Min.Y)
		for x := 0; x < src.Dx(); x++ {
			mask.Pix[mrow+x] = img.Pix[row+x*4+3]
		}
	}
	blurred := blurGray(mask, radius)

	dst := image.NewRGBA(composite.Sub(composite.Min))
	tint := opts.Color
	tint.A = uint8(float64(tint.A)*opacity + 0.5)
	if tint.A > 0 {
		at := shadow.Min.Sub(composite.Min)
		draw.DrawMask(dst, blurred.Bounds().Add(at), image.NewUniform(tint), image.Point{}, blurred, image.Point{}, draw.Over)
	}
	draw.Draw(dst, src.Sub(composite.Min), img, src.Min, draw.Over)

	return ShadowResult{Image: dst, Offset: src.Min.Sub(composite.Min)}
}

// blurGray applies a separable box blur using running prefix sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	out := image.NewGray(src.Bounds())
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tmp := image.NewGray(src.Bounds())

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(src.Pix[y*src.Stride+x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			out.Pix[y*out.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return out
}
