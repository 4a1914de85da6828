package render

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/example/photoedit/internal/scene"
)

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// shapeSprite rasterises sh at w x h pixels. The stroke is drawn inside
// the outline.
func shapeSprite(sh scene.Shape, w, h, strokeWidth float64) *image.RGBA {
	iw, ih := int(math.Ceil(w)), int(math.Ceil(h))
	if iw <= 0 || ih <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, iw, ih))
	fw, fh := float32(w), float32(h)

	if sh.Fill.A > 0 {
		z := vector.NewRasterizer(iw, ih)
		outline(z, sh.Form, 0, 0, fw, fh, false)
		z.Draw(img, img.Bounds(), image.NewUniform(sh.Fill), image.Point{})
	}
	sw := float32(strokeWidth)
	if sh.Stroke.A > 0 && sw > 0 {
		z := vector.NewRasterizer(iw, ih)
		outline(z, sh.Form, 0, 0, fw, fh, false)
		if 2*sw < fw && 2*sw < fh {
			outline(z, sh.Form, sw, sw, fw-2*sw, fh-2*sw, true)
		}
		z.Draw(img, img.Bounds(), image.NewUniform(sh.Stroke), image.Point{})
	}
	return img
}

// outline adds a closed rectangle or ellipse path. reverse winds it the
// other way so it cuts a hole in an enclosing path.
func outline(z *vector.Rasterizer, form scene.Form, x, y, w, h float32, reverse bool) {
	if form == scene.FormEllipse {
		ellipse(z, x+w/2, y+h/2, w/2, h/2, reverse)
		return
	}
	pts := [][2]float32{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	if reverse {
		pts[1], pts[3] = pts[3], pts[1]
	}
	z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		z.LineTo(p[0], p[1])
	}
	z.ClosePath()
}

func ellipse(z *vector.Rasterizer, cx, cy, rx, ry float32, reverse bool) {
	if reverse {
		ry = -ry
	}
	kx, ky := rx*kappa, ry*kappa
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}

