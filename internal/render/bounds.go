package render

import (
	"math"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
)

// OverlayBounds returns the axis aligned box covered by o in canvas units,
// including its scale and rotation. Text shadows are not included.
func OverlayBounds(o scene.Overlay) (geometry.Rect, error) {
	var w, h float64
	switch o.Kind {
	case scene.KindText:
		tw, th, _, err := MeasureText(o.Text.Content, o.Text.FontSize)
		if err != nil {
			return geometry.Rect{}, err
		}
		w, h = float64(tw), float64(th)
	case scene.KindShape:
		w, h = o.Shape.Width, o.Shape.Height
	}
	w *= o.ScaleX
	h *= o.ScaleY
	if o.Rotation == 0 {
		return geometry.R(o.Position.X, o.Position.Y, w, h), nil
	}
	sin, cos := math.Sincos(o.Rotation * math.Pi / 180)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x := o.Position.X + c[0]*cos - c[1]*sin
		y := o.Position.Y + c[0]*sin + c[1]*cos
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return geometry.R(minX, minY, maxX-minX, maxY-minY), nil
}

// OverlayAt returns the id of the topmost overlay of s under p.
func OverlayAt(s *scene.Scene, p geometry.Point) (string, bool) {
	ordered := s.ZOrdered()
	for i := len(ordered) - 1; i >= 0; i-- {
		r, err := OverlayBounds(ordered[i])
		if err != nil {
			continue
		}
		if r.Contains(p) {
			return ordered[i].ID, true
		}
	}
	return "", false
}
