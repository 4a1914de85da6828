package geometry

import "math"

// Zoom limits in percent.
const (
	MinZoom  = 10
	MaxZoom  = 200
	ZoomStep = 10
)

// ClampZoom limits a zoom percentage to [MinZoom, MaxZoom].
func ClampZoom(percent int) int {
	if percent < MinZoom {
		return MinZoom
	}
	if percent > MaxZoom {
		return MaxZoom
	}
	return percent
}

// FitZoom returns the zoom percentage at which canvas fits inside avail
// while keeping its aspect ratio.
func FitZoom(canvas, avail Size) int {
	if !canvas.Valid() || !avail.Valid() {
		return 100
	}
	zx := float64(avail.Width) / float64(canvas.Width)
	zy := float64(avail.Height) / float64(canvas.Height)
	return ClampZoom(int(math.Round(math.Min(zx, zy) * 100)))
}

// ScreenToViewport converts a window position to viewport coordinates given
// where the canvas is drawn and its zoom percentage.
func ScreenToViewport(p Point, origin Point, percent int) Point {
	z := float64(ClampZoom(percent)) / 100
	return Point{X: (p.X - origin.X) / z, Y: (p.Y - origin.Y) / z}
}

// ViewportToScreen is the inverse of ScreenToViewport.
func ViewportToScreen(p Point, origin Point, percent int) Point {
	z := float64(ClampZoom(percent)) / 100
	return Point{X: p.X*z + origin.X, Y: p.Y*z + origin.Y}
}
