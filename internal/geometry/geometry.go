// Package geometry maps coordinates between the working viewport and the
// pixel space of the original image.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var (
	// ErrNonFinite is returned when a coordinate is NaN or infinite.
	ErrNonFinite = errors.New("geometry: non-finite coordinate")
	// ErrDegenerate is returned when a transform cannot be inverted.
	ErrDegenerate = errors.New("geometry: degenerate scale")
)

// Point is a position with floating-point coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Rect is an axis aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.X + r.Width, Y: r.Y + r.Height} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Canon returns r with a non-negative width and height.
func (r Rect) Canon() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Size is the integer size of a canvas or raster.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// ParseSize parses "WIDTHxHEIGHT".
func ParseSize(s string) (Size, error) {
	var out Size
	if _, err := fmt.Sscanf(s, "%dx%d", &out.Width, &out.Height); err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if !out.Valid() {
		return Size{}, fmt.Errorf("invalid size %q", s)
	}
	return out, nil
}

// ScaleTransform maps original image space to viewport space as
// v = o*scale + offset, independently per axis.
type ScaleTransform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = ScaleTransform{ScaleX: 1, ScaleY: 1}

// Fit returns the transform that stretches an image of size orig to fill
// the viewport exactly.
func Fit(orig, viewport Size) ScaleTransform {
	if !orig.Valid() || !viewport.Valid() {
		return Identity
	}
	return ScaleTransform{
		ScaleX: float64(viewport.Width) / float64(orig.Width),
		ScaleY: float64(viewport.Height) / float64(orig.Height),
	}
}

// Scaled returns t with scale and offset multiplied by (rx, ry).
func (t ScaleTransform) Scaled(rx, ry float64) ScaleTransform {
	return ScaleTransform{
		ScaleX:  t.ScaleX * rx,
		ScaleY:  t.ScaleY * ry,
		OffsetX: t.OffsetX * rx,
		OffsetY: t.OffsetY * ry,
	}
}

func (t ScaleTransform) check() error {
	if !finite(t.ScaleX, t.ScaleY, t.OffsetX, t.OffsetY) {
		return ErrNonFinite
	}
	if t.ScaleX == 0 || t.ScaleY == 0 {
		return ErrDegenerate
	}
	return nil
}

// ToViewport maps a point from original image space to viewport space.
func ToViewport(p Point, t ScaleTransform) (Point, error) {
	if err := t.check(); err != nil {
		return Point{}, err
	}
	if !finite(p.X, p.Y) {
		return Point{}, ErrNonFinite
	}
	return Point{X: p.X*t.ScaleX + t.OffsetX, Y: p.Y*t.ScaleY + t.OffsetY}, nil
}

// ToOriginal maps a point from viewport space to original image space.
func ToOriginal(p Point, t ScaleTransform) (Point, error) {
	if err := t.check(); err != nil {
		return Point{}, err
	}
	if !finite(p.X, p.Y) {
		return Point{}, ErrNonFinite
	}
	return Point{X: (p.X - t.OffsetX) / t.ScaleX, Y: (p.Y - t.OffsetY) / t.ScaleY}, nil
}

// RectToViewport maps r from original image space to viewport space.
func RectToViewport(r Rect, t ScaleTransform) (Rect, error) {
	if !finite(r.Width, r.Height) {
		return Rect{}, ErrNonFinite
	}
	p, err := ToViewport(r.Min(), t)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: p.X, Y: p.Y, Width: r.Width * t.ScaleX, Height: r.Height * t.ScaleY}.Canon(), nil
}

// RectToOriginal maps r from viewport space to original image space.
func RectToOriginal(r Rect, t ScaleTransform) (Rect, error) {
	if !finite(r.Width, r.Height) {
		return Rect{}, ErrNonFinite
	}
	p, err := ToOriginal(r.Min(), t)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: p.X, Y: p.Y, Width: r.Width / t.ScaleX, Height: r.Height / t.ScaleY}.Canon(), nil
}

// PixelRect rounds each edge of r to the nearest pixel boundary.
func PixelRect(r Rect) image.Rectangle {
	r = r.Canon()
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}

// FromImageRect converts an integer rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{X: float64(r.Min.X), Y: float64(r.Min.Y), Width: float64(r.Dx()), Height: float64(r.Dy())}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
