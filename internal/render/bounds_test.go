package render

import (
	"math"
	"testing"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
)

func TestOverlayBoundsShape(t *testing.T) {
	o := scene.NewShape(scene.FormRect, geometry.Pt(10, 20), 30, 10, white)
	o.ScaleX = 2
	r, err := OverlayBounds(o)
	if err != nil {
		t.Fatal(err)
	}
	if r != geometry.R(10, 20, 60, 10) {
		t.Fatalf("unexpected bounds %+v", r)
	}

	o.ScaleX = 1
	o.Rotation = 90
	r, err = OverlayBounds(o)
	if err != nil {
		t.Fatal(err)
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
	if !near(r.X, 0) || !near(r.Y, 20) || !near(r.Width, 10) || !near(r.Height, 30) {
		t.Fatalf("unexpected rotated bounds %+v", r)
	}
}

func TestOverlayBoundsText(t *testing.T) {
	o := scene.NewText("Hello", geometry.Pt(5, 5), 30, white)
	r, err := OverlayBounds(o)
	if err != nil {
		t.Fatal(err)
	}
	w, h, _, _ := MeasureText("Hello", 30)
	if r != geometry.R(5, 5, float64(w), float64(h)) {
		t.Fatalf("unexpected bounds %+v", r)
	}
}

func TestOverlayAtPicksTopmost(t *testing.T) {
	s := scene.New(solid(100, 100, black), geometry.Size{Width: 100, Height: 100})
	s = s.AddOverlay(scene.NewShape(scene.FormRect, geometry.Pt(0, 0), 50, 50, white))
	bottom := s.Selected()
	s = s.AddOverlay(scene.NewShape(scene.FormRect, geometry.Pt(25, 25), 50, 50, white))
	top := s.Selected()

	if id, ok := OverlayAt(s, geometry.Pt(30, 30)); !ok || id != top {
		t.Fatalf("expected %s, got %s", top, id)
	}
	if id, ok := OverlayAt(s, geometry.Pt(10, 10)); !ok || id != bottom {
		t.Fatalf("expected %s, got %s", bottom, id)
	}
	if _, ok := OverlayAt(s, geometry.Pt(90, 10)); ok {
		t.Fatal("expected no overlay")
	}
}
