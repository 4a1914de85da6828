package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/scene"
)

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	subject := image.Pt(5, 5)
	img.Set(subject.X, subject.Y, color.RGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5, Color: color.NRGBA{A: 255}}
	out := ApplyShadow(img, opts)
	if out.Image == nil {
		t.Fatal("expected output image")
	}
	if want := image.Rect(0, 0, 22, 20); !out.Image.Bounds().Eq(want) {
		t.Fatalf("unexpected bounds %v, want %v", out.Image.Bounds(), want)
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("unexpected content offset %v", out.Offset)
	}
	shadowPt := subject.Add(opts.Offset).Add(out.Offset)
	if out.Image.RGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
	if got := out.Image.RGBAAt(subject.X+out.Offset.X, subject.Y+out.Offset.Y); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("subject pixel changed: %+v", got)
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	fill := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if out.Image != img {
		t.Fatal("expected the input image back")
	}
	if out.Offset != (image.Point{}) {
		t.Fatalf("unexpected offset %v", out.Offset)
	}
}

func TestBlurSpreadsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{A: 255})
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1, Color: color.NRGBA{A: 255}}

	out := ApplyShadow(img, opts)
	if out.Image.Bounds().Dx() <= img.Bounds().Dx() {
		t.Fatal("expected wider output bounds")
	}
	base := opts.Offset.Add(out.Offset)
	baseAlpha := out.Image.RGBAAt(base.X, base.Y).A
	if baseAlpha == 0 {
		t.Fatal("expected alpha at base shadow location")
	}
	if out.Image.RGBAAt(base.X+1, base.Y).A == 0 {
		t.Fatalf("expected blurred alpha to reach neighbor, base alpha=%d", baseAlpha)
	}
}

func TestTextShadowScalesWithSize(t *testing.T) {
	small := TextShadowOptions(30)
	large := TextShadowOptions(60)
	if small.Offset != image.Pt(2, 2) || small.Radius != 4 {
		t.Fatalf("unexpected 30pt shadow %+v", small)
	}
	if large.Offset != image.Pt(4, 4) || large.Radius != 8 {
		t.Fatalf("unexpected 60pt shadow %+v", large)
	}
}

func TestShadowedTextDarkensBelowGlyphs(t *testing.T) {
	s := scene.New(solid(200, 100, white), geometry.Size{Width: 200, Height: 100})
	o := scene.NewText("Ml", geometry.Pt(20, 20), 40, white)
	o.Text.Shadow = true
	s = s.AddOverlay(o)

	out, err := Flatten(s)
	if err != nil {
		t.Fatal(err)
	}
	ink := inkBounds(out, white)
	if ink.Empty() {
		t.Fatal("expected shadow pixels")
	}
	w, h, _, _ := MeasureText("Ml", 40)
	if ink.Max.X <= 20+w-2 && ink.Max.Y <= 20+h-2 {
		t.Fatalf("shadow %v not offset beyond the text box", ink)
	}
	if ink.Min.X < 20-8 || ink.Min.Y < 20-8 {
		t.Fatalf("shadow %v spreads too far", ink)
	}
}
