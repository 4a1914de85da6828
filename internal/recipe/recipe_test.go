package recipe

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/example/photoedit/internal/crop"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/scene"
)

const sample = `
viewport: {width: 800, height: 600}
steps:
  - filter: sepia
  - text: {content: Hello, x: 100, y: 100, size: 30, color: "#ffffff"}
  - shape: {form: ellipse, x: 10, y: 10, width: 50, height: 40, fill: "#ff000080", rotation: 15}
  - crop: {x: 0, y: 0, width: 400, height: 600}
  - resize: {width: 1600, height: 600}
  - undo: 1
  - redo: 1
output: {format: jpg, quality: 80}
`

func newSession(w, h int, opts ...editor.Option) *editor.Session {
	return editor.New(raster.New(image.NewNRGBA(image.Rect(0, 0, w, h))), opts...)
}

func TestParseSample(t *testing.T) {
	r, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Steps) != 7 {
		t.Fatalf("expected 7 steps, got %d", len(r.Steps))
	}
	if r.Viewport == nil || r.Viewport.Width != 800 {
		t.Fatalf("unexpected viewport %+v", r.Viewport)
	}
	opts, err := r.Output.Options()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Format != imaging.JPEG || opts.Quality != 80 {
		t.Fatalf("unexpected output %+v", opts)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"two actions":  "steps:\n  - {filter: sepia, undo: 1}\n",
		"no action":    "steps:\n  - {}\n",
		"unknown key":  "steps:\n  - blur: 3\n",
		"bad format":   "output: {format: xcf}\n",
		"bad viewport": "viewport: {width: 0, height: 10}\n",
	}
	for name, src := range cases {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	_, err := Parse(strings.NewReader(cases["two actions"]))
	if !errors.Is(err, ErrStep) {
		t.Fatalf("expected ErrStep, got %v", err)
	}
}

func TestEmptyRecipe(t *testing.T) {
	r, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(10, 10)
	if err := r.Apply(s); err != nil {
		t.Fatal(err)
	}
	if s.History().Len() != 1 {
		t.Fatal("empty recipe changed the history")
	}
}

func TestApplyMatchesDirectCalls(t *testing.T) {
	r, err := Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	replayed := newSession(1600, 1200, r.SessionOptions()...)
	if err := r.Apply(replayed); err != nil {
		t.Fatal(err)
	}

	direct := newSession(1600, 1200, editor.WithViewport(geometry.Size{Width: 800, Height: 600}))
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(direct.SetFilter(filter.Sepia))
	text := scene.NewText("Hello", geometry.Pt(100, 100), 30, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	text.Text.Shadow = scene.DefaultTextDefaults().Shadow
	_, err = direct.AddOverlay(text)
	must(err)
	shape := scene.NewShape(scene.FormEllipse, geometry.Pt(10, 10), 50, 40, color.NRGBA{R: 255, A: 0x80})
	shape.Rotation = 15
	_, err = direct.AddOverlay(shape)
	must(err)
	must(direct.BeginCrop(crop.Free))
	direct.Crop().SetSelection(geometry.R(0, 0, 400, 600))
	must(direct.CommitCrop())
	must(direct.Resize(1600, 600))

	got, want := replayed.Scene(), direct.Scene()
	if got.Canvas() != want.Canvas() {
		t.Fatalf("canvas %v, want %v", got.Canvas(), want.Canvas())
	}
	if got.Background().Source.Size() != want.Background().Source.Size() {
		t.Fatalf("background %v, want %v", got.Background().Source.Size(), want.Background().Source.Size())
	}
	if got.Background().Filter != filter.Sepia {
		t.Fatalf("unexpected filter %v", got.Background().Filter)
	}
	gotOverlays, wantOverlays := got.Overlays(), want.Overlays()
	if len(gotOverlays) != 2 || len(wantOverlays) != 2 {
		t.Fatalf("expected 2 overlays, got %d and %d", len(gotOverlays), len(wantOverlays))
	}
	for i := range gotOverlays {
		if gotOverlays[i] != wantOverlays[i] {
			t.Fatalf("overlay %d: %+v, want %+v", i, gotOverlays[i], wantOverlays[i])
		}
	}
	if replayed.History().Len() != 6 || replayed.CanRedo() {
		t.Fatalf("unexpected history: len %d cursor %d", replayed.History().Len(), replayed.History().Cursor())
	}
}

func TestApplyShapeFields(t *testing.T) {
	r, err := Parse(strings.NewReader(`
steps:
  - shape: {form: ellipse, x: 5, y: 6, width: 20, height: 10, fill: red, stroke: "#000", stroke_width: 2, scale_x: 2, rotation: 45}
`))
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(100, 100)
	if err := r.Apply(s); err != nil {
		t.Fatal(err)
	}
	o, ok := s.Scene().Overlay(s.Scene().Selected())
	if !ok {
		t.Fatal("shape not selected")
	}
	if o.Shape.Form != scene.FormEllipse || o.Shape.StrokeWidth != 2 || o.ScaleX != 2 || o.ScaleY != 1 || o.Rotation != 45 {
		t.Fatalf("unexpected overlay %+v", o)
	}
	if o.Shape.Fill != (color.NRGBA{R: 255, A: 255}) || o.Shape.Stroke != (color.NRGBA{A: 255}) {
		t.Fatalf("unexpected colours %+v", o.Shape)
	}
	if o.Position != geometry.Pt(5, 6) {
		t.Fatalf("unexpected position %v", o.Position)
	}
}

func TestApplyStopsAtFailingStep(t *testing.T) {
	r, err := Parse(strings.NewReader(`
steps:
  - filter: grayscale
  - crop: {x: 5000, y: 5000, width: 10, height: 10}
  - filter: invert
`))
	if err != nil {
		t.Fatal(err)
	}
	s := newSession(100, 100)
	err = r.Apply(s)
	if !errors.Is(err, editor.ErrInvalidCropRegion) {
		t.Fatalf("expected invalid crop region, got %v", err)
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Fatalf("error does not name the step: %v", err)
	}
	if s.Scene().Background().Filter != filter.Grayscale || s.Crop().Active() {
		t.Fatal("unexpected session state after failure")
	}
}

func TestUndoPastStart(t *testing.T) {
	r, err := Parse(strings.NewReader("steps:\n  - undo: 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Apply(newSession(10, 10)); !errors.Is(err, ErrStep) {
		t.Fatalf("expected ErrStep, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}
