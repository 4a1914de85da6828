package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/filter"
	"github.com/example/photoedit/internal/geometry"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/scene"
)

type memStore struct {
	data []byte
	err  error
}

func (m *memStore) StoreResult(_ context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.data = data
	return "result", nil
}

func (m *memStore) Locate(id string) (string, error) { return "/photos/" + id + ".png", nil }

func solid(w, h int, c color.NRGBA) *raster.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return raster.New(img)
}

// newTestApp returns an App editing a 1600x1200 image, which the default
// viewport shows at half scale and the default window at 100% zoom.
func newTestApp(t *testing.T, cfg Config) *App {
	t.Helper()
	a := NewApp(cfg)
	a.SetSession(editor.New(solid(1600, 1200, color.NRGBA{255, 255, 255, 255})))
	if a.Zoom() != 100 {
		t.Fatalf("expected 100%% zoom, got %d", a.Zoom())
	}
	return a
}

func press(a *App, r rune, code key.Code, mods key.Modifiers) bool {
	return a.Key(key.Event{Rune: r, Code: code, Modifiers: mods, Direction: key.DirPress})
}

func TestFilterAndHistoryKeys(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 's', key.CodeS, 0)
	if got := a.Session().Scene().Background().Filter; got != filter.Sepia {
		t.Fatalf("expected sepia, got %v", got)
	}
	press(a, 'g', key.CodeG, 0)
	if a.Session().History().Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", a.Session().History().Len())
	}
	press(a, 0, key.CodeZ, key.ModControl)
	if got := a.Session().Scene().Background().Filter; got != filter.Sepia {
		t.Fatalf("undo left %v", got)
	}
	press(a, 'z', key.CodeZ, key.ModControl|key.ModShift)
	if got := a.Session().Scene().Background().Filter; got != filter.Grayscale {
		t.Fatalf("redo left %v", got)
	}
	press(a, 'y', key.CodeY, key.ModControl)
	if !strings.Contains(a.Status(), "nothing to redo") {
		t.Fatalf("unexpected status %q", a.Status())
	}
}

func TestKeyReleaseIgnored(t *testing.T) {
	a := newTestApp(t, Config{})
	a.Key(key.Event{Rune: 's', Code: key.CodeS, Direction: key.DirRelease})
	if a.Session().History().Len() != 1 {
		t.Fatal("release triggered an action")
	}
}

func TestNoSessionIgnoresEdits(t *testing.T) {
	a := NewApp(Config{})
	press(a, 's', key.CodeS, 0)
	press(a, 't', key.CodeT, 0)
	a.Press(100, 100)
	if a.Session() != nil || a.Status() != "Loading..." {
		t.Fatalf("unexpected state %q", a.Status())
	}
	press(a, 'q', key.CodeQ, 0)
	if !a.Quit() {
		t.Fatal("quit should work without a session")
	}
}

func TestSaveRunsOffLoop(t *testing.T) {
	store := &memStore{}
	a := newTestApp(t, Config{Store: store})
	if !press(a, 's', key.CodeS, key.ModControl) {
		t.Fatal("ctrl+s not reported as save")
	}
	if a.Session().Scene().Background().Filter != filter.None {
		t.Fatal("ctrl+s applied the sepia filter")
	}
	job := a.startSave(context.Background())
	if job == nil {
		t.Fatal("save did not start")
	}
	if a.startSave(context.Background()) != nil {
		t.Fatal("second save started while the first is pending")
	}

	press(a, 'g', key.CodeG, 0)
	if a.Session().History().Len() != 1 || a.Status() != errBusy.Error() {
		t.Fatalf("mutation allowed during save, status %q", a.Status())
	}

	a.finishSave(job())
	if len(store.data) == 0 {
		t.Fatal("nothing stored")
	}
	img, err := raster.DecodeBytes(store.data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Size() != (geometry.Size{Width: 1600, Height: 1200}) {
		t.Fatalf("stored %v", img.Size())
	}
	if a.Status() != "saved /photos/result.png" {
		t.Fatalf("unexpected status %q", a.Status())
	}
	press(a, 'g', key.CodeG, 0)
	if a.Session().History().Len() != 2 {
		t.Fatal("edits still refused after save finished")
	}
}

func TestSaveFailureAndMissingStore(t *testing.T) {
	a := newTestApp(t, Config{})
	if a.startSave(context.Background()) != nil || a.Status() != ErrNoStore.Error() {
		t.Fatalf("expected ErrNoStore, got %q", a.Status())
	}

	a = newTestApp(t, Config{Store: &memStore{err: errors.New("disk full")}})
	job := a.startSave(context.Background())
	a.finishSave(job())
	if !strings.Contains(a.Status(), "disk full") || a.statusKind != statusError {
		t.Fatalf("unexpected status %q", a.Status())
	}
	if a.saving {
		t.Fatal("still saving after failure")
	}
}

func TestCropByDragging(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'c', key.CodeC, 0)
	if !a.Session().Crop().Active() {
		t.Fatal("crop not started")
	}
	// Window (18, 18) is viewport (10, 10) at 100% with the 8px margin.
	a.Press(18, 18)
	a.Drag(100, 60)
	a.Release(218, 118)
	if got := a.Session().Crop().Selection(); got != geometry.R(10, 10, 200, 100) {
		t.Fatalf("unexpected selection %+v", got)
	}
	press(a, '\r', key.CodeReturnEnter, 0)
	if a.Session().Crop().Active() {
		t.Fatal("crop still active")
	}
	if got := a.Session().Scene().Background().Source.Size(); got != (geometry.Size{Width: 400, Height: 200}) {
		t.Fatalf("expected 400x200 from the original, got %v", got)
	}
	if a.Session().History().Len() != 2 {
		t.Fatal("crop should be one entry")
	}
}

func TestCropEscape(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'c', key.CodeC, 0)
	press(a, 'a', key.CodeA, 0)
	if a.Session().Crop().Aspect().String() == "free" {
		t.Fatal("aspect did not change")
	}
	press(a, 0, key.CodeEscape, 0)
	if a.Session().Crop().Active() || a.Session().History().Len() != 1 {
		t.Fatal("escape should abandon the crop")
	}
}

func TestDragOverlayCommitsOnce(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'r', key.CodeR, 0)
	sc := a.Session().Scene()
	o, ok := sc.Overlay(sc.Selected())
	if !ok || o.Kind != scene.KindShape {
		t.Fatal("shape not added and selected")
	}
	if o.Position != geometry.Pt(300, 225) {
		t.Fatalf("shape not centred: %v", o.Position)
	}

	a.Press(408, 308)
	a.Drag(428, 318)
	a.Drag(458, 328)
	if a.Session().History().Len() != 2 {
		t.Fatal("drag committed before release")
	}
	if d, _ := a.displayScene().Overlay(o.ID); d.Position != geometry.Pt(350, 245) {
		t.Fatalf("drag preview at %v", d.Position)
	}
	a.Release(458, 328)
	moved, _ := a.Session().Scene().Overlay(o.ID)
	if moved.Position != geometry.Pt(350, 245) {
		t.Fatalf("overlay at %v", moved.Position)
	}
	if a.Session().History().Len() != 3 {
		t.Fatalf("expected one move entry, history has %d", a.Session().History().Len())
	}

	a.Press(18, 18)
	if a.Session().Scene().Selected() != "" {
		t.Fatal("clicking empty canvas should deselect")
	}
	a.Release(18, 18)
	if a.Session().History().Len() != 3 {
		t.Fatal("deselect added history")
	}
}

func TestNudgeAndTransform(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'o', key.CodeO, 0)
	id := a.Session().Scene().Selected()
	press(a, 0, key.CodeRightArrow, key.ModShift)
	press(a, 0, key.CodeUpArrow, 0)
	press(a, ']', key.CodeRightSquareBracket, 0)
	press(a, '.', key.CodeFullStop, 0)
	o, _ := a.Session().Scene().Overlay(id)
	if o.Position != geometry.Pt(310, 224) {
		t.Fatalf("unexpected position %v", o.Position)
	}
	if o.Rotation != rotateStep || o.ScaleX != scaleFactor {
		t.Fatalf("unexpected transform %+v", o)
	}
	press(a, 0, key.CodeDeleteForward, 0)
	if _, ok := a.Session().Scene().Overlay(id); ok {
		t.Fatal("overlay not removed")
	}
}

func TestTextEditing(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 't', key.CodeT, 0)
	id := a.Session().Scene().Selected()
	press(a, 'e', key.CodeE, 0)
	if !a.editing {
		t.Fatal("edit mode not entered")
	}
	for i := 0; i < 4; i++ {
		press(a, 0, key.CodeDeleteBackspace, 0)
	}
	for _, r := range "cat" {
		press(a, r, key.CodeUnknown, 0)
	}
	if d, _ := a.displayScene().Overlay(id); d.Text.Content != "Your cat|" {
		t.Fatalf("preview shows %q", d.Text.Content)
	}
	if a.Session().Crop().Active() {
		t.Fatal("typing c started a crop")
	}
	press(a, '\r', key.CodeReturnEnter, 0)
	o, _ := a.Session().Scene().Overlay(id)
	if o.Text.Content != "Your cat" {
		t.Fatalf("text is %q", o.Text.Content)
	}
	if a.Session().History().Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", a.Session().History().Len())
	}

	press(a, 'e', key.CodeE, 0)
	press(a, 'x', key.CodeX, 0)
	press(a, 0, key.CodeEscape, 0)
	if o, _ := a.Session().Scene().Overlay(id); o.Text.Content != "Your cat" || a.Session().History().Len() != 3 {
		t.Fatal("escape applied the edit")
	}
}

func TestResizeCanvas(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 't', key.CodeT, 0)
	id := a.Session().Scene().Selected()
	before, _ := a.Session().Scene().Overlay(id)

	press(a, 'w', key.CodeW, 0)
	if !a.editing || string(a.editBuf) != "800x600" {
		t.Fatalf("resize prompt shows %q", string(a.editBuf))
	}
	if f := a.frame(); f.status != "resize to 800x600|" {
		t.Fatalf("status is %q", f.status)
	}
	for range "800x600" {
		press(a, 0, key.CodeDeleteBackspace, 0)
	}
	for _, r := range "1600x600" {
		press(a, r, key.CodeUnknown, 0)
	}
	press(a, '\r', key.CodeReturnEnter, 0)

	sc := a.Session().Scene()
	if c := sc.Canvas(); c.Width != 1600 || c.Height != 600 {
		t.Fatalf("canvas is %v", c)
	}
	if a.Session().History().Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", a.Session().History().Len())
	}
	after, _ := sc.Overlay(id)
	if after.Position.X != before.Position.X*2 || after.Position.Y != before.Position.Y {
		t.Fatalf("overlay moved from %v to %v", before.Position, after.Position)
	}
	if a.Zoom() != 50 {
		t.Fatalf("expected refit to 50%%, got %d", a.Zoom())
	}

	press(a, 'w', key.CodeW, 0)
	a.editBuf = []rune("oops")
	press(a, '\r', key.CodeReturnEnter, 0)
	if a.statusKind != statusError || a.Session().History().Len() != 3 {
		t.Fatalf("bad size committed: %q", a.Status())
	}

	press(a, 'w', key.CodeW, 0)
	press(a, 0, key.CodeEscape, 0)
	if a.editing || a.resizing || a.Session().History().Len() != 3 {
		t.Fatal("escape did not cancel the resize")
	}
}

func TestCopyImage(t *testing.T) {
	var copied []byte
	a := newTestApp(t, Config{Copy: func(b []byte) error { copied = b; return nil }})
	press(a, 'c', key.CodeC, key.ModControl)
	if _, err := raster.DecodeBytes(copied); err != nil {
		t.Fatalf("clipboard data is not an image: %v", err)
	}
	if a.Session().Crop().Active() {
		t.Fatal("ctrl+c started a crop")
	}

	a = newTestApp(t, Config{Copy: func([]byte) error { return errors.New("no display") }})
	press(a, 'c', key.CodeC, key.ModControl)
	if !strings.Contains(a.Status(), "no display") {
		t.Fatalf("unexpected status %q", a.Status())
	}
}

func TestZoomKeys(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, '+', key.CodeEqualSign, key.ModShift)
	if a.Zoom() != 110 {
		t.Fatalf("zoom in gave %d", a.Zoom())
	}
	for i := 0; i < 30; i++ {
		press(a, '-', key.CodeHyphenMinus, 0)
	}
	if a.Zoom() != geometry.MinZoom {
		t.Fatalf("zoom out gave %d", a.Zoom())
	}
	press(a, 'f', key.CodeF, 0)
	if a.Zoom() != 100 {
		t.Fatalf("fit gave %d", a.Zoom())
	}
}

func TestLoadFailure(t *testing.T) {
	a := NewApp(Config{})
	a.finishLoad(loadResult{err: editor.ErrLoadFailure})
	if a.statusKind != statusError || a.loading {
		t.Fatalf("unexpected state %q", a.Status())
	}
}
