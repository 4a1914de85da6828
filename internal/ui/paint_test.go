package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"golang.org/x/mobile/event/key"
)

func paintApp(t *testing.T, a *App) *image.RGBA {
	t.Helper()
	f := a.frame()
	dst := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	if err := drawFrame(context.Background(), dst, f); err != nil {
		t.Fatal(err)
	}
	return dst
}

func TestDrawFrameCanvasAndStatus(t *testing.T) {
	a := newTestApp(t, Config{})
	dst := paintApp(t, a)
	th := a.cfg.Theme

	if got := color.NRGBAModel.Convert(dst.At(0, 0)); got != th.Background {
		t.Fatalf("margin colour %v, want %v", got, th.Background)
	}
	// The white image covers the canvas at (margin, margin).
	if got := dst.RGBAAt(margin+10, margin+10); got.R != 255 || got.G != 255 || got.B != 255 {
		t.Fatalf("canvas colour %v", got)
	}
	bar := dst.RGBAAt(a.width-1, a.height-1)
	if got := color.NRGBAModel.Convert(bar); got != th.StatusBackground {
		t.Fatalf("status bar colour %v, want %v", got, th.StatusBackground)
	}
}

func TestDrawFrameShadesOutsideCrop(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'c', key.CodeC, 0)
	dst := paintApp(t, a)

	sel := a.frame().toScreen(a.Session().Crop().Selection())
	outside := dst.RGBAAt(margin+10, margin+10)
	inside := dst.RGBAAt((sel.Min.X+sel.Max.X)/2, (sel.Min.Y+sel.Max.Y)/2)
	if outside.R >= inside.R {
		t.Fatalf("outside %v not darker than inside %v", outside, inside)
	}
	if inside.R != 255 {
		t.Fatalf("selection interior shaded: %v", inside)
	}
}

func TestDrawFrameWithoutSession(t *testing.T) {
	a := NewApp(Config{})
	dst := paintApp(t, a)
	if got := color.NRGBAModel.Convert(dst.At(margin+10, margin+10)); got != a.cfg.Theme.Background {
		t.Fatalf("expected plain background while loading, got %v", got)
	}
}

func TestDrawFrameCancelled(t *testing.T) {
	a := newTestApp(t, Config{})
	f := a.frame()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dst := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	if err := drawFrame(ctx, dst, f); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFrameSelectionBounds(t *testing.T) {
	a := newTestApp(t, Config{})
	press(a, 'r', key.CodeR, 0)
	f := a.frame()
	if !f.hasSelection || f.selection.Width != 200 || f.selection.Height != 150 {
		t.Fatalf("unexpected selection %+v", f.selection)
	}
	press(a, 0, key.CodeEscape, 0)
	if a.frame().hasSelection {
		t.Fatal("selection outline after deselect")
	}
}
