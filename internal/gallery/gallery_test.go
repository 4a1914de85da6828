package gallery

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/example/photoedit/internal/raster"
)

func TestStoreThenFetch(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "album"))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte("image bytes")
	id, err := d.StoreResult(context.Background(), want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(id, ".png") || len(id) != 16+len(".png") {
		t.Fatalf("unexpected id %q", id)
	}
	got, err := d.FetchOriginal(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("fetched %q", got)
	}
	other, err := d.StoreResult(context.Background(), want)
	if err != nil {
		t.Fatal(err)
	}
	if other == id {
		t.Fatal("expected distinct ids")
	}
}

func TestStoreResultExtension(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	cases := map[imaging.Format]string{
		imaging.JPEG: ".jpg",
		imaging.PNG:  ".png",
		imaging.GIF:  ".gif",
		imaging.BMP:  ".bmp",
		imaging.TIFF: ".tif",
	}
	d := &Dir{Path: t.TempDir()}
	for f, want := range cases {
		var buf bytes.Buffer
		if err := raster.Encode(&buf, img, f, 90); err != nil {
			t.Fatal(err)
		}
		id, err := d.StoreResult(context.Background(), buf.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if filepath.Ext(id) != want {
			t.Errorf("%v stored as %q, want %s", f, id, want)
		}
	}

	d.Ext = ".jpeg"
	id, err := d.StoreResult(context.Background(), []byte("anything"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(id) != ".jpeg" {
		t.Fatalf("explicit extension ignored: %q", id)
	}
}

func TestFetchErrors(t *testing.T) {
	d := &Dir{Path: t.TempDir()}
	if _, err := d.FetchOriginal(context.Background(), "missing.png"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	for _, id := range []string{"", "..", "../etc/passwd", "a/b.png"} {
		if _, err := d.FetchOriginal(context.Background(), id); !errors.Is(err, ErrInvalidID) {
			t.Fatalf("id %q: expected ErrInvalidID, got %v", id, err)
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.FetchOriginal(ctx, "x.png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}
	d := &Dir{Path: dir}
	ids, err := d.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a.png", "b.jpg", "c.webp"}; !slices.Equal(ids, want) {
		t.Fatalf("ids %v, want %v", ids, want)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/pics"); got != filepath.Join(home, "pics") {
		t.Fatalf("unexpected %q", got)
	}
	if got := ExpandPath("/tmp/x"); got != "/tmp/x" {
		t.Fatalf("unexpected %q", got)
	}
}
