package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/example/photoedit/internal/config"
	"github.com/example/photoedit/internal/raster"
)

func testRoot() *root {
	return &root{program: "photoedit", config: config.New()}
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := raster.Encode(f, img, imaging.PNG, 0); err != nil {
		t.Fatal(err)
	}
}

func TestEditRequiresOneSource(t *testing.T) {
	cases := map[string]struct {
		args []string
		want string
	}{
		"none":      {nil, "one of -id, -file or -from-clipboard is required"},
		"two":       {[]string{"-id", "a.png", "-from-clipboard"}, "mutually exclusive"},
		"dir alone": {[]string{"-file", "a.png", "-dir", "/tmp"}, "-dir only applies with -id"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseEditCmd(tc.args, testRoot())
			var uerr *UsageError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error to mention %q, got %v", tc.want, err)
			}
			if !strings.Contains(err.Error(), "Usage: photoedit edit") {
				t.Fatalf("expected help text, got %v", err)
			}
		})
	}
}

func TestResolveInputs(t *testing.T) {
	dir := t.TempDir()
	in := input{file: filepath.Join(dir, "photo.png")}
	src, id, store, err := in.resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if id != "photo.png" || store.Path != dir || src == nil {
		t.Fatalf("unexpected resolution %q %q", id, store.Path)
	}

	in = input{id: "x.png"}
	_, id, store, err = in.resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if id != "x.png" || store.Path != dir {
		t.Fatalf("expected save dir fallback, got %q %q", id, store.Path)
	}
}

func writeRecipe(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "recipe.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApplyWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 200, 100, color.NRGBA{255, 255, 255, 255})
	rec := writeRecipe(t, dir, "viewport: {width: 200, height: 100}\nsteps:\n  - filter: invert\n  - crop: {x: 0, y: 0, width: 50, height: 100}\n")
	out := filepath.Join(dir, "out.jpg")

	cmd, err := parseApplyCmd([]string{"-recipe", rec, "-file", in, "-output", out}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := raster.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Format() != "jpeg" {
		t.Fatalf("expected a jpeg from the .jpg extension, got %s", img.Format())
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 100 {
		t.Fatalf("unexpected size %v", b)
	}
	if c := img.Pixels().NRGBAAt(25, 50); c.R > 16 {
		t.Fatalf("expected inverted pixels, got %v", c)
	}
}

func TestApplyToClipboard(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 20, 20, color.NRGBA{0, 0, 255, 255})
	rec := writeRecipe(t, dir, "steps:\n  - filter: grayscale\n")

	var copied []byte
	original := writeClipboard
	writeClipboard = func(data []byte) error { copied = data; return nil }
	t.Cleanup(func() { writeClipboard = original })

	cmd, err := parseApplyCmd([]string{"-recipe", rec, "-file", in, "-to-clipboard"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	img, err := raster.DecodeBytes(copied)
	if err != nil {
		t.Fatalf("clipboard data: %v", err)
	}
	if img.Format() != "png" {
		t.Fatalf("clipboard gets png, got %s", img.Format())
	}
}

func TestApplyReportsFailingStep(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writePNG(t, in, 20, 20, color.NRGBA{0, 0, 0, 255})
	rec := writeRecipe(t, dir, "steps:\n  - undo: 1\n")
	cmd, err := parseApplyCmd([]string{"-recipe", rec, "-file", in, "-output", filepath.Join(dir, "out.png")}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	err = cmd.Run()
	if err == nil || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("expected step 1 failure, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "out.png")); !os.IsNotExist(statErr) {
		t.Fatal("output written despite failure")
	}
}

func TestApplyRequiresDestination(t *testing.T) {
	_, err := parseApplyCmd([]string{"-recipe", "r.yaml", "-file", "in.png"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "-output or -to-clipboard is required") {
		t.Fatalf("unexpected error %v", err)
	}
	_, err = parseApplyCmd([]string{"-file", "in.png", "-output", "o.png"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "-recipe is required") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGenerateFlags(t *testing.T) {
	cmd, err := parseGenerateCmd([]string{"-output", "cat.png", "a", "cat"}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	if cmd.prompt != "a cat" {
		t.Fatalf("prompt from args is %q", cmd.prompt)
	}
	if _, err := parseGenerateCmd([]string{"-prompt", "a cat"}, testRoot()); err == nil {
		t.Fatal("expected missing output error")
	}
}

func TestGenerateRequiresToken(t *testing.T) {
	r := testRoot()
	r.config.Generate.TokenEnv = "PHOTOEDIT_TEST_TOKEN"
	r.config.Generate.Width = 512
	t.Setenv("PHOTOEDIT_TEST_TOKEN", "")
	cmd, err := parseGenerateCmd([]string{"-prompt", "a cat", "-output", "cat.png"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.client(); err == nil || !strings.Contains(err.Error(), "PHOTOEDIT_TEST_TOKEN") {
		t.Fatalf("expected missing token error, got %v", err)
	}

	t.Setenv("PHOTOEDIT_TEST_TOKEN", "secret")
	c, err := cmd.client()
	if err != nil {
		t.Fatal(err)
	}
	if c.Token != "secret" || c.Parameters.Width != 512 || c.Parameters.Height != 768 {
		t.Fatalf("unexpected client %+v", c.Parameters)
	}
}

func TestRootRejectsUnknownCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	r := newRoot()
	err := r.Run([]string{"bogus"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(err.Error(), "generate") {
		t.Fatalf("root help should list commands, got %v", err)
	}
}

func TestListGallery(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), 4, 4, color.NRGBA{0, 0, 0, 255})
	writePNG(t, filepath.Join(dir, "a.png"), 4, 4, color.NRGBA{0, 0, 0, 255})
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd, err := parseListCmd([]string{"-dir", dir}, testRoot())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a.png\nb.png\n" {
		t.Fatalf("unexpected listing %q", got)
	}

	r := testRoot()
	r.config.SaveDir = t.TempDir()
	cmd, err = parseListCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	out.Reset()
	cmd.out = &out
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "no images in ") {
		t.Fatalf("unexpected listing %q", out.String())
	}

	if _, err := parseListCmd([]string{"extra"}, testRoot()); err == nil {
		t.Fatal("expected usage error for stray arguments")
	}
}

func TestWindowTitle(t *testing.T) {
	got := windowTitle(titleOptions{File: " cat.png ", Extras: []string{"", "saving to /tmp"}})
	if want := "photoedit - cat.png - saving to /tmp"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := windowTitle(titleOptions{}); got != "photoedit" {
		t.Fatalf("got %q", got)
	}
}
