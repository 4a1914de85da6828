// Package raster holds the immutable source images an editing session
// works from.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/photoedit/internal/geometry"

	// Extra decoders for gallery uploads.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyRegion is returned by Sub when the requested rectangle does not
// overlap the image.
var ErrEmptyRegion = errors.New("raster: region outside image")

// Image is a decoded raster. Its pixels must not be modified after
// construction; every edit produces a new Image.
type Image struct {
	pix    *image.NRGBA
	format string
}

// New copies src into a new Image with a zero origin.
func New(src image.Image) *Image {
	if src == nil {
		return nil
	}
	return &Image{pix: imaging.Clone(src), format: "png"}
}

// Decode reads an encoded image, applying any EXIF orientation.
func Decode(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(data)
}

// DecodeBytes decodes an in-memory encoded image.
func DecodeBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("decode image: empty input")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	out := New(img)
	out.format = format
	return out, nil
}

// Pixels returns the backing pixel buffer. Callers must treat it as read
// only.
func (im *Image) Pixels() *image.NRGBA {
	if im == nil {
		return nil
	}
	return im.pix
}

// Bounds returns the image bounds, always anchored at (0, 0).
func (im *Image) Bounds() image.Rectangle {
	if im == nil {
		return image.Rectangle{}
	}
	return im.pix.Bounds()
}

// Size returns the natural width and height.
func (im *Image) Size() geometry.Size {
	b := im.Bounds()
	return geometry.Size{Width: b.Dx(), Height: b.Dy()}
}

// Format reports the name of the format the image was decoded from.
func (im *Image) Format() string {
	if im == nil {
		return ""
	}
	return im.format
}

// Sub copies rect out of the image without resampling. Parts of rect that
// fall outside the image are clipped.
func (im *Image) Sub(rect image.Rectangle) (*Image, error) {
	if im == nil {
		return nil, fmt.Errorf("raster: nil image")
	}
	rect = rect.Canon().Intersect(im.Bounds())
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	return &Image{pix: imaging.Crop(im.pix, rect), format: im.format}, nil
}

// Format identifies an output encoding.
type Format = imaging.Format

// ParseFormat maps a name or file extension such as "jpg" or ".png" to an
// output format.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return imaging.PNG, nil
	}
	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}
	f, err := imaging.FormatFromExtension(name)
	if err != nil {
		return 0, fmt.Errorf("unsupported format %q", strings.TrimPrefix(name, "."))
	}
	return f, nil
}

// FormatFromPath picks the output format from a file name, defaulting to
// PNG when the extension is unknown.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return imaging.PNG
	}
	return f
}

// Extension returns the canonical file extension for f, including the dot.
func Extension(f Format) string {
	switch f {
	case imaging.JPEG:
		return ".jpg"
	case imaging.GIF:
		return ".gif"
	case imaging.TIFF:
		return ".tif"
	case imaging.BMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// Encode writes img in the requested format. Quality applies to JPEG only;
// values outside 1..100 fall back to 95.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	if quality < 1 || quality > 100 {
		quality = 95
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(quality))
}
