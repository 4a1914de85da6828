// Package filter implements the fixed set of background filters. Every
// filter is computed from an untouched source raster; filters never stack.
package filter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

// ID names a filter.
type ID int

const (
	None ID = iota
	Grayscale
	Sepia
	Invert
	Blur
)

// BlurSigma is the Gaussian sigma used by Blur.
const BlurSigma = 1.5

// ErrNoSource is returned when there is no raster to filter yet.
var ErrNoSource = errors.New("filter: source raster unavailable")

var names = map[ID]string{
	None:      "none",
	Grayscale: "grayscale",
	Sepia:     "sepia",
	Invert:    "invert",
	Blur:      "blur",
}

// All returns every filter in menu order.
func All() []ID { return []ID{None, Grayscale, Sepia, Invert, Blur} }

// Valid reports whether id names a known filter.
func (id ID) Valid() bool {
	_, ok := names[id]
	return ok
}

func (id ID) String() string {
	if n, ok := names[id]; ok {
		return n
	}
	return fmt.Sprintf("filter(%d)", int(id))
}

// Parse resolves a filter name. "remove" and "original" select None.
func Parse(name string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "remove", "original", "identity":
		return None, nil
	case "grayscale", "greyscale", "gray", "bw":
		return Grayscale, nil
	case "sepia":
		return Sepia, nil
	case "invert":
		return Invert, nil
	case "blur":
		return Blur, nil
	}
	return None, fmt.Errorf("unknown filter %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// Apply returns a new raster with filter id applied to src. src is never
// modified and None yields an exact copy.
func Apply(src *image.NRGBA, id ID) (*image.NRGBA, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	switch id {
	case None:
		return imaging.Clone(src), nil
	case Grayscale:
		return imaging.Grayscale(src), nil
	case Sepia:
		return imaging.AdjustFunc(src, sepia), nil
	case Invert:
		return imaging.Invert(src), nil
	case Blur:
		return imaging.Blur(src, BlurSigma), nil
	}
	return nil, fmt.Errorf("unknown filter %d", int(id))
}

func sepia(c color.NRGBA) color.NRGBA {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	return color.NRGBA{
		R: clamp(0.393*r + 0.769*g + 0.189*b),
		G: clamp(0.349*r + 0.686*g + 0.168*b),
		B: clamp(0.272*r + 0.534*g + 0.131*b),
		A: c.A,
	}
}

func clamp(v float64) uint8 {
	if v >= 255 {
		return 255
	}
	if v <= 0 {
		return 0
	}
	return uint8(v + 0.5)
}
