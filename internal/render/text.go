package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// MinFontSize is the smallest size text is rendered at.
const MinFontSize = 1

var (
	fontOnce sync.Once
	textFont *opentype.Font
	fontErr  error

	faces sync.Map // map[float64]font.Face
)

func regularFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		textFont, fontErr = opentype.Parse(goregular.TTF)
	})
	return textFont, fontErr
}

// faceForSize returns a cached Go Regular face. Sizes are rounded to a
// hundredth of a point so export ratios do not grow the cache without
// bound.
func faceForSize(size float64) (font.Face, error) {
	if size < MinFontSize {
		size = MinFontSize
	}
	size = math.Round(size*100) / 100
	if face, ok := faces.Load(size); ok {
		return face.(font.Face), nil
	}
	f, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("text font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	actual, _ := faces.LoadOrStore(size, face)
	return actual.(font.Face), nil
}

// MeasureText returns the bounding box of text rendered at size. baseline
// is the offset from the top of the box to the text baseline.
func MeasureText(text string, size float64) (width, height, baseline int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, 0, err
	}
	d := &font.Drawer{Face: face}
	width = d.MeasureString(text).Ceil()
	m := face.Metrics()
	baseline = m.Ascent.Ceil()
	height = baseline + m.Descent.Ceil()
	return width, height, baseline, nil
}

// DrawText renders text with its top-left corner at (x, y).
func DrawText(dst *image.RGBA, x, y int, text string, col color.Color, size float64) error {
	face, err := faceForSize(size)
	if err != nil {
		return err
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return nil
}

// textSprite renders text onto a tight transparent canvas. When shadow is
// set the returned offset is where the text origin sits inside the sprite.
func textSprite(text string, size float64, col color.NRGBA, shadow bool) (*image.RGBA, image.Point, error) {
	w, h, _, err := MeasureText(text, size)
	if err != nil {
		return nil, image.Point{}, err
	}
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := DrawText(img, 0, 0, text, col, size); err != nil {
		return nil, image.Point{}, err
	}
	if !shadow {
		return img, image.Point{}, nil
	}
	res := ApplyShadow(img, TextShadowOptions(size))
	return res.Image, res.Offset, nil
}
