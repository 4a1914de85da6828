package scene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/example/photoedit/internal/geometry"
)

// Kind distinguishes overlay variants.
type Kind int

const (
	KindText Kind = iota
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindShape:
		return "shape"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Form is the outline of a shape overlay.
type Form int

const (
	FormRect Form = iota
	FormEllipse
)

func (f Form) String() string {
	if f == FormEllipse {
		return "ellipse"
	}
	return "rect"
}

// ParseForm resolves a shape name.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rect", "rectangle", "box":
		return FormRect, nil
	case "ellipse", "circle", "oval":
		return FormEllipse, nil
	}
	return FormRect, fmt.Errorf("unknown shape %q", s)
}

// Text is the payload of a text overlay.
type Text struct {
	Content  string
	FontSize float64
	Color    color.NRGBA
	Shadow   bool
}

// Shape is the payload of a shape overlay. Width and Height are in viewport
// units before the overlay scale is applied.
type Shape struct {
	Form        Form
	Width       float64
	Height      float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
}

// Overlay is an object placed over the background. Position is the
// top-left anchor in viewport space; rotation is clockwise in degrees
// around that anchor.
type Overlay struct {
	ID       string
	Kind     Kind
	Position geometry.Point
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	Z        int

	Text  Text
	Shape Shape
}

// NewText returns a text overlay at pos with unit scale.
func NewText(content string, pos geometry.Point, size float64, col color.NRGBA) Overlay {
	return Overlay{
		Kind:     KindText,
		Position: pos,
		ScaleX:   1,
		ScaleY:   1,
		Text:     Text{Content: content, FontSize: size, Color: col},
	}
}

// NewShape returns a shape overlay at pos with unit scale.
func NewShape(form Form, pos geometry.Point, w, h float64, fill color.NRGBA) Overlay {
	return Overlay{
		Kind:     KindShape,
		Position: pos,
		ScaleX:   1,
		ScaleY:   1,
		Shape:    Shape{Form: form, Width: w, Height: h, Fill: fill},
	}
}

// TextDefaults configures the preset used when the user adds text.
type TextDefaults struct {
	Content string
	Size    float64
	Color   color.NRGBA
	Shadow  bool
}

// DefaultTextDefaults returns white 30pt text with a drop shadow.
func DefaultTextDefaults() TextDefaults {
	return TextDefaults{
		Content: "Your text",
		Size:    30,
		Color:   color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Shadow:  true,
	}
}

// DefaultText builds the overlay added by the "add text" action.
func DefaultText(d TextDefaults) Overlay {
	o := NewText(d.Content, geometry.Pt(100, 100), d.Size, d.Color)
	o.Text.Shadow = d.Shadow
	return o
}

func (o Overlay) normalized() Overlay {
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	return o
}
